package domain

import (
	"fmt"
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain/models"
)

// ClassifyOutcome applies the decision table: a vote is good when the price
// moved in the direction the vote bet on. Yes on invest and no on divest bet
// on the price going up.
func ClassifyOutcome(kind models.ProposalKind, support bool, startPrice, endPrice *big.Int) models.Outcome {
	cmp := endPrice.Cmp(startPrice)
	if cmp == 0 {
		return models.OutcomeNoChange
	}
	betOnRise := support == (kind == models.ProposalKindInvest)
	if (cmp > 0) == betOnRise {
		return models.OutcomeGoodDecision
	}
	return models.OutcomeBadDecision
}

// RewardInputs are the proposal facts the reward computation depends on
type RewardInputs struct {
	Outcome        models.Outcome
	CastWeight     *big.Int
	PossibleWeight *big.Int
	WinningWeight  *big.Int
	IsAgent        bool
}

// ComputeReward returns the payout for a classified decision. Only good
// decisions pay; the result never exceeds the configured cap.
func ComputeReward(cfg *models.RewardConfig, in RewardInputs) *big.Int {
	if in.Outcome != models.OutcomeGoodDecision {
		return new(big.Int)
	}

	reward := new(big.Int).Set(cfg.BaseReward)

	if RatioBp(in.CastWeight, in.PossibleWeight) > cfg.ParticipationBonusThresholdBp {
		reward.Add(reward, MulBp(cfg.BaseReward, cfg.ParticipationBonusRateBp))
	}

	if RatioBp(in.WinningWeight, in.CastWeight) > cfg.QualityMultiplierThresholdBp {
		reward = MulBp(reward, cfg.QualityMultiplierRateBp)
	}

	if in.IsAgent {
		reward = MulBp(reward, cfg.AINodeMultiplierRateBp)
	}

	if reward.Cmp(cfg.RewardCap) > 0 {
		reward.Set(cfg.RewardCap)
	}
	return reward
}

// ValidateRewardConfig checks every field of a reward config before it is stored
func ValidateRewardConfig(cfg *models.RewardConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: missing", ErrInvalidRewardConfig)
	}
	if cfg.BaseReward == nil || cfg.BaseReward.Sign() <= 0 {
		return fmt.Errorf("%w: base reward must be positive", ErrInvalidRewardConfig)
	}
	if cfg.RewardCap == nil || cfg.RewardCap.Sign() <= 0 {
		return fmt.Errorf("%w: reward cap must be positive", ErrInvalidRewardConfig)
	}
	if cfg.Cooldown < 0 {
		return fmt.Errorf("%w: cooldown must not be negative", ErrInvalidRewardConfig)
	}
	for name, v := range map[string]uint64{
		"participation_bonus_threshold_bp": cfg.ParticipationBonusThresholdBp,
		"participation_bonus_rate_bp":      cfg.ParticipationBonusRateBp,
		"quality_multiplier_threshold_bp":  cfg.QualityMultiplierThresholdBp,
	} {
		if err := ValidateBp(name, v); err != nil {
			return err
		}
	}
	if err := ValidateMultiplierBp("quality_multiplier_rate_bp", cfg.QualityMultiplierRateBp); err != nil {
		return err
	}
	return ValidateMultiplierBp("ai_node_multiplier_rate_bp", cfg.AINodeMultiplierRateBp)
}
