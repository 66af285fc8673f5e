package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Outcome classifies a decision once the price movement is observable
type Outcome string

const (
	OutcomeGoodDecision Outcome = "good_decision"
	OutcomeBadDecision  Outcome = "bad_decision"
	OutcomeNoChange     Outcome = "no_change"
)

// TokenKind names a token held in the external ledger
type TokenKind string

const (
	// TokenReward is the governance/reward token
	TokenReward TokenKind = "DLOOP"
)

// RewardConfig holds the parameters of the reward computation
type RewardConfig struct {
	BaseReward                    *big.Int      `json:"baseReward" yaml:"base_reward"`
	ParticipationBonusThresholdBp uint64        `json:"participationBonusThresholdBp" yaml:"participation_bonus_threshold_bp"`
	ParticipationBonusRateBp      uint64        `json:"participationBonusRateBp" yaml:"participation_bonus_rate_bp"`
	QualityMultiplierThresholdBp  uint64        `json:"qualityMultiplierThresholdBp" yaml:"quality_multiplier_threshold_bp"`
	QualityMultiplierRateBp       uint64        `json:"qualityMultiplierRateBp" yaml:"quality_multiplier_rate_bp"`
	AINodeMultiplierRateBp        uint64        `json:"aiNodeMultiplierRateBp" yaml:"ai_node_multiplier_rate_bp"`
	RewardCap                     *big.Int      `json:"rewardCap" yaml:"reward_cap"`
	Cooldown                      time.Duration `json:"cooldown" yaml:"cooldown"`
	UpdatedAt                     *time.Time    `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// Clone returns a deep copy
func (c *RewardConfig) Clone() *RewardConfig {
	out := *c
	out.BaseReward = cloneInt(c.BaseReward)
	out.RewardCap = cloneInt(c.RewardCap)
	out.UpdatedAt = cloneTime(c.UpdatedAt)
	return &out
}

// RewardRecord marks a principal as processed for a proposal
type RewardRecord struct {
	ID            string         `json:"id"`
	Recipient     common.Address `json:"recipient"`
	ProposalID    uint64         `json:"proposalId"`
	Amount        *big.Int       `json:"amount"`
	Outcome       Outcome        `json:"outcome"`
	Support       bool           `json:"support"`
	StartPrice    *big.Int       `json:"startPrice"`
	EndPrice      *big.Int       `json:"endPrice"`
	DistributedAt time.Time      `json:"distributedAt"`
}

// Clone returns a deep copy
func (r *RewardRecord) Clone() *RewardRecord {
	c := *r
	c.Amount = cloneInt(r.Amount)
	c.StartPrice = cloneInt(r.StartPrice)
	c.EndPrice = cloneInt(r.EndPrice)
	return &c
}
