package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyOutcome(t *testing.T) {
	low, high := big.NewInt(1000), big.NewInt(1100)

	tests := []struct {
		name    string
		kind    models.ProposalKind
		support bool
		end     *big.Int
		want    models.Outcome
	}{
		{"invest yes, price up", models.ProposalKindInvest, true, high, models.OutcomeGoodDecision},
		{"invest yes, price down", models.ProposalKindInvest, true, big.NewInt(900), models.OutcomeBadDecision},
		{"invest no, price up", models.ProposalKindInvest, false, high, models.OutcomeBadDecision},
		{"invest no, price down", models.ProposalKindInvest, false, big.NewInt(900), models.OutcomeGoodDecision},
		{"divest yes, price down", models.ProposalKindDivest, true, big.NewInt(900), models.OutcomeGoodDecision},
		{"divest yes, price up", models.ProposalKindDivest, true, high, models.OutcomeBadDecision},
		{"divest no, price up", models.ProposalKindDivest, false, high, models.OutcomeGoodDecision},
		{"divest no, price down", models.ProposalKindDivest, false, big.NewInt(900), models.OutcomeBadDecision},
		{"unchanged", models.ProposalKindInvest, true, big.NewInt(1000), models.OutcomeNoChange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyOutcome(tt.kind, tt.support, low, tt.end))
		})
	}
}

func testRewardConfig() *models.RewardConfig {
	return &models.RewardConfig{
		BaseReward:                    big.NewInt(100_000),
		ParticipationBonusThresholdBp: 5000,
		ParticipationBonusRateBp:      2000,
		QualityMultiplierThresholdBp:  7000,
		QualityMultiplierRateBp:       12000,
		AINodeMultiplierRateBp:        11000,
		RewardCap:                     big.NewInt(1_000_000),
		Cooldown:                      24 * time.Hour,
	}
}

func TestComputeReward(t *testing.T) {
	tests := []struct {
		name string
		in   RewardInputs
		want int64
	}{
		{
			name: "base only",
			in:   RewardInputs{Outcome: models.OutcomeGoodDecision, CastWeight: big.NewInt(100), PossibleWeight: big.NewInt(200), WinningWeight: big.NewInt(60)},
			want: 100_000,
		},
		{
			name: "participation bonus",
			in:   RewardInputs{Outcome: models.OutcomeGoodDecision, CastWeight: big.NewInt(150), PossibleWeight: big.NewInt(200), WinningWeight: big.NewInt(90)},
			want: 120_000,
		},
		{
			name: "bonus and quality multiplier",
			in:   RewardInputs{Outcome: models.OutcomeGoodDecision, CastWeight: big.NewInt(150), PossibleWeight: big.NewInt(200), WinningWeight: big.NewInt(120)},
			want: 144_000,
		},
		{
			name: "agent multiplier",
			in:   RewardInputs{Outcome: models.OutcomeGoodDecision, CastWeight: big.NewInt(150), PossibleWeight: big.NewInt(200), WinningWeight: big.NewInt(120), IsAgent: true},
			want: 158_400,
		},
		{
			name: "thresholds are exclusive",
			in:   RewardInputs{Outcome: models.OutcomeGoodDecision, CastWeight: big.NewInt(100), PossibleWeight: big.NewInt(200), WinningWeight: big.NewInt(70)},
			want: 100_000,
		},
		{
			name: "bad decision",
			in:   RewardInputs{Outcome: models.OutcomeBadDecision, CastWeight: big.NewInt(150), PossibleWeight: big.NewInt(200), WinningWeight: big.NewInt(120), IsAgent: true},
			want: 0,
		},
		{
			name: "no change",
			in:   RewardInputs{Outcome: models.OutcomeNoChange, CastWeight: big.NewInt(150), PossibleWeight: big.NewInt(200), WinningWeight: big.NewInt(120)},
			want: 0,
		},
		{
			name: "no possible weight",
			in:   RewardInputs{Outcome: models.OutcomeGoodDecision, CastWeight: big.NewInt(0), PossibleWeight: big.NewInt(0), WinningWeight: big.NewInt(0)},
			want: 100_000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeReward(testRewardConfig(), tt.in).Int64())
		})
	}

	t.Run("capped", func(t *testing.T) {
		cfg := testRewardConfig()
		cfg.RewardCap = big.NewInt(130_000)
		got := ComputeReward(cfg, RewardInputs{
			Outcome: models.OutcomeGoodDecision, CastWeight: big.NewInt(150), PossibleWeight: big.NewInt(200),
			WinningWeight: big.NewInt(120), IsAgent: true,
		})
		assert.Equal(t, int64(130_000), got.Int64())
		// the config is not aliased
		got.SetInt64(1)
		assert.Equal(t, int64(130_000), cfg.RewardCap.Int64())
		assert.Equal(t, int64(100_000), cfg.BaseReward.Int64())
	})
}

func TestValidateRewardConfig(t *testing.T) {
	assert.NoError(t, ValidateRewardConfig(testRewardConfig()))
	assert.ErrorIs(t, ValidateRewardConfig(nil), ErrInvalidRewardConfig)

	cfg := testRewardConfig()
	cfg.QualityMultiplierThresholdBp = 10_001
	assert.ErrorIs(t, ValidateRewardConfig(cfg), ErrInvalidBasisPoints)
}
