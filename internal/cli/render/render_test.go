package render

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatError(t *testing.T) {
	assert.Contains(t, FormatError("failed to price proposal 1: price unavailable"), "Price unavailable")
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Reward Eligible", humanize("reward_eligible"))
	assert.Equal(t, "Good Decision", humanize(string(models.OutcomeGoodDecision)))
}

func TestProposalList(t *testing.T) {
	deadline := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	result := &usecase.ProposalListResult{
		Proposals: []*models.Proposal{{
			ID:        7,
			Kind:      models.ProposalKindInvest,
			Asset:     common.HexToAddress("0xe1"),
			Amount:    big.NewInt(5000),
			YesWeight: big.NewInt(120),
			NoWeight:  big.NewInt(30),
			Deadline:  deadline,
			State:     models.ProposalStateActive,
		}},
		Phases: map[uint64]models.ProposalState{7: models.ProposalStateActive},
		Summary: usecase.ProposalSummary{
			Total:   1,
			ByPhase: map[models.ProposalState]int{models.ProposalStateActive: 1},
		},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewProposalsRenderer(&buf, false).RenderList(result))
		out := buf.String()
		assert.Contains(t, out, "5000")
		assert.Contains(t, out, "Active")
		assert.Contains(t, out, "2026-01-02T00:00:00Z")
		assert.Contains(t, out, "Total: 1")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewProposalsRenderer(&buf, true).RenderList(result))
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Contains(t, decoded, "Proposals")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewProposalsRenderer(&buf, false).RenderList(&usecase.ProposalListResult{}))
		assert.Equal(t, "No proposals found\n", buf.String())
	})
}

func TestRewardRecord(t *testing.T) {
	var buf bytes.Buffer
	rec := &models.RewardRecord{
		ID:         "r-1",
		Recipient:  common.HexToAddress("0xb1"),
		ProposalID: 3,
		Amount:     new(big.Int),
		Outcome:    models.OutcomeBadDecision,
		StartPrice: new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)),
		EndPrice:   new(big.Int).Mul(big.NewInt(900), big.NewInt(1e18)),
	}
	require.NoError(t, NewRewardsRenderer(&buf, false).Render(rec))
	out := buf.String()
	assert.Contains(t, out, "no payout")
	assert.Contains(t, out, "1000 → 900")
}

func TestConfigYAML(t *testing.T) {
	var buf bytes.Buffer
	result := &usecase.ShowConfigResult{
		Governance: config.GovernanceConfig{
			QuorumBp:     3000,
			VotingPeriod: 72 * time.Hour,
			FundingToken: "USDC",
		},
		Reward: &models.RewardConfig{
			BaseReward: new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)),
			RewardCap:  new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)),
			Cooldown:   24 * time.Hour,
		},
	}
	require.NoError(t, NewConfigRenderer(&buf, false).RenderConfig(result))
	out := buf.String()
	assert.Contains(t, out, "quorum_bp: 3000")
	assert.Contains(t, out, "voting_period: 72h0m0s")
	assert.Contains(t, out, `base_reward: "100"`)
	assert.Contains(t, out, "defaults (no dloop.toml found)")
}
