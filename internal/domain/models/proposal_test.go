package models

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalPhase(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour
	executedAt := start.Add(time.Hour)

	tests := []struct {
		name string
		p    Proposal
		now  time.Time
		want ProposalState
	}{
		{"active", Proposal{State: ProposalStateActive}, start, ProposalStateActive},
		{"passed", Proposal{State: ProposalStatePassed}, start.Add(30 * 24 * time.Hour), ProposalStatePassed},
		{"in window", Proposal{State: ProposalStateExecuted, ExecutedAt: &executedAt}, executedAt.Add(window - time.Second), ProposalStateEvaluationWindow},
		{"window elapsed", Proposal{State: ProposalStateExecuted, ExecutedAt: &executedAt}, executedAt.Add(window), ProposalStateRewardEligible},
		{"executed without time", Proposal{State: ProposalStateExecuted}, start, ProposalStateExecuted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Phase(tt.now, window))
		})
	}

	p := Proposal{ExecutedAt: &executedAt}
	require.NotNil(t, p.EligibleAt(window))
	assert.Equal(t, executedAt.Add(window), *p.EligibleAt(window))
	assert.Nil(t, (&Proposal{}).EligibleAt(window))
}

func TestProposalWeights(t *testing.T) {
	deadline := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	p := &Proposal{
		State:     ProposalStateActive,
		Deadline:  deadline,
		YesWeight: big.NewInt(30),
		NoWeight:  big.NewInt(120),
	}
	assert.Equal(t, int64(150), p.CastWeight().Int64())
	assert.Equal(t, int64(120), p.WinningWeight().Int64())
	assert.True(t, p.VotingOpen(deadline.Add(-time.Nanosecond)))
	assert.False(t, p.VotingOpen(deadline))

	c := p.Clone()
	c.YesWeight.SetInt64(1)
	assert.Equal(t, int64(30), p.YesWeight.Int64())
}

func TestParseProposalKind(t *testing.T) {
	kind, err := ParseProposalKind("divest")
	require.NoError(t, err)
	assert.Equal(t, ProposalKindDivest, kind)

	_, err = ParseProposalKind("Invest")
	assert.Error(t, err)
}

func TestAssetIssue(t *testing.T) {
	holder := common.HexToAddress("0x01")
	a := &Asset{}
	a.Issue(holder, big.NewInt(120))
	a.Issue(holder, big.NewInt(30))
	a.Issue(common.HexToAddress("0x02"), big.NewInt(50))

	assert.Equal(t, int64(150), a.SharesOf(holder).Int64())
	assert.Equal(t, int64(200), a.TotalShares.Int64())
	assert.Zero(t, a.SharesOf(common.HexToAddress("0x03")).Sign())

	c := a.Clone()
	c.Issue(holder, big.NewInt(1))
	assert.Equal(t, int64(200), a.TotalShares.Int64())
}
