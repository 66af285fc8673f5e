package models

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalKind is the action a proposal asks the protocol to take
type ProposalKind string

const (
	ProposalKindInvest ProposalKind = "invest"
	ProposalKindDivest ProposalKind = "divest"
)

// ParseProposalKind converts a user supplied kind ("invest", "divest")
func ParseProposalKind(s string) (ProposalKind, error) {
	switch ProposalKind(s) {
	case ProposalKindInvest, ProposalKindDivest:
		return ProposalKind(s), nil
	default:
		return "", fmt.Errorf("unknown proposal kind %q (valid: invest, divest)", s)
	}
}

// ProposalState represents the lifecycle state of a proposal
type ProposalState string

const (
	ProposalStateCreated          ProposalState = "created"
	ProposalStateActive           ProposalState = "active"
	ProposalStatePassed           ProposalState = "passed"
	ProposalStateRejected         ProposalState = "rejected"
	ProposalStateExpired          ProposalState = "expired"
	ProposalStateExecuted         ProposalState = "executed"
	ProposalStateEvaluationWindow ProposalState = "evaluation_window"
	ProposalStateRewardEligible   ProposalState = "reward_eligible"
)

// Proposal represents an investment or divestment proposal on a managed asset
type Proposal struct {
	// Identification
	ID          uint64         `json:"id"`
	Kind        ProposalKind   `json:"kind"`
	Asset       common.Address `json:"asset"`
	Amount      *big.Int       `json:"amount"`
	Proposer    common.Address `json:"proposer"`
	Description string         `json:"description,omitempty"`

	// Voting
	CreatedAt           time.Time `json:"createdAt"`
	Deadline            time.Time `json:"deadline"`
	YesWeight           *big.Int  `json:"yesWeight"`
	NoWeight            *big.Int  `json:"noWeight"`
	TotalPossibleWeight *big.Int  `json:"totalPossibleWeight"`
	VoteCount           int       `json:"voteCount"`

	// Lifecycle
	State       ProposalState `json:"state"`
	FinalizedAt *time.Time    `json:"finalizedAt,omitempty"`

	// Execution details (when executed)
	Executed         bool        `json:"executed"`
	ExecutedAt       *time.Time  `json:"executedAt,omitempty"`
	ExecutedBy       string      `json:"executedBy,omitempty"`
	PriceAtExecution *big.Int    `json:"priceAtExecution,omitempty"`
	PriceSource      PriceSource `json:"priceSource,omitempty"`
	ExecutionValue   *big.Int    `json:"executionValue,omitempty"`
	FeePaid          *big.Int    `json:"feePaid,omitempty"`
}

// CastWeight is the total weight of all votes cast
func (p *Proposal) CastWeight() *big.Int {
	return new(big.Int).Add(p.YesWeight, p.NoWeight)
}

// WinningWeight is the weight of the larger side
func (p *Proposal) WinningWeight() *big.Int {
	if p.YesWeight.Cmp(p.NoWeight) >= 0 {
		return new(big.Int).Set(p.YesWeight)
	}
	return new(big.Int).Set(p.NoWeight)
}

// VotingOpen reports whether votes may still be cast at now
func (p *Proposal) VotingOpen(now time.Time) bool {
	return p.State == ProposalStateActive && now.Before(p.Deadline)
}

// Phase returns the effective lifecycle state at now. Executed proposals move
// through the evaluation window into reward eligibility purely by time.
func (p *Proposal) Phase(now time.Time, evaluationWindow time.Duration) ProposalState {
	if p.State != ProposalStateExecuted || p.ExecutedAt == nil {
		return p.State
	}
	if now.Before(p.ExecutedAt.Add(evaluationWindow)) {
		return ProposalStateEvaluationWindow
	}
	return ProposalStateRewardEligible
}

// EligibleAt is the time the proposal's outcome may be evaluated
func (p *Proposal) EligibleAt(evaluationWindow time.Duration) *time.Time {
	if p.ExecutedAt == nil {
		return nil
	}
	t := p.ExecutedAt.Add(evaluationWindow)
	return &t
}

// Clone returns a deep copy
func (p *Proposal) Clone() *Proposal {
	c := *p
	c.Amount = cloneInt(p.Amount)
	c.YesWeight = cloneInt(p.YesWeight)
	c.NoWeight = cloneInt(p.NoWeight)
	c.TotalPossibleWeight = cloneInt(p.TotalPossibleWeight)
	c.PriceAtExecution = cloneInt(p.PriceAtExecution)
	c.ExecutionValue = cloneInt(p.ExecutionValue)
	c.FeePaid = cloneInt(p.FeePaid)
	c.FinalizedAt = cloneTime(p.FinalizedAt)
	c.ExecutedAt = cloneTime(p.ExecutedAt)
	return &c
}

// Vote is a single principal's stake-weighted vote on a proposal
type Vote struct {
	ProposalID uint64         `json:"proposalId"`
	Voter      common.Address `json:"voter"`
	Support    bool           `json:"support"`
	Weight     *big.Int       `json:"weight"`
	CastAt     time.Time      `json:"castAt"`
}

// Clone returns a deep copy
func (v *Vote) Clone() *Vote {
	c := *v
	c.Weight = cloneInt(v.Weight)
	return &c
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
