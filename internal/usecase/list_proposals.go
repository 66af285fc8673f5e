package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// ListProposalsParams contains parameters for listing proposals
type ListProposalsParams struct {
	// State matches the derived lifecycle phase, so evaluation_window and
	// reward_eligible select executed proposals by time
	State    models.ProposalState
	Kind     models.ProposalKind
	Asset    *common.Address
	Proposer *common.Address
}

// ProposalListResult contains the matching proposals and a summary
type ProposalListResult struct {
	Proposals []*models.Proposal
	Phases    map[uint64]models.ProposalState
	Summary   ProposalSummary
}

// ProposalSummary counts the listed proposals
type ProposalSummary struct {
	Total   int
	ByPhase map[models.ProposalState]int
	ByKind  map[models.ProposalKind]int
}

// ListProposals is the use case for listing proposals
type ListProposals struct {
	store  StateStore
	clock  Clock
	window time.Duration
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(cfg *config.RuntimeConfig, store StateStore, clock Clock) *ListProposals {
	return &ListProposals{
		store:  store,
		clock:  clock,
		window: cfg.Governance.EvaluationWindow,
	}
}

// Run executes the list proposals use case
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) (*ProposalListResult, error) {
	filter := domain.ProposalFilter{
		Kind:     params.Kind,
		Asset:    params.Asset,
		Proposer: params.Proposer,
	}
	// Time-derived phases are stored as executed
	switch params.State {
	case models.ProposalStateEvaluationWindow, models.ProposalStateRewardEligible:
		filter.State = models.ProposalStateExecuted
	default:
		filter.State = params.State
	}

	var proposals []*models.Proposal
	err := uc.store.View(ctx, func(tx ReadTx) error {
		var err error
		proposals, err = tx.ListProposals(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	phases := make(map[uint64]models.ProposalState, len(proposals))
	for _, p := range proposals {
		phases[p.ID] = p.Phase(now, uc.window)
	}
	if params.State == models.ProposalStateEvaluationWindow || params.State == models.ProposalStateRewardEligible {
		proposals = lo.Filter(proposals, func(p *models.Proposal, _ int) bool {
			return phases[p.ID] == params.State
		})
	}

	// Sort by id for consistent output
	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].ID < proposals[j].ID
	})

	return &ProposalListResult{
		Proposals: proposals,
		Phases:    phases,
		Summary:   calculateSummary(proposals, phases),
	}, nil
}

// calculateSummary calculates summary statistics for proposals
func calculateSummary(proposals []*models.Proposal, phases map[uint64]models.ProposalState) ProposalSummary {
	summary := ProposalSummary{
		Total:   len(proposals),
		ByPhase: make(map[models.ProposalState]int),
		ByKind:  make(map[models.ProposalKind]int),
	}

	for _, p := range proposals {
		summary.ByPhase[phases[p.ID]]++
		summary.ByKind[p.Kind]++
	}

	return summary
}
