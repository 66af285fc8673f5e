package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
)

// GetProposal handles looking up a single proposal with its votes
type GetProposal struct {
	store  StateStore
	clock  Clock
	window time.Duration
}

// NewGetProposal creates a new get proposal use case
func NewGetProposal(cfg *config.RuntimeConfig, store StateStore, clock Clock) *GetProposal {
	return &GetProposal{
		store:  store,
		clock:  clock,
		window: cfg.Governance.EvaluationWindow,
	}
}

// ProposalDetails is a proposal together with its derived lifecycle phase
type ProposalDetails struct {
	Proposal   *models.Proposal
	Asset      *models.Asset
	Phase      models.ProposalState
	EligibleAt *time.Time
	Votes      []*models.Vote
	Rewards    []*models.RewardRecord
}

// Run executes the use case
func (g *GetProposal) Run(ctx context.Context, id uint64) (*ProposalDetails, error) {
	details := &ProposalDetails{}
	err := g.store.View(ctx, func(tx ReadTx) error {
		var err error
		if details.Proposal, err = tx.GetProposal(ctx, id); err != nil {
			return err
		}
		if details.Asset, err = tx.GetAsset(ctx, details.Proposal.Asset); err != nil {
			return err
		}
		if details.Votes, err = tx.ListVotes(ctx, id); err != nil {
			return err
		}
		details.Rewards, err = tx.ListRewardRecords(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(details.Votes, func(i, j int) bool {
		return details.Votes[i].CastAt.Before(details.Votes[j].CastAt)
	})
	sort.Slice(details.Rewards, func(i, j int) bool {
		return details.Rewards[i].DistributedAt.Before(details.Rewards[j].DistributedAt)
	})
	details.Phase = details.Proposal.Phase(g.clock.Now(), g.window)
	details.EligibleAt = details.Proposal.EligibleAt(g.window)
	return details, nil
}
