package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
)

// FinalizeProposal closes voting and settles the outcome of a proposal
type FinalizeProposal struct {
	store   StateStore
	clock   Clock
	metrics Metrics
	log     *slog.Logger
	cfg     config.GovernanceConfig
}

// NewFinalizeProposal creates a new finalize proposal use case
func NewFinalizeProposal(
	cfg *config.RuntimeConfig,
	store StateStore,
	clock Clock,
	metrics Metrics,
	log *slog.Logger,
) *FinalizeProposal {
	return &FinalizeProposal{
		store:   store,
		clock:   clock,
		metrics: metrics,
		log:     log,
		cfg:     cfg.Governance,
	}
}

// FinalizeProposalParams contains parameters for finalizing a proposal
type FinalizeProposalParams struct {
	ProposalID uint64
}

// Run executes the use case
func (f *FinalizeProposal) Run(ctx context.Context, params FinalizeProposalParams) (*models.Proposal, error) {
	var proposal *models.Proposal
	err := f.store.Update(ctx, func(tx Tx) error {
		var err error
		proposal, err = tx.GetProposal(ctx, params.ProposalID)
		if err != nil {
			return err
		}
		if proposal.State != models.ProposalStateActive {
			return fmt.Errorf("%w: proposal %d is %s", domain.ErrAlreadyFinalized, proposal.ID, proposal.State)
		}

		now := f.clock.Now()
		var outcome models.ProposalState
		if now.Before(proposal.Deadline) {
			var decided bool
			outcome, decided = f.earlyOutcome(proposal)
			if !decided {
				return fmt.Errorf("%w: proposal %d closes at %s", domain.ErrVotingOpen, proposal.ID,
					proposal.Deadline.Format("2006-01-02 15:04:05"))
			}
		} else {
			outcome = f.outcome(proposal)
		}

		proposal.State = outcome
		proposal.FinalizedAt = &now
		return tx.SaveProposal(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}

	f.metrics.ProposalTransitioned(proposal.State)
	f.log.Info("proposal finalized", "id", proposal.ID, "state", proposal.State,
		"yes", proposal.YesWeight.String(), "no", proposal.NoWeight.String())
	return proposal, nil
}

// outcome applies the quorum and majority rules once voting has closed
func (f *FinalizeProposal) outcome(p *models.Proposal) models.ProposalState {
	if !f.quorumMet(p) {
		return models.ProposalStateExpired
	}
	if p.YesWeight.Cmp(p.NoWeight) > 0 {
		return models.ProposalStatePassed
	}
	return models.ProposalStateRejected
}

// earlyOutcome reports an outcome that no remaining vote can change
func (f *FinalizeProposal) earlyOutcome(p *models.Proposal) (models.ProposalState, bool) {
	if !f.cfg.EarlyFinalization || p.TotalPossibleWeight.Sign() == 0 {
		return "", false
	}
	doubledYes := new(big.Int).Lsh(p.YesWeight, 1)
	doubledNo := new(big.Int).Lsh(p.NoWeight, 1)

	if doubledYes.Cmp(p.TotalPossibleWeight) > 0 && f.quorumMet(p) {
		return models.ProposalStatePassed, true
	}
	if doubledNo.Cmp(p.TotalPossibleWeight) >= 0 {
		return models.ProposalStateRejected, true
	}
	return "", false
}

// quorumMet reports cast weight >= quorumBp * possible / 10000, compared
// without division
func (f *FinalizeProposal) quorumMet(p *models.Proposal) bool {
	lhs := new(big.Int).Mul(p.CastWeight(), big.NewInt(domain.BasisPoints))
	rhs := new(big.Int).Mul(p.TotalPossibleWeight, new(big.Int).SetUint64(f.cfg.QuorumBp))
	return lhs.Cmp(rhs) >= 0
}
