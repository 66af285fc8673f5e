package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// SubmitProposal opens a new invest or divest proposal for voting
type SubmitProposal struct {
	store    StateStore
	identity Identity
	clock    Clock
	metrics  Metrics
	log      *slog.Logger
	cfg      config.GovernanceConfig
}

// NewSubmitProposal creates a new submit proposal use case
func NewSubmitProposal(
	cfg *config.RuntimeConfig,
	store StateStore,
	identity Identity,
	clock Clock,
	metrics Metrics,
	log *slog.Logger,
) *SubmitProposal {
	return &SubmitProposal{
		store:    store,
		identity: identity,
		clock:    clock,
		metrics:  metrics,
		log:      log,
		cfg:      cfg.Governance,
	}
}

// SubmitProposalParams contains parameters for submitting a proposal
type SubmitProposalParams struct {
	Proposer    common.Address
	Kind        models.ProposalKind
	Asset       common.Address
	Amount      *big.Int
	Description string
}

// Run validates the proposal and stores it in the active state. The
// created state is transient: voting opens immediately.
func (s *SubmitProposal) Run(ctx context.Context, params SubmitProposalParams) (*models.Proposal, error) {
	if params.Kind != models.ProposalKindInvest && params.Kind != models.ProposalKindDivest {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidProposalKind, params.Kind)
	}
	if params.Amount == nil || params.Amount.Sign() <= 0 {
		return nil, domain.ErrZeroAmount
	}

	// Stake weight comes from the identity service and is read before the
	// write transaction opens.
	var asset *models.Asset
	if err := s.store.View(ctx, func(tx ReadTx) error {
		var err error
		asset, err = tx.GetAsset(ctx, params.Asset)
		return err
	}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAsset, params.Asset.Hex())
		}
		return nil, err
	}

	weight, err := s.identity.StakeWeight(ctx, params.Proposer, params.Asset)
	if err != nil {
		return nil, fmt.Errorf("failed to read stake weight: %w", err)
	}
	if weight.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s holds no %s shares", domain.ErrNoVotingPower, params.Proposer.Hex(), asset.Symbol)
	}

	var proposal *models.Proposal
	err = s.store.Update(ctx, func(tx Tx) error {
		asset, err := tx.GetAsset(ctx, params.Asset)
		if err != nil {
			return err
		}

		id, err := tx.NextProposalID(ctx)
		if err != nil {
			return fmt.Errorf("failed to allocate proposal id: %w", err)
		}

		now := s.clock.Now()
		proposal = &models.Proposal{
			ID:                  id,
			Kind:                params.Kind,
			Asset:               params.Asset,
			Amount:              new(big.Int).Set(params.Amount),
			Proposer:            params.Proposer,
			Description:         params.Description,
			CreatedAt:           now,
			Deadline:            now.Add(s.cfg.VotingPeriod),
			YesWeight:           new(big.Int),
			NoWeight:            new(big.Int),
			TotalPossibleWeight: new(big.Int).Set(asset.TotalShares),
			State:               models.ProposalStateActive,
		}
		return tx.SaveProposal(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ProposalTransitioned(models.ProposalStateActive)
	s.log.Info("proposal submitted", "id", proposal.ID, "kind", proposal.Kind, "asset", asset.Symbol,
		"amount", proposal.Amount.String(), "deadline", proposal.Deadline)
	return proposal, nil
}
