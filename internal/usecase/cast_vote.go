package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// CastVote records a stake-weighted vote on an active proposal
type CastVote struct {
	store    StateStore
	identity Identity
	clock    Clock
	metrics  Metrics
	log      *slog.Logger
}

// NewCastVote creates a new cast vote use case
func NewCastVote(store StateStore, identity Identity, clock Clock, metrics Metrics, log *slog.Logger) *CastVote {
	return &CastVote{
		store:    store,
		identity: identity,
		clock:    clock,
		metrics:  metrics,
		log:      log,
	}
}

// CastVoteParams contains parameters for casting a vote
type CastVoteParams struct {
	Voter      common.Address
	ProposalID uint64
	Support    bool
}

// CastVoteResult contains the stored vote and the updated tallies
type CastVoteResult struct {
	Vote     *models.Vote
	Proposal *models.Proposal
}

// Run executes the use case
func (c *CastVote) Run(ctx context.Context, params CastVoteParams) (*CastVoteResult, error) {
	var proposal *models.Proposal
	err := c.store.View(ctx, func(tx ReadTx) error {
		var err error
		proposal, err = loadVotable(ctx, tx, params.ProposalID, params.Voter, c.clock)
		return err
	})
	if err != nil {
		return nil, err
	}

	weight, err := c.identity.StakeWeight(ctx, params.Voter, proposal.Asset)
	if err != nil {
		return nil, fmt.Errorf("failed to read stake weight: %w", err)
	}
	if weight == nil || weight.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoVotingPower, params.Voter.Hex())
	}

	result := &CastVoteResult{}
	err = c.store.Update(ctx, func(tx Tx) error {
		// The deadline and duplicate checks are repeated under the write lock.
		proposal, err := loadVotable(ctx, tx, params.ProposalID, params.Voter, c.clock)
		if err != nil {
			return err
		}

		vote := &models.Vote{
			ProposalID: proposal.ID,
			Voter:      params.Voter,
			Support:    params.Support,
			Weight:     new(big.Int).Set(weight),
			CastAt:     c.clock.Now(),
		}
		if params.Support {
			proposal.YesWeight.Add(proposal.YesWeight, weight)
		} else {
			proposal.NoWeight.Add(proposal.NoWeight, weight)
		}
		proposal.VoteCount++

		if err := tx.SaveVote(ctx, vote); err != nil {
			return err
		}
		if err := tx.SaveProposal(ctx, proposal); err != nil {
			return err
		}
		result.Vote = vote
		result.Proposal = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.metrics.VoteCast(params.Support)
	c.log.Info("vote cast", "proposal", params.ProposalID, "voter", params.Voter.Hex(),
		"support", params.Support, "weight", weight.String())
	return result, nil
}

// loadVotable returns the proposal when voter may still vote on it
func loadVotable(ctx context.Context, tx ReadTx, id uint64, voter common.Address, clock Clock) (*models.Proposal, error) {
	proposal, err := tx.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if !proposal.VotingOpen(clock.Now()) {
		return nil, fmt.Errorf("%w: proposal %d is %s", domain.ErrVotingClosed, id, proposal.State)
	}

	if _, err := tx.GetVote(ctx, id, voter); err == nil {
		return nil, fmt.Errorf("%w: %s on proposal %d", domain.ErrAlreadyVoted, voter.Hex(), id)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return proposal, nil
}
