package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/dloop-protocol/dloop/internal/domain/models"
)

// ListVotes handles listing the votes cast on a proposal
type ListVotes struct {
	store StateStore
}

// NewListVotes creates a new list votes use case
func NewListVotes(store StateStore) *ListVotes {
	return &ListVotes{store: store}
}

// Run returns the votes on a proposal in casting order
func (l *ListVotes) Run(ctx context.Context, proposalID uint64) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := l.store.View(ctx, func(tx ReadTx) error {
		if _, err := tx.GetProposal(ctx, proposalID); err != nil {
			return fmt.Errorf("proposal %d: %w", proposalID, err)
		}
		var err error
		votes, err = tx.ListVotes(ctx, proposalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(votes, func(i, j int) bool {
		return votes[i].CastAt.Before(votes[j].CastAt)
	})
	return votes, nil
}
