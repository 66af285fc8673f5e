package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// RemoveFeed unregisters the primary source of an asset
type RemoveFeed struct {
	store StateStore
	roles RoleChecker
	clock Clock
	log   *slog.Logger
}

// NewRemoveFeed creates a new remove feed use case
func NewRemoveFeed(store StateStore, roles RoleChecker, clock Clock, log *slog.Logger) *RemoveFeed {
	return &RemoveFeed{
		store: store,
		roles: roles,
		clock: clock,
		log:   log,
	}
}

// RemoveFeedParams contains parameters for removing a feed
type RemoveFeedParams struct {
	Caller common.Address
	Asset  common.Address
}

// RemoveFeedResult reports what is left of the registration
type RemoveFeedResult struct {
	Asset common.Address
	// Remaining is the fallback-only registration, nil when it was deleted
	Remaining *models.PriceFeed
}

// Run clears the primary source. The registration is deleted unless a
// fallback price keeps it usable.
func (r *RemoveFeed) Run(ctx context.Context, params RemoveFeedParams) (*RemoveFeedResult, error) {
	if err := requireRole(ctx, r.roles, params.Caller, domain.RoleOracleAdmin); err != nil {
		return nil, err
	}

	result := &RemoveFeedResult{Asset: params.Asset}
	err := r.store.Update(ctx, func(tx Tx) error {
		feed, err := tx.GetFeed(ctx, params.Asset)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w for asset %s", domain.ErrNoFeedConfigured, params.Asset.Hex())
		}
		if err != nil {
			return err
		}

		if !feed.HasFallback() {
			return tx.DeleteFeed(ctx, params.Asset)
		}

		feed.Source = common.Address{}
		feed.Decimals = 0
		feed.StalenessThreshold = 0
		feed.Heartbeat = 0
		feed.ReliabilityBp = 0
		feed.UpdatedAt = r.clock.Now()
		result.Remaining = feed
		return tx.SaveFeed(ctx, feed)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("price feed removed", "asset", params.Asset.Hex(), "fallbackKept", result.Remaining != nil)
	return result, nil
}
