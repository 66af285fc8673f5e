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

// SetFallbackPrice sets or clears the administrator price of an asset
type SetFallbackPrice struct {
	store StateStore
	roles RoleChecker
	clock Clock
	log   *slog.Logger
}

// NewSetFallbackPrice creates a new set fallback price use case
func NewSetFallbackPrice(store StateStore, roles RoleChecker, clock Clock, log *slog.Logger) *SetFallbackPrice {
	return &SetFallbackPrice{
		store: store,
		roles: roles,
		clock: clock,
		log:   log,
	}
}

// SetFallbackPriceParams contains parameters for setting a fallback price
type SetFallbackPriceParams struct {
	Caller common.Address
	Asset  common.Address
	// Price at canonical precision; nil or zero clears the fallback
	Price *big.Int
}

// Run stores the fallback. A registration without a primary source is
// created when none exists, and removed again when its fallback is cleared.
// The returned feed is nil when the registration was removed.
func (s *SetFallbackPrice) Run(ctx context.Context, params SetFallbackPriceParams) (*models.PriceFeed, error) {
	if err := requireRole(ctx, s.roles, params.Caller, domain.RoleOracleAdmin); err != nil {
		return nil, err
	}
	if params.Price != nil && params.Price.Sign() < 0 {
		return nil, fmt.Errorf("%w: fallback price must not be negative", domain.ErrInvalidPrice)
	}
	clearing := params.Price == nil || params.Price.Sign() == 0

	var saved *models.PriceFeed
	err := s.store.Update(ctx, func(tx Tx) error {
		if err := requireAsset(ctx, tx, params.Asset); err != nil {
			return err
		}

		feed, err := tx.GetFeed(ctx, params.Asset)
		switch {
		case errors.Is(err, domain.ErrNotFound) && clearing:
			return fmt.Errorf("%w for asset %s", domain.ErrNoFeedConfigured, params.Asset.Hex())
		case errors.Is(err, domain.ErrNotFound):
			feed = &models.PriceFeed{Asset: params.Asset}
		case err != nil:
			return err
		}

		now := s.clock.Now()
		feed.UpdatedAt = now
		if clearing {
			feed.FallbackPrice = nil
			feed.FallbackSetAt = nil
			if !feed.HasSource() {
				return tx.DeleteFeed(ctx, params.Asset)
			}
		} else {
			feed.FallbackPrice = new(big.Int).Set(params.Price)
			feed.FallbackSetAt = &now
		}

		saved = feed
		return tx.SaveFeed(ctx, feed)
	})
	if err != nil {
		return nil, err
	}

	if clearing {
		s.log.Info("fallback price cleared", "asset", params.Asset.Hex())
	} else {
		s.log.Info("fallback price set", "asset", params.Asset.Hex(),
			"price", domain.FormatDecimal(params.Price, domain.CanonicalDecimals))
	}
	return saved, nil
}
