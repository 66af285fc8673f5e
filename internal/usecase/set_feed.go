package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// SetFeed registers or replaces the primary price source of an asset
type SetFeed struct {
	store StateStore
	roles RoleChecker
	clock Clock
	log   *slog.Logger
}

// NewSetFeed creates a new set feed use case
func NewSetFeed(store StateStore, roles RoleChecker, clock Clock, log *slog.Logger) *SetFeed {
	return &SetFeed{
		store: store,
		roles: roles,
		clock: clock,
		log:   log,
	}
}

// SetFeedParams contains parameters for registering a feed
type SetFeedParams struct {
	Caller             common.Address
	Asset              common.Address
	Source             common.Address
	Decimals           uint8
	StalenessThreshold time.Duration
	Heartbeat          time.Duration
	ReliabilityBp      uint64
}

func (p SetFeedParams) validate() error {
	if p.Source == (common.Address{}) {
		return fmt.Errorf("%w: source address is required", domain.ErrInvalidFeed)
	}
	if p.Decimals > domain.MaxFeedDecimals {
		return fmt.Errorf("%w: decimals %d exceeds %d", domain.ErrInvalidFeed, p.Decimals, domain.MaxFeedDecimals)
	}
	if p.StalenessThreshold <= 0 {
		return fmt.Errorf("%w: staleness threshold must be positive", domain.ErrInvalidFeed)
	}
	if p.Heartbeat < 0 {
		return fmt.Errorf("%w: heartbeat must not be negative", domain.ErrInvalidFeed)
	}
	return domain.ValidateBp("reliability_bp", p.ReliabilityBp)
}

// Run stores the registration. An existing fallback price is kept.
func (s *SetFeed) Run(ctx context.Context, params SetFeedParams) (*models.PriceFeed, error) {
	if err := requireRole(ctx, s.roles, params.Caller, domain.RoleOracleAdmin); err != nil {
		return nil, err
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	var saved *models.PriceFeed
	err := s.store.Update(ctx, func(tx Tx) error {
		if err := requireAsset(ctx, tx, params.Asset); err != nil {
			return err
		}

		feed, err := tx.GetFeed(ctx, params.Asset)
		if errors.Is(err, domain.ErrNotFound) {
			feed = &models.PriceFeed{Asset: params.Asset}
		} else if err != nil {
			return err
		}

		feed.Source = params.Source
		feed.Decimals = params.Decimals
		feed.StalenessThreshold = params.StalenessThreshold
		feed.Heartbeat = params.Heartbeat
		feed.ReliabilityBp = params.ReliabilityBp
		feed.UpdatedAt = s.clock.Now()

		saved = feed
		return tx.SaveFeed(ctx, feed)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("price feed registered", "asset", params.Asset.Hex(), "source", params.Source.Hex(),
		"decimals", params.Decimals, "staleness", params.StalenessThreshold)
	return saved, nil
}

// requireAsset fails with ErrUnknownAsset when the asset is not registered
func requireAsset(ctx context.Context, tx AssetReader, id common.Address) error {
	if _, err := tx.GetAsset(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownAsset, id.Hex())
		}
		return err
	}
	return nil
}
