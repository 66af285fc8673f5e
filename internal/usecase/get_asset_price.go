package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// AssetPriceOracle answers price queries from the primary feed, falling back
// to the administrator-set price when the feed is stale or unreachable
type AssetPriceOracle struct {
	store          StateStore
	source         PriceSource
	clock          Clock
	metrics        Metrics
	log            *slog.Logger
	fallbackMaxAge time.Duration
}

// NewAssetPriceOracle creates a new price oracle use case
func NewAssetPriceOracle(
	cfg *config.RuntimeConfig,
	store StateStore,
	source PriceSource,
	clock Clock,
	metrics Metrics,
	log *slog.Logger,
) *AssetPriceOracle {
	return &AssetPriceOracle{
		store:          store,
		source:         source,
		clock:          clock,
		metrics:        metrics,
		log:            log,
		fallbackMaxAge: cfg.Oracle.FallbackMaxAge,
	}
}

// GetAssetPrice returns the canonical price of asset and where it came from
func (o *AssetPriceOracle) GetAssetPrice(ctx context.Context, asset common.Address) (*models.PriceQuote, error) {
	var feed *models.PriceFeed
	err := o.store.View(ctx, func(tx ReadTx) error {
		var err error
		feed, err = tx.GetFeed(ctx, asset)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		o.metrics.PriceFailed(asset, "no_feed")
		return nil, fmt.Errorf("%w for asset %s", domain.ErrNoFeedConfigured, asset.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	now := o.clock.Now()
	reason := "no primary source"

	if feed.HasSource() {
		var quote *models.PriceQuote
		quote, reason = o.readPrimary(ctx, feed, now)
		if quote != nil {
			o.metrics.PriceQuoted(asset, models.PriceSourcePrimary)
			return quote, nil
		}
		o.log.Warn("primary price unusable", "asset", asset.Hex(), "source", feed.Source.Hex(), "reason", reason)
	}

	if feed.HasFallback() {
		if o.fallbackMaxAge > 0 && feed.FallbackSetAt != nil && now.Sub(*feed.FallbackSetAt) > o.fallbackMaxAge {
			reason = fmt.Sprintf("%s; fallback older than %s", reason, o.fallbackMaxAge)
		} else {
			o.metrics.PriceQuoted(asset, models.PriceSourceFallback)
			observed := feed.UpdatedAt
			if feed.FallbackSetAt != nil {
				observed = *feed.FallbackSetAt
			}
			return &models.PriceQuote{
				Asset:      asset,
				Price:      feed.FallbackPrice,
				Source:     models.PriceSourceFallback,
				ObservedAt: observed,
			}, nil
		}
	}

	o.metrics.PriceFailed(asset, "unavailable")
	return nil, fmt.Errorf("%w: asset %s: %s", domain.ErrPriceUnavailable, asset.Hex(), reason)
}

// readPrimary returns a quote from the primary source, or the reason the
// reading cannot be used
func (o *AssetPriceOracle) readPrimary(ctx context.Context, feed *models.PriceFeed, now time.Time) (*models.PriceQuote, string) {
	round, err := o.source.LatestRound(ctx, feed.Source)
	if err != nil {
		return nil, fmt.Sprintf("read failed: %v", err)
	}
	if round.Answer == nil || round.Answer.Sign() <= 0 {
		return nil, "non-positive answer"
	}
	if round.UpdatedAt.After(now) {
		return nil, "round timestamp in the future"
	}

	age := now.Sub(round.UpdatedAt)
	if age > feed.StalenessThreshold {
		return nil, fmt.Sprintf("stale: updated %s ago, threshold %s", age.Truncate(time.Second), feed.StalenessThreshold)
	}
	if feed.Heartbeat > 0 && age > feed.Heartbeat {
		o.log.Warn("feed missed heartbeat", "asset", feed.Asset.Hex(), "age", age, "heartbeat", feed.Heartbeat)
	}
	if feed.Decimals != round.Decimals {
		o.log.Debug("feed decimals differ from registration", "asset", feed.Asset.Hex(),
			"registered", feed.Decimals, "reported", round.Decimals)
	}

	return &models.PriceQuote{
		Asset:      feed.Asset,
		Price:      domain.NormalizePrice(round.Answer, round.Decimals),
		Source:     models.PriceSourcePrimary,
		ObservedAt: round.UpdatedAt,
	}, ""
}
