package usecase_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (f *fixture) setFallback(price *big.Int) {
	f.t.Helper()
	_, err := usecase.NewSetFallbackPrice(f.store, f.roles, f.clock, f.log).Run(f.ctx, usecase.SetFallbackPriceParams{
		Caller: oracleAdmin, Asset: weth, Price: price,
	})
	require.NoError(f.t, err)
}

func (f *fixture) round(answer *big.Int, decimals uint8, age time.Duration) {
	f.source.ExpectedCalls = nil
	f.source.On("LatestRound", mock.Anything, feedSource).Return(&models.Round{
		RoundID:   big.NewInt(7),
		Answer:    answer,
		Decimals:  decimals,
		UpdatedAt: f.clock.Now().Add(-age),
	}, nil)
}

func TestGetAssetPrice(t *testing.T) {
	t.Run("fresh primary reading", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()
		f.seedFeed()
		f.quote(1800, 10*time.Minute)

		quote, err := f.oracle().GetAssetPrice(f.ctx, weth)
		require.NoError(t, err)
		assert.Equal(t, models.PriceSourcePrimary, quote.Source)
		assert.Equal(t, whole(1800).String(), quote.Price.String())
		assert.Equal(t, t0.Add(-10*time.Minute), quote.ObservedAt)
		f.source.AssertExpectations(t)
	})

	t.Run("source precision is normalized", func(t *testing.T) {
		tests := []struct {
			name     string
			answer   *big.Int
			decimals uint8
		}{
			{"6 decimals", big.NewInt(1_800_000_000), 6},
			{"8 decimals", usd8(1800), 8},
			{"18 decimals", whole(1800), 18},
			{"24 decimals", new(big.Int).Mul(whole(1800), big.NewInt(1_000_000)), 24},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				f.seedAsset()
				f.seedFeed()
				f.round(tt.answer, tt.decimals, time.Minute)

				quote, err := f.oracle().GetAssetPrice(f.ctx, weth)
				require.NoError(t, err)
				assert.Equal(t, whole(1800).String(), quote.Price.String())
			})
		}
	})

	t.Run("reading at the threshold is accepted", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()
		f.seedFeed()
		f.quote(1800, time.Hour)

		quote, err := f.oracle().GetAssetPrice(f.ctx, weth)
		require.NoError(t, err)
		assert.Equal(t, models.PriceSourcePrimary, quote.Source)
	})

	unusable := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"stale", func(f *fixture) { f.quote(1800, time.Hour+time.Second) }},
		{"zero answer", func(f *fixture) { f.round(big.NewInt(0), 8, time.Minute) }},
		{"negative answer", func(f *fixture) { f.round(big.NewInt(-5), 8, time.Minute) }},
		{"future timestamp", func(f *fixture) { f.round(usd8(1800), 8, -time.Minute) }},
		{"read failure", func(f *fixture) {
			f.source.On("LatestRound", mock.Anything, feedSource).Return(nil, errors.New("connection refused"))
		}},
	}

	for _, tt := range unusable {
		t.Run(tt.name+" without fallback", func(t *testing.T) {
			f := newFixture(t)
			f.seedAsset()
			f.seedFeed()
			tt.setup(f)

			_, err := f.oracle().GetAssetPrice(f.ctx, weth)
			assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
			assert.Equal(t, domain.KindOracle, domain.KindOf(err))
		})

		t.Run(tt.name+" uses fallback", func(t *testing.T) {
			f := newFixture(t)
			f.seedAsset()
			f.seedFeed()
			f.setFallback(whole(1750))
			tt.setup(f)

			quote, err := f.oracle().GetAssetPrice(f.ctx, weth)
			require.NoError(t, err)
			assert.Equal(t, models.PriceSourceFallback, quote.Source)
			assert.Equal(t, whole(1750).String(), quote.Price.String())
			assert.Equal(t, t0, quote.ObservedAt)
		})
	}

	t.Run("no feed", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()

		_, err := f.oracle().GetAssetPrice(f.ctx, weth)
		assert.ErrorIs(t, err, domain.ErrNoFeedConfigured)
	})

	t.Run("fallback only registration", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()
		f.setFallback(whole(1750))

		quote, err := f.oracle().GetAssetPrice(f.ctx, weth)
		require.NoError(t, err)
		assert.Equal(t, models.PriceSourceFallback, quote.Source)
		f.source.AssertNotCalled(t, "LatestRound", mock.Anything, mock.Anything)
	})

	t.Run("fallback max age", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Oracle.FallbackMaxAge = time.Hour
		f.seedAsset()
		f.setFallback(whole(1750))

		_, err := f.oracle().GetAssetPrice(f.ctx, weth)
		require.NoError(t, err)

		f.clock.Advance(2 * time.Hour)
		_, err = f.oracle().GetAssetPrice(f.ctx, weth)
		assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
		assert.Contains(t, err.Error(), "fallback older than 1h0m0s")
	})
}
