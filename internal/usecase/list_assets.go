package usecase

import (
	"context"
	"sort"

	"github.com/dloop-protocol/dloop/internal/domain/models"
)

// ListAssets handles listing managed assets
type ListAssets struct {
	store StateStore
}

// NewListAssets creates a new list assets use case
func NewListAssets(store StateStore) *ListAssets {
	return &ListAssets{store: store}
}

// Run returns every registered asset ordered by symbol
func (l *ListAssets) Run(ctx context.Context) ([]*models.Asset, error) {
	var assets []*models.Asset
	err := l.store.View(ctx, func(tx ReadTx) error {
		var err error
		assets, err = tx.ListAssets(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Symbol < assets[j].Symbol
	})
	return assets, nil
}
