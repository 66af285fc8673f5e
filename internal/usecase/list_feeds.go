package usecase

import (
	"context"
	"sort"

	"github.com/dloop-protocol/dloop/internal/domain/models"
)

// ListFeeds handles listing price feed registrations
type ListFeeds struct {
	store StateStore
}

// NewListFeeds creates a new list feeds use case
func NewListFeeds(store StateStore) *ListFeeds {
	return &ListFeeds{store: store}
}

// FeedListResult contains the registrations ordered by asset address
type FeedListResult struct {
	Feeds []*models.PriceFeed
}

// Run executes the use case
func (l *ListFeeds) Run(ctx context.Context) (*FeedListResult, error) {
	var feeds []*models.PriceFeed
	err := l.store.View(ctx, func(tx ReadTx) error {
		var err error
		feeds, err = tx.ListFeeds(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(feeds, func(i, j int) bool {
		return feeds[i].Asset.Cmp(feeds[j].Asset) < 0
	})
	return &FeedListResult{Feeds: feeds}, nil
}
