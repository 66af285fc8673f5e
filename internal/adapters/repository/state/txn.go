package state

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

// txn is a copy-on-write view over one generation. A table map is copied
// the first time the transaction writes to it; untouched tables stay shared
// with the base generation.
type txn struct {
	cur   *tables
	dirty map[table]bool
	hooks []func(ctx context.Context) error
}

func newTxn(base *tables) *txn {
	cur := *base
	return &txn{
		cur:   &cur,
		dirty: make(map[table]bool),
	}
}

// touch copies the map behind t before its first write
func (t *txn) touch(tb table) {
	if t.dirty[tb] {
		return
	}
	t.dirty[tb] = true
	switch tb {
	case tableProposals:
		t.cur.proposals = maps.Clone(t.cur.proposals)
	case tableVotes:
		t.cur.votes = maps.Clone(t.cur.votes)
	case tableAssets:
		t.cur.assets = maps.Clone(t.cur.assets)
	case tableRewards:
		t.cur.rewards = maps.Clone(t.cur.rewards)
	case tableCooldowns:
		t.cur.cooldowns = maps.Clone(t.cur.cooldowns)
	case tableFeeds:
		t.cur.feeds = maps.Clone(t.cur.feeds)
	}
}

func voteKey(proposalID uint64, voter common.Address) string {
	return fmt.Sprintf("%d/%s", proposalID, voter.Hex())
}

// GetProposal retrieves a proposal by ID
func (t *txn) GetProposal(ctx context.Context, id uint64) (*models.Proposal, error) {
	p, ok := t.cur.proposals[id]
	if !ok {
		return nil, fmt.Errorf("proposal %d: %w", id, domain.ErrNotFound)
	}
	return p.Clone(), nil
}

// ListProposals retrieves proposals matching the filter
func (t *txn) ListProposals(ctx context.Context, filter domain.ProposalFilter) ([]*models.Proposal, error) {
	var result []*models.Proposal
	for _, p := range t.cur.proposals {
		if filter.Matches(p) {
			result = append(result, p.Clone())
		}
	}
	return result, nil
}

// GetVote retrieves the vote of voter on a proposal
func (t *txn) GetVote(ctx context.Context, proposalID uint64, voter common.Address) (*models.Vote, error) {
	v, ok := t.cur.votes[voteKey(proposalID, voter)]
	if !ok {
		return nil, fmt.Errorf("vote of %s on proposal %d: %w", voter.Hex(), proposalID, domain.ErrNotFound)
	}
	return v.Clone(), nil
}

// ListVotes retrieves every vote cast on a proposal
func (t *txn) ListVotes(ctx context.Context, proposalID uint64) ([]*models.Vote, error) {
	var result []*models.Vote
	for _, v := range t.cur.votes {
		if v.ProposalID == proposalID {
			result = append(result, v.Clone())
		}
	}
	return result, nil
}

// GetAsset retrieves a managed asset
func (t *txn) GetAsset(ctx context.Context, id common.Address) (*models.Asset, error) {
	a, ok := t.cur.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id.Hex(), domain.ErrNotFound)
	}
	return a.Clone(), nil
}

// ListAssets returns all managed assets
func (t *txn) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	result := make([]*models.Asset, 0, len(t.cur.assets))
	for _, a := range t.cur.assets {
		result = append(result, a.Clone())
	}
	return result, nil
}

// GetFeed retrieves the feed registration of an asset
func (t *txn) GetFeed(ctx context.Context, asset common.Address) (*models.PriceFeed, error) {
	f, ok := t.cur.feeds[asset]
	if !ok {
		return nil, fmt.Errorf("feed for %s: %w", asset.Hex(), domain.ErrNotFound)
	}
	return f.Clone(), nil
}

// ListFeeds returns all feed registrations
func (t *txn) ListFeeds(ctx context.Context) ([]*models.PriceFeed, error) {
	result := make([]*models.PriceFeed, 0, len(t.cur.feeds))
	for _, f := range t.cur.feeds {
		result = append(result, f.Clone())
	}
	return result, nil
}

// GetRewardRecord retrieves the reward record of recipient on a proposal
func (t *txn) GetRewardRecord(ctx context.Context, proposalID uint64, recipient common.Address) (*models.RewardRecord, error) {
	r, ok := t.cur.rewards[voteKey(proposalID, recipient)]
	if !ok {
		return nil, fmt.Errorf("reward of %s on proposal %d: %w", recipient.Hex(), proposalID, domain.ErrNotFound)
	}
	return r.Clone(), nil
}

// ListRewardRecords retrieves every reward record of a proposal
func (t *txn) ListRewardRecords(ctx context.Context, proposalID uint64) ([]*models.RewardRecord, error) {
	var result []*models.RewardRecord
	for _, r := range t.cur.rewards {
		if r.ProposalID == proposalID {
			result = append(result, r.Clone())
		}
	}
	return result, nil
}

// LastRewardAt returns when recipient was last processed, nil if never
func (t *txn) LastRewardAt(ctx context.Context, recipient common.Address) (*time.Time, error) {
	at, ok := t.cur.cooldowns[recipient]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

// GetRewardConfig returns the persisted reward config
func (t *txn) GetRewardConfig(ctx context.Context) (*models.RewardConfig, error) {
	if t.cur.rewardConfig == nil {
		return nil, fmt.Errorf("reward config: %w", domain.ErrNotFound)
	}
	return t.cur.rewardConfig.Clone(), nil
}

// NextProposalID allocates the next proposal ID, starting at 1
func (t *txn) NextProposalID(ctx context.Context) (uint64, error) {
	t.touch(tableMeta)
	t.cur.meta.LastProposalID++
	return t.cur.meta.LastProposalID, nil
}

// SaveProposal stores a proposal
func (t *txn) SaveProposal(ctx context.Context, proposal *models.Proposal) error {
	t.touch(tableProposals)
	t.cur.proposals[proposal.ID] = proposal.Clone()
	return nil
}

// SaveVote stores a vote
func (t *txn) SaveVote(ctx context.Context, vote *models.Vote) error {
	t.touch(tableVotes)
	t.cur.votes[voteKey(vote.ProposalID, vote.Voter)] = vote.Clone()
	return nil
}

// SaveAsset stores a managed asset
func (t *txn) SaveAsset(ctx context.Context, asset *models.Asset) error {
	t.touch(tableAssets)
	t.cur.assets[asset.ID] = asset.Clone()
	return nil
}

// SaveFeed stores a feed registration
func (t *txn) SaveFeed(ctx context.Context, feed *models.PriceFeed) error {
	t.touch(tableFeeds)
	t.cur.feeds[feed.Asset] = feed.Clone()
	return nil
}

// DeleteFeed removes a feed registration
func (t *txn) DeleteFeed(ctx context.Context, asset common.Address) error {
	if _, ok := t.cur.feeds[asset]; !ok {
		return fmt.Errorf("feed for %s: %w", asset.Hex(), domain.ErrNotFound)
	}
	t.touch(tableFeeds)
	delete(t.cur.feeds, asset)
	return nil
}

// SaveRewardRecord stores a reward record
func (t *txn) SaveRewardRecord(ctx context.Context, record *models.RewardRecord) error {
	t.touch(tableRewards)
	t.cur.rewards[voteKey(record.ProposalID, record.Recipient)] = record.Clone()
	return nil
}

// SetLastRewardAt records when recipient was last processed
func (t *txn) SetLastRewardAt(ctx context.Context, recipient common.Address, at time.Time) error {
	t.touch(tableCooldowns)
	t.cur.cooldowns[recipient] = at
	return nil
}

// SaveRewardConfig replaces the reward config
func (t *txn) SaveRewardConfig(ctx context.Context, cfg *models.RewardConfig) error {
	t.touch(tableRewardConfig)
	t.cur.rewardConfig = cfg.Clone()
	return nil
}

// OnRollback registers a compensation for an external side effect
func (t *txn) OnRollback(fn func(ctx context.Context) error) {
	t.hooks = append(t.hooks, fn)
}

var _ usecase.Tx = (*txn)(nil)
