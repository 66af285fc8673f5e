package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

const (
	MetaFile         = "meta.json"
	ProposalsFile    = "proposals.json"
	VotesFile        = "votes.json"
	AssetsFile       = "assets.json"
	RewardsFile      = "rewards.json"
	CooldownsFile    = "cooldowns.json"
	RewardConfigFile = "reward-config.json"
	FeedsFile        = "feeds.json"
)

// table identifies one persisted file
type table int

const (
	tableMeta table = iota
	tableProposals
	tableVotes
	tableAssets
	tableRewards
	tableCooldowns
	tableRewardConfig
	tableFeeds
)

var tableFiles = map[table]string{
	tableMeta:         MetaFile,
	tableProposals:    ProposalsFile,
	tableVotes:        VotesFile,
	tableAssets:       AssetsFile,
	tableRewards:      RewardsFile,
	tableCooldowns:    CooldownsFile,
	tableRewardConfig: RewardConfigFile,
	tableFeeds:        FeedsFile,
}

// meta holds store-wide counters
type meta struct {
	Version        string `json:"version"`
	LastProposalID uint64 `json:"lastProposalId"`
}

// tables is one immutable generation of the governance state. Entries are
// never mutated in place: writers replace them with clones.
type tables struct {
	meta         meta
	proposals    map[uint64]*models.Proposal
	votes        map[string]*models.Vote
	assets       map[common.Address]*models.Asset
	rewards      map[string]*models.RewardRecord
	cooldowns    map[common.Address]time.Time
	rewardConfig *models.RewardConfig
	feeds        map[common.Address]*models.PriceFeed
}

func emptyTables() *tables {
	return &tables{
		meta:      meta{Version: "1.0.0"},
		proposals: make(map[uint64]*models.Proposal),
		votes:     make(map[string]*models.Vote),
		assets:    make(map[common.Address]*models.Asset),
		rewards:   make(map[string]*models.RewardRecord),
		cooldowns: make(map[common.Address]time.Time),
		feeds:     make(map[common.Address]*models.PriceFeed),
	}
}

// FileRepository stores the governance state in json files, one per table,
// under the data directory
type FileRepository struct {
	dir  string
	log  *slog.Logger
	mu   sync.RWMutex
	data *tables
}

// NewFileRepository opens the state store in the configured data directory
func NewFileRepository(cfg *config.RuntimeConfig, log *slog.Logger) (*FileRepository, error) {
	return Open(filepath.Join(cfg.DataDir, "state"), log)
}

// Open loads the state store rooted at dir, creating the directory if needed
func Open(dir string, log *slog.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	r := &FileRepository{
		dir:  dir,
		log:  log,
		data: emptyTables(),
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return r, nil
}

// load reads all table files
func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	targets := map[table]any{
		tableMeta:         &r.data.meta,
		tableProposals:    &r.data.proposals,
		tableVotes:        &r.data.votes,
		tableAssets:       &r.data.assets,
		tableRewards:      &r.data.rewards,
		tableCooldowns:    &r.data.cooldowns,
		tableRewardConfig: &r.data.rewardConfig,
		tableFeeds:        &r.data.feeds,
	}
	for t, v := range targets {
		if err := r.loadFile(tableFiles[t], v); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", tableFiles[t], err)
		}
	}

	// A file holding "null" decodes to a nil map
	if r.data.proposals == nil {
		r.data.proposals = make(map[uint64]*models.Proposal)
	}
	if r.data.votes == nil {
		r.data.votes = make(map[string]*models.Vote)
	}
	if r.data.assets == nil {
		r.data.assets = make(map[common.Address]*models.Asset)
	}
	if r.data.rewards == nil {
		r.data.rewards = make(map[string]*models.RewardRecord)
	}
	if r.data.cooldowns == nil {
		r.data.cooldowns = make(map[common.Address]time.Time)
	}
	if r.data.feeds == nil {
		r.data.feeds = make(map[common.Address]*models.PriceFeed)
	}
	return nil
}

// loadFile loads a JSON file from the state directory
func (r *FileRepository) loadFile(filename string, v any) error {
	data, err := os.ReadFile(filepath.Join(r.dir, filename))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// tableValue returns the value persisted for t in generation d
func tableValue(d *tables, t table) any {
	switch t {
	case tableMeta:
		return d.meta
	case tableProposals:
		return d.proposals
	case tableVotes:
		return d.votes
	case tableAssets:
		return d.assets
	case tableRewards:
		return d.rewards
	case tableCooldowns:
		return d.cooldowns
	case tableRewardConfig:
		return d.rewardConfig
	default:
		return d.feeds
	}
}

// save writes the dirty tables of d. Every file is staged to a temp file
// before any is renamed into place.
func (r *FileRepository) save(d *tables, dirty map[table]bool) error {
	staged := make(map[string]string, len(dirty))
	defer func() {
		for tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()

	for t := range dirty {
		path := filepath.Join(r.dir, tableFiles[t])
		data, err := json.MarshalIndent(tableValue(d, t), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", tableFiles[t], err)
		}

		// Write to temp file first
		tmpPath := path + ".tmp"
		if err := os.WriteFile(tmpPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", tableFiles[t], err)
		}
		staged[tmpPath] = path
	}

	for tmpPath, path := range staged {
		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
		}
		delete(staged, tmpPath)
	}
	return nil
}

// View runs fn against the current generation under the read lock
func (r *FileRepository) View(ctx context.Context, fn func(tx usecase.ReadTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return fn(newTxn(r.data))
}

// Update runs fn in a staged transaction under the write lock. The staged
// generation replaces the current one only when fn succeeds and every
// dirty table is on disk; otherwise the rollback hooks run in reverse.
func (r *FileRepository) Update(ctx context.Context, fn func(tx usecase.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx := newTxn(r.data)
	if err := fn(tx); err != nil {
		r.rollback(ctx, tx)
		return err
	}

	if len(tx.dirty) > 0 {
		if err := r.save(tx.cur, tx.dirty); err != nil {
			r.rollback(ctx, tx)
			return fmt.Errorf("failed to commit state: %w", err)
		}
	}
	r.data = tx.cur
	return nil
}

// rollback runs the compensations of tx in reverse registration order
func (r *FileRepository) rollback(ctx context.Context, tx *txn) {
	// Compensations must run even when the caller's context is canceled
	ctx = context.WithoutCancel(ctx)
	for i := len(tx.hooks) - 1; i >= 0; i-- {
		if err := tx.hooks[i](ctx); err != nil {
			r.log.Error("rollback compensation failed", "step", i, "error", err)
		}
	}
}

// Ensure FileRepository implements StateStore
var _ usecase.StateStore = (*FileRepository)(nil)
