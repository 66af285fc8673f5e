package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ProposalReader is the read-only proposal query surface. The reward engine
// depends on this and nothing else of the governance state.
type ProposalReader interface {
	GetProposal(ctx context.Context, id uint64) (*models.Proposal, error)
	ListProposals(ctx context.Context, filter domain.ProposalFilter) ([]*models.Proposal, error)
	GetVote(ctx context.Context, proposalID uint64, voter common.Address) (*models.Vote, error)
	ListVotes(ctx context.Context, proposalID uint64) ([]*models.Vote, error)
}

// ProposalWriter persists proposals and votes
type ProposalWriter interface {
	NextProposalID(ctx context.Context) (uint64, error)
	SaveProposal(ctx context.Context, proposal *models.Proposal) error
	SaveVote(ctx context.Context, vote *models.Vote) error
}

// AssetReader reads managed assets
type AssetReader interface {
	GetAsset(ctx context.Context, id common.Address) (*models.Asset, error)
	ListAssets(ctx context.Context) ([]*models.Asset, error)
}

// AssetWriter persists managed assets
type AssetWriter interface {
	SaveAsset(ctx context.Context, asset *models.Asset) error
}

// FeedReader reads price feed registrations
type FeedReader interface {
	GetFeed(ctx context.Context, asset common.Address) (*models.PriceFeed, error)
	ListFeeds(ctx context.Context) ([]*models.PriceFeed, error)
}

// FeedWriter persists price feed registrations
type FeedWriter interface {
	SaveFeed(ctx context.Context, feed *models.PriceFeed) error
	DeleteFeed(ctx context.Context, asset common.Address) error
}

// RewardReader reads reward records, cooldowns and the reward config
type RewardReader interface {
	GetRewardRecord(ctx context.Context, proposalID uint64, recipient common.Address) (*models.RewardRecord, error)
	ListRewardRecords(ctx context.Context, proposalID uint64) ([]*models.RewardRecord, error)
	LastRewardAt(ctx context.Context, recipient common.Address) (*time.Time, error)
	GetRewardConfig(ctx context.Context) (*models.RewardConfig, error)
}

// RewardWriter persists reward records, cooldowns and the reward config
type RewardWriter interface {
	SaveRewardRecord(ctx context.Context, record *models.RewardRecord) error
	SetLastRewardAt(ctx context.Context, recipient common.Address, at time.Time) error
	SaveRewardConfig(ctx context.Context, cfg *models.RewardConfig) error
}

// ReadTx is a consistent read-only view of the governance state
type ReadTx interface {
	ProposalReader
	AssetReader
	FeedReader
	RewardReader
}

// Tx is a staged write transaction. Writes become visible only when the
// function passed to StateStore.Update returns nil and the commit succeeds.
type Tx interface {
	ReadTx
	ProposalWriter
	AssetWriter
	FeedWriter
	RewardWriter

	// OnRollback registers a compensation for an external side effect. Hooks
	// run in reverse order when the transaction does not commit.
	OnRollback(fn func(ctx context.Context) error)
}

// StateStore serializes all governance state access
type StateStore interface {
	View(ctx context.Context, fn func(tx ReadTx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
}

// Ledger is the external token balance and transfer service
type Ledger interface {
	BalanceOf(ctx context.Context, principal common.Address, token models.TokenKind) (*big.Int, error)
	Transfer(ctx context.Context, from, to common.Address, amount *big.Int, token models.TokenKind) error
	Mint(ctx context.Context, to common.Address, amount *big.Int, token models.TokenKind) error
	Burn(ctx context.Context, from common.Address, amount *big.Int, token models.TokenKind) error
}

// Identity is the external principal registry
type Identity interface {
	IsAutomatedAgent(ctx context.Context, principal common.Address) (bool, error)
	StakeWeight(ctx context.Context, principal, asset common.Address) (*big.Int, error)
}

// RoleChecker is the external administrative role service
type RoleChecker interface {
	HasRole(ctx context.Context, principal common.Address, role domain.Role) (bool, error)
}

// PriceSource reads the latest round from a primary price feed
type PriceSource interface {
	LatestRound(ctx context.Context, source common.Address) (*models.Round, error)
}

// RoundPublisher appends rounds to a locally operated price source
type RoundPublisher interface {
	PublishRound(ctx context.Context, source common.Address, round *models.Round) error
}

// Clock supplies the current time for every time predicate
type Clock interface {
	Now() time.Time
}

// Metrics receives operational measurements
type Metrics interface {
	PriceQuoted(asset common.Address, source models.PriceSource)
	PriceFailed(asset common.Address, reason string)
	ProposalTransitioned(state models.ProposalState)
	VoteCast(support bool)
	RewardDistributed(outcome models.Outcome, amount *big.Int)
}

// NopMetrics is a no-op implementation of Metrics
type NopMetrics struct{}

func (NopMetrics) PriceQuoted(common.Address, models.PriceSource) {}
func (NopMetrics) PriceFailed(common.Address, string)             {}
func (NopMetrics) ProposalTransitioned(models.ProposalState)      {}
func (NopMetrics) VoteCast(bool)                                  {}
func (NopMetrics) RewardDistributed(models.Outcome, *big.Int)     {}

// PriceOracle is the query surface of the oracle used by the state machine
// and the reward engine
type PriceOracle interface {
	GetAssetPrice(ctx context.Context, asset common.Address) (*models.PriceQuote, error)
}

// AssetSelector lets an operator pick an asset when none was named
type AssetSelector interface {
	SelectAsset(ctx context.Context, assets []*models.Asset, prompt string) (*models.Asset, error)
}
