package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/dloop-protocol/dloop/internal/adapters/identity"
	"github.com/dloop-protocol/dloop/internal/adapters/ledger"
	"github.com/dloop-protocol/dloop/internal/adapters/repository/state"
	"github.com/dloop-protocol/dloop/internal/adapters/roles"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	admin       = common.HexToAddress("0xa1")
	oracleAdmin = common.HexToAddress("0xa2")
	distributor = common.HexToAddress("0xa3")
	alice       = common.HexToAddress("0xb1")
	bob         = common.HexToAddress("0xb2")
	carol       = common.HexToAddress("0xb3")
	agent       = common.HexToAddress("0xb4")
	outsider    = common.HexToAddress("0xbf")
	weth        = common.HexToAddress("0xe1")
	vault       = common.HexToAddress("0xc1")
	treasury    = common.HexToAddress("0xd1")
	feeSink     = common.HexToAddress("0xd2")
	pool        = common.HexToAddress("0xd3")
	feedSource  = common.HexToAddress("0xf1")

	t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// whole returns n tokens at 18 decimals
func whole(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// usd8 returns an 8-decimal feed answer for n dollars
func usd8(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e8))
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// MockPriceSource is a mock implementation of PriceSource
type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) LatestRound(ctx context.Context, source common.Address) (*models.Round, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

// MockLedger is a mock implementation of Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) BalanceOf(ctx context.Context, principal common.Address, token models.TokenKind) (*big.Int, error) {
	args := m.Called(ctx, principal, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockLedger) Transfer(ctx context.Context, from, to common.Address, amount *big.Int, token models.TokenKind) error {
	return m.Called(ctx, from, to, amount, token).Error(0)
}

func (m *MockLedger) Mint(ctx context.Context, to common.Address, amount *big.Int, token models.TokenKind) error {
	return m.Called(ctx, to, amount, token).Error(0)
}

func (m *MockLedger) Burn(ctx context.Context, from common.Address, amount *big.Int, token models.TokenKind) error {
	return m.Called(ctx, from, amount, token).Error(0)
}

// fixture wires the use cases over a real state store and ledger in a
// temporary directory
type fixture struct {
	t        *testing.T
	ctx      context.Context
	cfg      *config.RuntimeConfig
	store    *state.FileRepository
	ledger   *ledger.FileLedger
	identity *identity.Registry
	roles    *roles.StaticRoles
	source   *MockPriceSource
	clock    *fakeClock
	inFlight *usecase.InFlight
	log      *slog.Logger
}

func defaultRewardConfig() models.RewardConfig {
	return models.RewardConfig{
		BaseReward:                    whole(100),
		ParticipationBonusThresholdBp: 5000,
		ParticipationBonusRateBp:      2000,
		QualityMultiplierThresholdBp:  7000,
		QualityMultiplierRateBp:       12000,
		AINodeMultiplierRateBp:        11000,
		RewardCap:                     whole(1000),
		Cooldown:                      24 * time.Hour,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.RuntimeConfig{
		ProjectRoot: dir,
		DataDir:     dir,
		Governance: config.GovernanceConfig{
			QuorumBp:         3000,
			VotingPeriod:     72 * time.Hour,
			EvaluationWindow: 7 * 24 * time.Hour,
			Treasury:         treasury,
			FeeCollector:     feeSink,
			InvestFeeBp:      50,
			DivestFeeBp:      50,
			FundingToken:     "USDC",
		},
		Reward: config.RewardSettings{
			Pool:     pool,
			Defaults: defaultRewardConfig(),
		},
		Roles: map[string][]common.Address{
			"admin":              {admin},
			"oracle_admin":       {oracleAdmin},
			"reward_distributor": {distributor},
		},
		Agents:     []common.Address{agent},
		LedgerFile: filepath.Join(dir, "ledger.json"),
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := state.Open(filepath.Join(dir, "state"), log)
	require.NoError(t, err)

	return &fixture{
		t:        t,
		ctx:      context.Background(),
		cfg:      cfg,
		store:    store,
		ledger:   ledger.NewFileLedger(cfg, log),
		identity: identity.NewRegistry(cfg, store),
		roles:    roles.NewStaticRoles(cfg),
		source:   new(MockPriceSource),
		clock:    &fakeClock{now: t0},
		inFlight: usecase.NewInFlight(),
		log:      log,
	}
}

func (f *fixture) oracle() *usecase.AssetPriceOracle {
	return usecase.NewAssetPriceOracle(f.cfg, f.store, f.source, f.clock, usecase.NopMetrics{}, f.log)
}

func (f *fixture) submitter() *usecase.SubmitProposal {
	return usecase.NewSubmitProposal(f.cfg, f.store, f.identity, f.clock, usecase.NopMetrics{}, f.log)
}

func (f *fixture) voter() *usecase.CastVote {
	return usecase.NewCastVote(f.store, f.identity, f.clock, usecase.NopMetrics{}, f.log)
}

func (f *fixture) finalizer() *usecase.FinalizeProposal {
	return usecase.NewFinalizeProposal(f.cfg, f.store, f.clock, usecase.NopMetrics{}, f.log)
}

func (f *fixture) executor(l usecase.Ledger) *usecase.ExecuteProposal {
	return usecase.NewExecuteProposal(f.cfg, f.store, f.oracle(), l, f.roles, f.clock, usecase.NopMetrics{}, f.inFlight, f.log)
}

func (f *fixture) distributor(l usecase.Ledger) *usecase.DistributeReward {
	return usecase.NewDistributeReward(f.cfg, f.store, f.oracle(), l, f.identity, f.roles, f.clock, usecase.NopMetrics{}, f.inFlight, f.log)
}

// seedAsset registers WETH with shares alice 120, bob 30, carol 50
func (f *fixture) seedAsset() {
	f.t.Helper()
	_, err := usecase.NewRegisterAsset(f.store, f.roles, f.clock, f.log).Run(f.ctx, usecase.RegisterAssetParams{
		Caller:    admin,
		ID:        weth,
		Symbol:    "weth",
		Name:      "Wrapped Ether",
		Custodian: vault,
	})
	require.NoError(f.t, err)

	issue := usecase.NewIssueShares(f.store, f.roles, f.clock, f.log)
	for holder, shares := range map[common.Address]int64{alice: 120, bob: 30, carol: 50} {
		_, err := issue.Run(f.ctx, usecase.IssueSharesParams{Caller: admin, Asset: weth, Principal: holder, Amount: big.NewInt(shares)})
		require.NoError(f.t, err)
	}
}

// seedFeed registers an 8-decimal primary source with a one hour threshold
func (f *fixture) seedFeed() {
	f.t.Helper()
	_, err := usecase.NewSetFeed(f.store, f.roles, f.clock, f.log).Run(f.ctx, usecase.SetFeedParams{
		Caller:             oracleAdmin,
		Asset:              weth,
		Source:             feedSource,
		Decimals:           8,
		StalenessThreshold: time.Hour,
		Heartbeat:          time.Hour,
		ReliabilityBp:      9500,
	})
	require.NoError(f.t, err)
}

// quote makes the primary source answer price dollars, updated age ago.
// Earlier expectations are replaced.
func (f *fixture) quote(price int64, age time.Duration) {
	f.source.ExpectedCalls = nil
	f.source.On("LatestRound", mock.Anything, feedSource).Return(&models.Round{
		RoundID:   big.NewInt(1),
		Answer:    usd8(price),
		Decimals:  8,
		UpdatedAt: f.clock.Now().Add(-age),
	}, nil)
}

func (f *fixture) fund(holder common.Address, amount *big.Int, token models.TokenKind) {
	f.t.Helper()
	require.NoError(f.t, f.ledger.Mint(f.ctx, holder, amount, token))
}

func (f *fixture) balance(holder common.Address, token models.TokenKind) *big.Int {
	f.t.Helper()
	b, err := f.ledger.BalanceOf(f.ctx, holder, token)
	require.NoError(f.t, err)
	return b
}

func (f *fixture) proposal(id uint64) *models.Proposal {
	f.t.Helper()
	var p *models.Proposal
	require.NoError(f.t, f.store.View(f.ctx, func(tx usecase.ReadTx) error {
		var err error
		p, err = tx.GetProposal(f.ctx, id)
		return err
	}))
	return p
}

// submit creates an invest proposal for 10000 funding units by alice
func (f *fixture) submit() *models.Proposal {
	f.t.Helper()
	p, err := f.submitter().Run(f.ctx, usecase.SubmitProposalParams{
		Proposer: alice,
		Kind:     models.ProposalKindInvest,
		Asset:    weth,
		Amount:   big.NewInt(10_000),
	})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) vote(id uint64, voter common.Address, support bool) {
	f.t.Helper()
	_, err := f.voter().Run(f.ctx, usecase.CastVoteParams{Voter: voter, ProposalID: id, Support: support})
	require.NoError(f.t, err)
}

// passedProposal submits, votes yes 120 / no 30, and finalizes after the deadline
func (f *fixture) passedProposal() *models.Proposal {
	f.t.Helper()
	p := f.submit()
	f.vote(p.ID, alice, true)
	f.vote(p.ID, bob, false)
	f.clock.Advance(f.cfg.Governance.VotingPeriod)
	p, err := f.finalizer().Run(f.ctx, usecase.FinalizeProposalParams{ProposalID: p.ID})
	require.NoError(f.t, err)
	require.Equal(f.t, models.ProposalStatePassed, p.State)
	return p
}

// executedProposal executes a passed proposal at price dollars
func (f *fixture) executedProposal(price int64) *models.Proposal {
	f.t.Helper()
	p := f.passedProposal()
	f.fund(treasury, big.NewInt(1_000_000), "USDC")
	f.quote(price, time.Minute)
	result, err := f.executor(f.ledger).Run(f.ctx, usecase.ExecuteProposalParams{Caller: admin, ProposalID: p.ID})
	require.NoError(f.t, err)
	return result.Proposal
}

func (f *fixture) issue(holder common.Address, shares int64) {
	f.t.Helper()
	_, err := usecase.NewIssueShares(f.store, f.roles, f.clock, f.log).Run(f.ctx, usecase.IssueSharesParams{
		Caller: admin, Asset: weth, Principal: holder, Amount: big.NewInt(shares),
	})
	require.NoError(f.t, err)
}
