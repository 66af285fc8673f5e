package usecase_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/dloop-protocol/dloop/internal/adapters/identity"
	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// rewardReady executes the standard proposal at $1000, funds the reward
// pool and moves past the evaluation window
func rewardReady(t *testing.T) (*fixture, *models.Proposal) {
	t.Helper()
	f := newFixture(t)
	f.seedAsset()
	f.seedFeed()
	p := f.executedProposal(1000)
	f.fund(pool, whole(10_000), models.TokenReward)
	f.clock.Advance(f.cfg.Governance.EvaluationWindow)
	return f, p
}

func (f *fixture) distribute(recipient common.Address, id uint64) (*models.RewardRecord, error) {
	return f.distributor(f.ledger).Run(f.ctx, usecase.DistributeRewardParams{
		Caller:     distributor,
		Recipient:  recipient,
		ProposalID: id,
	})
}

func (f *fixture) hasRecord(id uint64, recipient common.Address) bool {
	f.t.Helper()
	err := f.store.View(f.ctx, func(tx usecase.ReadTx) error {
		_, err := tx.GetRewardRecord(f.ctx, id, recipient)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return false
	}
	require.NoError(f.t, err)
	return true
}

func TestDistributeReward(t *testing.T) {
	t.Run("good decision is paid from the pool", func(t *testing.T) {
		f, p := rewardReady(t)
		f.quote(1100, time.Minute)

		record, err := f.distribute(alice, p.ID)
		require.NoError(t, err)

		assert.Equal(t, models.OutcomeGoodDecision, record.Outcome)
		assert.True(t, record.Support)
		assert.Equal(t, whole(144).String(), record.Amount.String())
		assert.Equal(t, whole(1000).String(), record.StartPrice.String())
		assert.Equal(t, whole(1100).String(), record.EndPrice.String())
		assert.NotEmpty(t, record.ID)

		assert.Equal(t, whole(144).String(), f.balance(alice, models.TokenReward).String())
		assert.Equal(t, whole(10_000-144).String(), f.balance(pool, models.TokenReward).String())
		assert.True(t, f.hasRecord(p.ID, alice))
	})

	t.Run("automated agent multiplier", func(t *testing.T) {
		f, p := rewardReady(t)
		f.cfg.Agents = []common.Address{alice}
		f.identity = identity.NewRegistry(f.cfg, f.store)
		f.quote(1100, time.Minute)

		record, err := f.distribute(alice, p.ID)
		require.NoError(t, err)
		// 144 * 1.1
		assert.Equal(t, "158400000000000000000", record.Amount.String())
	})

	t.Run("bad decision is recorded without payout", func(t *testing.T) {
		f, p := rewardReady(t)
		f.quote(900, time.Minute)

		record, err := f.distribute(alice, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeBadDecision, record.Outcome)
		assert.Zero(t, record.Amount.Sign())
		assert.Zero(t, f.balance(alice, models.TokenReward).Sign())
		assert.Equal(t, whole(10_000).String(), f.balance(pool, models.TokenReward).String())

		_, err = f.distribute(alice, p.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyRewarded)
	})

	t.Run("no vote on a falling price is a good decision", func(t *testing.T) {
		f, p := rewardReady(t)
		f.quote(900, time.Minute)

		record, err := f.distribute(bob, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeGoodDecision, record.Outcome)
		assert.False(t, record.Support)
		assert.Equal(t, whole(144).String(), record.Amount.String())
	})

	t.Run("unchanged price", func(t *testing.T) {
		f, p := rewardReady(t)
		f.quote(1000, time.Minute)

		record, err := f.distribute(alice, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeNoChange, record.Outcome)
		assert.Zero(t, record.Amount.Sign())
	})

	t.Run("paid exactly once", func(t *testing.T) {
		f, p := rewardReady(t)
		f.quote(1100, time.Minute)

		_, err := f.distribute(alice, p.ID)
		require.NoError(t, err)
		f.clock.Advance(48 * time.Hour)

		_, err = f.distribute(alice, p.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyRewarded)
		assert.Equal(t, whole(144).String(), f.balance(alice, models.TokenReward).String())
	})

	t.Run("not eligible during the evaluation window", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()
		f.seedFeed()
		p := f.executedProposal(1000)
		f.clock.Advance(f.cfg.Governance.EvaluationWindow - time.Second)

		_, err := f.distribute(alice, p.ID)
		assert.ErrorIs(t, err, domain.ErrNotRewardEligible)
		assert.Contains(t, err.Error(), "evaluation_window")
	})

	t.Run("not eligible before execution", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()
		p := f.passedProposal()

		_, err := f.distribute(alice, p.ID)
		assert.ErrorIs(t, err, domain.ErrNotRewardEligible)
	})

	t.Run("caller needs the distributor role", func(t *testing.T) {
		f, p := rewardReady(t)

		_, err := f.distributor(f.ledger).Run(f.ctx, usecase.DistributeRewardParams{
			Caller: alice, Recipient: alice, ProposalID: p.ID,
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("recipient must have participated", func(t *testing.T) {
		f, p := rewardReady(t)

		_, err := f.distribute(carol, p.ID)
		assert.ErrorIs(t, err, domain.ErrNotParticipant)
	})

	t.Run("proposer without a vote counts as yes", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()
		f.seedFeed()
		p := f.submit()
		f.vote(p.ID, bob, true)
		f.vote(p.ID, carol, true)
		f.clock.Advance(f.cfg.Governance.VotingPeriod)
		_, err := f.finalizer().Run(f.ctx, usecase.FinalizeProposalParams{ProposalID: p.ID})
		require.NoError(t, err)
		f.fund(treasury, big.NewInt(1_000_000), "USDC")
		f.quote(1000, time.Minute)
		_, err = f.executor(f.ledger).Run(f.ctx, usecase.ExecuteProposalParams{Caller: admin, ProposalID: p.ID})
		require.NoError(t, err)
		f.fund(pool, whole(10_000), models.TokenReward)
		f.clock.Advance(f.cfg.Governance.EvaluationWindow)
		f.quote(1100, time.Minute)

		record, err := f.distribute(alice, p.ID)
		require.NoError(t, err)
		assert.True(t, record.Support)
		// 80 of 200 cast misses the participation bonus, 80 of 80 earns the quality multiplier
		assert.Equal(t, whole(120).String(), record.Amount.String())
	})

	t.Run("cooldown spans proposals", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()
		f.seedFeed()
		first, second := f.submit(), f.submit()
		for _, id := range []uint64{first.ID, second.ID} {
			f.vote(id, alice, true)
			f.vote(id, bob, false)
		}
		f.clock.Advance(f.cfg.Governance.VotingPeriod)
		f.fund(treasury, big.NewInt(1_000_000), "USDC")
		f.fund(pool, whole(10_000), models.TokenReward)
		f.quote(1000, time.Minute)
		for _, id := range []uint64{first.ID, second.ID} {
			_, err := f.finalizer().Run(f.ctx, usecase.FinalizeProposalParams{ProposalID: id})
			require.NoError(t, err)
			_, err = f.executor(f.ledger).Run(f.ctx, usecase.ExecuteProposalParams{Caller: admin, ProposalID: id})
			require.NoError(t, err)
		}
		f.clock.Advance(f.cfg.Governance.EvaluationWindow)
		f.quote(1100, time.Minute)

		_, err := f.distribute(alice, first.ID)
		require.NoError(t, err)

		_, err = f.distribute(alice, second.ID)
		assert.ErrorIs(t, err, domain.ErrCooldownActive)
		assert.False(t, f.hasRecord(second.ID, alice))

		f.clock.Advance(24 * time.Hour)
		f.quote(1100, time.Minute)
		_, err = f.distribute(alice, second.ID)
		require.NoError(t, err)
	})

	t.Run("stale price without fallback writes nothing", func(t *testing.T) {
		f, p := rewardReady(t)
		f.quote(1100, 2*time.Hour)

		_, err := f.distribute(alice, p.ID)
		assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
		assert.Equal(t, domain.KindOracle, domain.KindOf(err))
		assert.False(t, f.hasRecord(p.ID, alice))
	})

	t.Run("insufficient pool", func(t *testing.T) {
		f := newFixture(t)
		f.seedAsset()
		f.seedFeed()
		p := f.executedProposal(1000)
		f.fund(pool, whole(10), models.TokenReward)
		f.clock.Advance(f.cfg.Governance.EvaluationWindow)
		f.quote(1100, time.Minute)

		_, err := f.distribute(alice, p.ID)
		assert.ErrorIs(t, err, domain.ErrInsufficientRewardPool)
		assert.False(t, f.hasRecord(p.ID, alice))

		// the failed attempt does not start a cooldown
		f.fund(pool, whole(1_000), models.TokenReward)
		_, err = f.distribute(alice, p.ID)
		require.NoError(t, err)
	})

	t.Run("pool not configured", func(t *testing.T) {
		f, p := rewardReady(t)
		f.cfg.Reward.Pool = common.Address{}
		f.quote(1100, time.Minute)

		_, err := f.distribute(alice, p.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
		assert.Contains(t, err.Error(), "reward.pool")
	})

	t.Run("mint mode issues new tokens", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Reward.Mint = true
		f.seedAsset()
		f.seedFeed()
		p := f.executedProposal(1000)
		f.clock.Advance(f.cfg.Governance.EvaluationWindow)
		f.quote(1100, time.Minute)

		_, err := f.distribute(alice, p.ID)
		require.NoError(t, err)
		assert.Equal(t, whole(144).String(), f.balance(alice, models.TokenReward).String())
		assert.Zero(t, f.balance(pool, models.TokenReward).Sign())
	})

	t.Run("failed payout leaves no record", func(t *testing.T) {
		f, p := rewardReady(t)
		f.quote(1100, time.Minute)

		l := new(MockLedger)
		l.On("BalanceOf", mock.Anything, pool, models.TokenReward).Return(whole(10_000), nil)
		l.On("Transfer", mock.Anything, pool, alice, mock.MatchedBy(func(amount *big.Int) bool {
			return amount.Cmp(whole(144)) == 0
		}), models.TokenReward).Return(errors.New("ledger offline"))

		_, err := f.distributor(l).Run(f.ctx, usecase.DistributeRewardParams{
			Caller: distributor, Recipient: alice, ProposalID: p.ID,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ledger offline")
		l.AssertExpectations(t)
		assert.False(t, f.hasRecord(p.ID, alice))
	})

	t.Run("reward config updates apply", func(t *testing.T) {
		f, p := rewardReady(t)
		cfg := defaultRewardConfig()
		cfg.RewardCap = whole(130)
		_, err := usecase.NewUpdateRewardConfig(f.cfg, f.store, f.roles, f.clock, f.log).Run(f.ctx,
			usecase.UpdateRewardConfigParams{Caller: admin, Config: &cfg})
		require.NoError(t, err)
		f.quote(1100, time.Minute)

		record, err := f.distribute(alice, p.ID)
		require.NoError(t, err)
		assert.Equal(t, whole(130).String(), record.Amount.String())
	})
}
