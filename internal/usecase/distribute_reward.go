package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// DistributeReward evaluates one participant's decision on an executed
// proposal and pays the merit-based reward
type DistributeReward struct {
	store    StateStore
	oracle   PriceOracle
	ledger   Ledger
	identity Identity
	roles    RoleChecker
	clock    Clock
	metrics  Metrics
	inFlight *InFlight
	log      *slog.Logger
	settings config.RewardSettings
	window   time.Duration
}

// NewDistributeReward creates a new distribute reward use case
func NewDistributeReward(
	cfg *config.RuntimeConfig,
	store StateStore,
	oracle PriceOracle,
	ledger Ledger,
	identity Identity,
	roles RoleChecker,
	clock Clock,
	metrics Metrics,
	inFlight *InFlight,
	log *slog.Logger,
) *DistributeReward {
	return &DistributeReward{
		store:    store,
		oracle:   oracle,
		ledger:   ledger,
		identity: identity,
		roles:    roles,
		clock:    clock,
		metrics:  metrics,
		inFlight: inFlight,
		log:      log,
		settings: cfg.Reward,
		window:   cfg.Governance.EvaluationWindow,
	}
}

// DistributeRewardParams contains parameters for distributing a reward
type DistributeRewardParams struct {
	Caller     common.Address
	Recipient  common.Address
	ProposalID uint64
}

// rewardCandidate is what the preconditions resolve for a recipient
type rewardCandidate struct {
	proposal *models.Proposal
	support  bool
	config   *models.RewardConfig
}

// Run executes the use case. Good decisions are paid; bad decisions and
// unchanged prices are recorded with a zero amount.
func (d *DistributeReward) Run(ctx context.Context, params DistributeRewardParams) (*models.RewardRecord, error) {
	if err := requireRole(ctx, d.roles, params.Caller, domain.RoleRewardDistributor); err != nil {
		return nil, err
	}

	release, err := d.inFlight.Enter(params.ProposalID, "distribute")
	if err != nil {
		return nil, err
	}
	defer release()

	var candidate *rewardCandidate
	if err := d.store.View(ctx, func(tx ReadTx) error {
		var err error
		candidate, err = d.check(ctx, tx, params)
		return err
	}); err != nil {
		return nil, err
	}

	quote, err := d.oracle.GetAssetPrice(ctx, candidate.proposal.Asset)
	if err != nil {
		return nil, fmt.Errorf("failed to price proposal %d: %w", params.ProposalID, err)
	}
	isAgent, err := d.identity.IsAutomatedAgent(ctx, params.Recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to check agent attestation: %w", err)
	}

	var record *models.RewardRecord
	err = d.store.Update(ctx, func(tx Tx) error {
		candidate, err := d.check(ctx, tx, params)
		if err != nil {
			return err
		}
		p := candidate.proposal

		outcome := domain.ClassifyOutcome(p.Kind, candidate.support, p.PriceAtExecution, quote.Price)
		amount := domain.ComputeReward(candidate.config, domain.RewardInputs{
			Outcome:        outcome,
			CastWeight:     p.CastWeight(),
			PossibleWeight: p.TotalPossibleWeight,
			WinningWeight:  p.WinningWeight(),
			IsAgent:        isAgent,
		})

		now := d.clock.Now()
		record = &models.RewardRecord{
			ID:            uuid.NewString(),
			Recipient:     params.Recipient,
			ProposalID:    p.ID,
			Amount:        amount,
			Outcome:       outcome,
			Support:       candidate.support,
			StartPrice:    new(big.Int).Set(p.PriceAtExecution),
			EndPrice:      new(big.Int).Set(quote.Price),
			DistributedAt: now,
		}
		if err := tx.SaveRewardRecord(ctx, record); err != nil {
			return err
		}
		if err := tx.SetLastRewardAt(ctx, params.Recipient, now); err != nil {
			return err
		}
		return d.pay(ctx, tx, params.Recipient, amount)
	})
	if err != nil {
		return nil, err
	}

	d.metrics.RewardDistributed(record.Outcome, record.Amount)
	d.log.Info("reward distributed", "proposal", record.ProposalID, "recipient", record.Recipient.Hex(),
		"outcome", record.Outcome, "amount", record.Amount.String(), "agent", isAgent)
	return record, nil
}

// check resolves the preconditions of a distribution against tx
func (d *DistributeReward) check(ctx context.Context, tx ReadTx, params DistributeRewardParams) (*rewardCandidate, error) {
	proposal, err := tx.GetProposal(ctx, params.ProposalID)
	if err != nil {
		return nil, err
	}
	now := d.clock.Now()
	if phase := proposal.Phase(now, d.window); phase != models.ProposalStateRewardEligible {
		return nil, fmt.Errorf("%w: proposal %d is %s", domain.ErrNotRewardEligible, proposal.ID, phase)
	}
	if proposal.PriceAtExecution == nil {
		return nil, fmt.Errorf("%w: proposal %d has no execution price", domain.ErrNotRewardEligible, proposal.ID)
	}

	if _, err := tx.GetRewardRecord(ctx, proposal.ID, params.Recipient); err == nil {
		return nil, fmt.Errorf("%w: %s on proposal %d", domain.ErrAlreadyRewarded, params.Recipient.Hex(), proposal.ID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	cfg, err := effectiveRewardConfig(ctx, tx, d.settings.Defaults)
	if err != nil {
		return nil, err
	}

	last, err := tx.LastRewardAt(ctx, params.Recipient)
	if err != nil {
		return nil, err
	}
	if last != nil && now.Before(last.Add(cfg.Cooldown)) {
		return nil, fmt.Errorf("%w: %s may be rewarded again at %s", domain.ErrCooldownActive,
			params.Recipient.Hex(), last.Add(cfg.Cooldown).Format(time.RFC3339))
	}

	support, err := participation(ctx, tx, proposal, params.Recipient)
	if err != nil {
		return nil, err
	}
	return &rewardCandidate{proposal: proposal, support: support, config: cfg}, nil
}

// participation returns the recipient's vote. A proposer who did not vote
// counts as voting yes.
func participation(ctx context.Context, tx ReadTx, p *models.Proposal, recipient common.Address) (bool, error) {
	vote, err := tx.GetVote(ctx, p.ID, recipient)
	switch {
	case err == nil:
		return vote.Support, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, err
	case recipient == p.Proposer:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s on proposal %d", domain.ErrNotParticipant, recipient.Hex(), p.ID)
	}
}

// pay moves amount to the recipient from the reward pool, or mints it
func (d *DistributeReward) pay(ctx context.Context, tx Tx, recipient common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}

	if d.settings.Mint {
		if err := d.ledger.Mint(ctx, recipient, amount, models.TokenReward); err != nil {
			return fmt.Errorf("failed to mint reward: %w", err)
		}
		tx.OnRollback(func(ctx context.Context) error {
			return d.ledger.Burn(ctx, recipient, amount, models.TokenReward)
		})
		return nil
	}

	if d.settings.Pool == (common.Address{}) {
		return fmt.Errorf("%w: reward.pool is not configured", domain.ErrInvalidAddress)
	}
	balance, err := d.ledger.BalanceOf(ctx, d.settings.Pool, models.TokenReward)
	if err != nil {
		return fmt.Errorf("failed to read reward pool balance: %w", err)
	}
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: pool holds %s, reward is %s", domain.ErrInsufficientRewardPool,
			balance.String(), amount.String())
	}
	if err := d.ledger.Transfer(ctx, d.settings.Pool, recipient, amount, models.TokenReward); err != nil {
		return fmt.Errorf("failed to pay reward: %w", err)
	}
	tx.OnRollback(func(ctx context.Context) error {
		return d.ledger.Transfer(ctx, recipient, d.settings.Pool, amount, models.TokenReward)
	})
	return nil
}
