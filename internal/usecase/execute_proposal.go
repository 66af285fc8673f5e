package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ExecuteProposal carries out a passed proposal: it records the execution
// price and moves the funds through the ledger
type ExecuteProposal struct {
	store    StateStore
	oracle   PriceOracle
	ledger   Ledger
	roles    RoleChecker
	clock    Clock
	metrics  Metrics
	inFlight *InFlight
	log      *slog.Logger
	cfg      config.GovernanceConfig
}

// NewExecuteProposal creates a new execute proposal use case
func NewExecuteProposal(
	cfg *config.RuntimeConfig,
	store StateStore,
	oracle PriceOracle,
	ledger Ledger,
	roles RoleChecker,
	clock Clock,
	metrics Metrics,
	inFlight *InFlight,
	log *slog.Logger,
) *ExecuteProposal {
	return &ExecuteProposal{
		store:    store,
		oracle:   oracle,
		ledger:   ledger,
		roles:    roles,
		clock:    clock,
		metrics:  metrics,
		inFlight: inFlight,
		log:      log,
		cfg:      cfg.Governance,
	}
}

// ExecuteProposalParams contains parameters for executing a proposal
type ExecuteProposalParams struct {
	Caller     common.Address
	ProposalID uint64
}

// ExecuteProposalResult contains the executed proposal and the transfers made
type ExecuteProposalResult struct {
	Proposal   *models.Proposal
	Transfers  []Transfer
	EligibleAt *time.Time
}

// Transfer is a single ledger movement made during execution
type Transfer struct {
	From   common.Address   `json:"from"`
	To     common.Address   `json:"to"`
	Amount *big.Int         `json:"amount"`
	Token  models.TokenKind `json:"token"`
}

// Run executes the use case
func (e *ExecuteProposal) Run(ctx context.Context, params ExecuteProposalParams) (*ExecuteProposalResult, error) {
	if e.cfg.RestrictedExecution {
		if err := requireRole(ctx, e.roles, params.Caller, domain.RoleExecutor); err != nil {
			return nil, err
		}
	}

	release, err := e.inFlight.Enter(params.ProposalID, "execute")
	if err != nil {
		return nil, err
	}
	defer release()

	var proposal *models.Proposal
	if err := e.store.View(ctx, func(tx ReadTx) error {
		var err error
		proposal, err = loadExecutable(ctx, tx, params.ProposalID)
		return err
	}); err != nil {
		return nil, err
	}
	if err := e.checkAccounts(proposal); err != nil {
		return nil, err
	}

	quote, err := e.oracle.GetAssetPrice(ctx, proposal.Asset)
	if err != nil {
		return nil, fmt.Errorf("failed to price proposal %d: %w", proposal.ID, err)
	}

	result := &ExecuteProposalResult{}
	err = e.store.Update(ctx, func(tx Tx) error {
		proposal, err := loadExecutable(ctx, tx, params.ProposalID)
		if err != nil {
			return err
		}
		asset, err := tx.GetAsset(ctx, proposal.Asset)
		if err != nil {
			return err
		}

		transfers := e.plan(proposal, asset)
		for _, t := range transfers {
			if t.Amount.Sign() == 0 {
				continue
			}
			if err := e.ledger.Transfer(ctx, t.From, t.To, t.Amount, t.Token); err != nil {
				return fmt.Errorf("transfer %s -> %s failed: %w", t.From.Hex(), t.To.Hex(), err)
			}
			tx.OnRollback(func(ctx context.Context) error {
				return e.ledger.Transfer(ctx, t.To, t.From, t.Amount, t.Token)
			})
			result.Transfers = append(result.Transfers, t)
		}

		now := e.clock.Now()
		proposal.State = models.ProposalStateExecuted
		proposal.Executed = true
		proposal.ExecutedAt = &now
		proposal.ExecutedBy = params.Caller.Hex()
		proposal.PriceAtExecution = new(big.Int).Set(quote.Price)
		proposal.PriceSource = quote.Source
		proposal.FeePaid = e.fee(proposal)
		proposal.ExecutionValue = executionValue(proposal.Amount, quote.Price)
		result.Proposal = proposal
		result.EligibleAt = proposal.EligibleAt(e.cfg.EvaluationWindow)
		return tx.SaveProposal(ctx, proposal)
	})
	if err != nil {
		return nil, err
	}

	e.metrics.ProposalTransitioned(models.ProposalStateExecuted)
	e.log.Info("proposal executed", "id", result.Proposal.ID, "kind", result.Proposal.Kind,
		"price", domain.FormatDecimal(quote.Price, domain.CanonicalDecimals), "source", quote.Source,
		"fee", result.Proposal.FeePaid.String())
	return result, nil
}

// checkAccounts rejects execution when an account the plan moves funds
// through is not configured
func (e *ExecuteProposal) checkAccounts(p *models.Proposal) error {
	if e.cfg.Treasury == (common.Address{}) {
		return fmt.Errorf("%w: governance.treasury is not configured", domain.ErrInvalidAddress)
	}
	if e.fee(p).Sign() > 0 && e.cfg.FeeCollector == (common.Address{}) {
		return fmt.Errorf("%w: governance.fee_collector is not configured", domain.ErrInvalidAddress)
	}
	return nil
}

// plan returns the principal and fee transfers for the proposal kind
func (e *ExecuteProposal) plan(p *models.Proposal, asset *models.Asset) []Transfer {
	fee := e.fee(p)
	net := new(big.Int).Sub(p.Amount, fee)

	from, to := e.cfg.Treasury, asset.Custodian
	if p.Kind == models.ProposalKindDivest {
		from, to = asset.Custodian, e.cfg.Treasury
	}
	return []Transfer{
		{From: from, To: to, Amount: net, Token: e.cfg.FundingToken},
		{From: from, To: e.cfg.FeeCollector, Amount: fee, Token: e.cfg.FundingToken},
	}
}

func (e *ExecuteProposal) fee(p *models.Proposal) *big.Int {
	bp := e.cfg.InvestFeeBp
	if p.Kind == models.ProposalKindDivest {
		bp = e.cfg.DivestFeeBp
	}
	return domain.MulBp(p.Amount, bp)
}

// executionValue is amount * price at canonical precision
func executionValue(amount, price *big.Int) *big.Int {
	v := new(big.Int).Mul(amount, price)
	return v.Quo(v, domain.CanonicalUnit())
}

// loadExecutable returns the proposal when it may be executed
func loadExecutable(ctx context.Context, tx ReadTx, id uint64) (*models.Proposal, error) {
	proposal, err := tx.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case proposal.Executed || proposal.State == models.ProposalStateExecuted:
		return nil, fmt.Errorf("%w: proposal %d", domain.ErrAlreadyExecuted, id)
	case proposal.State != models.ProposalStatePassed:
		return nil, fmt.Errorf("%w: proposal %d is %s", domain.ErrNotPassed, id, proposal.State)
	}
	return proposal, nil
}
