package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// MintTokens credits ledger tokens to a principal, used to fund the
// treasury and reward pool on development ledgers
type MintTokens struct {
	ledger Ledger
	roles  RoleChecker
	log    *slog.Logger
}

// NewMintTokens creates a new mint tokens use case
func NewMintTokens(ledger Ledger, roles RoleChecker, log *slog.Logger) *MintTokens {
	return &MintTokens{
		ledger: ledger,
		roles:  roles,
		log:    log,
	}
}

// MintTokensParams contains parameters for minting tokens
type MintTokensParams struct {
	Caller common.Address
	To     common.Address
	Amount *big.Int
	Token  models.TokenKind
}

// Run executes the use case
func (m *MintTokens) Run(ctx context.Context, params MintTokensParams) (*big.Int, error) {
	if err := requireRole(ctx, m.roles, params.Caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if params.Amount == nil || params.Amount.Sign() <= 0 {
		return nil, domain.ErrZeroAmount
	}
	if params.To == (common.Address{}) {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrInvalidAddress)
	}

	if err := m.ledger.Mint(ctx, params.To, params.Amount, params.Token); err != nil {
		return nil, err
	}
	balance, err := m.ledger.BalanceOf(ctx, params.To, params.Token)
	if err != nil {
		return nil, err
	}

	m.log.Info("tokens minted", "to", params.To.Hex(), "token", params.Token, "amount", params.Amount.String())
	return balance, nil
}
