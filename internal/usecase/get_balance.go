package usecase

import (
	"context"
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// GetBalance reads a principal's token balance from the ledger
type GetBalance struct {
	ledger Ledger
}

// NewGetBalance creates a new get balance use case
func NewGetBalance(ledger Ledger) *GetBalance {
	return &GetBalance{ledger: ledger}
}

// BalanceResult is a single token balance
type BalanceResult struct {
	Principal common.Address
	Token     models.TokenKind
	Balance   *big.Int
}

// Run executes the use case
func (g *GetBalance) Run(ctx context.Context, principal common.Address, tokens ...models.TokenKind) ([]BalanceResult, error) {
	results := make([]BalanceResult, 0, len(tokens))
	for _, token := range tokens {
		balance, err := g.ledger.BalanceOf(ctx, principal, token)
		if err != nil {
			return nil, err
		}
		results = append(results, BalanceResult{Principal: principal, Token: token, Balance: balance})
	}
	return results, nil
}
