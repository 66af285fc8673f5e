package render

import (
	"fmt"
	"io"
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
)

// LedgerRenderer renders token balances
type LedgerRenderer struct {
	out  io.Writer
	json bool
}

// NewLedgerRenderer creates a new ledger renderer
func NewLedgerRenderer(out io.Writer, json bool) *LedgerRenderer {
	return &LedgerRenderer{out: out, json: json}
}

// balance formats reward token balances as whole tokens and other tokens in base units
func balance(token models.TokenKind, v *big.Int) string {
	if token == models.TokenReward {
		return tokens(v)
	}
	return amount(v)
}

// RenderBalances renders the balances of a principal
func (r *LedgerRenderer) RenderBalances(balances []usecase.BalanceResult) error {
	if r.json {
		return WriteJSON(r.out, balances)
	}
	for _, b := range balances {
		field(r.out, string(b.Token), balance(b.Token, b.Balance))
	}
	return nil
}

// RenderMinted renders a mint and the new balance
func (r *LedgerRenderer) RenderMinted(to common.Address, token models.TokenKind, newBalance *big.Int) error {
	if r.json {
		return WriteJSON(r.out, usecase.BalanceResult{Principal: to, Token: token, Balance: newBalance})
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Minted %s to %s", token, to.Hex())))
	field(r.out, "Balance", balance(token, newBalance))
	return nil
}
