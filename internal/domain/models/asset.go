package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Asset is a managed asset and its per-principal share ledger.
// TotalShares always equals the sum of Shares.
type Asset struct {
	ID          common.Address              `json:"id"`
	Symbol      string                      `json:"symbol"`
	Name        string                      `json:"name"`
	Description string                      `json:"description,omitempty"`
	Custodian   common.Address              `json:"custodian"`
	TotalShares *big.Int                    `json:"totalShares"`
	Shares      map[common.Address]*big.Int `json:"shares"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

// SharesOf returns the recorded shares of a principal (zero when absent)
func (a *Asset) SharesOf(principal common.Address) *big.Int {
	if s, ok := a.Shares[principal]; ok && s != nil {
		return new(big.Int).Set(s)
	}
	return new(big.Int)
}

// Issue credits shares to a principal
func (a *Asset) Issue(principal common.Address, amount *big.Int) {
	if a.Shares == nil {
		a.Shares = make(map[common.Address]*big.Int)
	}
	if a.TotalShares == nil {
		a.TotalShares = new(big.Int)
	}
	a.Shares[principal] = new(big.Int).Add(a.SharesOf(principal), amount)
	a.TotalShares = new(big.Int).Add(a.TotalShares, amount)
}

// Clone returns a deep copy
func (a *Asset) Clone() *Asset {
	c := *a
	c.TotalShares = cloneInt(a.TotalShares)
	c.Shares = make(map[common.Address]*big.Int, len(a.Shares))
	for k, v := range a.Shares {
		c.Shares[k] = cloneInt(v)
	}
	return &c
}
