package identity

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/config"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// Registry answers identity questions from configuration and the asset
// share ledger. Agent attestation itself happens outside this system; the
// attested addresses are listed under [identity] in dloop.toml.
type Registry struct {
	agents []common.Address
	store  usecase.StateStore
}

// NewRegistry creates a registry over the configured agents
func NewRegistry(cfg *config.RuntimeConfig, store usecase.StateStore) *Registry {
	return &Registry{
		agents: lo.Uniq(cfg.Agents),
		store:  store,
	}
}

// IsAutomatedAgent reports whether principal is an attested agent
func (r *Registry) IsAutomatedAgent(_ context.Context, principal common.Address) (bool, error) {
	return lo.Contains(r.agents, principal), nil
}

// StakeWeight returns the principal's recorded shares of asset
func (r *Registry) StakeWeight(ctx context.Context, principal, asset common.Address) (*big.Int, error) {
	weight := new(big.Int)
	err := r.store.View(ctx, func(tx usecase.ReadTx) error {
		a, err := tx.GetAsset(ctx, asset)
		if err != nil {
			return err
		}
		weight = a.SharesOf(principal)
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAsset, asset.Hex())
	}
	if err != nil {
		return nil, err
	}
	return weight, nil
}

// Ensure Registry implements Identity
var _ usecase.Identity = (*Registry)(nil)
