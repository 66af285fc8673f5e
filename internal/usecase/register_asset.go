package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// RegisterAsset adds a managed asset to the governance registry
type RegisterAsset struct {
	store StateStore
	roles RoleChecker
	clock Clock
	log   *slog.Logger
}

// NewRegisterAsset creates a new register asset use case
func NewRegisterAsset(store StateStore, roles RoleChecker, clock Clock, log *slog.Logger) *RegisterAsset {
	return &RegisterAsset{
		store: store,
		roles: roles,
		clock: clock,
		log:   log,
	}
}

// RegisterAssetParams contains parameters for registering an asset
type RegisterAssetParams struct {
	Caller      common.Address
	ID          common.Address
	Symbol      string
	Name        string
	Description string
	Custodian   common.Address
}

// Run executes the use case
func (r *RegisterAsset) Run(ctx context.Context, params RegisterAssetParams) (*models.Asset, error) {
	if err := requireRole(ctx, r.roles, params.Caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if params.ID == (common.Address{}) || params.Custodian == (common.Address{}) {
		return nil, fmt.Errorf("%w: asset id and custodian are required", domain.ErrInvalidAddress)
	}
	symbol := strings.ToUpper(strings.TrimSpace(params.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", domain.ErrInvalidAsset)
	}

	now := r.clock.Now()
	asset := &models.Asset{
		ID:          params.ID,
		Symbol:      symbol,
		Name:        params.Name,
		Description: params.Description,
		Custodian:   params.Custodian,
		TotalShares: new(big.Int),
		Shares:      make(map[common.Address]*big.Int),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.store.Update(ctx, func(tx Tx) error {
		if _, err := tx.GetAsset(ctx, params.ID); err == nil {
			return fmt.Errorf("%w: %s", domain.ErrAssetExists, params.ID.Hex())
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return tx.SaveAsset(ctx, asset)
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("asset registered", "asset", asset.ID.Hex(), "symbol", asset.Symbol)
	return asset, nil
}

// IssueShares credits asset shares to a principal. Shares are the unit of
// voting weight on the asset's proposals.
type IssueShares struct {
	store StateStore
	roles RoleChecker
	clock Clock
	log   *slog.Logger
}

// NewIssueShares creates a new issue shares use case
func NewIssueShares(store StateStore, roles RoleChecker, clock Clock, log *slog.Logger) *IssueShares {
	return &IssueShares{
		store: store,
		roles: roles,
		clock: clock,
		log:   log,
	}
}

// IssueSharesParams contains parameters for issuing shares
type IssueSharesParams struct {
	Caller    common.Address
	Asset     common.Address
	Principal common.Address
	Amount    *big.Int
}

// Run executes the use case
func (i *IssueShares) Run(ctx context.Context, params IssueSharesParams) (*models.Asset, error) {
	if err := requireRole(ctx, i.roles, params.Caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if params.Amount == nil || params.Amount.Sign() <= 0 {
		return nil, domain.ErrZeroAmount
	}
	if params.Principal == (common.Address{}) {
		return nil, fmt.Errorf("%w: principal is required", domain.ErrInvalidAddress)
	}

	var asset *models.Asset
	err := i.store.Update(ctx, func(tx Tx) error {
		var err error
		asset, err = tx.GetAsset(ctx, params.Asset)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownAsset, params.Asset.Hex())
		}
		if err != nil {
			return err
		}
		asset.Issue(params.Principal, params.Amount)
		asset.UpdatedAt = i.clock.Now()
		return tx.SaveAsset(ctx, asset)
	})
	if err != nil {
		return nil, err
	}

	i.log.Info("shares issued", "asset", asset.ID.Hex(), "principal", params.Principal.Hex(),
		"amount", params.Amount.String(), "totalShares", asset.TotalShares.String())
	return asset, nil
}
