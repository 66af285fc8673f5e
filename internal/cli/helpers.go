package cli

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dloop-protocol/dloop/internal/adapters/interactive"
	"github.com/dloop-protocol/dloop/internal/app"
	"github.com/dloop-protocol/dloop/internal/domain"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/manifoldco/promptui"
	"github.com/samber/lo"
)

// parseAddress parses a hex address argument or flag
func parseAddress(name, s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %s %q", domain.ErrInvalidAddress, name, s)
	}
	return common.HexToAddress(s), nil
}

// caller returns the --as principal, which every state-changing command needs
func caller(a *app.App) (common.Address, error) {
	if a.Config.Caller == (common.Address{}) {
		return common.Address{}, fmt.Errorf("--as is required for this command")
	}
	return a.Config.Caller, nil
}

// resolveAsset accepts an asset address or a registered symbol. An empty
// reference prompts the operator to pick one.
func resolveAsset(ctx context.Context, a *app.App, ref string) (*models.Asset, error) {
	assets, err := a.ListAssets.Run(ctx)
	if err != nil {
		return nil, err
	}

	if ref == "" {
		return a.Selector.SelectAsset(ctx, assets, "Select asset")
	}

	if common.IsHexAddress(ref) {
		id := common.HexToAddress(ref)
		if asset, ok := lo.Find(assets, func(x *models.Asset) bool { return x.ID == id }); ok {
			return asset, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAsset, id.Hex())
	}

	if asset, ok := lo.Find(assets, func(x *models.Asset) bool { return strings.EqualFold(x.Symbol, ref) }); ok {
		return asset, nil
	}

	if suggestions := interactive.SuggestSymbols(ref, assets); len(suggestions) > 0 {
		return nil, fmt.Errorf("%w: %s (did you mean %s?)", domain.ErrUnknownAsset, ref, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAsset, ref)
}

// resolveAssetAddress is resolveAsset for commands that only need the address.
// Addresses are accepted even when the asset is not registered.
func resolveAssetAddress(ctx context.Context, a *app.App, ref string) (common.Address, error) {
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}
	asset, err := resolveAsset(ctx, a, ref)
	if err != nil {
		return common.Address{}, err
	}
	return asset.ID, nil
}

// parseAmount parses a base-unit integer amount
func parseAmount(name, s string) (*big.Int, error) {
	v, err := domain.ParseAmount(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// parseTokens parses a whole-token decimal such as "12.5" at 18 decimals
func parseTokens(name, s string) (*big.Int, error) {
	v, err := domain.ParseDecimal(strings.TrimSpace(s), domain.CanonicalDecimals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// parseProposalID parses a proposal ID argument
func parseProposalID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid proposal id %q", s)
	}
	return id, nil
}

// confirm asks for a yes/no answer. Non-interactive runs proceed.
func confirm(a *app.App, label string) (bool, error) {
	if a.Config.NonInteractive {
		return true, nil
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return false, fmt.Errorf("input cancelled: %w", err)
	}
	return true, nil
}
