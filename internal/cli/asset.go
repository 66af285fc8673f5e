package cli

import (
	"fmt"

	"github.com/dloop-protocol/dloop/internal/cli/render"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewAssetCmd creates the asset command group
func NewAssetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "asset",
		Aliases: []string{"assets"},
		Short:   "Manage the assets proposals can target",
	}
	cmd.AddCommand(newAssetRegisterCmd(), newAssetIssueCmd(), newAssetListCmd())
	return cmd
}

func newAssetRegisterCmd() *cobra.Command {
	var (
		symbol      string
		name        string
		description string
		custodian   string
	)

	cmd := &cobra.Command{
		Use:   "register <address>",
		Short: "Register a managed asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			admin, err := caller(app)
			if err != nil {
				return err
			}
			id, err := parseAddress("address", args[0])
			if err != nil {
				return err
			}
			vault, err := parseAddress("--custodian", custodian)
			if err != nil {
				return err
			}

			asset, err := app.RegisterAsset.Run(cmd.Context(), usecase.RegisterAssetParams{
				Caller:      admin,
				ID:          id,
				Symbol:      symbol,
				Name:        name,
				Description: description,
				Custodian:   vault,
			})
			if err != nil {
				return err
			}

			return render.NewAssetsRenderer(cmd.OutOrStdout(), app.Config.JSON).
				RenderAsset(fmt.Sprintf("Registered %s", asset.Symbol), asset)
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "Ticker symbol")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringVar(&custodian, "custodian", "", "Vault address holding the invested funds")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("custodian")

	return cmd
}

func newAssetIssueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issue <asset> <holder> <shares>",
		Short: "Credit asset shares to a holder",
		Long: `Credit shares of a managed asset to a holder. Shares are the voting weight
of the holder on proposals targeting the asset.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			admin, err := caller(app)
			if err != nil {
				return err
			}
			target, err := resolveAsset(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			holder, err := parseAddress("holder", args[1])
			if err != nil {
				return err
			}
			shares, err := parseAmount("shares", args[2])
			if err != nil {
				return err
			}

			asset, err := app.IssueShares.Run(cmd.Context(), usecase.IssueSharesParams{
				Caller:    admin,
				Asset:     target.ID,
				Principal: holder,
				Amount:    shares,
			})
			if err != nil {
				return err
			}

			return render.NewAssetsRenderer(cmd.OutOrStdout(), app.Config.JSON).
				RenderAsset(fmt.Sprintf("Issued %s %s shares to %s", shares, asset.Symbol, holder.Hex()), asset)
		},
	}
}

func newAssetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List managed assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			assets, err := app.ListAssets.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewAssetsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderList(assets)
		},
	}
}
