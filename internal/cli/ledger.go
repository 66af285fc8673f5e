package cli

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/dloop-protocol/dloop/internal/cli/render"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewLedgerCmd creates the ledger command group
func NewLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and seed the local token ledger",
	}
	cmd.AddCommand(newLedgerBalanceCmd(), newLedgerMintCmd())
	return cmd
}

func newLedgerBalanceCmd() *cobra.Command {
	var token []string

	cmd := &cobra.Command{
		Use:   "balance <principal>",
		Short: "Show token balances of a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			principal, err := parseAddress("principal", args[0])
			if err != nil {
				return err
			}

			kinds := []models.TokenKind{app.Config.Governance.FundingToken, models.TokenReward}
			if len(token) > 0 {
				kinds = kinds[:0]
				for _, t := range token {
					kinds = append(kinds, models.TokenKind(strings.ToUpper(t)))
				}
			}

			balances, err := app.GetBalance.Run(cmd.Context(), principal, kinds...)
			if err != nil {
				return err
			}

			return render.NewLedgerRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderBalances(balances)
		},
	}

	cmd.Flags().StringSliceVar(&token, "token", nil, "Tokens to show (default funding and reward tokens)")
	return cmd
}

func newLedgerMintCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "mint <to> <amount>",
		Short: "Mint tokens on the local ledger",
		Long: `Mint tokens to a principal on the local ledger, for funding the treasury
and the reward pool on development networks. Reward token amounts are whole
tokens such as "250.5"; other tokens take base units.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			admin, err := caller(app)
			if err != nil {
				return err
			}
			to, err := parseAddress("to", args[0])
			if err != nil {
				return err
			}

			kind := app.Config.Governance.FundingToken
			if token != "" {
				kind = models.TokenKind(strings.ToUpper(token))
			}

			var value *big.Int
			if kind == models.TokenReward {
				value, err = parseTokens("amount", args[1])
			} else {
				value, err = parseAmount("amount", args[1])
			}
			if err != nil {
				return err
			}

			balance, err := app.MintTokens.Run(cmd.Context(), usecase.MintTokensParams{
				Caller: admin,
				To:     to,
				Amount: value,
				Token:  kind,
			})
			if err != nil {
				return fmt.Errorf("mint failed: %w", err)
			}

			return render.NewLedgerRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderMinted(to, kind, balance)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Token to mint (default the funding token)")
	return cmd
}
