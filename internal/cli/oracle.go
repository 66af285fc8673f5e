package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/dloop-protocol/dloop/internal/cli/render"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewOracleCmd creates the oracle command group
func NewOracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Query prices and manage price feeds",
	}
	cmd.AddCommand(
		newOraclePriceCmd(),
		newOracleSetFeedCmd(),
		newOracleSetFallbackCmd(),
		newOracleRemoveFeedCmd(),
		newOraclePushRoundCmd(),
		newOracleListCmd(),
	)
	return cmd
}

func newOraclePriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <asset>",
		Short: "Show the canonical price of an asset",
		Long: `Show the 18-decimal price of an asset. The primary feed answers when its
latest round is fresh; otherwise the administrator-set fallback is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			asset, err := resolveAssetAddress(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			quote, err := app.PriceOracle.GetAssetPrice(cmd.Context(), asset)
			if err != nil {
				return err
			}

			return render.NewOracleRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderQuote(quote)
		},
	}
}

func newOracleSetFeedCmd() *cobra.Command {
	var (
		source      string
		decimals    uint8
		staleness   time.Duration
		heartbeat   time.Duration
		reliability uint64
	)

	cmd := &cobra.Command{
		Use:   "set-feed <asset>",
		Short: "Register the primary price source of an asset",
		Long: `Register or replace the primary price source of an asset. A round older
than the staleness threshold is not used. An existing fallback price is kept.

The caller needs the oracle_admin role.`,
		Example: `  dloop oracle set-feed WETH --as 0x... --source 0x5f4e... --decimals 8 --staleness 1h`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			admin, err := caller(app)
			if err != nil {
				return err
			}
			asset, err := resolveAssetAddress(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			src, err := parseAddress("--source", source)
			if err != nil {
				return err
			}

			feed, err := app.SetFeed.Run(cmd.Context(), usecase.SetFeedParams{
				Caller:             admin,
				Asset:              asset,
				Source:             src,
				Decimals:           decimals,
				StalenessThreshold: staleness,
				Heartbeat:          heartbeat,
				ReliabilityBp:      reliability,
			})
			if err != nil {
				return err
			}

			return render.NewOracleRenderer(cmd.OutOrStdout(), app.Config.JSON).
				RenderFeed(fmt.Sprintf("Registered feed for %s", asset.Hex()), feed)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Aggregator address of the primary source")
	cmd.Flags().Uint8Var(&decimals, "decimals", 8, "Decimals of the source answers")
	cmd.Flags().DurationVar(&staleness, "staleness", time.Hour, "Maximum round age")
	cmd.Flags().DurationVar(&heartbeat, "heartbeat", time.Hour, "Expected update interval (informational)")
	cmd.Flags().Uint64Var(&reliability, "reliability", 10000, "Source reliability in basis points (informational)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func newOracleSetFallbackCmd() *cobra.Command {
	var clearPrice bool

	cmd := &cobra.Command{
		Use:   "set-fallback <asset> [price]",
		Short: "Set or clear the fallback price of an asset",
		Long: `Set the administrator fallback price of an asset as a decimal such as
"1800.25". The fallback answers price queries while the primary source is
stale or unreachable. Use --clear to remove it.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			admin, err := caller(app)
			if err != nil {
				return err
			}
			asset, err := resolveAssetAddress(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			var price *big.Int
			switch {
			case clearPrice && len(args) == 2:
				return fmt.Errorf("--clear does not take a price")
			case !clearPrice && len(args) < 2:
				return fmt.Errorf("a price is required unless --clear is set")
			case !clearPrice:
				if price, err = parseTokens("price", args[1]); err != nil {
					return err
				}
			}

			feed, err := app.SetFallbackPrice.Run(cmd.Context(), usecase.SetFallbackPriceParams{
				Caller: admin,
				Asset:  asset,
				Price:  price,
			})
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Set fallback price for %s", asset.Hex())
			if clearPrice {
				msg = fmt.Sprintf("Cleared fallback price for %s", asset.Hex())
			}
			return render.NewOracleRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderFeed(msg, feed)
		},
	}

	cmd.Flags().BoolVar(&clearPrice, "clear", false, "Remove the fallback price")
	return cmd
}

func newOracleRemoveFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-feed <asset>",
		Short: "Remove the primary price source of an asset",
		Long: `Remove the primary price source of an asset. A fallback price stays
registered; without one the asset can no longer be priced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			admin, err := caller(app)
			if err != nil {
				return err
			}
			asset, err := resolveAssetAddress(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			ok, err := confirm(app, fmt.Sprintf("Remove the price feed of %s", asset.Hex()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "❌ Removal cancelled.")
				return nil
			}

			result, err := app.RemoveFeed.Run(cmd.Context(), usecase.RemoveFeedParams{
				Caller: admin,
				Asset:  asset,
			})
			if err != nil {
				return err
			}

			return render.NewOracleRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderRemoved(result)
		},
	}
}

func newOraclePushRoundCmd() *cobra.Command {
	var (
		decimals uint8
		age      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "push-round <source> <answer>",
		Short: "Publish a round on a local price source",
		Long: `Publish a round on a locally operated price source, for development
networks without Chainlink aggregators. The answer is a raw integer at the
given decimals. --age backdates the round to exercise staleness handling.`,
		Example: `  # $1800 at 8 decimals
  dloop oracle push-round 0x00...f1 180000000000 --as 0x... --decimals 8`,
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
			if app.Config.Oracle.RPCURL != "" {
				return fmt.Errorf("rounds can only be pushed to the local source; oracle.rpc_url is set")
			}
			source, err := parseAddress("source", args[0])
			if err != nil {
				return err
			}
			answer, ok := new(big.Int).SetString(args[1], 10)
			if !ok {
				return fmt.Errorf("invalid answer %q", args[1])
			}

			round, err := app.PushRound.Run(cmd.Context(), usecase.PushRoundParams{
				Caller:   admin,
				Source:   source,
				Answer:   answer,
				Decimals: decimals,
				Age:      age,
			})
			if err != nil {
				return err
			}

			return render.NewOracleRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderRound(source, round)
		},
	}

	cmd.Flags().Uint8Var(&decimals, "decimals", 8, "Decimals of the answer")
	cmd.Flags().DurationVar(&age, "age", 0, "Backdate the round by this duration")
	return cmd
}

func newOracleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List price feed registrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListFeeds.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewOracleRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderFeeds(result)
		},
	}
}
