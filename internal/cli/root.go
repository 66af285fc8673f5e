package cli

import (
	"context"
	"fmt"

	"github.com/dloop-protocol/dloop/internal/app"
	"github.com/dloop-protocol/dloop/internal/config"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   "dloop",
		Short: "Operate the D-Loop asset governance protocol",
		Long: `dloop runs the governance core of a decentralized asset index: stake-weighted
proposals to invest in or divest from managed assets, outcome-based rewards
for participants, and a price oracle with staleness detection and fallback.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, appCleanup, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = appCleanup

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				prev := cleanup
				cleanup = func() {
					cancel()
					prev()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cleanup != nil {
				defer cleanup()
			}
			appInstance, err := getApp(cmd)
			if err != nil {
				return nil
			}
			if out := appInstance.Config.MetricsOut; out != "" {
				if err := appInstance.Metrics.WriteTextfile(out); err != nil {
					return fmt.Errorf("failed to write metrics: %w", err)
				}
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("as", "", "Principal address to act as")
	rootCmd.PersistentFlags().String("data-dir", "", "State directory (default .dloop in the project root)")
	rootCmd.PersistentFlags().String("rpc-url", "", "JSON-RPC endpoint for Chainlink price feeds")
	rootCmd.PersistentFlags().String("metrics-out", "", "Write Prometheus metrics to this textfile after the command")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "governance",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{NewProposalCmd(), NewRewardCmd()} {
		c.GroupID = "governance"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewAssetCmd(), NewOracleCmd(), NewLedgerCmd(), NewConfigCmd()} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
