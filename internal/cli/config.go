package cli

import (
	"fmt"

	"github.com/dloop-protocol/dloop/internal/cli/render"
	"github.com/dloop-protocol/dloop/internal/config"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show governance parameters and manage the reward config",
		Long: `Show the governance parameters resolved from dloop.toml and the reward
config currently in effect.

Available subcommands:
  config             Show current config
  config set-reward  Replace reward parameters

When run without subcommands, displays the current config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	}

	cmd.AddCommand(newConfigSetRewardCmd())
	return cmd
}

func newConfigSetRewardCmd() *cobra.Command {
	var (
		baseReward          string
		rewardCap           string
		participationThresh uint64
		participationRate   uint64
		qualityThresh       uint64
		qualityRate         uint64
		aiMultiplier        uint64
		cooldown            string
	)

	cmd := &cobra.Command{
		Use:   "set-reward",
		Short: "Replace reward parameters",
		Long: `Replace the reward config. Flags that are not set keep their current value.
The new config is validated as a whole before it is stored. Token amounts
are whole tokens; rates and thresholds are basis points.

The caller needs the admin role.`,
		Example: `  dloop config set-reward --as 0x... --base-reward 150 --cooldown 12h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			admin, err := caller(app)
			if err != nil {
				return err
			}

			cfg, err := app.UpdateRewardConfig.Current(cmd.Context())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("base-reward") {
				if cfg.BaseReward, err = parseTokens("--base-reward", baseReward); err != nil {
					return err
				}
			}
			if flags.Changed("reward-cap") {
				if cfg.RewardCap, err = parseTokens("--reward-cap", rewardCap); err != nil {
					return err
				}
			}
			if flags.Changed("participation-threshold") {
				cfg.ParticipationBonusThresholdBp = participationThresh
			}
			if flags.Changed("participation-rate") {
				cfg.ParticipationBonusRateBp = participationRate
			}
			if flags.Changed("quality-threshold") {
				cfg.QualityMultiplierThresholdBp = qualityThresh
			}
			if flags.Changed("quality-rate") {
				cfg.QualityMultiplierRateBp = qualityRate
			}
			if flags.Changed("ai-multiplier") {
				cfg.AINodeMultiplierRateBp = aiMultiplier
			}
			if flags.Changed("cooldown") {
				if cfg.Cooldown, err = config.ParseDuration(cooldown); err != nil {
					return fmt.Errorf("--cooldown: %w", err)
				}
			}

			updated, err := app.UpdateRewardConfig.Run(cmd.Context(), usecase.UpdateRewardConfigParams{
				Caller: admin,
				Config: cfg,
			})
			if err != nil {
				return err
			}

			return render.NewConfigRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderRewardUpdate(updated)
		},
	}

	cmd.Flags().StringVar(&baseReward, "base-reward", "", "Base reward in whole tokens")
	cmd.Flags().StringVar(&rewardCap, "reward-cap", "", "Maximum reward in whole tokens")
	cmd.Flags().Uint64Var(&participationThresh, "participation-threshold", 0, "Participation bonus threshold (bp)")
	cmd.Flags().Uint64Var(&participationRate, "participation-rate", 0, "Participation bonus rate (bp)")
	cmd.Flags().Uint64Var(&qualityThresh, "quality-threshold", 0, "Quality multiplier threshold (bp of winning share)")
	cmd.Flags().Uint64Var(&qualityRate, "quality-rate", 0, "Quality multiplier rate (bp, 10000 = 1x)")
	cmd.Flags().Uint64Var(&aiMultiplier, "ai-multiplier", 0, "Automated agent multiplier rate (bp, 10000 = 1x)")
	cmd.Flags().StringVar(&cooldown, "cooldown", "", "Minimum time between rewards to one recipient (e.g. 24h, 2d)")

	return cmd
}

// showConfig displays the current configuration
func showConfig(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}

	return render.NewConfigRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderConfig(result)
}
