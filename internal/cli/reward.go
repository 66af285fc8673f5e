package cli

import (
	"github.com/dloop-protocol/dloop/internal/cli/render"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewRewardCmd creates the reward command group
func NewRewardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Distribute outcome-based rewards",
	}
	cmd.AddCommand(newRewardDistributeCmd())
	return cmd
}

func newRewardDistributeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distribute <proposal-id> <recipient>",
		Short: "Evaluate a proposal's outcome and reward a participant",
		Long: `Distribute the reward of one participant of a proposal whose evaluation
window has elapsed. The outcome compares the price recorded at execution with
the current price: a correct call earns the base reward with participation
and quality bonuses, an incorrect call is recorded with no payout.

The caller needs the reward_distributor role.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			distributor, err := caller(app)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}
			recipient, err := parseAddress("recipient", args[1])
			if err != nil {
				return err
			}

			record, err := app.DistributeReward.Run(cmd.Context(), usecase.DistributeRewardParams{
				Caller:     distributor,
				Recipient:  recipient,
				ProposalID: id,
			})
			if err != nil {
				return err
			}

			return render.NewRewardsRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(record)
		},
	}
}
