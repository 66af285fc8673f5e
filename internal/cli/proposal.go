package cli

import (
	"github.com/dloop-protocol/dloop/internal/cli/render"
	"github.com/dloop-protocol/dloop/internal/domain/models"
	"github.com/dloop-protocol/dloop/internal/usecase"
	"github.com/spf13/cobra"
)

// NewProposalCmd creates the proposal command group
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"proposals", "p"},
		Short:   "Submit, vote on, finalize and execute proposals",
	}

	cmd.AddCommand(
		newProposalSubmitCmd(),
		newProposalVoteCmd(),
		newProposalFinalizeCmd(),
		newProposalExecuteCmd(),
		newProposalShowCmd(),
		newProposalListCmd(),
		newProposalVotesCmd(),
	)
	return cmd
}

func newProposalSubmitCmd() *cobra.Command {
	var (
		kind        string
		asset       string
		amount      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an invest or divest proposal",
		Long: `Submit a proposal to invest funding tokens into a managed asset or divest
from it. The proposer needs shares of the asset. Voting opens immediately
and closes after the configured voting period.`,
		Example: `  # Invest 5000 USDC base units into WETH
  dloop proposal submit --as 0x... --kind invest --asset WETH --amount 5000000000

  # Pick the asset interactively
  dloop proposal submit --as 0x... --kind divest --amount 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			proposer, err := caller(app)
			if err != nil {
				return err
			}

			proposalKind, err := models.ParseProposalKind(kind)
			if err != nil {
				return err
			}
			value, err := parseAmount("--amount", amount)
			if err != nil {
				return err
			}
			target, err := resolveAsset(cmd.Context(), app, asset)
			if err != nil {
				return err
			}

			proposal, err := app.SubmitProposal.Run(cmd.Context(), usecase.SubmitProposalParams{
				Proposer:    proposer,
				Kind:        proposalKind,
				Asset:       target.ID,
				Amount:      value,
				Description: description,
			})
			if err != nil {
				return err
			}

			return render.NewProposalsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderSubmitted(proposal)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Proposal kind (invest, divest)")
	cmd.Flags().StringVar(&asset, "asset", "", "Asset symbol or address (prompts when omitted)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in funding token base units")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newProposalVoteCmd() *cobra.Command {
	var against bool

	cmd := &cobra.Command{
		Use:   "vote <id>",
		Short: "Cast a stake-weighted vote",
		Long: `Cast a vote on an active proposal. The vote weight is the voter's share
balance of the proposal's asset at the time of the vote. Each principal votes
once per proposal.`,
		Example: `  dloop proposal vote 3 --as 0x...
  dloop proposal vote 3 --as 0x... --against`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			voter, err := caller(app)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			result, err := app.CastVote.Run(cmd.Context(), usecase.CastVoteParams{
				Voter:      voter,
				ProposalID: id,
				Support:    !against,
			})
			if err != nil {
				return err
			}

			return render.NewProposalsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderVote(result)
		},
	}

	cmd.Flags().BoolVar(&against, "against", false, "Vote against the proposal")
	return cmd
}

func newProposalFinalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <id>",
		Short: "Close voting and record the outcome",
		Long: `Finalize a proposal after its deadline. The outcome is passed, rejected, or
expired when quorum was not reached. With early finalization enabled a
proposal whose result can no longer change may be finalized before the
deadline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			proposal, err := app.FinalizeProposal.Run(cmd.Context(), usecase.FinalizeProposalParams{ProposalID: id})
			if err != nil {
				return err
			}

			return render.NewProposalsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderFinalized(proposal)
		},
	}
}

func newProposalExecuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "execute <id>",
		Short: "Execute a passed proposal",
		Long: `Execute a passed proposal: the asset price is read from the oracle and
recorded, and funds move between the treasury and the asset custodian with
the configured fee sent to the fee collector. Any failure leaves balances and
state unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			result, err := app.ExecuteProposal.Run(cmd.Context(), usecase.ExecuteProposalParams{
				Caller:     app.Config.Caller,
				ProposalID: id,
			})
			if err != nil {
				return err
			}

			return render.NewProposalsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderExecuted(result)
		},
	}
}

func newProposalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a proposal with its votes and rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			details, err := app.GetProposal.Run(cmd.Context(), id)
			if err != nil {
				return err
			}

			return render.NewProposalsRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(details)
		},
	}
}

func newProposalListCmd() *cobra.Command {
	var (
		state    string
		kind     string
		asset    string
		proposer string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals",
		Long: `List proposals ordered by ID.

The list can be filtered by lifecycle phase, kind, asset, or proposer. The
evaluation_window and reward_eligible phases are derived from the execution
time and the configured evaluation window.`,
		Example: `  dloop proposal list --state active
  dloop proposal list --asset WETH --kind invest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListProposalsParams{
				State: models.ProposalState(state),
			}
			if kind != "" {
				if params.Kind, err = models.ParseProposalKind(kind); err != nil {
					return err
				}
			}
			if asset != "" {
				addr, err := resolveAssetAddress(cmd.Context(), app, asset)
				if err != nil {
					return err
				}
				params.Asset = &addr
			}
			if proposer != "" {
				addr, err := parseAddress("--proposer", proposer)
				if err != nil {
					return err
				}
				params.Proposer = &addr
			}

			result, err := app.ListProposals.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewProposalsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderList(result)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter by phase (active, passed, rejected, expired, executed, evaluation_window, reward_eligible)")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (invest, divest)")
	cmd.Flags().StringVar(&asset, "asset", "", "Filter by asset symbol or address")
	cmd.Flags().StringVar(&proposer, "proposer", "", "Filter by proposer address")

	return cmd
}

func newProposalVotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "votes <id>",
		Short: "List the votes cast on a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			votes, err := app.ListVotes.Run(cmd.Context(), id)
			if err != nil {
				return err
			}

			return render.NewProposalsRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderVotes(votes)
		},
	}
}
