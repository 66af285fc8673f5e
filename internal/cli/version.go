package cli

import (
	"fmt"

	"github.com/dloop-protocol/dloop/internal/config"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dloop",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dloop version %s (commit %s, built %s)\n", config.Version, config.Commit, config.Date)
		},
	}
}
