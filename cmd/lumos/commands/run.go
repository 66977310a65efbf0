package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lumos/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"r"},
		Short:   "Clone missing artifacts and start the local validator",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			reset, _ := cmd.Flags().GetBool("reset")

			return c.app.Run(cmd.Context(), app.RunOptions{
				ConfigPath: c.config(),
				Endpoint:   c.endpoint,
				Force:      force,
				Verbose:    c.verbose,
				Reset:      reset,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Refetch every artifact even if cached")
	cmd.Flags().BoolP("reset", "r", false, "Reset the validator ledger on start")
	return cmd
}
