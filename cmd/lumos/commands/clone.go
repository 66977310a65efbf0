package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lumos/internal/app"
)

func (c *CLI) newCloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clone",
		Aliases: []string{"c"},
		Short:   "Fetch configured accounts and programs into the cache",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")

			return c.app.Clone(cmd.Context(), app.CloneOptions{
				ConfigPath: c.config(),
				Endpoint:   c.endpoint,
				Force:      force,
				Verbose:    c.verbose,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Refetch every artifact even if cached")
	return cmd
}
