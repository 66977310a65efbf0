package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lumos/internal/app"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <address>",
		Short: "Decode a cached token mint account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Inspect(cmd.Context(), app.InspectOptions{
				ConfigPath: c.config(),
				Address:    args[0],
			})
		},
	}
}
