package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lumos/internal/app"
	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the artifact cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List cached artifacts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.CacheList(cmd.Context(), app.CacheListOptions{ConfigPath: c.config()})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "clean [accounts|programs]",
		Short:     "Remove cached artifacts",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"accounts", "programs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.CacheCleanOptions{ConfigPath: c.config()}
			if len(args) == 1 {
				kind, err := parseKind(args[0])
				if err != nil {
					return err
				}
				opts.Kinds = []domain.ArtifactKind{kind}
			}
			return c.app.CacheClean(cmd.Context(), opts)
		},
	})

	return cmd
}

func parseKind(arg string) (domain.ArtifactKind, error) {
	for _, kind := range domain.Kinds() {
		if arg == kind.Dir() || arg == string(kind) {
			return kind, nil
		}
	}
	return "", zerr.With(zerr.New("unknown artifact kind, expected accounts or programs"), "kind", arg)
}
