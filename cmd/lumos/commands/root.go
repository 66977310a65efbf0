// Package commands implements the CLI commands for lumos.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/lumos/internal/app"
	"go.trai.ch/lumos/internal/build"
	"go.trai.ch/lumos/internal/core/domain"
)

// CLI represents the command line interface for lumos.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	configPath string
	endpoint   string
	verbose    bool
}

// Application represents the application logic interface.
type Application interface {
	Clone(ctx context.Context, opts app.CloneOptions) error
	Run(ctx context.Context, opts app.RunOptions) error
	CacheList(ctx context.Context, opts app.CacheListOptions) error
	CacheClean(ctx context.Context, opts app.CacheCleanOptions) error
	Inspect(ctx context.Context, opts app.InspectOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "lumos",
		Short:         "Clone chain state into a local validator",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	// Persistent flags first so -v stays with --verbose.
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "",
		fmt.Sprintf("Path to the configuration file (env %s, default %s)", domain.ConfigEnvKey, domain.DefaultConfigFile))
	flags.StringVarP(&c.endpoint, "url", "u", "", "Override the RPC endpoint of the configuration")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Relay toolchain output and enable debug logs")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.AddCommand(c.newCloneCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// config returns the configuration path: the flag, then the environment, then the default.
func (c *CLI) config() string {
	if c.configPath != "" {
		return c.configPath
	}
	if env := os.Getenv(domain.ConfigEnvKey); env != "" {
		return env
	}
	return domain.DefaultConfigFile
}
