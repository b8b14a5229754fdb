// Package commands implements the CLI commands for the tdb demo build tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tdbtool/tdb"
)

// CLI represents the command line interface for the tdb demo binary.
type CLI struct {
	coordinator *tdb.Coordinator
	rootCmd     *cobra.Command
}

// New creates a new CLI instance wrapping the given coordinator.
func New(c *tdb.Coordinator) *CLI {
	rootCmd := &cobra.Command{
		Use:           "tdb",
		Short:         "A target-driven build engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli := &CLI{
		coordinator: c,
		rootCmd:     rootCmd,
	}

	rootCmd.AddCommand(cli.newRunCmd())
	rootCmd.AddCommand(cli.newVersionCmd())

	return cli
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
