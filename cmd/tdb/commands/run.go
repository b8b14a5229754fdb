package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

// errBuildFailed signals a non-zero coordinator exit code to main, which
// reports it and sets the process exit code. The coordinator has already
// printed its own diagnostics.
var errBuildFailed = errors.New("build failed")

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [flags] [targets...]",
		Short: "Build one or more targets",
		// The coordinator owns its own flag grammar (--list-targets,
		// --serial, -v, ...), so cobra must not try to parse these itself.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := c.coordinator.ProcessCommandLine(cmd.Context(), args); code != 0 {
				return errBuildFailed
			}
			return nil
		},
	}
}
