package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Raikerian/chimera/internal/commands"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chimera %s\n  Go: %s\n", commands.AppVersion, runtime.Version())
		},
	}
}
