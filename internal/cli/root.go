// Package cli is the chimera command line.
package cli

import (
	"github.com/spf13/cobra"
)

// DefaultConfigPath is read when --config is not given.
const DefaultConfigPath = "config.yaml"

// NewRootCommand builds the chimera command tree. Without a subcommand the
// bot runs.
func NewRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "chimera",
		Short:         "Discord music bot backed by a Lavalink node",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", DefaultConfigPath, "Path to the YAML config file")

	cmd.AddCommand(
		newRunCommand(&configPath),
		newCommandsCommand(),
		newVersionCommand(),
	)

	return cmd
}
