package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/commands"
	"github.com/Raikerian/chimera/internal/latency"
)

func newCommandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Print the slash command schemas as JSON without connecting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeSchemas(cmd.OutOrStdout())
		},
	}
}

func writeSchemas(w io.Writer) error {
	registry, err := commands.NewRegistry(commands.RegistryParams{
		Commands: commands.All(nil, latency.NewTracker(), nil),
		Logger:   zap.NewNop(),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(registry.Schemas()); err != nil {
		return fmt.Errorf("failed to encode command schemas: %w", err)
	}

	return nil
}
