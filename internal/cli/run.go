package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Raikerian/chimera/internal/app"
)

// ShutdownTimeout bounds the graceful stop.
const ShutdownTimeout = 30 * time.Second

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and the Lavalink node and serve commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context(), *configPath)
		},
	}
}

func runBot(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	application := app.New(app.Modules(configPath)...)
	if err := application.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(sigCtx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	<-sigCtx.Done()
	fmt.Println("Received shutdown signal, initiating shutdown.")

	// Give the application 30 seconds to shut down gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}

	fmt.Println("Application has shut down gracefully.")

	return nil
}
