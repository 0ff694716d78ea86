// Package app provides the main application structure and lifecycle management.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/bot"
	"github.com/Raikerian/chimera/internal/commands"
	"github.com/Raikerian/chimera/internal/components"
	"github.com/Raikerian/chimera/internal/config"
	"github.com/Raikerian/chimera/internal/discord"
	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/infrastructure"
	"github.com/Raikerian/chimera/internal/latency"
	"github.com/Raikerian/chimera/internal/lavalink"
	"github.com/Raikerian/chimera/internal/metrics"
	"github.com/Raikerian/chimera/internal/music"
	"github.com/Raikerian/chimera/internal/voice"
	pkginfra "github.com/Raikerian/chimera/pkg/infrastructure"
)

// Modules returns every module of the bot, reading configuration from configPath.
func Modules(configPath string) []fx.Option {
	return []fx.Option{
		// Core modules
		config.Module,
		infrastructure.LoggerModule,
		metrics.Module,

		// External service modules
		discord.Module,
		lavalink.Module,
		voice.Module,

		// Application modules
		latency.Module,
		music.Module,
		dispatch.Module,
		commands.Module,
		components.Module,
		bot.Module,

		fx.Supply(configPath),

		// Configure Fx to use our Zap logger for its own internal logging
		fx.WithLogger(pkginfra.NewFxLoggerAdapter),
	}
}

// Application represents the main application with its lifecycle.
type Application struct {
	app *fx.App
}

// New creates a new Application with the provided modules and options.
func New(modules ...fx.Option) *Application {
	options := append(modules, fx.Invoke(registerLifecycleHooks))

	return &Application{
		app: fx.New(options...),
	}
}

// Err reports a failure to build the dependency graph.
func (a *Application) Err() error {
	return a.app.Err()
}

// Start runs every OnStart hook.
func (a *Application) Start(ctx context.Context) error {
	return a.app.Start(ctx)
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	return a.app.Stop(ctx)
}

// registerLifecycleHooks sets up the application lifecycle hooks.
func registerLifecycleHooks(lc fx.Lifecycle, b *bot.Bot, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting application: registering commands")

			if err := b.Start(ctx); err != nil {
				logger.Error("Failed to start bot", zap.Error(err))

				return err
			}

			logger.Info("Application started successfully")

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping application: draining commands and closing the node connection")

			if err := b.Stop(ctx); err != nil {
				logger.Error("Failed to stop bot", zap.Error(err))

				return err
			}

			logger.Info("Application stopped successfully")

			return nil
		},
	})
}
