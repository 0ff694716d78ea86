// Package discord provides the Discord gateway session and state cache.
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/diamondburned/arikawa/v3/state/store/defaultstore"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/config"
)

// Intents are the gateway events the bot subscribes to. Message content is
// needed for prefix commands and voice states for joining listeners.
const Intents = gateway.IntentGuilds |
	gateway.IntentGuildMessages |
	gateway.IntentMessageContent |
	gateway.IntentGuildVoiceStates

// Presence is sent with identify: idle, listening to music.
func Presence() *gateway.UpdatePresenceCommand {
	return &gateway.UpdatePresenceCommand{
		Status: discord.IdleStatus,
		Activities: []discord.Activity{{
			Name: "music",
			Type: discord.ListeningActivity,
		}},
	}
}

// Module provides Discord-related dependencies.
var Module = fx.Module("discord",
	fx.Provide(
		NewSession,
		NewState,
	),
)

// SessionParams holds dependencies for NewSession.
type SessionParams struct {
	fx.In
	Cfg    *config.Config
	LC     fx.Lifecycle
	Logger *zap.Logger
}

// SessionResult holds results from NewSession.
type SessionResult struct {
	fx.Out
	Session *session.Session
}

// NewSession creates the gateway session. It opens after every other
// constructor has run, so handlers registered by them see the first events.
func NewSession(params SessionParams) (SessionResult, error) {
	if params.Cfg.Discord.BotToken == "" {
		return SessionResult{}, errors.New("discord bot token is not set in config")
	}

	id := gateway.DefaultIdentifier("Bot " + params.Cfg.Discord.BotToken)
	id.Presence = Presence()

	s := session.NewWithIdentifier(id)
	s.AddIntents(Intents)

	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Info("Opening Discord session...")

			if err := s.Open(ctx); err != nil {
				return fmt.Errorf("failed to open discord session: %w", err)
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing Discord session...")

			return s.Close()
		},
	})

	return SessionResult{Session: s}, nil
}

// StateParams holds dependencies for NewState.
type StateParams struct {
	fx.In
	Session *session.Session
	Logger  *zap.Logger
}

// StateResult holds results from NewState.
type StateResult struct {
	fx.Out
	State *state.State
}

// NewState wraps the session with a cache. Voice states are read from it to
// find the caller's channel.
func NewState(params StateParams) StateResult {
	st := state.NewFromSession(params.Session, defaultstore.New())

	params.Logger.Info("Created Discord state from session with default stores")

	return StateResult{State: st}
}
