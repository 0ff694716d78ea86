package bot

import (
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/config"
	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/latency"
	"github.com/Raikerian/chimera/internal/lavalink"
	"github.com/Raikerian/chimera/internal/metrics"
	"github.com/Raikerian/chimera/internal/voice"
)

// Module provides the bot. The application hooks it into the lifecycle.
var Module = fx.Module("bot",
	fx.Provide(
		NewLatencySource,
		NewPoller,
		NewPublisher,
		NewBot,
	),
)

// NewLatencySource reads the heartbeat latency of the open gateway.
func NewLatencySource(s *session.Session) latency.Source {
	return func() time.Duration {
		g := s.Gateway()
		if g == nil {
			return 0
		}
		return g.Latency()
	}
}

// PollerParams holds dependencies for NewPoller.
type PollerParams struct {
	fx.In
	Cfg     *config.Config
	Source  latency.Source
	Tracker *latency.Tracker
	Metrics *metrics.Metrics `optional:"true"`
	Logger  *zap.Logger
}

// NewPoller creates the latency poller from config.
func NewPoller(params PollerParams) *latency.Poller {
	return latency.NewPoller(params.Source, params.Tracker, params.Cfg.LatencyPollInterval, params.Metrics, params.Logger)
}

// NewPublisher creates the slash command publisher. Without a configured
// application id it is fetched from the API when publishing.
func NewPublisher(cfg *config.Config, s *state.State, logger *zap.Logger) *CommandPublisher {
	var appID discord.AppID
	if cfg.Discord.ApplicationID != nil {
		appID = discord.AppID(*cfg.Discord.ApplicationID)
	}

	return NewCommandPublisher(s, appID, cfg.Discord.GuildIDs, logger)
}

// BotParams holds dependencies for NewBot.
type BotParams struct {
	fx.In
	State      *state.State
	Dispatcher *dispatch.Dispatcher
	Registry   *dispatch.Registry
	Voice      *voice.Manager
	Node       *lavalink.Node
	Poller     *latency.Poller
	Publisher  *CommandPublisher
	Logger     *zap.Logger
}

// NewBot creates the bot and attaches its handlers to the state.
func NewBot(params BotParams) *Bot {
	b := New(
		params.Dispatcher,
		params.Voice,
		params.Node,
		params.Poller,
		params.Publisher,
		params.Registry.Schemas,
		params.Logger,
	)
	b.Attach(params.State)

	params.Logger.Info("NewBot created successfully")

	return b
}
