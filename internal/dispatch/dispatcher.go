package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/config"
	"github.com/Raikerian/chimera/internal/metrics"
	"github.com/Raikerian/chimera/pkg/prefix"
)

// DefaultMaxConcurrent bounds in-flight commands when nothing is configured.
const DefaultMaxConcurrent = 64

// Reasons an event is dropped before reaching a command.
const (
	DropUnknown   = "unknown"
	DropThrottled = "throttled"
	DropShutdown  = "shutdown"
)

// DispatcherParams holds dependencies for NewDispatcher.
type DispatcherParams struct {
	fx.In
	Cfg        *config.Config
	Registry   *Registry
	Components *ComponentTable
	Messenger  Messenger
	Throttle   *Throttle        `optional:"true"`
	Metrics    *metrics.Metrics `optional:"true"`
	Logger     *zap.Logger
}

// Dispatcher turns gateway events into command executions.
type Dispatcher struct {
	registry   *Registry
	components *ComponentTable
	messenger  Messenger
	throttle   *Throttle
	metrics    *metrics.Metrics
	logger     *zap.Logger

	prefix string
	sem    chan struct{}

	closeOnce sync.Once
	closing   chan struct{}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(params DispatcherParams) *Dispatcher {
	pfx := params.Cfg.Discord.Prefix
	if pfx == "" {
		pfx = config.DefaultPrefix
	}

	limit := params.Cfg.Dispatch.MaxConcurrent
	if limit <= 0 {
		limit = DefaultMaxConcurrent
	}

	return &Dispatcher{
		registry:   params.Registry,
		components: params.Components,
		messenger:  params.Messenger,
		throttle:   params.Throttle,
		metrics:    params.Metrics,
		logger:     nopIfNil(params.Logger).Named("dispatch"),
		prefix:     pfx,
		sem:        make(chan struct{}, limit),
		closing:    make(chan struct{}),
	}
}

// Close stops accepting new invocations. Commands already running finish.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.closing) })
}

// acquire takes a worker slot, giving up when ctx ends or the dispatcher closes.
func (d *Dispatcher) acquire(ctx context.Context) bool {
	select {
	case <-d.closing:
		return false
	default:
	}

	select {
	case d.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	case <-d.closing:
		return false
	}
}

func (d *Dispatcher) release() { <-d.sem }

// admit applies throttling and the worker bound. It returns the drop reason,
// or "" when the caller may run and must release.
func (d *Dispatcher) admit(ctx context.Context, surface string, user discord.UserID, logger *zap.Logger) string {
	if !d.throttle.Allow(user) {
		logger.Debug("Dropping throttled invocation")
		d.metrics.Drop(surface, DropThrottled)
		return DropThrottled
	}

	if !d.acquire(ctx) {
		logger.Info("Dropping invocation during shutdown")
		d.metrics.Drop(surface, DropShutdown)
		return DropShutdown
	}

	return ""
}

// dropNotices are the ephemeral answers to slash commands that were not run.
// Discord reports an unanswered interaction as a failure.
var dropNotices = map[string]string{
	DropThrottled: "You're sending commands too quickly. Please slow down and try again.",
	DropShutdown:  "The bot is restarting. Please try again in a moment.",
}

// rejectInteraction answers a dropped slash command privately.
func (d *Dispatcher) rejectInteraction(ev *discord.InteractionEvent, reason string, logger *zap.Logger) {
	data := Text("%s", dropNotices[reason]).InteractionData()
	data.Flags = discord.EphemeralMessage

	err := d.messenger.RespondInteraction(ev.ID, ev.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: data,
	})
	if err != nil {
		logger.Warn("Failed to answer dropped interaction", zap.Error(err))
	}
}

// HandleMessage runs the prefix command in e, if any. Bot authors and
// messages without the prefix are ignored; unknown commands only log.
func (d *Dispatcher) HandleMessage(ctx context.Context, e *gateway.MessageCreateEvent) {
	if e.Author.Bot {
		return
	}

	parsed, ok := prefix.Parse(e.Content, d.prefix)
	if !ok {
		return
	}

	logger := d.logger.With(
		zap.String("invocation", uuid.NewString()),
		zap.String("surface", SurfaceText),
		zap.String("command", parsed.Command),
		zap.Stringer("user", e.Author.ID),
		zap.Stringer("channel", e.ChannelID),
	)

	def, ok := d.registry.Lookup(parsed.Command)
	if !ok {
		logger.Debug("Unknown prefix command")
		d.metrics.Drop(SurfaceText, DropUnknown)
		return
	}

	if d.admit(ctx, SurfaceText, e.Author.ID, logger) != "" {
		return
	}
	defer d.release()

	logger.Debug("Executing prefix command", zap.String("definition", def.Name))

	start := time.Now()
	err := def.Prefix(ctx, d.messenger, logger, TextRequest{
		Message: &e.Message,
		Parsed:  parsed,
		Prefix:  d.prefix,
	})
	d.metrics.ObserveInvocation(SurfaceText, def.Name, err, time.Since(start))
}

// HandleInteraction routes slash commands to the registry and component
// clicks to the component table. Other interaction kinds are ignored.
func (d *Dispatcher) HandleInteraction(ctx context.Context, e *gateway.InteractionCreateEvent) {
	ev := &e.InteractionEvent

	var userID discord.UserID
	if user := ev.Sender(); user != nil {
		userID = user.ID
	}

	logger := d.logger.With(
		zap.String("invocation", uuid.NewString()),
		zap.String("surface", SurfaceInteraction),
		zap.Stringer("user", userID),
	)

	switch data := ev.Data.(type) {
	case *discord.CommandInteraction:
		logger = logger.With(zap.String("command", data.Name))

		def, ok := d.registry.LookupSlash(data.Name)
		if !ok {
			logger.Warn("Unknown slash command")
			d.metrics.Drop(SurfaceInteraction, DropUnknown)
			return
		}

		if reason := d.admit(ctx, SurfaceInteraction, userID, logger); reason != "" {
			d.rejectInteraction(ev, reason, logger)
			return
		}
		defer d.release()

		logger.Debug("Executing slash command")

		start := time.Now()
		err := def.Slash(ctx, d.messenger, logger, InteractionInvocation{Event: ev, Data: data})
		d.metrics.ObserveInvocation(SurfaceInteraction, def.Name, err, time.Since(start))

	case discord.ComponentInteraction:
		if !d.acquire(ctx) {
			d.metrics.Drop(SurfaceInteraction, DropShutdown)
			return
		}
		defer d.release()

		d.components.Handle(ctx, d.messenger, logger, ev, data)

	default:
		logger.Debug("Ignoring unhandled interaction type", zap.String("type", fmt.Sprintf("%T", ev.Data)))
	}
}
