// Package bot wires gateway events to the dispatcher, the voice manager and
// the playback node.
package bot

import (
	"context"
	"sync"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"
)

// Dispatcher receives command traffic.
type Dispatcher interface {
	HandleMessage(ctx context.Context, e *gateway.MessageCreateEvent)
	HandleInteraction(ctx context.Context, e *gateway.InteractionCreateEvent)
	Close()
}

// Voice tracks this bot's voice connections.
type Voice interface {
	SetUserID(id discord.UserID)
	HandleVoiceState(e *gateway.VoiceStateUpdateEvent)
	HandleVoiceServer(e *gateway.VoiceServerUpdateEvent)
}

// Node is the playback node connection.
type Node interface {
	Start(userID discord.UserID)
	Stop()
}

// Poller samples gateway latency in the background.
type Poller interface {
	Start()
	Stop()
}

// Schemas returns the slash command schemas to publish.
type Schemas func() []api.CreateCommandData

// Handlers is anything handlers can be attached to, such as *state.State.
type Handlers interface {
	AddHandler(handler any) (rm func())
}

// Bot represents the Discord bot.
type Bot struct {
	dispatcher Dispatcher
	voice      Voice
	node       Node
	poller     Poller
	publisher  *CommandPublisher
	schemas    Schemas
	logger     *zap.Logger

	mu      sync.Mutex
	started bool
	stopped bool
}

// New creates a Bot. Call Attach to receive events.
func New(d Dispatcher, v Voice, node Node, poller Poller, publisher *CommandPublisher, schemas Schemas, logger *zap.Logger) *Bot {
	return &Bot{
		dispatcher: d,
		voice:      v,
		node:       node,
		poller:     poller,
		publisher:  publisher,
		schemas:    schemas,
		logger:     logger.Named("bot"),
	}
}

// Attach registers the bot's gateway handlers.
func (b *Bot) Attach(h Handlers) {
	h.AddHandler(b.onReady)
	h.AddHandler(b.onMessage)
	h.AddHandler(b.onInteraction)
	h.AddHandler(b.onVoiceState)
	h.AddHandler(b.onVoiceServer)
}

// Start publishes the slash command schemas. Gateway traffic arrives once
// the session opens.
func (b *Bot) Start(_ context.Context) error {
	b.logger.Info("Registering slash commands")

	return b.publisher.Publish(b.schemas())
}

// Stop stops taking commands and tears down background work. In-flight
// commands run to completion.
func (b *Bot) Stop(_ context.Context) error {
	b.logger.Info("Stopping bot")

	b.dispatcher.Close()

	b.mu.Lock()
	started := b.started
	b.stopped = true
	b.mu.Unlock()

	if started {
		b.poller.Stop()
		b.node.Stop()
	}

	return nil
}
