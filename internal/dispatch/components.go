package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/metrics"
)

// ComponentEvent is a click on a message component.
type ComponentEvent struct {
	Event     *discord.InteractionEvent
	CustomID  discord.ComponentID
	Messenger Messenger
	Logger    *zap.Logger
}

// GuildID returns the guild the component message lives in.
func (e *ComponentEvent) GuildID() (discord.GuildID, bool) {
	return e.Event.GuildID, e.Event.GuildID.IsValid()
}

// Update edits the message carrying the component in place.
func (e *ComponentEvent) Update(resp Response) error {
	return e.Messenger.RespondInteraction(e.Event.ID, e.Event.Token, api.InteractionResponse{
		Type: api.UpdateMessage,
		Data: resp.InteractionData(),
	})
}

// Replace edits the message carrying the component, clearing whatever resp leaves empty.
func (e *ComponentEvent) Replace(resp Response) error {
	embeds := resp.Embeds
	if embeds == nil {
		embeds = []discord.Embed{}
	}
	components := resp.Components
	if components == nil {
		components = discord.ContainerComponents{}
	}

	return e.Messenger.RespondInteraction(e.Event.ID, e.Event.Token, api.InteractionResponse{
		Type: api.UpdateMessage,
		Data: &api.InteractionResponseData{
			Content:    option.NewNullableString(resp.Content),
			Embeds:     &embeds,
			Components: &components,
		},
	})
}

// Acknowledge accepts the click without changing the message.
func (e *ComponentEvent) Acknowledge() error {
	return e.Messenger.RespondInteraction(e.Event.ID, e.Event.Token, api.InteractionResponse{
		Type: api.DeferredMessageUpdate,
	})
}

// FollowUp posts resp as a reply to the message carrying the component.
func (e *ComponentEvent) FollowUp(resp Response) (*discord.Message, error) {
	if e.Event.Message == nil {
		return nil, errors.New("component interaction has no message")
	}

	data := resp.messageData()
	data.Reference = &discord.MessageReference{MessageID: e.Event.Message.ID}

	msg, err := e.Messenger.SendMessageComplex(e.Event.Message.ChannelID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send follow-up: %w", err)
	}

	return msg, nil
}

// Respond sends a new message visible only to the clicking user.
func (e *ComponentEvent) Respond(resp Response) error {
	data := resp.InteractionData()
	data.Flags = discord.EphemeralMessage

	return e.Messenger.RespondInteraction(e.Event.ID, e.Event.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: data,
	})
}

// ComponentHandler handles clicks on one component id. Handlers acknowledge
// the interaction themselves.
type ComponentHandler func(ctx context.Context, ev *ComponentEvent) error

// ComponentTable routes component interactions by custom id.
type ComponentTable struct {
	mu       sync.RWMutex
	handlers map[discord.ComponentID]ComponentHandler
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewComponentTable creates an empty table.
func NewComponentTable(logger *zap.Logger, m *metrics.Metrics) *ComponentTable {
	return &ComponentTable{
		handlers: make(map[discord.ComponentID]ComponentHandler),
		metrics:  m,
		logger:   nopIfNil(logger).Named("components"),
	}
}

// Register binds id to handler.
func (t *ComponentTable) Register(id discord.ComponentID, handler ComponentHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.handlers[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, id)
	}
	t.handlers[id] = handler

	return nil
}

// Handle runs the handler registered for the clicked component. Unknown ids
// are logged and otherwise ignored.
func (t *ComponentTable) Handle(ctx context.Context, m Messenger, logger *zap.Logger, ev *discord.InteractionEvent, data discord.ComponentInteraction) {
	id := data.ID()
	logger = nopIfNil(logger).With(zap.String("customID", string(id)))

	t.mu.RLock()
	handler, ok := t.handlers[id]
	t.mu.RUnlock()

	if !ok {
		logger.Warn("No handler for component interaction")
		return
	}

	err := runComponent(ctx, handler, &ComponentEvent{Event: ev, CustomID: id, Messenger: m, Logger: logger})
	t.metrics.ObserveComponent(string(id), err)
	if err != nil {
		logger.Error("Component handler failed", zap.Error(err))
	}
}

// runComponent calls handler, turning a panic into a PanicError reported to
// the clicking user.
func runComponent(ctx context.Context, handler ComponentHandler, ev *ComponentEvent) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		ev.Logger.Error("Recovered from panic in component handler", zap.Any("panic", r), zap.Stack("stack"))
		err = &PanicError{Value: r}

		if respErr := ev.Respond(ErrorResponse(err)); respErr != nil {
			ev.Logger.Error("Failed to send error reply", zap.Error(respErr))
		}
	}()

	return handler(ctx, ev)
}
