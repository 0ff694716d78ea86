// Package dispatch routes prefix and slash invocations to a single command implementation.
package dispatch

import (
	"fmt"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/pkg/prefix"
)

// Surface names the invocation shape in logs and metrics.
const (
	SurfaceText        = "text"
	SurfaceInteraction = "interaction"
)

// Messenger is the reply channel shared by all invocations.
// *state.State and *session.Session satisfy it.
type Messenger interface {
	SendMessageComplex(channelID discord.ChannelID, data api.SendMessageData) (*discord.Message, error)
	RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error
	InteractionResponse(appID discord.AppID, token string) (*discord.Message, error)
}

// TextInvocation is a command typed into a chat message.
type TextInvocation struct {
	Message   *discord.Message
	ChannelID discord.ChannelID
	Args      *prefix.Arguments
	Prefix    string
}

// InteractionInvocation is a slash command interaction.
type InteractionInvocation struct {
	Event *discord.InteractionEvent
	Data  *discord.CommandInteraction
}

// Context is the uniform view a command body gets of its invocation.
// Exactly one of the two variants is set.
type Context struct {
	text        *TextInvocation
	interaction *InteractionInvocation

	messenger Messenger
	logger    *zap.Logger
}

// NewTextContext wraps a prefix invocation.
func NewTextContext(m Messenger, logger *zap.Logger, inv TextInvocation) *Context {
	if inv.ChannelID == 0 && inv.Message != nil {
		inv.ChannelID = inv.Message.ChannelID
	}

	return &Context{text: &inv, messenger: m, logger: nopIfNil(logger)}
}

// NewInteractionContext wraps a slash command invocation.
func NewInteractionContext(m Messenger, logger *zap.Logger, inv InteractionInvocation) *Context {
	return &Context{interaction: &inv, messenger: m, logger: nopIfNil(logger)}
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// IsText reports whether the invocation came from a chat message.
func (c *Context) IsText() bool { return c.text != nil }

// IsInteraction reports whether the invocation is a slash command.
func (c *Context) IsInteraction() bool { return c.interaction != nil }

// Surface returns SurfaceText or SurfaceInteraction.
func (c *Context) Surface() string {
	if c.text != nil {
		return SurfaceText
	}
	return SurfaceInteraction
}

// Text returns the text variant, or nil.
func (c *Context) Text() *TextInvocation { return c.text }

// Interaction returns the interaction variant, or nil.
func (c *Context) Interaction() *InteractionInvocation { return c.interaction }

// Messenger returns the shared reply channel.
func (c *Context) Messenger() Messenger { return c.messenger }

// Logger returns a logger annotated with the invocation.
func (c *Context) Logger() *zap.Logger { return c.logger }

// Prefix returns the configured prefix for text invocations and "/" for slash commands.
func (c *Context) Prefix() string {
	if c.text != nil {
		return c.text.Prefix
	}
	return "/"
}

// Reply delivers resp through the surface the invocation arrived on and
// returns the message the platform created.
func (c *Context) Reply(resp Response) (*discord.Message, error) {
	switch {
	case c.text != nil:
		data := resp.messageData()
		if c.text.Message != nil {
			data.Reference = &discord.MessageReference{MessageID: c.text.Message.ID}
		}

		msg, err := c.messenger.SendMessageComplex(c.text.ChannelID, data)
		if err != nil {
			return nil, fmt.Errorf("failed to send reply: %w", err)
		}

		return msg, nil

	case c.interaction != nil:
		ev := c.interaction.Event
		err := c.messenger.RespondInteraction(ev.ID, ev.Token, api.InteractionResponse{
			Type: api.MessageInteractionWithSource,
			Data: resp.InteractionData(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to respond to interaction: %w", err)
		}

		msg, err := c.messenger.InteractionResponse(ev.AppID, ev.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch interaction response: %w", err)
		}

		return msg, nil
	}

	return nil, errEmptyContext
}

// FollowUp sends resp as a threaded reply to msg, typically a message
// returned by an earlier Reply. Interactions can be answered only once, so
// further output goes through the channel.
func (c *Context) FollowUp(msg *discord.Message, resp Response) (*discord.Message, error) {
	data := resp.messageData()
	data.Reference = &discord.MessageReference{MessageID: msg.ID}

	reply, err := c.messenger.SendMessageComplex(msg.ChannelID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to send follow-up: %w", err)
	}

	return reply, nil
}

// ReplyError logs err and delivers format(err). A delivery failure is only logged.
func (c *Context) ReplyError(err error, format ErrorFormatter) {
	c.logger.Error("Command execution failed", zap.Error(err))

	if format == nil {
		format = ErrorResponse
	}

	if _, replyErr := c.Reply(format(err)); replyErr != nil {
		c.logger.Error("Failed to send error reply", zap.Error(replyErr))
	}
}

// Author returns the invoking user.
func (c *Context) Author() (*discord.User, bool) {
	switch {
	case c.text != nil:
		if c.text.Message == nil {
			return nil, false
		}
		return &c.text.Message.Author, true
	case c.interaction != nil:
		user := c.interaction.Event.Sender()
		return user, user != nil
	}
	return nil, false
}

// GuildID returns the guild the invocation happened in; false in DMs.
func (c *Context) GuildID() (discord.GuildID, bool) {
	var id discord.GuildID
	switch {
	case c.text != nil && c.text.Message != nil:
		id = c.text.Message.GuildID
	case c.interaction != nil:
		id = c.interaction.Event.GuildID
	}
	return id, id.IsValid()
}

// ChannelID returns the channel the invocation happened in.
func (c *Context) ChannelID() (discord.ChannelID, bool) {
	var id discord.ChannelID
	switch {
	case c.text != nil:
		id = c.text.ChannelID
	case c.interaction != nil:
		id = c.interaction.Event.ChannelID
	}
	return id, id.IsValid()
}

// RequireGuild returns the guild id or ErrGuildOnly.
func (c *Context) RequireGuild() (discord.GuildID, error) {
	id, ok := c.GuildID()
	if !ok {
		return 0, ErrGuildOnly
	}
	return id, nil
}
