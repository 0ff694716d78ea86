package dispatch

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/Raikerian/chimera/pkg/prefix"
)

func textContextFor(t *testing.T, msg *discord.Message) *Context {
	t.Helper()

	parsed, _ := prefix.Parse(";ping", ";")

	inv := TextInvocation{Message: msg, Args: parsed.Arguments(), Prefix: ";"}
	return NewTextContext(&mockMessenger{}, zaptest.NewLogger(t), inv)
}

func interactionContextFor(t *testing.T, ev *discord.InteractionEvent) *Context {
	t.Helper()

	return NewInteractionContext(&mockMessenger{}, zaptest.NewLogger(t), InteractionInvocation{
		Event: ev,
		Data:  &discord.CommandInteraction{Name: "ping"},
	})
}

func TestContextAccessors(t *testing.T) {
	member := discord.User{ID: 401, Username: "member"}
	user := discord.User{ID: 402, Username: "dm-user"}

	tests := []struct {
		name      string
		ctx       func(t *testing.T) *Context
		author    discord.UserID
		hasAuthor bool
		guild     discord.GuildID
		hasGuild  bool
		channel   discord.ChannelID
		hasChan   bool
	}{
		{
			name: "TextInGuild",
			ctx: func(t *testing.T) *Context {
				return textContextFor(t, &discord.Message{
					ID: 1, ChannelID: 200, GuildID: 300, Author: discord.User{ID: 400},
				})
			},
			author: 400, hasAuthor: true,
			guild: 300, hasGuild: true,
			channel: 200, hasChan: true,
		},
		{
			name: "TextInDM",
			ctx: func(t *testing.T) *Context {
				return textContextFor(t, &discord.Message{
					ID: 1, ChannelID: 9, Author: discord.User{ID: 400},
				})
			},
			author: 400, hasAuthor: true,
			channel: 9, hasChan: true,
		},
		{
			name: "TextWithoutMessage",
			ctx: func(t *testing.T) *Context {
				return textContextFor(t, nil)
			},
		},
		{
			name: "InteractionFromMember",
			ctx: func(t *testing.T) *Context {
				return interactionContextFor(t, &discord.InteractionEvent{
					ID: 10, ChannelID: 200, GuildID: 300,
					Member: &discord.Member{User: member},
				})
			},
			author: 401, hasAuthor: true,
			guild: 300, hasGuild: true,
			channel: 200, hasChan: true,
		},
		{
			name: "InteractionFromUserInDM",
			ctx: func(t *testing.T) *Context {
				return interactionContextFor(t, &discord.InteractionEvent{
					ID: 10, ChannelID: 9, User: &user,
				})
			},
			author: 402, hasAuthor: true,
			channel: 9, hasChan: true,
		},
		{
			name: "InteractionWithoutChannel",
			ctx: func(t *testing.T) *Context {
				return interactionContextFor(t, &discord.InteractionEvent{
					ID: 10, GuildID: 300,
					Member: &discord.Member{User: member},
				})
			},
			author: 401, hasAuthor: true,
			guild: 300, hasGuild: true,
		},
		{
			name: "InteractionWithoutSender",
			ctx: func(t *testing.T) *Context {
				return interactionContextFor(t, &discord.InteractionEvent{ID: 10, ChannelID: 200})
			},
			channel: 200, hasChan: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.ctx(t)

			author, ok := c.Author()
			assert.Equal(t, tt.hasAuthor, ok)
			if tt.hasAuthor {
				assert.Equal(t, tt.author, author.ID)
			}

			guild, ok := c.GuildID()
			assert.Equal(t, tt.hasGuild, ok)
			assert.Equal(t, tt.guild, guild)

			channel, ok := c.ChannelID()
			assert.Equal(t, tt.hasChan, ok)
			assert.Equal(t, tt.channel, channel)

			_, err := c.RequireGuild()
			if tt.hasGuild {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrGuildOnly)
			}
		})
	}
}

func TestContextSurface(t *testing.T) {
	text := textContextFor(t, &discord.Message{ID: 1, ChannelID: 200})
	assert.True(t, text.IsText())
	assert.False(t, text.IsInteraction())
	assert.Equal(t, SurfaceText, text.Surface())
	assert.Equal(t, ";", text.Prefix())

	slash := interactionContextFor(t, &discord.InteractionEvent{ID: 10})
	assert.True(t, slash.IsInteraction())
	assert.Equal(t, SurfaceInteraction, slash.Surface())
	assert.Equal(t, "/", slash.Prefix())
}
