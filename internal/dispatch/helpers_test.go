package dispatch

import (
	"context"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/stretchr/testify/mock"
)

type mockMessenger struct {
	mock.Mock
}

func (m *mockMessenger) SendMessageComplex(channelID discord.ChannelID, data api.SendMessageData) (*discord.Message, error) {
	args := m.Called(channelID, data)
	msg, _ := args.Get(0).(*discord.Message)
	return msg, args.Error(1)
}

func (m *mockMessenger) RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error {
	args := m.Called(id, token, resp)
	return args.Error(0)
}

func (m *mockMessenger) InteractionResponse(appID discord.AppID, token string) (*discord.Message, error) {
	args := m.Called(appID, token)
	msg, _ := args.Get(0).(*discord.Message)
	return msg, args.Error(1)
}

type fakeCommand struct {
	name    string
	aliases []string
	run     func(ctx context.Context, c *Context) error
}

func (f *fakeCommand) Name() string                     { return f.name }
func (f *fakeCommand) Description() string              { return "test command " + f.name }
func (f *fakeCommand) Options() []discord.CommandOption { return nil }
func (f *fakeCommand) Aliases() []string                { return f.aliases }

func (f *fakeCommand) Execute(ctx context.Context, c *Context) error {
	if f.run == nil {
		return nil
	}
	return f.run(ctx, c)
}

func textEvent(content string) *gateway.MessageCreateEvent {
	return &gateway.MessageCreateEvent{
		Message: discord.Message{
			ID:        100,
			ChannelID: 200,
			GuildID:   300,
			Content:   content,
			Author:    discord.User{ID: 400, Username: "tester"},
		},
	}
}

func commandEvent(data *discord.CommandInteraction) *gateway.InteractionCreateEvent {
	return &gateway.InteractionCreateEvent{
		InteractionEvent: discord.InteractionEvent{
			ID:        10,
			AppID:     20,
			ChannelID: 200,
			GuildID:   300,
			Token:     "token",
			Data:      data,
			User:      &discord.User{ID: 400, Username: "tester"},
		},
	}
}
