// Package dispatchtest provides a recording dispatch.Messenger for tests.
package dispatchtest

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
)

// Sent is one SendMessageComplex call.
type Sent struct {
	ChannelID discord.ChannelID
	Data      api.SendMessageData
}

// Messenger records every delivery. Created messages get increasing ids
// starting at 1000. Interaction replies are placed in InteractionChannel.
type Messenger struct {
	mu sync.Mutex

	sent      []Sent
	responses []api.InteractionResponse
	nextID    discord.MessageID

	InteractionChannel discord.ChannelID
	SendErr            error
	RespondErr         error
}

// New creates an empty Messenger.
func New() *Messenger {
	return &Messenger{nextID: 1000, InteractionChannel: 200}
}

func (m *Messenger) SendMessageComplex(channelID discord.ChannelID, data api.SendMessageData) (*discord.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return nil, m.SendErr
	}

	m.sent = append(m.sent, Sent{ChannelID: channelID, Data: data})

	return m.message(channelID, data.Content), nil
}

func (m *Messenger) RespondInteraction(_ discord.InteractionID, _ string, resp api.InteractionResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RespondErr != nil {
		return m.RespondErr
	}

	m.responses = append(m.responses, resp)

	return nil
}

func (m *Messenger) InteractionResponse(discord.AppID, string) (*discord.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.message(m.InteractionChannel, ""), nil
}

func (m *Messenger) message(channelID discord.ChannelID, content string) *discord.Message {
	m.nextID++
	return &discord.Message{ID: m.nextID, ChannelID: channelID, Content: content}
}

// Sent returns the channel messages sent so far.
func (m *Messenger) Sent() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Sent(nil), m.sent...)
}

// Responses returns the interaction responses sent so far.
func (m *Messenger) Responses() []api.InteractionResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]api.InteractionResponse(nil), m.responses...)
}

// Contents returns the text of every delivery in order, channel messages
// first and then interaction responses.
func (m *Messenger) Contents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, s := range m.sent {
		out = append(out, s.Data.Content)
	}
	for _, r := range m.responses {
		if r.Data != nil && r.Data.Content != nil {
			out = append(out, r.Data.Content.Val)
		}
	}

	return out
}

// Embeds returns every embed delivered, in the same order as Contents.
func (m *Messenger) Embeds() []discord.Embed {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []discord.Embed
	for _, s := range m.sent {
		out = append(out, s.Data.Embeds...)
	}
	for _, r := range m.responses {
		if r.Data != nil && r.Data.Embeds != nil {
			out = append(out, *r.Data.Embeds...)
		}
	}

	return out
}
