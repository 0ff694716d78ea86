package commands

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/lavalink"
	"github.com/Raikerian/chimera/internal/music"
	"github.com/Raikerian/chimera/pkg/prefix"
)

const (
	testGuild   = discord.GuildID(300)
	testUser    = discord.UserID(400)
	testChannel = discord.ChannelID(200)
	testVoice   = discord.ChannelID(500)
)

// fakeMusic is a scripted Music. Unset hooks succeed with zero values.
type fakeMusic struct {
	inVoice bool
	joined  bool

	playResult music.PlayResult
	playErr    error
	playQuery  string

	skipped  lavalink.Track
	skipErr  error
	jumpedTo int
	jumpErr  error
	volume   int
	left     bool

	nowPlaying music.NowPlaying
	npErr      error
	queue      []lavalink.Track
	lyrics     string
	lyricsErr  error
}

func (f *fakeMusic) RequireListener(discord.GuildID, discord.UserID) (discord.ChannelID, error) {
	if !f.inVoice {
		return 0, music.ErrNotInVoice
	}
	return testVoice, nil
}

func (f *fakeMusic) Join(_ context.Context, g discord.GuildID, u discord.UserID) (discord.ChannelID, bool, error) {
	ch, err := f.RequireListener(g, u)
	if err != nil {
		return 0, false, err
	}
	if !f.joined {
		return 0, false, nil
	}
	return ch, true, nil
}

func (f *fakeMusic) Leave(context.Context, discord.GuildID) error {
	f.left = true
	return nil
}

func (f *fakeMusic) Play(_ context.Context, _ discord.GuildID, _ discord.UserID, query string) (music.PlayResult, error) {
	f.playQuery = query
	return f.playResult, f.playErr
}

func (f *fakeMusic) Skip(context.Context, discord.GuildID) (lavalink.Track, error) {
	return f.skipped, f.skipErr
}

func (f *fakeMusic) Jump(_ context.Context, _ discord.GuildID, position int) (lavalink.Track, error) {
	f.jumpedTo = position
	return lavalink.Track{}, f.jumpErr
}

func (f *fakeMusic) SetVolume(_ context.Context, _ discord.GuildID, volume int) error {
	f.volume = volume
	return nil
}

func (f *fakeMusic) NowPlaying(discord.GuildID) (music.NowPlaying, error) {
	return f.nowPlaying, f.npErr
}

func (f *fakeMusic) Queue(discord.GuildID) ([]lavalink.Track, error) {
	return f.queue, nil
}

func (f *fakeMusic) Lyrics(context.Context, discord.GuildID) (string, error) {
	return f.lyrics, f.lyricsErr
}

func track(title, author, uri string) lavalink.Track {
	t := lavalink.Track{Encoded: "enc-" + title, Info: lavalink.TrackInfo{Title: title, Author: author, Length: 200_000}}
	if uri != "" {
		t.Info.URI = &uri
	}
	return t
}

func textContext(t *testing.T, m dispatch.Messenger, content string) *dispatch.Context {
	t.Helper()

	parsed, ok := prefix.Parse(content, ";")
	require.True(t, ok)

	msg := &discord.Message{
		ID:        100,
		ChannelID: testChannel,
		GuildID:   testGuild,
		Content:   content,
		Author:    discord.User{ID: testUser, Username: "tester"},
	}

	return dispatch.NewTextContext(m, zaptest.NewLogger(t), dispatch.TextInvocation{
		Message: msg,
		Args:    parsed.Arguments(),
		Prefix:  ";",
	})
}

func slashContext(t *testing.T, m dispatch.Messenger, name string, opts ...discord.CommandInteractionOption) *dispatch.Context {
	t.Helper()

	data := &discord.CommandInteraction{Name: name, Options: opts}
	ev := &discord.InteractionEvent{
		ID:        10,
		AppID:     20,
		ChannelID: testChannel,
		GuildID:   testGuild,
		Token:     "token",
		Data:      data,
		Member:    &discord.Member{User: discord.User{ID: testUser, Username: "tester"}},
	}

	return dispatch.NewInteractionContext(m, zaptest.NewLogger(t), dispatch.InteractionInvocation{
		Event: ev,
		Data:  data,
	})
}
