package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raikerian/chimera/internal/components"
	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/dispatch/dispatchtest"
	"github.com/Raikerian/chimera/internal/latency"
	"github.com/Raikerian/chimera/internal/lavalink"
	"github.com/Raikerian/chimera/internal/music"
)

func TestPingCommand(t *testing.T) {
	t.Run("NoSample", func(t *testing.T) {
		m := dispatchtest.New()
		cmd := NewPingCommand(latency.NewTracker())

		err := cmd.Execute(context.Background(), textContext(t, m, ";ping"))
		assert.ErrorIs(t, err, errNoLatency)
		assert.Empty(t, m.Sent())
	})

	t.Run("ReportsLatency", func(t *testing.T) {
		m := dispatchtest.New()
		tracker := latency.NewTracker()
		tracker.Set(42 * time.Millisecond)

		err := NewPingCommand(tracker).Execute(context.Background(), textContext(t, m, ";ping"))
		require.NoError(t, err)
		assert.Equal(t, []string{"🏓 Pong! `(42ms)`"}, m.Contents())
	})
}

func TestPlayCommandText(t *testing.T) {
	m := dispatchtest.New()
	svc := &fakeMusic{
		inVoice:    true,
		playResult: music.PlayResult{Tracks: []lavalink.Track{track("Song", "Artist", "https://example.com/song")}},
	}

	err := NewPlayCommand(svc).Execute(context.Background(), textContext(t, m, ";play never gonna give you up"))
	require.NoError(t, err)

	assert.Equal(t, "never gonna give you up", svc.playQuery)
	assert.Equal(t, []string{"`＋` Queued [`Song`](<https://example.com/song>)"}, m.Contents())

	sent := m.Sent()
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].Data.Reference)
	assert.Equal(t, discord.MessageID(100), sent[0].Data.Reference.MessageID)
}

func TestPlayCommandSlashAfterJoin(t *testing.T) {
	m := dispatchtest.New()
	svc := &fakeMusic{
		inVoice:    true,
		joined:     true,
		playResult: music.PlayResult{Tracks: []lavalink.Track{track("Song", "Artist", "")}},
	}

	ctx := slashContext(t, m, "play", discord.CommandInteractionOption{
		Type:  discord.StringOptionType,
		Name:  "song",
		Value: json.Raw(`"artist - song"`),
	})

	require.NoError(t, NewPlayCommand(svc).Execute(context.Background(), ctx))
	assert.Equal(t, "artist - song", svc.playQuery)

	responses := m.Responses()
	require.Len(t, responses, 1)
	assert.Equal(t, "🎙️ Joined "+testVoice.Mention(), responses[0].Data.Content.Val)

	// The queue notice is threaded under the join notice.
	sent := m.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "`＋` Queued: `Song`", sent[0].Data.Content)
	assert.Equal(t, testChannel, sent[0].ChannelID)
	assert.Equal(t, discord.MessageID(1001), sent[0].Data.Reference.MessageID)
}

func TestPlayCommandOutcomes(t *testing.T) {
	tests := []struct {
		name string
		svc  *fakeMusic
		want string
	}{
		{
			name: "Playlist",
			svc: &fakeMusic{inVoice: true, playResult: music.PlayResult{
				Tracks:   []lavalink.Track{track("A", "x", ""), track("B", "y", "")},
				Playlist: &lavalink.PlaylistInfo{Name: "Mix"},
			}},
			want: "`＋`Queued playlist: [Mix] (2 tracks)",
		},
		{
			name: "LoadError",
			svc:  &fakeMusic{inVoice: true, playErr: &music.LoadError{Exception: &lavalink.Exception{Message: "boom"}}},
			want: "Error loading tracks: boom",
		},
		{
			name: "NoResults",
			svc:  &fakeMusic{inVoice: true, playErr: music.ErrNoResults},
			want: "No tracks were loaded to queue.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := dispatchtest.New()

			err := NewPlayCommand(tt.svc).Execute(context.Background(), textContext(t, m, ";play something"))
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, m.Contents())
		})
	}
}

func TestPlayCommandFailures(t *testing.T) {
	t.Run("NotInVoice", func(t *testing.T) {
		m := dispatchtest.New()

		err := NewPlayCommand(&fakeMusic{}).Execute(context.Background(), textContext(t, m, ";play song"))
		assert.ErrorIs(t, err, music.ErrNotInVoice)
		assert.Empty(t, m.Contents())
	})

	t.Run("MissingQuery", func(t *testing.T) {
		m := dispatchtest.New()

		err := NewPlayCommand(&fakeMusic{inVoice: true}).Execute(context.Background(), textContext(t, m, ";play"))
		assert.True(t, dispatch.IsUserError(err))
	})

	t.Run("PlayErrorAfterJoinIsThreaded", func(t *testing.T) {
		m := dispatchtest.New()
		svc := &fakeMusic{inVoice: true, joined: true, playErr: errors.New("node unreachable")}

		err := NewPlayCommand(svc).Execute(context.Background(), textContext(t, m, ";play song"))
		require.NoError(t, err)

		sent := m.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, "🎙️ Joined "+testVoice.Mention(), sent[0].Data.Content)
		require.Len(t, sent[1].Data.Embeds, 1)
		assert.Contains(t, sent[1].Data.Embeds[0].Description, "node unreachable")
	})
}

func TestStopCommand(t *testing.T) {
	m := dispatchtest.New()
	svc := &fakeMusic{inVoice: true}

	require.NoError(t, NewStopCommand(svc).Execute(context.Background(), textContext(t, m, ";st")))
	assert.True(t, svc.left)
	assert.Equal(t, []string{"⏹️ Stopped"}, m.Contents())
}

func TestStopCommandRequiresListener(t *testing.T) {
	m := dispatchtest.New()
	svc := &fakeMusic{}

	err := NewStopCommand(svc).Execute(context.Background(), textContext(t, m, ";stop"))
	assert.ErrorIs(t, err, music.ErrNotInVoice)
	assert.False(t, svc.left)
}

func TestQueueCommand(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		m := dispatchtest.New()

		require.NoError(t, NewQueueCommand(&fakeMusic{inVoice: true}).Execute(context.Background(), textContext(t, m, ";q")))

		embeds := m.Embeds()
		require.Len(t, embeds, 1)
		assert.Equal(t, "🎶 Current Queue", embeds[0].Title)
		assert.Equal(t, EmbedColor, embeds[0].Color)
		assert.Equal(t, "The queue is currently empty.", embeds[0].Description)
	})

	t.Run("Tracks", func(t *testing.T) {
		m := dispatchtest.New()
		svc := &fakeMusic{inVoice: true, queue: []lavalink.Track{track("One", "A", ""), track("Two", "B", "")}}

		require.NoError(t, NewQueueCommand(svc).Execute(context.Background(), textContext(t, m, ";queue")))

		embeds := m.Embeds()
		require.Len(t, embeds, 1)
		assert.Equal(t, "One - A\nTwo - B", embeds[0].Description)
	})
}

func TestNowPlayingCommand(t *testing.T) {
	m := dispatchtest.New()
	tr := track("Song", "Artist", "https://example.com/song")
	svc := &fakeMusic{inVoice: true, nowPlaying: music.NowPlaying{
		Track:    tr,
		Position: 65 * time.Second,
		Volume:   80,
		Paused:   true,
	}}

	now := time.Unix(1_700_000_000, 0)
	cmd := NewNowPlayingCommand(svc)
	cmd.now = func() time.Time { return now }

	require.NoError(t, cmd.Execute(context.Background(), textContext(t, m, ";np")))

	sent := m.Sent()
	require.Len(t, sent, 1)
	require.Len(t, sent[0].Data.Embeds, 1)

	embed := sent[0].Data.Embeds[0]
	assert.Equal(t, "🎶 Now Playing", embed.Title)
	assert.Equal(t, "**Song** by **Artist**", embed.Description)
	assert.Equal(t, "https://example.com/song", embed.URL)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "1m5s / 3m20s", embed.Fields[0].Value)
	assert.Equal(t, "<t:1700000135:R>", embed.Fields[1].Value)
	assert.Equal(t, "80%", embed.Fields[2].Value)

	require.Len(t, sent[0].Data.Components, 1)
	assert.Equal(t, components.Controls(true), sent[0].Data.Components[0])
}

func TestNowPlayingCommandNothingPlaying(t *testing.T) {
	m := dispatchtest.New()
	svc := &fakeMusic{inVoice: true, npErr: music.ErrNothingPlaying}

	err := NewNowPlayingCommand(svc).Execute(context.Background(), textContext(t, m, ";np"))
	assert.ErrorIs(t, err, music.ErrNothingPlaying)
}

func TestSkipCommand(t *testing.T) {
	m := dispatchtest.New()
	svc := &fakeMusic{inVoice: true, skipped: track("Song", "Artist", "")}

	require.NoError(t, NewSkipCommand(svc).Execute(context.Background(), textContext(t, m, ";s")))
	assert.Equal(t, []string{"⏩ Skipped Song to the next track."}, m.Contents())
}

func TestVolumeCommand(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		m := dispatchtest.New()
		svc := &fakeMusic{inVoice: true}

		require.NoError(t, NewVolumeCommand(svc).Execute(context.Background(), textContext(t, m, ";volume 80")))
		assert.Equal(t, 80, svc.volume)
		assert.Equal(t, []string{"Volume set to 80."}, m.Contents())
	})

	t.Run("Slash", func(t *testing.T) {
		m := dispatchtest.New()
		svc := &fakeMusic{inVoice: true}

		ctx := slashContext(t, m, "volume", discord.CommandInteractionOption{
			Type:  discord.IntegerOptionType,
			Name:  "volume",
			Value: json.Raw("25"),
		})

		require.NoError(t, NewVolumeCommand(svc).Execute(context.Background(), ctx))
		assert.Equal(t, 25, svc.volume)
	})

	for _, input := range []string{";volume", ";volume loud", ";volume 151", ";volume -1"} {
		t.Run("Rejects "+input, func(t *testing.T) {
			m := dispatchtest.New()
			svc := &fakeMusic{inVoice: true}

			err := NewVolumeCommand(svc).Execute(context.Background(), textContext(t, m, input))
			assert.True(t, dispatch.IsUserError(err))
			assert.Zero(t, svc.volume)
		})
	}
}

func TestJumpCommand(t *testing.T) {
	t.Run("Jumps", func(t *testing.T) {
		m := dispatchtest.New()
		svc := &fakeMusic{inVoice: true}

		require.NoError(t, NewJumpCommand(svc).Execute(context.Background(), textContext(t, m, ";jump 2")))
		assert.Equal(t, 2, svc.jumpedTo)
		assert.Equal(t, []string{"⬆️ Jumped to track at position 2 in the queue."}, m.Contents())
	})

	t.Run("MissingPosition", func(t *testing.T) {
		m := dispatchtest.New()

		err := NewJumpCommand(&fakeMusic{inVoice: true}).Execute(context.Background(), textContext(t, m, ";jump"))
		require.Error(t, err)
		assert.True(t, dispatch.IsUserError(err))
		assert.Contains(t, err.Error(), "Position argument is missing or invalid")
	})

	t.Run("OutOfRange", func(t *testing.T) {
		m := dispatchtest.New()
		svc := &fakeMusic{inVoice: true, jumpErr: errors.New("cannot jump to position 9")}

		err := NewJumpCommand(svc).Execute(context.Background(), textContext(t, m, ";jump 9"))
		assert.EqualError(t, err, "cannot jump to position 9")
		assert.Empty(t, m.Contents())
	})
}

func TestLyricsCommand(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		m := dispatchtest.New()
		svc := &fakeMusic{lyrics: "line one\nline two"}

		require.NoError(t, NewLyricsCommand(svc).Execute(context.Background(), textContext(t, m, ";lyrics")))

		embeds := m.Embeds()
		require.Len(t, embeds, 1)
		assert.Equal(t, "🎶 Lyrics", embeds[0].Title)
		assert.Equal(t, "line one\nline two", embeds[0].Description)
	})

	t.Run("Missing", func(t *testing.T) {
		m := dispatchtest.New()
		svc := &fakeMusic{lyricsErr: lavalink.ErrNoLyrics}

		err := NewLyricsCommand(svc).Execute(context.Background(), textContext(t, m, ";lyrics"))
		assert.True(t, dispatch.IsUserError(err))
	})
}

type fakeVersioner struct {
	version string
	err     error
}

func (f fakeVersioner) Version(context.Context) (string, error) { return f.version, f.err }

func TestVersionCommand(t *testing.T) {
	AppVersion = "1.2.3"
	t.Cleanup(func() { AppVersion = "dev" })

	t.Run("WithNode", func(t *testing.T) {
		m := dispatchtest.New()

		require.NoError(t, NewVersionCommand(fakeVersioner{version: "4.0.8"}).Execute(context.Background(), textContext(t, m, ";version")))
		assert.Equal(t, []string{"Version: 1.2.3\nLavalink: 4.0.8"}, m.Contents())
	})

	t.Run("NodeUnavailable", func(t *testing.T) {
		m := dispatchtest.New()

		require.NoError(t, NewVersionCommand(fakeVersioner{err: errors.New("down")}).Execute(context.Background(), textContext(t, m, ";version")))
		assert.Equal(t, []string{"Version: 1.2.3\nLavalink: unavailable"}, m.Contents())
	})
}
