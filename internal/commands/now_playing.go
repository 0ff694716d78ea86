package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/components"
	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/music"
)

// NowPlayingCommand shows the current track with playback controls.
type NowPlayingCommand struct {
	music Music
	now   func() time.Time
}

// NewNowPlayingCommand creates a new NowPlayingCommand instance.
func NewNowPlayingCommand(svc Music) *NowPlayingCommand {
	return &NowPlayingCommand{music: svc, now: time.Now}
}

// Name returns the command name.
func (c *NowPlayingCommand) Name() string { return "now_playing" }

// Description returns the slash command description.
func (c *NowPlayingCommand) Description() string { return "Show the currently playing song." }

// Aliases returns the text names that also resolve to this command.
func (c *NowPlayingCommand) Aliases() []string { return []string{"now_playing", "np", "nowplaying"} }

// Options returns nil.
func (c *NowPlayingCommand) Options() []discord.CommandOption { return nil }

// Execute shows the current track card with its playback controls.
func (c *NowPlayingCommand) Execute(_ context.Context, dc *dispatch.Context) error {
	guildID, err := listener(dc, c.music)
	if err != nil {
		return err
	}

	np, err := c.music.NowPlaying(guildID)
	if err != nil {
		return err
	}

	resp := dispatch.NewResponse().
		Embed(nowPlayingEmbed(np, c.now())).
		Component(components.Controls(np.Paused)).
		Build()

	_, err = dc.Reply(resp)
	return err
}

func nowPlayingEmbed(np music.NowPlaying, now time.Time) discord.Embed {
	t := np.Track
	length := t.Duration()

	remaining := length - np.Position
	if remaining < 0 {
		remaining = 0
	}

	return dispatch.NewEmbed().
		Title("🎶 Now Playing").
		Description(fmt.Sprintf("**%s** by **%s**", t.Info.Title, t.Info.Author)).
		Color(EmbedColor).
		Thumbnail(t.Artwork()).
		URL(t.URL()).
		InlineField("Duration", formatDuration(np.Position)+" / "+formatDuration(length)).
		InlineField("Finished in", fmt.Sprintf("<t:%d:R>", now.Add(remaining).Unix())).
		InlineField("Volume", fmt.Sprintf("%d%%", np.Volume)).
		Build()
}

// formatDuration renders d to whole seconds, e.g. "3m25s".
func formatDuration(d time.Duration) string {
	return d.Truncate(time.Second).String()
}
