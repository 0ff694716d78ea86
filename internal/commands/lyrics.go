package commands

import (
	"context"
	"errors"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/components"
	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/lavalink"
)

// LyricsCommand shows the lyrics of the current track.
type LyricsCommand struct {
	music Music
}

// NewLyricsCommand creates a new LyricsCommand instance.
func NewLyricsCommand(svc Music) *LyricsCommand {
	return &LyricsCommand{music: svc}
}

// Name returns the command name.
func (c *LyricsCommand) Name() string { return "lyrics" }

// Description returns the slash command description.
func (c *LyricsCommand) Description() string { return "Get the lyrics for the current song." }

// Options returns nil.
func (c *LyricsCommand) Options() []discord.CommandOption { return nil }

// Execute fetches lyrics for the current track and replies with them as an embed.
func (c *LyricsCommand) Execute(ctx context.Context, dc *dispatch.Context) error {
	guildID, err := dc.RequireGuild()
	if err != nil {
		return err
	}

	text, err := c.music.Lyrics(ctx, guildID)
	if errors.Is(err, lavalink.ErrNoLyrics) {
		return dispatch.UserErrorf("No lyrics found for the current track.")
	}
	if err != nil {
		return err
	}

	_, err = dc.Reply(dispatch.NewResponse().Embed(components.LyricsEmbed(text)).Build())
	return err
}
