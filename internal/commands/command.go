// Package commands holds the bot's commands. Each one is written once
// against dispatch.Context and served as both a prefix and a slash command.
package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/lavalink"
	"github.com/Raikerian/chimera/internal/music"
)

// EmbedColor is the accent colour of informational embeds.
const EmbedColor discord.Color = 0x1DB954

// Music is the playback surface commands drive. *music.Service implements it.
type Music interface {
	RequireListener(guildID discord.GuildID, userID discord.UserID) (discord.ChannelID, error)
	Join(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (discord.ChannelID, bool, error)
	Leave(ctx context.Context, guildID discord.GuildID) error
	Play(ctx context.Context, guildID discord.GuildID, requester discord.UserID, query string) (music.PlayResult, error)
	Skip(ctx context.Context, guildID discord.GuildID) (lavalink.Track, error)
	Jump(ctx context.Context, guildID discord.GuildID, position int) (lavalink.Track, error)
	SetVolume(ctx context.Context, guildID discord.GuildID, volume int) error
	NowPlaying(guildID discord.GuildID) (music.NowPlaying, error)
	Queue(guildID discord.GuildID) ([]lavalink.Track, error)
	Lyrics(ctx context.Context, guildID discord.GuildID) (string, error)
}

var _ Music = (*music.Service)(nil)

// invoker returns the guild and user of an invocation.
func invoker(c *dispatch.Context) (discord.GuildID, discord.UserID, error) {
	guildID, err := c.RequireGuild()
	if err != nil {
		return 0, 0, err
	}

	author, ok := c.Author()
	if !ok {
		return 0, 0, dispatch.UserErrorf("interaction is missing author information")
	}

	return guildID, author.ID, nil
}

// listener is invoker plus a check that the user is in a voice channel.
func listener(c *dispatch.Context, svc Music) (discord.GuildID, error) {
	guildID, userID, err := invoker(c)
	if err != nil {
		return 0, err
	}

	if _, err := svc.RequireListener(guildID, userID); err != nil {
		return 0, err
	}

	return guildID, nil
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
