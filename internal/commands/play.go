package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/music"
)

// PlayCommand joins the caller's voice channel if needed and queues a song.
type PlayCommand struct {
	music Music
}

// NewPlayCommand creates a new PlayCommand instance.
func NewPlayCommand(svc Music) *PlayCommand {
	return &PlayCommand{music: svc}
}

// Name returns the command name.
func (c *PlayCommand) Name() string { return "play" }

// Description returns the slash command description.
func (c *PlayCommand) Description() string { return "Play a song from YouTube or other sources." }

// Aliases returns the text names that also resolve to this command.
func (c *PlayCommand) Aliases() []string { return []string{"play", "p"} }

// Options declares the required song query or URL.
func (c *PlayCommand) Options() []discord.CommandOption {
	return []discord.CommandOption{
		&discord.StringOption{
			OptionName:  "song",
			Description: "The song to play",
			Required:    true,
		},
	}
}

// Execute resolves the query and queues it, joining the caller's voice channel first if needed.
func (c *PlayCommand) Execute(ctx context.Context, dc *dispatch.Context) error {
	query, ok := dc.RemainderArg("song")
	if !ok || query == "" {
		return dispatch.UserErrorf("song query is missing")
	}

	guildID, userID, err := invoker(dc)
	if err != nil {
		return err
	}

	channelID, joined, err := c.music.Join(ctx, guildID, userID)
	if err != nil {
		return err
	}

	// An interaction accepts one response, so once the join notice has
	// used it everything else is threaded under that message.
	var anchor *discord.Message
	if joined {
		anchor, err = dc.Reply(dispatch.Text("🎙️ Joined %s", channelID.Mention()))
		if err != nil {
			return err
		}
	}

	respond := func(resp dispatch.Response) error {
		if anchor != nil {
			_, err := dc.FollowUp(anchor, resp)
			return err
		}
		_, err := dc.Reply(resp)
		return err
	}

	res, err := c.music.Play(ctx, guildID, userID, query)

	var loadErr *music.LoadError
	switch {
	case errors.As(err, &loadErr):
		msg := "unknown error"
		if loadErr.Exception != nil {
			msg = loadErr.Exception.Message
		}
		return respond(dispatch.Text("Error loading tracks: %s", msg))
	case errors.Is(err, music.ErrNoResults):
		return respond(dispatch.Text("No tracks were loaded to queue."))
	case err != nil && anchor != nil:
		dc.Logger().Error("Failed to queue tracks", zap.Error(err))
		return respond(dispatch.ErrorResponse(err))
	case err != nil:
		return err
	}

	return respond(dispatch.Text("%s", queuedMessage(res)))
}

func queuedMessage(res music.PlayResult) string {
	if res.Playlist != nil {
		return fmt.Sprintf("`＋`Queued playlist: [%s] (%d tracks)", res.Playlist.Name, len(res.Tracks))
	}

	t := res.Tracks[0]
	if uri := t.URL(); uri != "" {
		return fmt.Sprintf("`＋` Queued [`%s`](<%s>)", t.Info.Title, uri)
	}

	return fmt.Sprintf("`＋` Queued: `%s`", t.Info.Title)
}
