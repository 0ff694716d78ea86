package commands

import (
	"context"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/lavalink"
)

// maxDescription is Discord's limit on embed descriptions.
const maxDescription = 4096

// QueueCommand lists the upcoming tracks.
type QueueCommand struct {
	music Music
}

// NewQueueCommand creates a new QueueCommand instance.
func NewQueueCommand(svc Music) *QueueCommand {
	return &QueueCommand{music: svc}
}

// Name returns the command name.
func (c *QueueCommand) Name() string { return "queue" }

// Description returns the slash command description.
func (c *QueueCommand) Description() string { return "Show the current music queue." }

// Aliases returns the text names that also resolve to this command.
func (c *QueueCommand) Aliases() []string { return []string{"queue", "q"} }

// Options returns nil.
func (c *QueueCommand) Options() []discord.CommandOption { return nil }

// Execute replies with the upcoming tracks.
func (c *QueueCommand) Execute(_ context.Context, dc *dispatch.Context) error {
	guildID, err := listener(dc, c.music)
	if err != nil {
		return err
	}

	tracks, err := c.music.Queue(guildID)
	if err != nil {
		return err
	}

	_, err = dc.Reply(dispatch.NewResponse().Embed(queueEmbed(tracks)).Build())
	return err
}

func queueEmbed(tracks []lavalink.Track) discord.Embed {
	embed := dispatch.NewEmbed().Title("🎶 Current Queue").Color(EmbedColor)

	if len(tracks) == 0 {
		return embed.Description("The queue is currently empty.").Build()
	}

	lines := make([]string, 0, len(tracks))
	for _, t := range tracks {
		lines = append(lines, t.Info.Title+" - "+t.Info.Author)
	}

	return embed.Description(truncate(strings.Join(lines, "\n"), maxDescription)).Build()
}
