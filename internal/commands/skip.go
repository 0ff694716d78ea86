package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/components"
	"github.com/Raikerian/chimera/internal/dispatch"
)

// SkipCommand skips the current track.
type SkipCommand struct {
	music Music
}

// NewSkipCommand creates a new SkipCommand instance.
func NewSkipCommand(svc Music) *SkipCommand {
	return &SkipCommand{music: svc}
}

// Name returns the command name.
func (c *SkipCommand) Name() string { return "skip" }

// Description returns the slash command description.
func (c *SkipCommand) Description() string { return "Skip the currently playing song." }

// Aliases returns the text names that also resolve to this command.
func (c *SkipCommand) Aliases() []string { return []string{"skip", "s"} }

// Options returns nil.
func (c *SkipCommand) Options() []discord.CommandOption { return nil }

// Execute skips the current track and names the one that was skipped.
func (c *SkipCommand) Execute(ctx context.Context, dc *dispatch.Context) error {
	guildID, err := listener(dc, c.music)
	if err != nil {
		return err
	}

	skipped, err := c.music.Skip(ctx, guildID)
	if err != nil {
		return err
	}

	_, err = dc.Reply(dispatch.Text("%s", components.SkippedMessage(skipped.Info.Title)))
	return err
}
