package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/dispatch"
)

// StopCommand leaves the voice channel and drops the guild's player.
type StopCommand struct {
	music Music
}

// NewStopCommand creates a new StopCommand instance.
func NewStopCommand(svc Music) *StopCommand {
	return &StopCommand{music: svc}
}

// Name returns the command name.
func (c *StopCommand) Name() string { return "stop" }

// Description returns the slash command description.
func (c *StopCommand) Description() string { return "Stop the current music playback." }

// Aliases returns the text names that also resolve to this command.
func (c *StopCommand) Aliases() []string { return []string{"stop", "st"} }

// Options returns nil.
func (c *StopCommand) Options() []discord.CommandOption { return nil }

// Execute stops playback and leaves the voice channel.
func (c *StopCommand) Execute(ctx context.Context, dc *dispatch.Context) error {
	guildID, err := listener(dc, c.music)
	if err != nil {
		return err
	}

	if err := c.music.Leave(ctx, guildID); err != nil {
		return err
	}

	_, err = dc.Reply(dispatch.Text("⏹️ Stopped"))
	return err
}
