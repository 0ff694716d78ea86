package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"

	"github.com/Raikerian/chimera/internal/dispatch"
)

// JumpCommand drops queued tracks up to a position and plays that one.
type JumpCommand struct {
	music Music
}

// NewJumpCommand creates a new JumpCommand instance.
func NewJumpCommand(svc Music) *JumpCommand {
	return &JumpCommand{music: svc}
}

// Name returns the command name.
func (c *JumpCommand) Name() string { return "jump" }

// Description returns the slash command description.
func (c *JumpCommand) Description() string { return "Jump to a specific track in the queue." }

// Options declares the required zero-based queue position.
func (c *JumpCommand) Options() []discord.CommandOption {
	return []discord.CommandOption{
		&discord.IntegerOption{
			OptionName:  "position",
			Description: "The queue position to jump to (0 for the first song, 1 for the second, etc.).",
			Required:    true,
			Min:         option.NewInt(0),
		},
	}
}

// Execute jumps to the track at the given queue position.
func (c *JumpCommand) Execute(ctx context.Context, dc *dispatch.Context) error {
	guildID, err := dc.RequireGuild()
	if err != nil {
		return err
	}

	position, ok := dispatch.GetArg[int](dc, "position")
	if !ok {
		return dispatch.UserErrorf("Position argument is missing or invalid. Please provide a number (e.g., 0 for the first song).")
	}

	if _, err := listener(dc, c.music); err != nil {
		return err
	}

	if _, err := c.music.Jump(ctx, guildID, position); err != nil {
		return err
	}

	_, err = dc.Reply(dispatch.Text("⬆️ Jumped to track at position %d in the queue.", position))
	return err
}
