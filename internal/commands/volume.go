package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/music"
)

// VolumeCommand sets the player volume.
type VolumeCommand struct {
	music Music
}

// NewVolumeCommand creates a new VolumeCommand instance.
func NewVolumeCommand(svc Music) *VolumeCommand {
	return &VolumeCommand{music: svc}
}

// Name returns the command name.
func (c *VolumeCommand) Name() string { return "volume" }

// Description returns the slash command description.
func (c *VolumeCommand) Description() string { return "Change the volume of the player." }

// Options declares the required volume level.
func (c *VolumeCommand) Options() []discord.CommandOption {
	return []discord.CommandOption{
		&discord.IntegerOption{
			OptionName:  "volume",
			Description: "Volume level (0-150)",
			Required:    true,
			Min:         option.NewInt(0),
			Max:         option.NewInt(music.MaxVolume),
		},
	}
}

// Execute sets the player volume to the requested level.
func (c *VolumeCommand) Execute(ctx context.Context, dc *dispatch.Context) error {
	guildID, err := dc.RequireGuild()
	if err != nil {
		return err
	}

	volume, ok := dispatch.GetArg[int](dc, "volume")
	if !ok {
		return dispatch.UserErrorf("Volume argument is required and must be a number between 0 and %d.", music.MaxVolume)
	}
	if volume < 0 || volume > music.MaxVolume {
		return dispatch.UserErrorf("Volume must be between 0 and %d.", music.MaxVolume)
	}

	if _, err := listener(dc, c.music); err != nil {
		return err
	}

	if err := c.music.SetVolume(ctx, guildID, volume); err != nil {
		return err
	}

	_, err = dc.Reply(dispatch.Text("Volume set to %d.", volume))
	return err
}
