package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/dispatch"
)

// AppVersion is the version of the application, should be set during build time.
var AppVersion = "dev"

// NodeVersioner reports the playback node's version.
type NodeVersioner interface {
	Version(ctx context.Context) (string, error)
}

// VersionCommand is a command that responds with the application version.
type VersionCommand struct {
	node NodeVersioner
}

// NewVersionCommand creates a new VersionCommand instance.
func NewVersionCommand(node NodeVersioner) *VersionCommand {
	return &VersionCommand{node: node}
}

// Name returns the command name.
func (c *VersionCommand) Name() string { return "version" }

// Description returns the slash command description.
func (c *VersionCommand) Description() string { return "Displays the current version of the bot." }

// Options returns nil.
func (c *VersionCommand) Options() []discord.CommandOption { return nil }

// Execute reports the bot build and the Lavalink node version.
func (c *VersionCommand) Execute(ctx context.Context, dc *dispatch.Context) error {
	content := "Version: " + AppVersion

	if c.node != nil {
		v, err := c.node.Version(ctx)
		if err != nil {
			dc.Logger().Warn("Failed to fetch Lavalink version", zap.Error(err))
			v = "unavailable"
		}
		content += "\nLavalink: " + v
	}

	_, err := dc.Reply(dispatch.Text("%s", content))
	return err
}
