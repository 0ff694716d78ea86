package commands

import (
	"context"
	"errors"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/latency"
)

var errNoLatency = errors.New("latency is not available; not enough data collected yet")

// PingCommand reports the gateway heartbeat latency.
type PingCommand struct {
	tracker *latency.Tracker
}

// NewPingCommand creates a new PingCommand instance.
func NewPingCommand(tracker *latency.Tracker) *PingCommand {
	return &PingCommand{tracker: tracker}
}

// Name returns "ping".
func (c *PingCommand) Name() string { return "ping" }

// Description returns the slash command description.
func (c *PingCommand) Description() string { return "Check if the bot is responsive." }

// Options returns nil.
func (c *PingCommand) Options() []discord.CommandOption { return nil }

// Execute replies with the gateway heartbeat latency.
func (c *PingCommand) Execute(_ context.Context, ctx *dispatch.Context) error {
	d, ok := c.tracker.Get()
	if !ok {
		return errNoLatency
	}

	_, err := ctx.Reply(dispatch.Text("🏓 Pong! `(%dms)`", d.Milliseconds()))
	return err
}
