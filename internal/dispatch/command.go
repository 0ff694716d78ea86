package dispatch

import (
	"context"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/pkg/prefix"
)

// Command is implemented once and served on both surfaces.
type Command interface {
	Name() string
	Description() string
	Options() []discord.CommandOption
	Execute(ctx context.Context, c *Context) error
}

// Aliased is implemented by commands reachable by extra prefix names.
type Aliased interface {
	Aliases() []string
}

// TextRequest is a parsed prefix message waiting to be executed.
type TextRequest struct {
	Message *discord.Message
	Parsed  prefix.Parsed
	Prefix  string
}

// invocation builds a text invocation with a fresh argument cursor.
func (r TextRequest) invocation() TextInvocation {
	inv := TextInvocation{
		Message: r.Message,
		Args:    r.Parsed.Arguments(),
		Prefix:  r.Prefix,
	}
	if r.Message != nil {
		inv.ChannelID = r.Message.ChannelID
	}

	return inv
}

// SlashExecutor runs a command for a slash interaction.
type SlashExecutor func(ctx context.Context, m Messenger, logger *zap.Logger, inv InteractionInvocation) error

// PrefixExecutor runs a command for a prefix message.
type PrefixExecutor func(ctx context.Context, m Messenger, logger *zap.Logger, req TextRequest) error

// Definition is a registered command: its names, its slash schema and one
// executor per surface.
type Definition struct {
	Name        string
	Description string
	Aliases     []string
	Schema      func() api.CreateCommandData
	Slash       SlashExecutor
	Prefix      PrefixExecutor
}

// Define builds a Definition for cmd. Both executors go through the
// error-recovery wrapper, which reports failures with format (ErrorResponse if nil).
func Define(cmd Command, format ErrorFormatter) Definition {
	if format == nil {
		format = ErrorResponse
	}

	var aliases []string
	if a, ok := cmd.(Aliased); ok {
		for _, alias := range a.Aliases() {
			if alias == "" || alias == cmd.Name() {
				continue
			}
			aliases = append(aliases, alias)
		}
	}

	return Definition{
		Name:        cmd.Name(),
		Description: cmd.Description(),
		Aliases:     aliases,
		Schema: func() api.CreateCommandData {
			return api.CreateCommandData{
				Name:        cmd.Name(),
				Description: cmd.Description(),
				Options:     cmd.Options(),
			}
		},
		Slash:  guardSlash(cmd.Execute, format),
		Prefix: guardPrefix(cmd.Execute, format),
	}
}

// Matches reports whether name is the definition's name or one of its aliases.
func (d *Definition) Matches(name string) bool {
	if d.Name == name {
		return true
	}
	for _, alias := range d.Aliases {
		if alias == name {
			return true
		}
	}

	return false
}
