package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/dispatch"
)

// HelpCommand lists every registered command with its arguments.
type HelpCommand struct {
	registry *dispatch.Registry
}

// NewHelpCommand creates a new HelpCommand instance. It answers only after
// NewRegistry has bound it to the finished registry.
func NewHelpCommand() *HelpCommand {
	return &HelpCommand{}
}

func (c *HelpCommand) bind(r *dispatch.Registry) { c.registry = r }

// Name returns the command name.
func (c *HelpCommand) Name() string { return "help" }

// Description returns the one-line summary shown in the help menu.
func (c *HelpCommand) Description() string { return "Show the help menu for commands." }

// Options returns nil; help takes no arguments.
func (c *HelpCommand) Options() []discord.CommandOption { return nil }

// Execute replies with an embed listing every registered command.
func (c *HelpCommand) Execute(_ context.Context, dc *dispatch.Context) error {
	if c.registry == nil {
		return errors.New("help is not bound to a registry")
	}

	embed := dispatch.NewEmbed().
		Title("Chimera Help").
		Description("Here is a list of all available commands.").
		Color(EmbedColor)

	for _, def := range c.registry.Definitions() {
		embed.Field("/"+def.Name, helpEntry(def))
	}

	_, err := dc.Reply(dispatch.NewResponse().Embed(embed.Build()).Build())
	return err
}

func helpEntry(def dispatch.Definition) string {
	var b strings.Builder

	b.WriteString("```")
	b.WriteString(def.Description)

	if schema := def.Schema(); len(schema.Options) > 0 {
		b.WriteString("\n\nArguments:")
		for _, opt := range schema.Options {
			name, desc, required := describeOption(opt)
			need := "optional"
			if required {
				need = "required"
			}
			fmt.Fprintf(&b, "\n%s (%s): %s", name, need, desc)
		}
	}

	if len(def.Aliases) > 0 {
		b.WriteString("\n\nAliases: ")
		b.WriteString(strings.Join(def.Aliases, ", "))
	}

	b.WriteString("```")

	return b.String()
}

func describeOption(opt discord.CommandOption) (name, desc string, required bool) {
	switch o := opt.(type) {
	case *discord.StringOption:
		return o.OptionName, o.Description, o.Required
	case *discord.IntegerOption:
		return o.OptionName, o.Description, o.Required
	case *discord.NumberOption:
		return o.OptionName, o.Description, o.Required
	case *discord.BooleanOption:
		return o.OptionName, o.Description, o.Required
	case *discord.UserOption:
		return o.OptionName, o.Description, o.Required
	case *discord.ChannelOption:
		return o.OptionName, o.Description, o.Required
	}

	return opt.Name(), "", false
}
