package bot

import (
	"fmt"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"
)

// CommandClient is the part of the Discord API used to publish slash commands.
type CommandClient interface {
	CurrentApplication() (*discord.Application, error)
	BulkOverwriteCommands(appID discord.AppID, cmds []api.CreateCommandData) ([]discord.Command, error)
	BulkOverwriteGuildCommands(appID discord.AppID, guildID discord.GuildID, cmds []api.CreateCommandData) ([]discord.Command, error)
}

// CommandPublisher registers the slash command schemas with Discord.
type CommandPublisher struct {
	client   CommandClient
	appID    discord.AppID
	guildIDs []discord.GuildID
	logger   *zap.Logger
}

// NewCommandPublisher creates a publisher. A zero appID is looked up from the
// API on first use. Without guild ids commands are published globally.
func NewCommandPublisher(client CommandClient, appID discord.AppID, guildIDs []string, logger *zap.Logger) *CommandPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &CommandPublisher{client: client, appID: appID, logger: logger}

	for _, idStr := range guildIDs {
		sf, err := discord.ParseSnowflake(idStr)
		if err != nil {
			logger.Error("Failed to parse guild ID string to Snowflake", zap.String("guildIDStr", idStr), zap.Error(err))
			continue
		}
		p.guildIDs = append(p.guildIDs, discord.GuildID(sf))
	}

	return p
}

func (p *CommandPublisher) applicationID() (discord.AppID, error) {
	if p.appID.IsValid() {
		return p.appID, nil
	}

	app, err := p.client.CurrentApplication()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch current application: %w", err)
	}
	p.appID = app.ID

	return p.appID, nil
}

// Publish overwrites the registered commands with cmds. A failing guild is
// logged and skipped.
func (p *CommandPublisher) Publish(cmds []api.CreateCommandData) error {
	if len(cmds) == 0 {
		p.logger.Info("No commands to register.")
		return nil
	}

	appID, err := p.applicationID()
	if err != nil {
		return err
	}

	if len(p.guildIDs) == 0 {
		registered, err := p.client.BulkOverwriteCommands(appID, cmds)
		if err != nil {
			return fmt.Errorf("failed to register global commands: %w", err)
		}

		p.logger.Info("Successfully registered global slash commands",
			zap.Int("count", len(registered)),
			zap.Stringer("applicationID", appID),
		)

		return nil
	}

	for _, guildID := range p.guildIDs {
		registered, err := p.client.BulkOverwriteGuildCommands(appID, guildID, cmds)
		if err != nil {
			p.logger.Error("Failed to bulk overwrite commands for guild",
				zap.Error(err),
				zap.Stringer("applicationID", appID),
				zap.Stringer("guildID", guildID),
			)
			continue
		}

		p.logger.Info("Successfully registered slash commands for guild",
			zap.Int("count", len(registered)),
			zap.Stringer("applicationID", appID),
			zap.Stringer("guildID", guildID),
		)
	}

	return nil
}
