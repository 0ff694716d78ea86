package components

import (
	"context"
	"errors"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/lavalink"
)

var errNoGuild = errors.New("interaction must be in a guild to control playback")

// Player is the playback surface the buttons drive. *music.Service implements it.
type Player interface {
	TogglePause(ctx context.Context, guildID discord.GuildID) (bool, error)
	Skip(ctx context.Context, guildID discord.GuildID) (lavalink.Track, error)
	Lyrics(ctx context.Context, guildID discord.GuildID) (string, error)
}

// Buttons handles the player control row.
type Buttons struct {
	player Player
	logger *zap.Logger
}

// NewButtons creates the handlers for the control row.
func NewButtons(player Player, logger *zap.Logger) *Buttons {
	return &Buttons{player: player, logger: logger.Named("buttons")}
}

// Register binds every control button in table.
func (b *Buttons) Register(table *dispatch.ComponentTable) error {
	handlers := map[discord.ComponentID]dispatch.ComponentHandler{
		PauseID:  b.Pause,
		SkipID:   b.Skip,
		LyricsID: b.Lyrics,
	}

	for id, h := range handlers {
		if err := table.Register(id, h); err != nil {
			return err
		}
	}

	return nil
}

// Pause toggles playback and flips the button label to match.
func (b *Buttons) Pause(ctx context.Context, ev *dispatch.ComponentEvent) error {
	guildID, ok := ev.GuildID()
	if !ok {
		return errNoGuild
	}

	paused, err := b.player.TogglePause(ctx, guildID)
	if err != nil {
		return err
	}

	return ev.Update(dispatch.NewResponse().Component(Controls(paused)).Build())
}

// Skip skips the current track. The card is replaced by a notice that is
// also posted to the channel.
func (b *Buttons) Skip(ctx context.Context, ev *dispatch.ComponentEvent) error {
	guildID, ok := ev.GuildID()
	if !ok {
		return errNoGuild
	}

	skipped, err := b.player.Skip(ctx, guildID)
	if err != nil {
		return err
	}

	notice := dispatch.Text("%s", SkippedMessage(skipped.Info.Title))
	if err := ev.Replace(notice); err != nil {
		return err
	}

	_, err = ev.FollowUp(notice)
	return err
}

// Lyrics posts the current track's lyrics as a reply to the card.
func (b *Buttons) Lyrics(ctx context.Context, ev *dispatch.ComponentEvent) error {
	guildID, ok := ev.GuildID()
	if !ok {
		return errNoGuild
	}

	text, err := b.player.Lyrics(ctx, guildID)
	if errors.Is(err, lavalink.ErrNoLyrics) {
		return ev.Respond(dispatch.Text("No lyrics found for the current track."))
	}
	if err != nil {
		return err
	}

	if err := ev.Acknowledge(); err != nil {
		return err
	}

	_, err = ev.FollowUp(dispatch.NewResponse().Embed(LyricsEmbed(text)).Build())
	return err
}
