package lavalink

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"
)

// Players tracks the guild players of one node session.
type Players struct {
	api    PlayerAPI
	logger *zap.Logger

	mu      sync.RWMutex
	players map[discord.GuildID]*Player
}

// NewPlayers creates an empty player set.
func NewPlayers(api PlayerAPI, logger *zap.Logger) *Players {
	return &Players{
		api:     api,
		logger:  logger.Named("players"),
		players: make(map[discord.GuildID]*Player),
	}
}

// Get returns the guild player, if one exists.
func (ps *Players) Get(guildID discord.GuildID) (*Player, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	p, ok := ps.players[guildID]
	return p, ok
}

// Create returns the guild player, creating it on the node with voice.
func (ps *Players) Create(ctx context.Context, guildID discord.GuildID, voice VoiceState) (*Player, error) {
	ps.mu.Lock()
	p, ok := ps.players[guildID]
	if !ok {
		p = newPlayer(guildID, ps.api, ps.logger)
		ps.players[guildID] = p
	}
	ps.mu.Unlock()

	if err := p.UpdateVoice(ctx, voice); err != nil {
		if !ok {
			ps.mu.Lock()
			delete(ps.players, guildID)
			ps.mu.Unlock()
		}
		return nil, err
	}

	if !ok {
		ps.logger.Info("Created player", zap.Stringer("guildID", guildID))
	}

	return p, nil
}

// Destroy removes the guild player locally and on the node.
func (ps *Players) Destroy(ctx context.Context, guildID discord.GuildID) error {
	ps.mu.Lock()
	delete(ps.players, guildID)
	ps.mu.Unlock()

	err := ps.api.DestroyPlayer(ctx, guildID)

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil
	}

	return err
}

// Reset forgets every player, for when the node session is replaced.
func (ps *Players) Reset() {
	ps.mu.Lock()
	n := len(ps.players)
	ps.players = make(map[discord.GuildID]*Player)
	ps.mu.Unlock()

	if n > 0 {
		ps.logger.Info("Dropped players of previous session", zap.Int("count", n))
	}
}

// Len returns the number of players.
func (ps *Players) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.players)
}
