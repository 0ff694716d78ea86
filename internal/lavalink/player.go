package lavalink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"
)

// DefaultVolume is the node's initial player volume.
const DefaultVolume = 100

// ErrIndexOutOfRange is returned when a queue position does not exist.
var ErrIndexOutOfRange = errors.New("queue position out of range")

// PlayerAPI is the subset of Client a Player drives.
type PlayerAPI interface {
	UpdatePlayer(ctx context.Context, guildID discord.GuildID, update PlayerUpdate, noReplace bool) (*PlayerInfo, error)
	DestroyPlayer(ctx context.Context, guildID discord.GuildID) error
}

// Player is one guild's playback state. The queue holds upcoming tracks
// only; the playing track is Current.
type Player struct {
	guildID discord.GuildID
	api     PlayerAPI
	logger  *zap.Logger

	mu        sync.Mutex
	current   *Track
	queue     []Track
	paused    bool
	volume    int
	position  int64
	updatedAt time.Time
	voice     VoiceState
}

func newPlayer(guildID discord.GuildID, api PlayerAPI, logger *zap.Logger) *Player {
	return &Player{
		guildID: guildID,
		api:     api,
		logger:  logger.With(zap.Stringer("guildID", guildID)),
		volume:  DefaultVolume,
	}
}

// GuildID returns the guild the player belongs to.
func (p *Player) GuildID() discord.GuildID { return p.guildID }

// UpdateVoice hands the Discord voice connection to the node.
func (p *Player) UpdateVoice(ctx context.Context, voice VoiceState) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.api.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Voice: &voice}, true); err != nil {
		return fmt.Errorf("failed to update voice: %w", err)
	}
	p.voice = voice

	return nil
}

// Append adds tracks to the end of the queue.
func (p *Player) Append(tracks ...Track) {
	p.mu.Lock()
	p.queue = append(p.queue, tracks...)
	p.mu.Unlock()
}

// Tracks returns a copy of the upcoming tracks.
func (p *Player) Tracks() []Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]Track(nil), p.queue...)
}

// Len returns the number of upcoming tracks.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.queue)
}

// Remove deletes the upcoming track at index i.
func (p *Player) Remove(i int) (Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= len(p.queue) {
		return Track{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	t := p.queue[i]
	p.queue = append(p.queue[:i], p.queue[i+1:]...)

	return t, nil
}

// Current returns the playing track.
func (p *Player) Current() (Track, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return Track{}, false
	}
	return *p.current, true
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Volume returns the player volume in percent.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Position estimates the playback position of the current track.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return 0
	}

	pos := time.Duration(p.position) * time.Millisecond
	if !p.paused && !p.updatedAt.IsZero() {
		pos += time.Since(p.updatedAt)
	}
	if length := p.current.Duration(); length > 0 && pos > length {
		pos = length
	}

	return pos
}

// Skip stops the current track and plays the next queued one, returning it.
// With an empty queue playback stops and ok is false.
func (p *Player) Skip(ctx context.Context) (next Track, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.advance(ctx)
}

// StartIfIdle plays the next queued track when nothing is playing.
func (p *Player) StartIfIdle(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil || len(p.queue) == 0 {
		return false, nil
	}

	_, ok, err := p.advance(ctx)
	return ok, err
}

// Jump discards the first n upcoming tracks and plays the one after them.
func (p *Player) Jump(ctx context.Context, n int) (Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n < 0 || n >= len(p.queue) {
		return Track{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, n)
	}

	p.queue = p.queue[n:]

	next, _, err := p.advance(ctx)
	return next, err
}

// advance pops the queue head and plays it, or stops playback. p.mu must be held.
func (p *Player) advance(ctx context.Context) (Track, bool, error) {
	if len(p.queue) == 0 {
		if _, err := p.api.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Track: &UpdateTrack{}}, false); err != nil {
			return Track{}, false, fmt.Errorf("failed to stop playback: %w", err)
		}
		p.setCurrent(nil)

		return Track{}, false, nil
	}

	next := p.queue[0]
	encoded := next.Encoded

	if _, err := p.api.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Track: &UpdateTrack{Encoded: &encoded}}, false); err != nil {
		return Track{}, false, fmt.Errorf("failed to play %q: %w", next.Info.Title, err)
	}

	p.queue = p.queue[1:]
	p.setCurrent(&next)
	p.logger.Debug("Playing track", zap.String("title", next.Info.Title))

	return next, true, nil
}

func (p *Player) setCurrent(t *Track) {
	p.current = t
	p.position = 0
	p.updatedAt = time.Now()
	if t == nil {
		p.paused = false
	}
}

// SetPaused pauses or resumes playback.
func (p *Player) SetPaused(ctx context.Context, paused bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.api.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Paused: &paused}, false); err != nil {
		return fmt.Errorf("failed to set paused: %w", err)
	}

	if p.paused && !paused {
		p.updatedAt = time.Now()
	} else if !p.paused && paused && !p.updatedAt.IsZero() {
		p.position += time.Since(p.updatedAt).Milliseconds()
		p.updatedAt = time.Now()
	}
	p.paused = paused

	return nil
}

// TogglePause flips the paused state and returns the new one.
func (p *Player) TogglePause(ctx context.Context) (bool, error) {
	paused := !p.Paused()
	if err := p.SetPaused(ctx, paused); err != nil {
		return !paused, err
	}

	return paused, nil
}

// SetVolume sets the volume in percent.
func (p *Player) SetVolume(ctx context.Context, volume int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.api.UpdatePlayer(ctx, p.guildID, PlayerUpdate{Volume: &volume}, false); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	p.volume = volume

	return nil
}

// handleState records a playerUpdate from the node.
func (p *Player) handleState(state PlayerState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.position = state.Position
	p.updatedAt = time.Now()
}

// handleTrackEnd advances the queue when the node allows starting the next
// track. Events for a track other than the current one are stale and ignored.
func (p *Player) handleTrackEnd(ctx context.Context, encoded, reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.current.Encoded != encoded {
		return
	}

	switch reason {
	case "finished", "loadFailed":
		if len(p.queue) == 0 {
			p.setCurrent(nil)
			return
		}
		if _, _, err := p.advance(ctx); err != nil {
			p.logger.Error("Failed to advance queue", zap.Error(err))
		}
	case "stopped", "cleanup":
		p.setCurrent(nil)
	}
}
