// Package music implements playback operations on top of the voice manager
// and the playback node.
package music

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/lavalink"
	"github.com/Raikerian/chimera/internal/voice"
)

// MaxVolume is the loudest volume a user may set.
const MaxVolume = 150

var (
	ErrNotInVoice     = errors.New("you must be in a voice channel to use this command")
	ErrNoPlayer       = errors.New("no player found for this guild")
	ErrNothingPlaying = errors.New("no track is currently playing")
	ErrQueueEmpty     = errors.New("the queue is currently empty")
	ErrNoResults      = errors.New("no tracks found")
	ErrTrackChanged   = errors.New("the track changed while fetching lyrics, please try again")
	ErrVolumeRange    = fmt.Errorf("volume must be between 0 and %d", MaxVolume)
)

// LoadError is a track load the node rejected.
type LoadError struct {
	Exception *lavalink.Exception
}

func (e *LoadError) Error() string {
	if e.Exception == nil {
		return "error loading tracks"
	}
	return "error loading tracks: " + e.Exception.Message
}

// Node is the subset of the playback node client the service uses.
type Node interface {
	LoadTracks(ctx context.Context, identifier string) (*lavalink.LoadResult, error)
	Lyrics(ctx context.Context, guildID discord.GuildID) (string, error)
}

// PlayerStore owns the guild players.
type PlayerStore interface {
	Get(guildID discord.GuildID) (*lavalink.Player, bool)
	Create(ctx context.Context, guildID discord.GuildID, voice lavalink.VoiceState) (*lavalink.Player, error)
	Destroy(ctx context.Context, guildID discord.GuildID) error
}

// Voice joins and leaves voice channels.
type Voice interface {
	UserChannel(guildID discord.GuildID, userID discord.UserID) (discord.ChannelID, bool)
	Connected(guildID discord.GuildID) (voice.ConnectionInfo, bool)
	Join(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (voice.ConnectionInfo, error)
	Leave(ctx context.Context, guildID discord.GuildID) error
	OnUpdate(fn func(voice.ConnectionInfo))
}

// PlayResult describes what Play queued.
type PlayResult struct {
	Tracks   []lavalink.Track
	Playlist *lavalink.PlaylistInfo
	Started  bool
}

// NowPlaying is a snapshot of the current track.
type NowPlaying struct {
	Track    lavalink.Track
	Position time.Duration
	Volume   int
	Paused   bool
}

// Service runs playback operations. Operations that change a guild's queue
// or playback run one at a time per guild.
type Service struct {
	node     Node
	players  PlayerStore
	voice    Voice
	lyrics   *LyricsCache
	noLyrics *NegativeLyricsCache
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[discord.GuildID]*sync.Mutex
}

// NewService creates a Service and keeps players in sync with voice server moves.
func NewService(node Node, players PlayerStore, v Voice, lyrics *LyricsCache, noLyrics *NegativeLyricsCache, logger *zap.Logger) *Service {
	s := &Service{
		node:     node,
		players:  players,
		voice:    v,
		lyrics:   lyrics,
		noLyrics: noLyrics,
		logger:   logger.Named("music"),
		locks:    make(map[discord.GuildID]*sync.Mutex),
	}

	v.OnUpdate(s.handleVoiceUpdate)

	return s
}

// lock serialises mutations of one guild's playback.
func (s *Service) lock(guildID discord.GuildID) func() {
	s.mu.Lock()
	l, ok := s.locks[guildID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[guildID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) handleVoiceUpdate(c voice.ConnectionInfo) {
	p, ok := s.players.Get(c.GuildID)
	if !ok {
		return
	}

	err := p.UpdateVoice(context.Background(), lavalink.VoiceState{
		Token:     c.Token,
		Endpoint:  c.Endpoint,
		SessionID: c.SessionID,
	})
	if err != nil {
		s.logger.Error("Failed to move player to new voice server", zap.Stringer("guildID", c.GuildID), zap.Error(err))
	}
}

// RequireListener checks that user is in a voice channel of the guild.
func (s *Service) RequireListener(guildID discord.GuildID, userID discord.UserID) (discord.ChannelID, error) {
	ch, ok := s.voice.UserChannel(guildID, userID)
	if !ok {
		return 0, ErrNotInVoice
	}
	return ch, nil
}

// Join connects to the user's voice channel unless a player already exists.
// It reports the channel joined, or false when nothing had to be done.
func (s *Service) Join(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (discord.ChannelID, bool, error) {
	channelID, err := s.RequireListener(guildID, userID)
	if err != nil {
		return 0, false, err
	}

	unlock := s.lock(guildID)
	defer unlock()

	if _, ok := s.players.Get(guildID); ok {
		if _, connected := s.voice.Connected(guildID); connected {
			return 0, false, nil
		}
	}

	conn, err := s.voice.Join(ctx, guildID, channelID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to join voice channel: %w", err)
	}

	_, err = s.players.Create(ctx, guildID, lavalink.VoiceState{
		Token:     conn.Token,
		Endpoint:  conn.Endpoint,
		SessionID: conn.SessionID,
	})
	if err != nil {
		if leaveErr := s.voice.Leave(ctx, guildID); leaveErr != nil {
			s.logger.Warn("Failed to leave after player creation failed", zap.Error(leaveErr))
		}
		return 0, false, fmt.Errorf("failed to create player: %w", err)
	}

	return conn.ChannelID, true, nil
}

// Leave disconnects from voice and destroys the guild player.
func (s *Service) Leave(ctx context.Context, guildID discord.GuildID) error {
	unlock := s.lock(guildID)
	defer unlock()

	if err := s.voice.Leave(ctx, guildID); err != nil {
		return err
	}

	if err := s.players.Destroy(ctx, guildID); err != nil {
		return fmt.Errorf("failed to destroy player: %w", err)
	}

	return nil
}

// Play resolves query, queues the result for requester and starts playback
// if the player is idle. The guild must already have a player.
func (s *Service) Play(ctx context.Context, guildID discord.GuildID, requester discord.UserID, query string) (PlayResult, error) {
	res, err := s.node.LoadTracks(ctx, lavalink.ResolveQuery(query))
	if err != nil {
		return PlayResult{}, fmt.Errorf("failed to load tracks: %w", err)
	}

	var out PlayResult

	switch res.Type {
	case lavalink.LoadTrack, lavalink.LoadPlaylist:
		out.Tracks = res.Tracks
		out.Playlist = res.Playlist
	case lavalink.LoadSearch:
		if len(res.Tracks) > 0 {
			out.Tracks = res.Tracks[:1]
		}
	case lavalink.LoadError:
		return PlayResult{}, &LoadError{Exception: res.Exception}
	}

	if len(out.Tracks) == 0 {
		return PlayResult{}, ErrNoResults
	}

	tagged := make([]lavalink.Track, 0, len(out.Tracks))
	for _, t := range out.Tracks {
		tagged = append(tagged, t.WithRequester(requester.String()))
	}
	out.Tracks = tagged

	unlock := s.lock(guildID)
	defer unlock()

	p, ok := s.players.Get(guildID)
	if !ok {
		return PlayResult{}, ErrNoPlayer
	}

	p.Append(tagged...)

	out.Started, err = p.StartIfIdle(ctx)
	if err != nil {
		return out, err
	}

	s.logger.Debug("Queued tracks",
		zap.Stringer("guildID", guildID), zap.Int("count", len(tagged)), zap.Bool("started", out.Started))

	return out, nil
}

func (s *Service) player(guildID discord.GuildID) (*lavalink.Player, error) {
	p, ok := s.players.Get(guildID)
	if !ok {
		return nil, ErrNoPlayer
	}
	return p, nil
}

// Skip moves on to the next queued track and returns the one that was skipped.
func (s *Service) Skip(ctx context.Context, guildID discord.GuildID) (lavalink.Track, error) {
	unlock := s.lock(guildID)
	defer unlock()

	p, err := s.player(guildID)
	if err != nil {
		return lavalink.Track{}, err
	}

	current, ok := p.Current()
	if !ok {
		return lavalink.Track{}, ErrNothingPlaying
	}

	if _, _, err := p.Skip(ctx); err != nil {
		return lavalink.Track{}, err
	}

	return current, nil
}

// Jump plays the queued track at position, dropping the ones before it.
func (s *Service) Jump(ctx context.Context, guildID discord.GuildID, position int) (lavalink.Track, error) {
	if position < 0 {
		return lavalink.Track{}, errors.New("position to jump to cannot be negative, use 0 for the first song")
	}

	unlock := s.lock(guildID)
	defer unlock()

	p, err := s.player(guildID)
	if err != nil {
		return lavalink.Track{}, err
	}

	n := p.Len()
	if n == 0 {
		return lavalink.Track{}, fmt.Errorf("%w, cannot jump", ErrQueueEmpty)
	}
	if position >= n {
		return lavalink.Track{}, fmt.Errorf("cannot jump to position %d, the queue only has %d tracks (indexed 0 to %d)", position, n, n-1)
	}

	return p.Jump(ctx, position)
}

// SetVolume sets the player volume in percent.
func (s *Service) SetVolume(ctx context.Context, guildID discord.GuildID, volume int) error {
	if volume < 0 || volume > MaxVolume {
		return ErrVolumeRange
	}

	unlock := s.lock(guildID)
	defer unlock()

	p, err := s.player(guildID)
	if err != nil {
		return err
	}

	return p.SetVolume(ctx, volume)
}

// TogglePause pauses or resumes playback and returns whether it is now paused.
func (s *Service) TogglePause(ctx context.Context, guildID discord.GuildID) (bool, error) {
	unlock := s.lock(guildID)
	defer unlock()

	p, err := s.player(guildID)
	if err != nil {
		return false, err
	}

	return p.TogglePause(ctx)
}

// NowPlaying returns the current track and playback state.
func (s *Service) NowPlaying(guildID discord.GuildID) (NowPlaying, error) {
	p, err := s.player(guildID)
	if err != nil {
		return NowPlaying{}, err
	}

	t, ok := p.Current()
	if !ok {
		return NowPlaying{}, ErrNothingPlaying
	}

	return NowPlaying{
		Track:    t,
		Position: p.Position(),
		Volume:   p.Volume(),
		Paused:   p.Paused(),
	}, nil
}

// Queue returns the upcoming tracks.
func (s *Service) Queue(guildID discord.GuildID) ([]lavalink.Track, error) {
	p, err := s.player(guildID)
	if err != nil {
		return nil, err
	}

	return p.Tracks(), nil
}

// Lyrics returns the lyrics of the current track.
func (s *Service) Lyrics(ctx context.Context, guildID discord.GuildID) (string, error) {
	p, err := s.player(guildID)
	if err != nil {
		return "", err
	}

	t, ok := p.Current()
	if !ok {
		return "", ErrNothingPlaying
	}

	key := lyricsKey(t)
	if s.noLyrics.Contains(key) {
		return "", lavalink.ErrNoLyrics
	}
	if text, ok := s.lyrics.Get(key); ok {
		return text, nil
	}

	text, err := s.node.Lyrics(ctx, guildID)

	// Lavalink answers for whatever is playing now, so only cache when
	// that is still the track the key was taken from.
	if now, ok := p.Current(); !ok || lyricsKey(now) != key {
		return "", ErrTrackChanged
	}

	if errors.Is(err, lavalink.ErrNoLyrics) {
		s.noLyrics.Mark(key)
		return "", err
	}
	if err != nil {
		return "", err
	}

	s.lyrics.Add(key, text)

	return text, nil
}

func lyricsKey(t lavalink.Track) string {
	return t.Info.SourceName + ":" + t.Info.Identifier
}
