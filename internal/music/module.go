package music

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/config"
	"github.com/Raikerian/chimera/internal/lavalink"
	"github.com/Raikerian/chimera/internal/voice"
)

const (
	defaultLyricsCacheSize   = 256
	defaultNegativeCacheSize = 1024
)

// Module provides the music service and its caches.
var Module = fx.Module("music",
	fx.Provide(
		NewLyricsCacheProvider,
		NewNegativeLyricsCacheProvider,
		NewServiceProvider,
	),
)

// NewLyricsCacheProvider creates a LyricsCache with config-derived size.
func NewLyricsCacheProvider(cfg *config.Config, logger *zap.Logger) (*LyricsCache, error) {
	size := cfg.Music.LyricsCacheSize
	if size <= 0 {
		logger.Warn("Music LyricsCacheSize is not configured or is invalid, defaulting",
			zap.Int("configuredSize", size), zap.Int("default", defaultLyricsCacheSize))
		size = defaultLyricsCacheSize
	}
	logger.Info("Creating LyricsCache", zap.Int("size", size))

	return NewLyricsCache(size)
}

// NewNegativeLyricsCacheProvider creates the cache of tracks without lyrics.
func NewNegativeLyricsCacheProvider() (*NegativeLyricsCache, error) {
	return NewNegativeLyricsCache(defaultNegativeCacheSize)
}

// ServiceParams holds dependencies for NewServiceProvider.
type ServiceParams struct {
	fx.In
	Client   *lavalink.Client
	Players  *lavalink.Players
	Voice    *voice.Manager
	Lyrics   *LyricsCache
	NoLyrics *NegativeLyricsCache
	Logger   *zap.Logger
}

// NewServiceProvider adapts NewService for Fx.
func NewServiceProvider(params ServiceParams) *Service {
	return NewService(params.Client, params.Players, params.Voice, params.Lyrics, params.NoLyrics, params.Logger)
}
