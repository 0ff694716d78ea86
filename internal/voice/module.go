package voice

import (
	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/config"
)

// Module provides the voice manager.
var Module = fx.Module("voice",
	fx.Provide(NewStateManager),
)

// NewStateManager creates a Manager backed by the Discord state.
func NewStateManager(s *state.State, cfg *config.Config, logger *zap.Logger) *Manager {
	return NewManager(s, s, cfg.Music.VoiceJoinTimeout, logger)
}
