package dispatch

import (
	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/fx"

	"github.com/Raikerian/chimera/internal/config"
)

// Module provides the dispatcher and its collaborators. The command registry
// is supplied by the commands module.
var Module = fx.Module("dispatch",
	fx.Provide(
		NewMessenger,
		NewConfiguredThrottle,
		NewComponentTable,
		NewDispatcher,
	),
)

// NewMessenger exposes the Discord state as the reply channel.
func NewMessenger(s *state.State) Messenger {
	return s
}

// NewConfiguredThrottle builds the per-user throttle from config.
func NewConfiguredThrottle(cfg *config.Config) (*Throttle, error) {
	return NewThrottle(cfg.Dispatch.RatePerSecond, cfg.Dispatch.RateBurst, cfg.Dispatch.LimiterCacheSize)
}
