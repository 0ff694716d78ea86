package components

import (
	"go.uber.org/fx"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/music"
)

// Module registers the player control buttons.
var Module = fx.Module("components",
	fx.Provide(
		NewPlayer,
		NewButtons,
	),
	fx.Invoke(RegisterButtons),
)

// NewPlayer exposes the music service to the buttons.
func NewPlayer(svc *music.Service) Player { return svc }

// RegisterButtons binds the control row handlers to the dispatcher's table.
func RegisterButtons(b *Buttons, table *dispatch.ComponentTable) error {
	return b.Register(table)
}
