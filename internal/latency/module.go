package latency

import (
	"go.uber.org/fx"
)

// Module provides the shared latency tracker. The poller is started by the
// bot once the gateway is connected.
var Module = fx.Module("latency",
	fx.Provide(NewTracker),
)
