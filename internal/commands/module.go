package commands

import (
	"sort"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/dispatch"
	"github.com/Raikerian/chimera/internal/latency"
	"github.com/Raikerian/chimera/internal/lavalink"
	"github.com/Raikerian/chimera/internal/music"
)

// Order is the listing order of commands in help and the published schema.
// Commands not named here follow in name order.
var Order = []string{
	"ping", "play", "stop", "queue", "now_playing", "skip",
	"volume", "jump", "help", "lyrics", "version",
}

// Module provides the command registry and every command.
var Module = fx.Module("commands",
	fx.Provide(
		NewMusic,
		NewNodeVersioner,
		NewRegistry,
		asCommand(NewPingCommand),
		asCommand(NewPlayCommand),
		asCommand(NewStopCommand),
		asCommand(NewQueueCommand),
		asCommand(NewNowPlayingCommand),
		asCommand(NewSkipCommand),
		asCommand(NewVolumeCommand),
		asCommand(NewJumpCommand),
		asCommand(NewHelpCommand),
		asCommand(NewLyricsCommand),
		asCommand(NewVersionCommand),
	),
)

func asCommand(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(dispatch.Command)),
		fx.ResultTags(`group:"commands"`),
	)
}

// All returns one of every command in Order. The schema export builds them
// with nil dependencies, which is safe as long as nothing is executed.
func All(svc Music, tracker *latency.Tracker, node NodeVersioner) []dispatch.Command {
	return []dispatch.Command{
		NewPingCommand(tracker),
		NewPlayCommand(svc),
		NewStopCommand(svc),
		NewQueueCommand(svc),
		NewNowPlayingCommand(svc),
		NewSkipCommand(svc),
		NewVolumeCommand(svc),
		NewJumpCommand(svc),
		NewHelpCommand(),
		NewLyricsCommand(svc),
		NewVersionCommand(node),
	}
}

// NewMusic exposes the music service to commands.
func NewMusic(svc *music.Service) Music { return svc }

// NewNodeVersioner exposes the Lavalink REST client to the version command.
func NewNodeVersioner(client *lavalink.Client) NodeVersioner { return client }

// RegistryParams holds dependencies for NewRegistry.
type RegistryParams struct {
	fx.In
	Commands []dispatch.Command `group:"commands"`
	Logger   *zap.Logger
}

type registryAware interface {
	bind(r *dispatch.Registry)
}

// NewRegistry defines every command in Order and builds the lookup registry.
func NewRegistry(params RegistryParams) (*dispatch.Registry, error) {
	cmds := make([]dispatch.Command, 0, len(params.Commands))
	for _, cmd := range params.Commands {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	sortCommands(cmds)

	defs := make([]dispatch.Definition, 0, len(cmds))
	for _, cmd := range cmds {
		defs = append(defs, dispatch.Define(cmd, nil))
		params.Logger.Debug("Defined command", zap.String("commandName", cmd.Name()))
	}

	registry, err := dispatch.NewRegistry(defs...)
	if err != nil {
		return nil, err
	}

	for _, cmd := range cmds {
		if ra, ok := cmd.(registryAware); ok {
			ra.bind(registry)
		}
	}

	params.Logger.Info("Command registry built", zap.Int("count", registry.Len()))

	return registry, nil
}

func sortCommands(cmds []dispatch.Command) {
	rank := make(map[string]int, len(Order))
	for i, name := range Order {
		rank[name] = i
	}

	sort.SliceStable(cmds, func(i, j int) bool {
		ri, iok := rank[cmds[i].Name()]
		rj, jok := rank[cmds[j].Name()]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return cmds[i].Name() < cmds[j].Name()
		}
	})
}
