package lavalink

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/config"
	"github.com/Raikerian/chimera/internal/metrics"
)

// Module provides the node connection. The bot starts the node once the
// gateway has identified, since the websocket needs the bot user id.
var Module = fx.Module("lavalink",
	fx.Provide(
		NewClientFromConfig,
		NewPlayersForClient,
		NewNodeFromConfig,
	),
)

// Addresses returns the REST base url and websocket url for cfg.
func Addresses(cfg config.LavalinkConfig) (rest, ws string) {
	httpScheme, wsScheme := "http", "ws"
	if cfg.Secure {
		httpScheme, wsScheme = "https", "wss"
	}

	host := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	return httpScheme + "://" + host, wsScheme + "://" + host + "/v4/websocket"
}

// NewClientFromConfig creates the REST client.
func NewClientFromConfig(cfg *config.Config) *Client {
	rest, _ := Addresses(cfg.Lavalink)
	return NewClient(rest, cfg.Lavalink.Password, nil)
}

// NewPlayersForClient binds the player set to the REST client.
func NewPlayersForClient(c *Client, logger *zap.Logger) *Players {
	return NewPlayers(c, logger)
}

// NodeParams holds dependencies for NewNodeFromConfig.
type NodeParams struct {
	fx.In
	Cfg     *config.Config
	Client  *Client
	Players *Players
	Metrics *metrics.Metrics `optional:"true"`
	Logger  *zap.Logger
}

// NewNodeFromConfig creates the websocket node.
func NewNodeFromConfig(params NodeParams) *Node {
	_, ws := Addresses(params.Cfg.Lavalink)

	return NewNode(NodeConfig{
		URL:            ws,
		Password:       params.Cfg.Lavalink.Password,
		ClientName:     params.Cfg.Lavalink.ClientName,
		ReconnectDelay: params.Cfg.Lavalink.ReconnectDelay,
	}, params.Client, params.Players, params.Metrics, params.Logger)
}
