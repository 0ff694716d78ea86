package lavalink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/metrics"
)

const maxReconnectDelay = time.Minute

// Stats is the node load report.
type Stats struct {
	Players        int   `json:"players"`
	PlayingPlayers int   `json:"playingPlayers"`
	Uptime         int64 `json:"uptime"`
	Memory         struct {
		Free       int64 `json:"free"`
		Used       int64 `json:"used"`
		Allocated  int64 `json:"allocated"`
		Reservable int64 `json:"reservable"`
	} `json:"memory"`
	CPU struct {
		Cores        int     `json:"cores"`
		SystemLoad   float64 `json:"systemLoad"`
		LavalinkLoad float64 `json:"lavalinkLoad"`
	} `json:"cpu"`
}

// message is any op received on the websocket.
type message struct {
	Op string `json:"op"`

	// ready
	Resumed   bool   `json:"resumed"`
	SessionID string `json:"sessionId"`

	// playerUpdate and event
	GuildID string      `json:"guildId"`
	State   PlayerState `json:"state"`

	// event
	Type      string     `json:"type"`
	Track     *Track     `json:"track"`
	Reason    string     `json:"reason"`
	Exception *Exception `json:"exception"`
	Code      int        `json:"code"`
}

// NodeConfig locates the node websocket.
type NodeConfig struct {
	URL            string
	Password       string
	ClientName     string
	ReconnectDelay time.Duration
}

// Node keeps the websocket to the playback node open and applies its events
// to the player set.
type Node struct {
	cfg     NodeConfig
	client  *Client
	players *Players
	dialer  *websocket.Dialer
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu     sync.RWMutex
	stats  *Stats
	ready  chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// NewNode creates a node connection. It does not dial until Start.
func NewNode(cfg NodeConfig, client *Client, players *Players, m *metrics.Metrics, logger *zap.Logger) *Node {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 2 * time.Second
	}

	return &Node{
		cfg:     cfg,
		client:  client,
		players: players,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   4096,
			WriteBufferSize:  1024,
		},
		metrics: m,
		logger:  logger.Named("lavalink"),
		ready:   make(chan struct{}),
	}
}

// Start connects as userID and keeps reconnecting until Stop.
func (n *Node) Start(userID discord.UserID) {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.done = make(chan struct{})

	go n.run(ctx, userID)
}

// Stop closes the connection and waits for the reader to exit.
func (n *Node) Stop() {
	if n.cancel == nil {
		return
	}

	n.cancel()
	<-n.done
	n.cancel = nil
}

// Ready is closed once the first session is established.
func (n *Node) Ready() <-chan struct{} {
	return n.ready
}

// Stats returns the latest load report.
func (n *Node) Stats() (Stats, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.stats == nil {
		return Stats{}, false
	}
	return *n.stats, true
}

func (n *Node) run(ctx context.Context, userID discord.UserID) {
	defer close(n.done)

	delay := n.cfg.ReconnectDelay
	for {
		connected, err := n.connect(ctx, userID)
		if ctx.Err() != nil {
			return
		}
		if connected {
			delay = n.cfg.ReconnectDelay
		}

		n.logger.Warn("Lavalink connection lost, reconnecting", zap.Error(err), zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// connect dials once and reads until the connection fails.
func (n *Node) connect(ctx context.Context, userID discord.UserID) (bool, error) {
	header := http.Header{}
	header.Set("Authorization", n.cfg.Password)
	header.Set("User-Id", userID.String())
	header.Set("Client-Name", n.cfg.ClientName)
	if sid := n.client.SessionID(); sid != "" {
		header.Set("Session-Id", sid)
	}

	conn, resp, err := n.dialer.DialContext(ctx, n.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("lavalink websocket dial failed: %w (status: %d)", err, resp.StatusCode)
		}
		return false, fmt.Errorf("lavalink websocket dial failed: %w", err)
	}

	n.logger.Info("Connected to Lavalink", zap.String("url", n.cfg.URL))

	closed := make(chan struct{})
	defer close(closed)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-closed:
		}
	}()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return true, nil
			}
			return true, err
		}

		n.handle(ctx, data)
	}
}

func (n *Node) handle(ctx context.Context, data []byte) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		n.logger.Warn("Failed to decode Lavalink message", zap.Error(err))
		return
	}

	n.metrics.NodeEvent(msg.Op)

	switch msg.Op {
	case "ready":
		n.client.SetSessionID(msg.SessionID)
		if !msg.Resumed {
			n.players.Reset()
		}
		n.logger.Info("Lavalink session ready", zap.String("sessionID", msg.SessionID), zap.Bool("resumed", msg.Resumed))

		n.mu.Lock()
		select {
		case <-n.ready:
		default:
			close(n.ready)
		}
		n.mu.Unlock()

	case "playerUpdate":
		if p, ok := n.player(msg.GuildID); ok {
			p.handleState(msg.State)
		}

	case "stats":
		var stats Stats
		if err := json.Unmarshal(data, &stats); err != nil {
			n.logger.Debug("Failed to decode stats", zap.Error(err))
			return
		}
		n.mu.Lock()
		n.stats = &stats
		n.mu.Unlock()

	case "event":
		n.handleEvent(ctx, msg)

	default:
		n.logger.Debug("Ignoring Lavalink op", zap.String("op", msg.Op))
	}
}

func (n *Node) handleEvent(ctx context.Context, msg message) {
	logger := n.logger.With(zap.String("guildID", msg.GuildID), zap.String("event", msg.Type))

	p, ok := n.player(msg.GuildID)
	if !ok {
		logger.Debug("Event for unknown player")
		return
	}

	switch msg.Type {
	case "TrackStartEvent":
		logger.Debug("Track started")

	case "TrackEndEvent":
		if msg.Track == nil {
			return
		}
		logger.Debug("Track ended", zap.String("reason", msg.Reason))
		p.handleTrackEnd(ctx, msg.Track.Encoded, msg.Reason)

	case "TrackExceptionEvent":
		if msg.Exception != nil {
			logger.Warn("Track failed", zap.String("message", msg.Exception.Message), zap.String("severity", msg.Exception.Severity))
		}

	case "TrackStuckEvent":
		logger.Warn("Track stuck")

	case "WebSocketClosedEvent":
		logger.Warn("Discord voice websocket closed", zap.Int("code", msg.Code), zap.String("reason", msg.Reason))
	}
}

func (n *Node) player(guildID string) (*Player, bool) {
	sf, err := discord.ParseSnowflake(guildID)
	if err != nil {
		return nil, false
	}
	return n.players.Get(discord.GuildID(sf))
}
