// Package voice joins and leaves Discord voice channels over the main
// gateway and collects the connection details the playback node needs.
package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/ws"
	"go.uber.org/zap"
)

// DefaultJoinTimeout bounds how long Join waits for Discord to answer.
const DefaultJoinTimeout = 10 * time.Second

var (
	// ErrJoinTimeout is returned when Discord does not confirm a join in time.
	ErrJoinTimeout = errors.New("timed out waiting for the voice connection")
	// ErrNotReady is returned before the bot user is known.
	ErrNotReady = errors.New("voice manager is not ready")
)

// ConnectionInfo is a voice connection as seen by the playback node.
type ConnectionInfo struct {
	GuildID   discord.GuildID
	ChannelID discord.ChannelID
	SessionID string
	Token     string
	Endpoint  string
}

func (c ConnectionInfo) complete() bool {
	return c.SessionID != "" && c.Token != "" && c.Endpoint != ""
}

// Sender writes commands to the Discord gateway.
type Sender interface {
	SendGateway(ctx context.Context, cmd ws.Event) error
}

// VoiceStates looks up cached voice states.
type VoiceStates interface {
	VoiceState(guildID discord.GuildID, userID discord.UserID) (*discord.VoiceState, error)
}

type pendingJoin struct {
	info ConnectionInfo
	done chan struct{}
}

// Manager tracks this bot's voice connections.
type Manager struct {
	sender  Sender
	states  VoiceStates
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	self     discord.UserID
	conns    map[discord.GuildID]ConnectionInfo
	pending  map[discord.GuildID]*pendingJoin
	onUpdate []func(ConnectionInfo)
}

// NewManager creates a manager. SetUserID must be called once the gateway is ready.
func NewManager(sender Sender, states VoiceStates, timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = DefaultJoinTimeout
	}

	return &Manager{
		sender:  sender,
		states:  states,
		timeout: timeout,
		logger:  logger.Named("voice"),
		conns:   make(map[discord.GuildID]ConnectionInfo),
		pending: make(map[discord.GuildID]*pendingJoin),
	}
}

// SetUserID records the bot's own user id.
func (m *Manager) SetUserID(id discord.UserID) {
	m.mu.Lock()
	m.self = id
	m.mu.Unlock()
}

// OnUpdate registers fn to run when an established connection moves to a
// new voice server or session.
func (m *Manager) OnUpdate(fn func(ConnectionInfo)) {
	m.mu.Lock()
	m.onUpdate = append(m.onUpdate, fn)
	m.mu.Unlock()
}

// UserChannel returns the voice channel user is in.
func (m *Manager) UserChannel(guildID discord.GuildID, userID discord.UserID) (discord.ChannelID, bool) {
	vs, err := m.states.VoiceState(guildID, userID)
	if err != nil || vs == nil || !vs.ChannelID.IsValid() {
		return 0, false
	}
	return vs.ChannelID, true
}

// Connected returns the guild's voice connection.
func (m *Manager) Connected(guildID discord.GuildID) (ConnectionInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conns[guildID]
	return c, ok
}

// Join connects to channelID and waits until Discord has sent both the
// voice session and the voice server for the guild.
func (m *Manager) Join(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (ConnectionInfo, error) {
	m.mu.Lock()
	if !m.self.IsValid() {
		m.mu.Unlock()
		return ConnectionInfo{}, ErrNotReady
	}

	p := &pendingJoin{
		info: ConnectionInfo{GuildID: guildID, ChannelID: channelID},
		done: make(chan struct{}),
	}
	m.pending[guildID] = p
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.pending[guildID] == p {
			delete(m.pending, guildID)
		}
		m.mu.Unlock()
	}()

	err := m.sender.SendGateway(ctx, &gateway.UpdateVoiceStateCommand{
		GuildID:   guildID,
		ChannelID: channelID,
		SelfDeaf:  true,
	})
	if err != nil {
		return ConnectionInfo{}, fmt.Errorf("failed to request voice connection: %w", err)
	}

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		return ConnectionInfo{}, ErrJoinTimeout
	case <-ctx.Done():
		return ConnectionInfo{}, ctx.Err()
	}

	m.mu.Lock()
	info := p.info
	m.conns[guildID] = info
	m.mu.Unlock()

	m.logger.Info("Joined voice channel",
		zap.Stringer("guildID", guildID), zap.Stringer("channelID", channelID))

	return info, nil
}

// Leave disconnects from the guild's voice channel.
func (m *Manager) Leave(ctx context.Context, guildID discord.GuildID) error {
	m.mu.Lock()
	delete(m.conns, guildID)
	m.mu.Unlock()

	err := m.sender.SendGateway(ctx, &gateway.UpdateVoiceStateCommand{
		GuildID:   guildID,
		ChannelID: discord.NullChannelID,
	})
	if err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}

	m.logger.Info("Left voice channel", zap.Stringer("guildID", guildID))

	return nil
}

// HandleVoiceState consumes voice state updates for the bot user.
func (m *Manager) HandleVoiceState(e *gateway.VoiceStateUpdateEvent) {
	m.mu.Lock()
	if e.UserID != m.self || !m.self.IsValid() {
		m.mu.Unlock()
		return
	}

	if !e.ChannelID.IsValid() {
		delete(m.conns, e.GuildID)
		m.mu.Unlock()
		m.logger.Debug("Disconnected from voice", zap.Stringer("guildID", e.GuildID))
		return
	}

	if p, ok := m.pending[e.GuildID]; ok {
		p.info.SessionID = e.SessionID
		p.info.ChannelID = e.ChannelID
		m.resolve(p)
		m.mu.Unlock()
		return
	}

	c, ok := m.conns[e.GuildID]
	if !ok {
		m.mu.Unlock()
		return
	}
	changed := c.SessionID != e.SessionID
	c.SessionID = e.SessionID
	c.ChannelID = e.ChannelID
	m.conns[e.GuildID] = c
	m.mu.Unlock()

	if changed {
		m.notify(c)
	}
}

// HandleVoiceServer consumes voice server updates.
func (m *Manager) HandleVoiceServer(e *gateway.VoiceServerUpdateEvent) {
	if e.Endpoint == "" {
		m.logger.Debug("Voice server unavailable", zap.Stringer("guildID", e.GuildID))
		return
	}

	m.mu.Lock()
	if p, ok := m.pending[e.GuildID]; ok {
		p.info.Token = e.Token
		p.info.Endpoint = e.Endpoint
		m.resolve(p)
		m.mu.Unlock()
		return
	}

	c, ok := m.conns[e.GuildID]
	if !ok {
		m.mu.Unlock()
		return
	}
	c.Token = e.Token
	c.Endpoint = e.Endpoint
	m.conns[e.GuildID] = c
	m.mu.Unlock()

	m.notify(c)
}

// resolve wakes the joiner once both halves have arrived. m.mu must be held.
func (m *Manager) resolve(p *pendingJoin) {
	if !p.info.complete() {
		return
	}

	select {
	case <-p.done:
	default:
		close(p.done)
	}
}

func (m *Manager) notify(c ConnectionInfo) {
	m.mu.Lock()
	fns := append([]func(ConnectionInfo){}, m.onUpdate...)
	m.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
