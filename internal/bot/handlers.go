package bot

import (
	"context"

	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"
)

// onReady starts the node connection and the latency poller the first time
// the gateway identifies. Both need the bot's user id or a live heartbeat.
func (b *Bot) onReady(e *gateway.ReadyEvent) {
	b.voice.SetUserID(e.User.ID)

	b.logger.Info("Gateway ready",
		zap.Stringer("userID", e.User.ID),
		zap.String("username", e.User.Username),
		zap.Int("guilds", len(e.Guilds)),
	)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started || b.stopped {
		return
	}
	b.started = true

	b.node.Start(e.User.ID)
	b.poller.Start()
}

func (b *Bot) onMessage(e *gateway.MessageCreateEvent) {
	b.dispatcher.HandleMessage(context.Background(), e)
}

func (b *Bot) onInteraction(e *gateway.InteractionCreateEvent) {
	b.dispatcher.HandleInteraction(context.Background(), e)
}

func (b *Bot) onVoiceState(e *gateway.VoiceStateUpdateEvent) {
	b.voice.HandleVoiceState(e)
}

func (b *Bot) onVoiceServer(e *gateway.VoiceServerUpdateEvent) {
	b.voice.HandleVoiceServer(e)
}
