package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/eventbus"
	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/logger"
)

// Runtime implements internal/platform.Runtime and .ChatCapable for one
// Discord bot account: a Gateway connection for inbound events plus a REST
// client for sends.
type Runtime struct {
	account string
	bus     *eventbus.Bus
	log     *logger.Logger

	mu      sync.Mutex
	gateway *gatewayClient
	rest    *RESTClient
	since   time.Time
}

func New(account string, bus *eventbus.Bus) *Runtime {
	return &Runtime{
		account: account,
		bus:     bus,
		log:     logger.New("platform.discord"),
	}
}

func (r *Runtime) Connect(ctx context.Context, cred *domain.PlatformCredential) error {
	rest := NewRESTClient(cred.PrimaryToken)
	if _, err := rest.GetCurrentUser(); err != nil {
		return fmt.Errorf("discord identity check: %w", err)
	}

	gw := newGatewayClient(cred.PrimaryToken, r.handleDispatch)
	if err := gw.connect(ctx); err != nil {
		return fmt.Errorf("discord gateway connect: %w", err)
	}

	r.mu.Lock()
	r.rest = rest
	r.gateway = gw
	r.since = time.Now()
	r.mu.Unlock()
	return nil
}

func (r *Runtime) Disconnect(ctx context.Context) error {
	r.mu.Lock()
	gw := r.gateway
	r.gateway = nil
	r.mu.Unlock()
	if gw == nil {
		return nil
	}
	return gw.close()
}

func (r *Runtime) Ping(ctx context.Context) error {
	r.mu.Lock()
	gw := r.gateway
	r.mu.Unlock()
	if gw == nil || !gw.isConnected() {
		return fmt.Errorf("discord gateway not connected")
	}
	return nil
}

// SendChat implements internal/platform.ChatCapable: channel here is a
// Discord channel ID (the Manager's SendDiscordMessage forwards its
// channelID argument as channel).
func (r *Runtime) SendChat(ctx context.Context, channel, text, replyToID string) error {
	r.mu.Lock()
	rest := r.rest
	r.mu.Unlock()
	if rest == nil {
		return fmt.Errorf("discord rest client not connected")
	}
	_, err := rest.SendMessage(channel, text)
	return err
}

func (r *Runtime) handleDispatch(eventType string, msg messageCreateEvent) {
	if r.bus == nil {
		return
	}
	data := events.DiscordEventData{
		Kind:      events.DiscordMessageCreate,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		UserID:    msg.Author.ID,
		Username:  msg.Author.Username,
		Content:   msg.Content,
	}
	r.bus.Publish(context.Background(), events.NewDiscordEvent(data))

	chat := events.NewChatMessage("discord", msg.ChannelID, msg.Author.Username, msg.Content)
	chat.ChatMessage.Metadata["guild_id"] = msg.GuildID
	chat.ChatMessage.Metadata["message_id"] = msg.ID
	r.bus.Publish(context.Background(), chat)
}
