package twitch

import (
	"context"
	"fmt"
	"sync"

	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/eventbus"
	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/logger"
)

// Runtime implements internal/platform.Runtime and .ChatCapable for one
// Twitch account: an IRC connection for chat plus a Helix client for REST
// calls, both fed by the same credential the Manager resolves before
// Connect.
type Runtime struct {
	server  string
	port    string
	account string
	bus     *eventbus.Bus
	log     *logger.Logger

	mu    sync.Mutex
	irc   *ircClient
	helix *HelixClient
	token string
}

// New builds a Twitch Runtime for account. Connect joins the account's own
// channel, or the credential's PlatformID when that is set.
// server/port default to Twitch's production IRC endpoint.
func New(account, server, port string, bus *eventbus.Bus) *Runtime {
	if server == "" {
		server = "irc.chat.twitch.tv"
	}
	if port == "" {
		port = "6667"
	}
	return &Runtime{
		server:  server,
		port:    port,
		account: account,
		bus:     bus,
		log:     logger.New("platform.twitch"),
	}
}

func (r *Runtime) Connect(ctx context.Context, cred *domain.PlatformCredential) error {
	r.mu.Lock()
	r.token = cred.PrimaryToken
	r.mu.Unlock()

	irc := newIRCClient(r.server, r.port, r.account)
	irc.setMessageHandler(r.handleChatMessage)

	channel := r.account
	if cred.PlatformID != nil && *cred.PlatformID != "" {
		channel = *cred.PlatformID
	}
	if err := irc.connect(ctx, cred.PrimaryToken, []string{channel}); err != nil {
		return fmt.Errorf("twitch irc connect: %w", err)
	}

	helix := NewHelixClient(cred.UserName, func() (string, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.token, nil
	})

	r.mu.Lock()
	r.irc = irc
	r.helix = helix
	r.mu.Unlock()
	return nil
}

func (r *Runtime) Disconnect(ctx context.Context) error {
	r.mu.Lock()
	irc := r.irc
	r.irc = nil
	r.mu.Unlock()
	if irc == nil {
		return nil
	}
	return irc.disconnect()
}

func (r *Runtime) Ping(ctx context.Context) error {
	r.mu.Lock()
	irc := r.irc
	r.mu.Unlock()
	if irc == nil || !irc.isConnected() {
		return fmt.Errorf("twitch irc not connected")
	}
	return nil
}

// SendChat implements internal/platform.ChatCapable.
func (r *Runtime) SendChat(ctx context.Context, channel, text, replyToID string) error {
	r.mu.Lock()
	irc := r.irc
	r.mu.Unlock()
	if irc == nil {
		return fmt.Errorf("twitch irc not connected")
	}
	return irc.sendMessage(channel, text)
}

// JoinChannel joins an additional IRC channel at runtime.
func (r *Runtime) JoinChannel(channel string) error {
	r.mu.Lock()
	irc := r.irc
	r.mu.Unlock()
	if irc == nil {
		return fmt.Errorf("twitch irc not connected")
	}
	return irc.joinChannel(channel)
}

func (r *Runtime) handleChatMessage(channel, username, displayName, userID, message string, tags map[string]string) {
	if r.bus == nil {
		return
	}
	meta := map[string]string{
		"display_name": displayName,
		"user_id":      userID,
	}
	for _, k := range []string{"mod", "subscriber", "vip", "badges", "id"} {
		if v, ok := tags[k]; ok {
			meta[k] = v
		}
	}
	if id, ok := tags["id"]; ok {
		meta["message_id"] = id
	}
	event := events.NewChatMessage("twitch", channel, username, message)
	for k, v := range meta {
		event.ChatMessage.Metadata[k] = v
	}
	r.bus.Publish(context.Background(), event)
}
