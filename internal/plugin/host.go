package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/maowbot/maowbot/internal/cache"
	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/eventbus"
	"github.com/maowbot/maowbot/internal/logger"
)

// tickInterval matches spec.md §4.6's Host -> Client Tick cadence.
const tickInterval = 10 * time.Second

// ChatSender is the narrow interface the host needs to act on a plugin's
// SendChat frame, matching the same small-interface-at-the-boundary shape
// internal/pipeline/builtin uses for platform.Manager.
type ChatSender interface {
	SendTwitchMessage(ctx context.Context, account, channel, text, replyToID string) error
}

// connection tracks one authenticated plugin.
type connection struct {
	name    string
	session Session
	caps    map[Capability]bool
	enabled bool
	since   time.Time
}

func (c *connection) has(cap Capability) bool { return c.caps[cap] }

// SessionObserver receives the live plugin-session count. internal/metrics.Metrics
// satisfies this without Host importing it directly.
type SessionObserver interface {
	SetPluginSessionsActive(n int)
}

// Host accepts plugin sessions, runs the Hello/Welcome handshake, grants
// capabilities from its Policy, and fans out chat events and ticks.
// Grounded on services/sse-service's broker for the fan-out loop and on
// shared/grpc/interceptor.go's auth-then-handler split for the handshake
// shape, generalized to a capability grant instead of a pass/fail check.
type Host struct {
	bus    *eventbus.Bus
	policy *Policy
	chat   ChatSender
	cache  cache.Cache
	log    *logger.Logger

	botName   string
	startedAt time.Time

	mu    sync.RWMutex
	conns map[string]*connection

	obs SessionObserver

	stopOnce sync.Once
	stopCh   chan struct{}
}

// SetObserver wires a metrics sink for the connected-plugin gauge. Passing
// nil disables instrumentation.
func (h *Host) SetObserver(obs SessionObserver) {
	h.obs = obs
}

func (h *Host) reportSessionCount() {
	if h.obs == nil {
		return
	}
	h.mu.RLock()
	n := len(h.conns)
	h.mu.RUnlock()
	h.obs.SetPluginSessionsActive(n)
}

// New builds a Host. chat may be nil if no platform manager is wired;
// SendChat frames are then rejected and the error is logged by the host
// (nothing is sent back to the plugin). c may be
// nil, disabling cross-process plugin-presence tracking
// (spec.md §6 `plugin:<id>:online`).
func New(botName string, bus *eventbus.Bus, policy *Policy, chat ChatSender, c cache.Cache) *Host {
	h := &Host{
		bus:       bus,
		policy:    policy,
		chat:      chat,
		cache:     c,
		log:       logger.New("plugin.host"),
		botName:   botName,
		startedAt: time.Now(),
		conns:     make(map[string]*connection),
		stopCh:    make(chan struct{}),
	}
	go h.tickLoop()
	go h.chatFanout()
	return h
}

// Shutdown stops the host's background loops and force-disconnects every
// connected plugin.
func (h *Host) Shutdown() {
	h.stopOnce.Do(func() { close(h.stopCh) })

	h.mu.Lock()
	conns := make([]*connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, c := range conns {
		_ = c.session.Send(ctx, HostFrame{ForceDisconnect: &ForceDisconnect{Reason: "server shutdown"}})
		_ = c.session.Close()
	}
}

// HandleSession runs the full lifecycle of one plugin connection: Hello
// handshake, then a Recv loop dispatching client frames until the session
// closes. It blocks until the session ends, matching the convention of a
// gRPC bidi-stream handler method that returns when the stream does.
func (h *Host) HandleSession(ctx context.Context, session Session) error {
	hello, err := h.awaitHello(ctx, session)
	if err != nil {
		return err
	}

	conn := &connection{
		name:    hello.PluginName,
		session: session,
		caps:    make(map[Capability]bool),
		enabled: true,
		since:   time.Now(),
	}
	h.mu.Lock()
	h.conns[conn.name] = conn
	h.mu.Unlock()
	if h.cache != nil {
		_ = cache.MarkPluginOnline(ctx, h.cache, conn.name)
	}
	h.reportSessionCount()
	defer func() {
		h.mu.Lock()
		delete(h.conns, conn.name)
		h.mu.Unlock()
		if h.cache != nil {
			_ = cache.MarkPluginOffline(context.Background(), h.cache, conn.name)
		}
		h.reportSessionCount()
	}()

	if err := session.Send(ctx, HostFrame{Welcome: &Welcome{BotName: h.botName}}); err != nil {
		return err
	}

	for {
		frame, err := session.Recv(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrSessionClosed) {
				return nil
			}
			return err
		}
		if err := h.dispatch(ctx, conn, frame); err != nil {
			h.log.Error("plugin %s: %v", conn.name, err)
		}
	}
}

// awaitHello enforces the handshake invariant: the first frame must be
// Hello, and the passphrase must be correct, or the session is rejected.
func (h *Host) awaitHello(ctx context.Context, session Session) (*Hello, error) {
	frame, err := session.Recv(ctx)
	if err != nil {
		return nil, err
	}
	if frame.Hello == nil {
		_ = session.Send(ctx, HostFrame{AuthError: &AuthError{Reason: "protocol"}})
		_ = session.Close()
		return nil, fmt.Errorf("plugin: first frame was not Hello")
	}
	if !h.policy.checkPassphrase(frame.Hello.Passphrase) {
		_ = session.Send(ctx, HostFrame{AuthError: &AuthError{Reason: "unauthorized"}})
		_ = session.Close()
		return nil, fmt.Errorf("plugin: bad passphrase for %q", frame.Hello.PluginName)
	}
	return frame.Hello, nil
}

func (h *Host) dispatch(ctx context.Context, conn *connection, frame ClientFrame) error {
	switch {
	case frame.RequestCaps != nil:
		granted, denied := h.policy.Resolve(conn.name, frame.RequestCaps.Requested)
		h.mu.Lock()
		for _, c := range granted {
			conn.caps[c] = true
		}
		h.mu.Unlock()
		return conn.session.Send(ctx, HostFrame{CapabilityResponse: &CapabilityResponse{Granted: granted, Denied: denied}})

	case frame.LogMessage != nil:
		h.log.Info("plugin %s: %s", conn.name, frame.LogMessage.Text)
		return nil

	case frame.SendChat != nil:
		if !conn.has(CapSendChat) {
			return fmt.Errorf("plugin %s lacks SendChat capability", conn.name)
		}
		if h.chat == nil {
			return fmt.Errorf("plugin %s: no chat sender wired", conn.name)
		}
		return h.chat.SendTwitchMessage(ctx, "", frame.SendChat.Channel, frame.SendChat.Text, "")

	case frame.Shutdown != nil:
		if !conn.has(CapAdmin) {
			return fmt.Errorf("plugin %s lacks Admin capability", conn.name)
		}
		h.bus.Shutdown()
		return nil

	case frame.SwitchAccount != nil:
		if !conn.has(CapAdmin) {
			return fmt.Errorf("plugin %s lacks Admin capability", conn.name)
		}
		// Account switching is driven through PlatformService in
		// internal/rpc; the host only enforces the capability gate here.
		return nil

	default:
		return fmt.Errorf("plugin %s sent an empty frame", conn.name)
	}
}

// Enable/Disable/Remove/List back PluginService (spec.md §4.7).

func (h *Host) SetEnabled(pluginName string, enabled bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[pluginName]
	if !ok {
		return fmt.Errorf("plugin %q not connected", pluginName)
	}
	c.enabled = enabled
	return nil
}

func (h *Host) Remove(ctx context.Context, pluginName string) error {
	h.mu.Lock()
	c, ok := h.conns[pluginName]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("plugin %q not connected", pluginName)
	}
	_ = c.session.Send(ctx, HostFrame{ForceDisconnect: &ForceDisconnect{Reason: "removed by operator"}})
	return c.session.Close()
}

type PluginInfo struct {
	Name      string
	Enabled   bool
	Caps      []Capability
	Connected time.Time
}

func (h *Host) List() []PluginInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]PluginInfo, 0, len(h.conns))
	for _, c := range h.conns {
		caps := make([]Capability, 0, len(c.caps))
		for cap := range c.caps {
			caps = append(caps, cap)
		}
		out = append(out, PluginInfo{Name: c.name, Enabled: c.enabled, Caps: caps, Connected: c.since})
	}
	return out
}

// Status backs PluginService.GetSystemStatus.
func (h *Host) Status() StatusResponse {
	h.mu.RLock()
	n := len(h.conns)
	h.mu.RUnlock()
	return StatusResponse{ConnectedPlugins: n, ServerUptime: time.Since(h.startedAt)}
}

// tickLoop sends Tick every 10s to plugins with ReadStatus, matching
// spec.md §4.6's keepalive cadence.
func (h *Host) tickLoop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-h.stopCh:
			return
		case now := <-ticker.C:
			h.broadcast(CapReadStatus, HostFrame{Tick: &Tick{At: now}})
			h.refreshPresence()
		}
	}
}

// refreshPresence extends every connected plugin's presence TTL so a
// plugin that never requests ReadStatus ticks still shows as online.
func (h *Host) refreshPresence() {
	if h.cache == nil {
		return
	}
	h.mu.RLock()
	names := make([]string, 0, len(h.conns))
	for name := range h.conns {
		names = append(names, name)
	}
	h.mu.RUnlock()

	ctx := context.Background()
	for _, name := range names {
		_ = cache.MarkPluginOnline(ctx, h.cache, name)
	}
}

// chatFanout subscribes to the bus and forwards ChatMessage events to
// plugins with ReceiveChatEvents.
func (h *Host) chatFanout() {
	recv := h.bus.Subscribe(eventbus.DefaultBufferSize)
	defer h.bus.Unsubscribe(recv)
	for {
		select {
		case <-h.stopCh:
			return
		case ev, ok := <-recv.C:
			if !ok {
				return
			}
			if ev.Kind != events.KindChatMessage {
				continue
			}
			cm := ev.ChatMessage
			h.broadcast(CapReceiveChatEvents, HostFrame{ChatMessage: &ChatMessage{
				Platform: cm.Platform,
				Channel:  cm.Channel,
				User:     cm.User,
				Text:     cm.Text,
			}})
		}
	}
}

// broadcast sends frame to every connected, enabled plugin holding cap.
// Disabled plugins are skipped silently, matching spec.md §4.6's
// enable/disable semantics.
func (h *Host) broadcast(cap Capability, frame HostFrame) {
	h.mu.RLock()
	targets := make([]*connection, 0, len(h.conns))
	for _, c := range h.conns {
		if c.enabled && c.has(cap) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, c := range targets {
		if err := c.session.Send(ctx, frame); err != nil {
			h.log.Error("plugin %s: broadcast send failed: %v", c.name, err)
		}
	}
}
