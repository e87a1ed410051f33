package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maowbot/maowbot/internal/logger"
)

const gatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"

// opcode is a Discord Gateway payload opcode.
type opcode int

const (
	opDispatch            opcode = 0
	opHeartbeat           opcode = 1
	opIdentify            opcode = 2
	opInvalidSession      opcode = 9
	opHello               opcode = 10
	opHeartbeatAck        opcode = 11
)

type gatewayPayload struct {
	Op opcode          `json:"op"`
	D  json.RawMessage `json:"d,omitempty"`
	S  *int            `json:"s,omitempty"`
	T  string          `json:"t,omitempty"`
}

type helloData struct {
	HeartbeatInterval int `json:"heartbeat_interval"`
}

type identifyData struct {
	Token      string             `json:"token"`
	Intents    int                `json:"intents"`
	Properties identifyProperties `json:"properties"`
}

type identifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

// gatewayIntents requests guilds, guild messages and message content, the
// minimum set a chat-relaying bot needs.
const gatewayIntents = 1<<0 | 1<<9 | 1<<15

// messageCreateEvent mirrors Discord's MESSAGE_CREATE dispatch payload.
type messageCreateEvent struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id"`
	Content   string `json:"content"`
	Author    struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Bot      bool   `json:"bot"`
	} `json:"author"`
}

// DispatchHandler receives one normalized Gateway dispatch event.
type DispatchHandler func(eventType string, msg messageCreateEvent)

// gatewayClient manages one Discord Gateway websocket connection:
// Hello/Identify handshake and heartbeat loop, dispatching MESSAGE_CREATE
// onward to a DispatchHandler. Grounded on gorilla/websocket (present in
// the corpus via r3e-network-service_layer's go.mod) since no Discord
// gateway library appears anywhere in the retrieved examples.
type gatewayClient struct {
	token   string
	handler DispatchHandler
	log     *logger.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	stop chan struct{}
}

func newGatewayClient(token string, handler DispatchHandler) *gatewayClient {
	return &gatewayClient{
		token:   token,
		handler: handler,
		log:     logger.New("platform.discord.gateway"),
	}
}

func (g *gatewayClient) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, gatewayURL, nil)
	if err != nil {
		return fmt.Errorf("dial discord gateway: %w", err)
	}

	g.mu.Lock()
	g.conn = conn
	g.stop = make(chan struct{})
	g.mu.Unlock()

	var hello gatewayPayload
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("read hello: %w", err)
	}
	if hello.Op != opHello {
		return fmt.Errorf("expected hello opcode, got %d", hello.Op)
	}
	var helloD helloData
	if err := json.Unmarshal(hello.D, &helloD); err != nil {
		return fmt.Errorf("decode hello: %w", err)
	}

	if err := g.identify(); err != nil {
		return err
	}

	go g.heartbeatLoop(time.Duration(helloD.HeartbeatInterval) * time.Millisecond)
	go g.readLoop()
	return nil
}

func (g *gatewayClient) identify() error {
	data := identifyData{
		Token:   g.token,
		Intents: gatewayIntents,
		Properties: identifyProperties{
			OS:      "linux",
			Browser: "maowbotd",
			Device:  "maowbotd",
		},
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return g.send(gatewayPayload{Op: opIdentify, D: payload})
}

func (g *gatewayClient) send(p gatewayPayload) error {
	g.mu.Lock()
	conn := g.conn
	g.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("gateway not connected")
	}
	return conn.WriteJSON(p)
}

func (g *gatewayClient) heartbeatLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			if err := g.send(gatewayPayload{Op: opHeartbeat}); err != nil {
				g.log.Error("heartbeat failed: %v", err)
				return
			}
		}
	}
}

func (g *gatewayClient) readLoop() {
	for {
		g.mu.Lock()
		conn := g.conn
		g.mu.Unlock()
		if conn == nil {
			return
		}
		var payload gatewayPayload
		if err := conn.ReadJSON(&payload); err != nil {
			g.log.Error("gateway read error: %v", err)
			return
		}
		switch payload.Op {
		case opDispatch:
			g.handleDispatch(payload)
		case opInvalidSession:
			g.log.Error("gateway session invalidated")
			return
		}
	}
}

func (g *gatewayClient) handleDispatch(payload gatewayPayload) {
	if payload.T != "MESSAGE_CREATE" || g.handler == nil {
		return
	}
	var msg messageCreateEvent
	if err := json.Unmarshal(payload.D, &msg); err != nil {
		g.log.Error("decode MESSAGE_CREATE: %v", err)
		return
	}
	if msg.Author.Bot {
		return
	}
	g.handler("MESSAGE_CREATE", msg)
}

func (g *gatewayClient) close() error {
	g.mu.Lock()
	conn := g.conn
	stop := g.stop
	g.conn = nil
	g.mu.Unlock()
	if stop != nil {
		close(stop)
	}
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (g *gatewayClient) isConnected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conn != nil
}
