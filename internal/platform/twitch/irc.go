package twitch

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/maowbot/maowbot/internal/logger"
)

// MessageHandler receives one parsed PRIVMSG from the Twitch IRC stream.
type MessageHandler func(channel, username, displayName, userID, message string, tags map[string]string)

// ircClient is a minimal Twitch IRC client over a raw TCP connection.
// No IRC library appears anywhere in the retrieved corpus, so this speaks
// the Twitch IRC/tags extension directly against net.Conn + bufio, the
// same layering the teacher uses for its Helix HTTP client (net/http
// instead of a generated SDK).
type ircClient struct {
	server   string
	port     string
	username string

	mu       sync.Mutex
	conn     net.Conn
	reader   *bufio.Reader
	channels map[string]bool
	since    time.Time
	onMsg    MessageHandler
	debug    bool

	log *logger.Logger
}

func newIRCClient(server, port, username string) *ircClient {
	return &ircClient{
		server:   server,
		port:     port,
		username: username,
		channels: make(map[string]bool),
		log:      logger.New("platform.twitch.irc"),
	}
}

func (c *ircClient) setMessageHandler(h MessageHandler) {
	c.mu.Lock()
	c.onMsg = h
	c.mu.Unlock()
}

func (c *ircClient) enableDebug(on bool) {
	c.mu.Lock()
	c.debug = on
	c.mu.Unlock()
}

// connect dials the IRC server, authenticates with an OAuth token, requests
// the tags/commands capabilities, and starts the read loop.
func (c *ircClient) connect(ctx context.Context, token string, initialChannels []string) error {
	addr := net.JoinHostPort(c.server, c.port)
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial twitch irc %s: %w", addr, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.since = time.Now()
	c.mu.Unlock()

	if err := c.send("CAP REQ :twitch.tv/tags twitch.tv/commands twitch.tv/membership"); err != nil {
		return err
	}
	token = strings.TrimPrefix(token, "oauth:")
	if err := c.send("PASS oauth:" + token); err != nil {
		return err
	}
	if err := c.send("NICK " + strings.ToLower(c.username)); err != nil {
		return err
	}
	for _, ch := range initialChannels {
		if err := c.joinChannel(ch); err != nil {
			return err
		}
	}

	go c.readLoop()
	return nil
}

func (c *ircClient) disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *ircClient) isConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *ircClient) connectedSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.since
}

func (c *ircClient) joinChannel(channel string) error {
	channel = normalizeChannel(channel)
	if err := c.send("JOIN " + channel); err != nil {
		return err
	}
	c.mu.Lock()
	c.channels[channel] = true
	c.mu.Unlock()
	return nil
}

func (c *ircClient) leaveChannel(channel string) error {
	channel = normalizeChannel(channel)
	if err := c.send("PART " + channel); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.channels, channel)
	c.mu.Unlock()
	return nil
}

func (c *ircClient) joinedChannels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		out = append(out, ch)
	}
	return out
}

// sendMessage sends a PRIVMSG to the given channel.
func (c *ircClient) sendMessage(channel, text string) error {
	channel = normalizeChannel(channel)
	return c.send(fmt.Sprintf("PRIVMSG %s :%s", channel, text))
}

func (c *ircClient) send(line string) error {
	c.mu.Lock()
	conn := c.conn
	debug := c.debug
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("irc not connected")
	}
	if debug {
		c.log.Info("-> %s", line)
	}
	_, err := conn.Write([]byte(line + "\r\n"))
	return err
}

func (c *ircClient) readLoop() {
	for {
		c.mu.Lock()
		reader := c.reader
		debug := c.debug
		c.mu.Unlock()
		if reader == nil {
			return
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			c.log.Error("irc read error: %v", err)
			c.mu.Lock()
			c.conn = nil
			c.mu.Unlock()
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if debug {
			c.log.Info("<- %s", line)
		}
		c.handleLine(line)
	}
}

func (c *ircClient) handleLine(line string) {
	if strings.HasPrefix(line, "PING") {
		_ = c.send(strings.Replace(line, "PING", "PONG", 1))
		return
	}

	tags, rest := parseTags(line)
	if strings.Contains(rest, " PRIVMSG ") {
		c.handlePrivmsg(tags, rest)
	}
}

// handlePrivmsg parses ":user!user@user.tmi.twitch.tv PRIVMSG #channel :text"
func (c *ircClient) handlePrivmsg(tags map[string]string, rest string) {
	parts := strings.SplitN(rest, " PRIVMSG ", 2)
	if len(parts) != 2 {
		return
	}
	prefix := parts[0]
	username := strings.SplitN(strings.TrimPrefix(prefix, ":"), "!", 2)[0]

	channelAndMsg := strings.SplitN(parts[1], " :", 2)
	if len(channelAndMsg) != 2 {
		return
	}
	channel := channelAndMsg[0]
	message := channelAndMsg[1]

	c.mu.Lock()
	handler := c.onMsg
	c.mu.Unlock()
	if handler == nil {
		return
	}

	displayName := tags["display-name"]
	if displayName == "" {
		displayName = username
	}
	handler(channel, username, displayName, tags["user-id"], message, tags)
}

// parseTags splits Twitch's leading "@k=v;k=v;... " tag block off an IRC
// line, if present.
func parseTags(line string) (map[string]string, string) {
	tags := make(map[string]string)
	if !strings.HasPrefix(line, "@") {
		return tags, line
	}
	sp := strings.SplitN(line, " ", 2)
	if len(sp) != 2 {
		return tags, line
	}
	for _, kv := range strings.Split(strings.TrimPrefix(sp[0], "@"), ";") {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) == 2 {
			tags[pair[0]] = pair[1]
		}
	}
	return tags, sp[1]
}

func normalizeChannel(channel string) string {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if !strings.HasPrefix(channel, "#") {
		channel = "#" + channel
	}
	return channel
}
