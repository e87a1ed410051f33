// Package platform implements the Platform Runtime Manager (spec.md §4.2):
// a connection table keyed by (platform, account) driving a small state
// machine per connection, with credential-backed reconnect and health
// checks. Grounded on the teacher's services/twitchbot-service/pkg/bot
// Manager shape (cfg-driven Start/Stop, background watcher goroutine,
// mutex-guarded caches) generalized from one hardcoded channel to a table
// of independently supervised connections.
package platform

import (
	"context"
	"sync"
	"time"

	"github.com/maowbot/maowbot/internal/apperr"
	"github.com/maowbot/maowbot/internal/credential"
	"github.com/maowbot/maowbot/internal/domain"
	"github.com/maowbot/maowbot/internal/eventbus"
	"github.com/maowbot/maowbot/internal/logger"
)

// State is a connection's position in the Dormant -> Connecting ->
// Connected -> Disconnected -> Reconnecting state machine.
type State string

const (
	StateDormant      State = "dormant"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
	StateReconnecting State = "reconnecting"
)

// Runtime is one platform adapter's connection lifecycle. Implementations
// live in internal/platform/{twitch,discord,vrchat}.
type Runtime interface {
	Connect(ctx context.Context, cred *domain.PlatformCredential) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
}

// ChatCapable is implemented by runtimes that can send chat messages
// (twitch, discord). Manager type-asserts to it when dispatching
// builtin.ChatSender calls.
type ChatCapable interface {
	SendChat(ctx context.Context, channel, text, replyToID string) error
}

// OSCCapable is implemented by the vrchat runtime.
type OSCCapable interface {
	SetParameter(ctx context.Context, path string, value float32, resetAfterMs *int64) error
}

// JoinCapable is implemented by runtimes that support joining an
// additional channel after connect (twitch IRC).
type JoinCapable interface {
	JoinChannel(channel string) error
}

// RuntimeFactory builds a fresh Runtime for one (platform, account)
// connection. Manager calls it once per Start; reconnects reuse that
// Runtime.
type RuntimeFactory func(account string, bus *eventbus.Bus) Runtime

// Connection tracks one (platform, account) pair's runtime and state.
type Connection struct {
	Platform string
	Account  string

	mu             sync.Mutex
	runtime        Runtime
	state          State
	lastError      error
	connectedSince time.Time
	cancel         context.CancelFunc
}

func (c *Connection) snapshot() (State, error, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.lastError, c.connectedSince
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Connection) setError(err error) {
	c.mu.Lock()
	c.lastError = err
	c.mu.Unlock()
}

// Status is the Manager's public view of a Connection, safe to return from
// an RPC or CLI listing.
type Status struct {
	Platform       string
	Account        string
	State          State
	LastError      error
	ConnectedSince time.Time
}

// Manager supervises every active platform connection and, before each
// (re)connect attempt, refreshes a credential that has a refresh token and
// expires within credentialRefreshMargin.
type Manager struct {
	mu          sync.RWMutex
	conns       map[string]*Connection
	factories   map[string]RuntimeFactory
	credentials *credential.Store
	bus         *eventbus.Bus
	log         *logger.Logger

	backoffMin time.Duration
	backoffMax time.Duration
	pingEvery  time.Duration
}

// New creates a Manager. RegisterFactory must be called for each platform
// before Start is used with that platform.
func New(credentials *credential.Store, bus *eventbus.Bus) *Manager {
	return &Manager{
		conns:       make(map[string]*Connection),
		factories:   make(map[string]RuntimeFactory),
		credentials: credentials,
		bus:         bus,
		log:         logger.New("platform.manager"),
		backoffMin:  1 * time.Second,
		backoffMax:  60 * time.Second,
		pingEvery:   30 * time.Second,
	}
}

// RegisterFactory binds a platform name ("twitch", "discord", "vrchat") to
// the constructor used to build its Runtime.
func (m *Manager) RegisterFactory(platform string, factory RuntimeFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[platform] = factory
}

func connKey(platform, account string) string { return platform + "/" + account }

// Start brings up a (platform, account) connection if it isn't already
// running, fetching its credential and supervising it with reconnect +
// backoff until Stop is called.
func (m *Manager) Start(ctx context.Context, platformName, account string) error {
	m.mu.Lock()
	factory, ok := m.factories[platformName]
	if !ok {
		m.mu.Unlock()
		return apperr.New(apperr.KindValidation, "no runtime factory registered for platform "+platformName)
	}
	key := connKey(platformName, account)
	if existing, running := m.conns[key]; running {
		state, _, _ := existing.snapshot()
		if state != StateDormant && state != StateDisconnected {
			m.mu.Unlock()
			return apperr.New(apperr.KindServiceError, connKey(platformName, account)+" is already running")
		}
	}
	runCtx, cancel := context.WithCancel(context.Background())
	conn := &Connection{
		Platform: platformName,
		Account:  account,
		runtime:  factory(account, m.bus),
		state:    StateDormant,
		cancel:   cancel,
	}
	m.conns[key] = conn
	m.mu.Unlock()

	go m.supervise(runCtx, conn)
	return nil
}

// Stop tears down a connection and removes it from the table. Calling Stop
// on an unknown or already-stopped connection is a no-op.
func (m *Manager) Stop(ctx context.Context, platformName, account string) error {
	m.mu.Lock()
	key := connKey(platformName, account)
	conn, ok := m.conns[key]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.conns, key)
	m.mu.Unlock()

	conn.cancel()
	conn.setState(StateDisconnected)
	return conn.runtime.Disconnect(ctx)
}

// Status lists every connection in the table, whatever its state. Stop
// removes a connection from the table, so stopped connections are not listed.
func (m *Manager) Status() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Status, 0, len(m.conns))
	for _, c := range m.conns {
		state, err, since := c.snapshot()
		out = append(out, Status{Platform: c.Platform, Account: c.Account, State: state, LastError: err, ConnectedSince: since})
	}
	return out
}

// get looks up a running connection, resolving an empty account to the
// first connected account for that platform.
func (m *Manager) get(platformName, account string) *Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account != "" {
		return m.conns[connKey(platformName, account)]
	}
	for _, c := range m.conns {
		if c.Platform == platformName {
			if state, _, _ := c.snapshot(); state == StateConnected {
				return c
			}
		}
	}
	return nil
}

// supervise drives one Connection through connect -> ping loop ->
// reconnect-on-failure until runCtx is cancelled by Stop.
func (m *Manager) supervise(runCtx context.Context, conn *Connection) {
	attempt := 0
	for {
		select {
		case <-runCtx.Done():
			return
		default:
		}

		conn.setState(StateConnecting)
		cred, err := m.resolveCredential(runCtx, conn.Platform, conn.Account)
		if err != nil {
			conn.setError(err)
			conn.setState(StateDisconnected)
			if !m.sleepBackoff(runCtx, attempt) {
				return
			}
			attempt++
			continue
		}

		if err := conn.runtime.Connect(runCtx, cred); err != nil {
			conn.setError(err)
			conn.setState(StateDisconnected)
			m.log.Error("connect %s/%s failed: %v", conn.Platform, conn.Account, err)
			if !m.sleepBackoff(runCtx, attempt) {
				return
			}
			attempt++
			continue
		}

		attempt = 0
		conn.mu.Lock()
		conn.state = StateConnected
		conn.connectedSince = time.Now()
		conn.lastError = nil
		conn.mu.Unlock()
		m.log.Info("%s/%s connected", conn.Platform, conn.Account)

		if m.healthLoop(runCtx, conn) {
			return
		}
		conn.setState(StateReconnecting)
	}
}

// healthLoop pings the connection until it fails or runCtx is cancelled.
// Returns true if the caller should stop supervising entirely.
func (m *Manager) healthLoop(runCtx context.Context, conn *Connection) bool {
	ticker := time.NewTicker(m.pingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-runCtx.Done():
			_ = conn.runtime.Disconnect(context.Background())
			return true
		case <-ticker.C:
			if err := conn.runtime.Ping(runCtx); err != nil {
				conn.setError(err)
				m.log.Error("%s/%s ping failed: %v", conn.Platform, conn.Account, err)
				return false
			}
		}
	}
}

func (m *Manager) sleepBackoff(ctx context.Context, attempt int) bool {
	wait := exponentialBackoff(attempt, m.backoffMin, m.backoffMax)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// credentialRefreshMargin is how close to expiry a credential may be before
// resolveCredential refreshes it ahead of a connect attempt.
const credentialRefreshMargin = 5 * time.Minute

func (m *Manager) resolveCredential(ctx context.Context, platformName, account string) (*domain.PlatformCredential, error) {
	if m.credentials == nil {
		return nil, apperr.New(apperr.KindNotFound, "no credential store configured")
	}
	cred, err := m.credentials.Get(ctx, platformName, account)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, apperr.New(apperr.KindNotFound, "no credential for "+connKey(platformName, account))
	}
	if cred.RefreshToken != nil && cred.ExpiresWithin(time.Now(), credentialRefreshMargin) {
		results := m.credentials.RefreshAllRefreshable(ctx, credentialRefreshMargin)
		for _, r := range results {
			if r.Platform == platformName && r.UserName == account && r.Err != nil {
				return nil, r.Err
			}
		}
		cred, err = m.credentials.Get(ctx, platformName, account)
		if err != nil {
			return nil, err
		}
	}
	return cred, nil
}

// SendTwitchMessage implements internal/pipeline/builtin.ChatSender.
func (m *Manager) SendTwitchMessage(ctx context.Context, account, channel, text, replyToMessageID string) error {
	conn := m.get("twitch", account)
	if conn == nil {
		return apperr.New(apperr.KindNotFound, "no active twitch connection for account "+account)
	}
	cc, ok := conn.runtime.(ChatCapable)
	if !ok {
		return apperr.New(apperr.KindInternal, "twitch runtime does not support chat")
	}
	return cc.SendChat(ctx, channel, text, replyToMessageID)
}

// SendDiscordMessage implements internal/pipeline/builtin.ChatSender.
func (m *Manager) SendDiscordMessage(ctx context.Context, account, guildID, channelID, text string) error {
	conn := m.get("discord", account)
	if conn == nil {
		return apperr.New(apperr.KindNotFound, "no active discord connection for account "+account)
	}
	cc, ok := conn.runtime.(ChatCapable)
	if !ok {
		return apperr.New(apperr.KindInternal, "discord runtime does not support chat")
	}
	return cc.SendChat(ctx, channelID, text, "")
}

// JoinTwitchChannel joins an additional IRC channel on an already-running
// twitch connection, backing TwitchService.JoinChannel.
func (m *Manager) JoinTwitchChannel(ctx context.Context, account, channel string) error {
	conn := m.get("twitch", account)
	if conn == nil {
		return apperr.New(apperr.KindNotFound, "no active twitch connection for account "+account)
	}
	jc, ok := conn.runtime.(JoinCapable)
	if !ok {
		return apperr.New(apperr.KindInternal, "twitch runtime does not support joining channels")
	}
	return jc.JoinChannel(channel)
}

// SetParameter implements internal/pipeline/builtin.OSCSender.
func (m *Manager) SetParameter(ctx context.Context, path string, value float32, resetAfterMs *int64) error {
	conn := m.get("vrchat", "")
	if conn == nil {
		return apperr.New(apperr.KindNotFound, "no active vrchat connection")
	}
	oc, ok := conn.runtime.(OSCCapable)
	if !ok {
		return apperr.New(apperr.KindInternal, "vrchat runtime does not support OSC")
	}
	return oc.SetParameter(ctx, path, value, resetAfterMs)
}
