package vrchat

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

// Runtime implements internal/platform.Runtime and .OSCCapable for the
// local VRChat OSC endpoint. There is no remote authentication: Connect
// ignores the PlatformCredential, and the send host/port and listen port
// come from NewRuntime, matching the "vrchat" platform's config-only
// connection model (spec.md §4.2 Non-goal: no VRChat API session).
type Runtime struct {
	sendHost   string
	sendPort   int
	listenPort int
	bus        *eventbus.Bus
	log        *logger.Logger

	mu   sync.Mutex
	c    *conn
	resets map[string]context.CancelFunc
}

// NewRuntime builds one VRChat OSC Runtime. main.go wraps this in a
// platform.RuntimeFactory closure over the configured ports.
func NewRuntime(sendHost string, sendPort, listenPort int, bus *eventbus.Bus) *Runtime {
	return &Runtime{
		sendHost:   sendHost,
		sendPort:   sendPort,
		listenPort: listenPort,
		bus:        bus,
		log:        logger.New("platform.vrchat"),
		resets:     make(map[string]context.CancelFunc),
	}
}

func (r *Runtime) Connect(ctx context.Context, cred *domain.PlatformCredential) error {
	c, err := dial(r.sendHost, r.sendPort)
	if err != nil {
		return err
	}
	if err := c.listen(r.listenPort, r.handleIncoming); err != nil {
		_ = c.close()
		return err
	}
	r.mu.Lock()
	r.c = c
	r.mu.Unlock()
	return nil
}

func (r *Runtime) Disconnect(ctx context.Context) error {
	r.mu.Lock()
	c := r.c
	r.c = nil
	r.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.close()
}

func (r *Runtime) Ping(ctx context.Context) error {
	r.mu.Lock()
	c := r.c
	r.mu.Unlock()
	if c == nil {
		return fmt.Errorf("vrchat osc socket not open")
	}
	return nil
}

// SetParameter implements internal/platform.OSCCapable, sending
// "/avatar/parameters/{path}" with a float32 value and, if resetAfterMs is
// set, scheduling a reset back to 0 afterward (a common avatar-trigger
// pattern: set true, hold briefly, reset to false/0).
func (r *Runtime) SetParameter(ctx context.Context, path string, value float32, resetAfterMs *int64) error {
	r.mu.Lock()
	c := r.c
	r.mu.Unlock()
	if c == nil {
		return fmt.Errorf("vrchat osc socket not open")
	}
	address := "/avatar/parameters/" + path
	if err := c.send(address, value); err != nil {
		return err
	}
	if resetAfterMs != nil && *resetAfterMs > 0 {
		r.scheduleReset(address, *resetAfterMs)
	}
	return nil
}

func (r *Runtime) scheduleReset(address string, afterMs int64) {
	resetCtx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	if existing, ok := r.resets[address]; ok {
		existing()
	}
	r.resets[address] = cancel
	r.mu.Unlock()

	go func() {
		timer := time.NewTimer(time.Duration(afterMs) * time.Millisecond)
		defer timer.Stop()
		select {
		case <-resetCtx.Done():
			return
		case <-timer.C:
			r.mu.Lock()
			c := r.c
			delete(r.resets, address)
			r.mu.Unlock()
			if c != nil {
				_ = c.send(address, float32(0))
			}
		}
	}()
}

// handleIncoming surfaces avatar parameter change notifications from
// VRChat as SystemMessage events; the pipeline engine's message_pattern
// filter can match on the formatted text if a pipeline cares.
func (r *Runtime) handleIncoming(address string, args []interface{}) {
	if r.bus == nil {
		return
	}
	msg := fmt.Sprintf("vrchat osc %s", address)
	if len(args) > 0 {
		msg = fmt.Sprintf("%s=%v", msg, args[0])
	}
	r.bus.Publish(context.Background(), events.NewSystemMessage(msg))
}
