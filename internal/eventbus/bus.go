// Package eventbus implements the in-process broadcast spine described in
// spec.md §4.1: bounded per-subscriber queues, coordinated shutdown, and
// backpressure on publish. Grounded on the teacher's
// services/sse-service/internal/broker.Broker (client map guarded by a
// RWMutex, buffered per-client channel, a select-loop dispatcher),
// generalized from SSE string payloads to the typed events.BotEvent union
// and from fire-and-forget broadcast to backpressured publish.
package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maowbot/maowbot/internal/events"
	"github.com/maowbot/maowbot/internal/logger"
)

// PublishObserver receives per-publish instrumentation. internal/metrics.Metrics
// satisfies this without eventbus importing it directly, avoiding a cycle.
type PublishObserver interface {
	ObservePublishDuration(kind string, seconds float64)
	RecordDroppedEvent(kind string)
}

// DefaultBufferSize is the default bounded queue size per subscriber
// (spec.md §4.1).
const DefaultBufferSize = 200

// Receiver is the read side of a subscription. Callers range over C until
// it closes (on Unsubscribe or bus Shutdown-and-drain).
type Receiver struct {
	id string
	C  <-chan events.BotEvent
	ch chan events.BotEvent
}

// Bus is the in-process typed event broadcaster.
type Bus struct {
	log *logger.Logger

	mu          sync.Mutex
	subscribers map[string]chan events.BotEvent

	shutdownMu sync.RWMutex
	shutdown   bool

	obsMu sync.RWMutex
	obs   PublishObserver
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		log:         logger.New("eventbus"),
		subscribers: make(map[string]chan events.BotEvent),
	}
}

// SetObserver wires a metrics sink for Publish latency and drops. Passing
// nil disables instrumentation.
func (b *Bus) SetObserver(obs PublishObserver) {
	b.obsMu.Lock()
	b.obs = obs
	b.obsMu.Unlock()
}

func (b *Bus) observer() PublishObserver {
	b.obsMu.RLock()
	defer b.obsMu.RUnlock()
	return b.obs
}

// Subscribe creates a bounded subscriber queue. bufferSize <= 0 uses
// DefaultBufferSize.
func (b *Bus) Subscribe(bufferSize int) *Receiver {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	ch := make(chan events.BotEvent, bufferSize)
	id := uuid.NewString()

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return &Receiver{id: id, C: ch, ch: ch}
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// more than once.
func (b *Bus) Unsubscribe(r *Receiver) {
	b.mu.Lock()
	ch, ok := b.subscribers[r.id]
	if ok {
		delete(b.subscribers, r.id)
	}
	b.mu.Unlock()
	if ok {
		close(ch)
	}
}

// IsShutdown reports whether Shutdown has been called.
func (b *Bus) IsShutdown() bool {
	b.shutdownMu.RLock()
	defer b.shutdownMu.RUnlock()
	return b.shutdown
}

// Shutdown flips the shutdown flag. After Shutdown, Publish is a no-op;
// existing subscriber channels are closed so ranging consumers see end of
// stream once their queued events drain.
func (b *Bus) Shutdown() {
	b.shutdownMu.Lock()
	if b.shutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.shutdown = true
	b.shutdownMu.Unlock()

	b.mu.Lock()
	subs := b.subscribers
	b.subscribers = make(map[string]chan events.BotEvent)
	b.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

// Publish delivers event to every live subscriber, blocking until each
// has accepted it (backpressure, spec.md §4.1). Publish does not remove
// subscribers itself: a subscriber leaves the bus only through Unsubscribe
// or Shutdown, and a subscriber that stops reading without unsubscribing
// blocks Publish. ctx bounds that wait: when it is done, Publish records a
// drop and returns without delivering the event to the subscribers not
// yet served.
func (b *Bus) Publish(ctx context.Context, event events.BotEvent) {
	if b.IsShutdown() {
		return
	}

	start := time.Now()
	kind := string(event.Kind)
	obs := b.observer()

	b.mu.Lock()
	targets := make([]chan events.BotEvent, 0, len(b.subscribers))
	ids := make([]string, 0, len(b.subscribers))
	for id, ch := range b.subscribers {
		targets = append(targets, ch)
		ids = append(ids, id)
	}
	b.mu.Unlock()

	for i, ch := range targets {
		select {
		case ch <- event:
		case <-ctx.Done():
			if obs != nil {
				obs.RecordDroppedEvent(kind)
			}
			return
		}
		_ = ids[i]
	}

	if obs != nil {
		obs.ObservePublishDuration(kind, time.Since(start).Seconds())
	}
}

// PublishChat is a convenience wrapper building and publishing a
// ChatMessage BotEvent.
func (b *Bus) PublishChat(ctx context.Context, platform, channel, user, text string) {
	b.Publish(ctx, events.NewChatMessage(platform, channel, user, text))
}

// SubscriberCount reports the current number of live subscribers, used by
// PluginService.GetSystemStatus and metrics.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
