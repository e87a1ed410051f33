package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/events"
)

func TestBusDeliversToEverySubscriberInOrder(t *testing.T) {
	t.Parallel()

	bus := New()
	r1 := bus.Subscribe(4)
	r2 := bus.Subscribe(4)
	defer bus.Unsubscribe(r1)
	defer bus.Unsubscribe(r2)

	ctx := context.Background()
	bus.PublishChat(ctx, "twitch", "#general", "alice", "one")
	bus.PublishChat(ctx, "twitch", "#general", "alice", "two")

	for _, r := range []*Receiver{r1, r2} {
		ev := <-r.C
		require.Equal(t, "one", ev.ChatMessage.Text)
		ev = <-r.C
		require.Equal(t, "two", ev.ChatMessage.Text)
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	bus := New()
	r := bus.Subscribe(4)
	bus.Unsubscribe(r)

	_, ok := <-r.C
	require.False(t, ok, "channel must close once unsubscribed")

	require.Equal(t, 0, bus.SubscriberCount())
}

func TestBusPublishBlocksOnFullSubscriberUntilContextCancel(t *testing.T) {
	t.Parallel()

	bus := New()
	r := bus.Subscribe(1)
	defer bus.Unsubscribe(r)

	ctx := context.Background()
	bus.PublishChat(ctx, "twitch", "#general", "alice", "fills the buffer")

	ctx2, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	bus.PublishChat(ctx2, "twitch", "#general", "alice", "never delivered")
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond, "Publish must block for backpressure, not drop silently")
}

func TestBusShutdownClosesSubscribersAndStopsPublish(t *testing.T) {
	t.Parallel()

	bus := New()
	r := bus.Subscribe(4)
	bus.Shutdown()

	_, ok := <-r.C
	require.False(t, ok)

	bus.PublishChat(context.Background(), "twitch", "#general", "alice", "after shutdown")
	require.True(t, bus.IsShutdown())
}

type recordingPublishObserver struct {
	durations []string
	dropped   []string
}

func (r *recordingPublishObserver) ObservePublishDuration(kind string, seconds float64) {
	r.durations = append(r.durations, kind)
}

func (r *recordingPublishObserver) RecordDroppedEvent(kind string) {
	r.dropped = append(r.dropped, kind)
}

func TestBusObserverSeesDropOnStalledSubscriber(t *testing.T) {
	t.Parallel()

	bus := New()
	obs := &recordingPublishObserver{}
	bus.SetObserver(obs)

	r := bus.Subscribe(1)
	defer bus.Unsubscribe(r)

	ctx := context.Background()
	bus.PublishChat(ctx, "twitch", "#general", "alice", "fills the buffer")
	require.Equal(t, []string{string(events.KindChatMessage)}, obs.durations)

	stalledCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	bus.PublishChat(stalledCtx, "twitch", "#general", "alice", "dropped")

	require.Equal(t, []string{string(events.KindChatMessage)}, obs.dropped)
}
