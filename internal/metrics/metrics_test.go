package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSetConnectionStateRecordsGauge(t *testing.T) {
	t.Parallel()

	m := New()
	m.SetConnectionState("twitch", "main", true)
	require.Equal(t, float64(1), testutil.ToFloat64(m.PlatformConnections.WithLabelValues("twitch", "main")))

	m.SetConnectionState("twitch", "main", false)
	require.Equal(t, float64(0), testutil.ToFloat64(m.PlatformConnections.WithLabelValues("twitch", "main")))
}

func TestObservePublishDurationAndDroppedEvent(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObservePublishDuration("chat_message", 0.05)
	m.RecordDroppedEvent("chat_message")

	require.Equal(t, float64(1), testutil.ToFloat64(m.EventBusDroppedEvents.WithLabelValues("chat_message")))
}

func TestRecordPipelineExecutionAndPluginSessionsGauge(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordPipelineExecution("greet-on-follow", "matched", 0.01)
	require.Equal(t, float64(1), testutil.ToFloat64(m.PipelineExecutionsTotal.WithLabelValues("greet-on-follow", "matched")))

	m.SetPluginSessionsActive(3)
	require.Equal(t, float64(3), testutil.ToFloat64(m.PluginSessionsActive))
}
