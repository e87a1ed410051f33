// Package metrics wires Prometheus instrumentation for maowbotd, grounded
// on AI/shared/metrics's promauto-based Metrics struct, generalized from
// generic HTTP/gRPC request counters to the platform-connection, event-bus,
// pipeline, and plugin-session gauges this bot actually needs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector maowbotd registers.
type Metrics struct {
	// gRPC metrics, same shape as the teacher's service-wide middleware.
	GRPCRequestsTotal   *prometheus.CounterVec
	GRPCRequestDuration *prometheus.HistogramVec

	// PlatformConnections tracks one gauge per (platform, account) pair,
	// 1 while Connected and 0 otherwise, so a Grafana panel can show
	// connects/disconnects over time without querying the database.
	PlatformConnections *prometheus.GaugeVec

	// EventBusPublishDuration observes how long Bus.Publish's subscriber
	// fan-out takes, labeled by event kind.
	EventBusPublishDuration *prometheus.HistogramVec
	// EventBusDroppedEvents counts events dropped because a subscriber's
	// channel was full, labeled by event kind.
	EventBusDroppedEvents *prometheus.CounterVec

	// PipelineExecutionsTotal counts pipeline runs by pipeline name and
	// outcome ("matched", "no_success", "skipped", "error").
	PipelineExecutionsTotal *prometheus.CounterVec
	// PipelineExecutionDuration observes end-to-end pipeline run time.
	PipelineExecutionDuration *prometheus.HistogramVec

	// PluginSessionsActive is the number of connected plugin sessions.
	PluginSessionsActive prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance registered against a fresh registry, the
// way the teacher's per-service New(serviceName) does. Every metric name
// carries a fixed maowbot_ prefix and there is no service label, since this
// is a single-process bot rather than a service mesh.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		GRPCRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maowbot_grpc_requests_total",
				Help: "Total number of gRPC requests served.",
			},
			[]string{"method", "status"},
		),
		GRPCRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maowbot_grpc_request_duration_seconds",
				Help:    "gRPC request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
		PlatformConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "maowbot_platform_connection_state",
				Help: "1 if the (platform, account) runtime is Connected, 0 otherwise.",
			},
			[]string{"platform", "account"},
		),
		EventBusPublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maowbot_eventbus_publish_duration_seconds",
				Help:    "Time spent fanning an event out to subscribers.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		EventBusDroppedEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maowbot_eventbus_dropped_events_total",
				Help: "Events dropped because a subscriber's buffer was full.",
			},
			[]string{"kind"},
		),
		PipelineExecutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maowbot_pipeline_executions_total",
				Help: "Pipeline executions by pipeline name and outcome.",
			},
			[]string{"pipeline", "outcome"},
		),
		PipelineExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maowbot_pipeline_execution_duration_seconds",
				Help:    "Pipeline execution duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"pipeline"},
		),
		PluginSessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "maowbot_plugin_sessions_active",
				Help: "Number of currently connected plugin sessions.",
			},
		),
		registry: registry,
	}
	return m
}

// Registry returns the Prometheus registry backing m, for mounting under
// promhttp.HandlerFor on the health/metrics HTTP server.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetConnectionState records whether (platform, account) is currently
// connected, called from platform.Manager's state-change callback.
func (m *Metrics) SetConnectionState(platform, account string, connected bool) {
	v := 0.0
	if connected {
		v = 1.0
	}
	m.PlatformConnections.WithLabelValues(platform, account).Set(v)
}

// ObservePublishDuration and RecordDroppedEvent satisfy
// eventbus.PublishObserver, letting Bus.SetObserver(m) wire instrumentation
// without eventbus importing this package.
func (m *Metrics) ObservePublishDuration(kind string, seconds float64) {
	m.EventBusPublishDuration.WithLabelValues(kind).Observe(seconds)
}

func (m *Metrics) RecordDroppedEvent(kind string) {
	m.EventBusDroppedEvents.WithLabelValues(kind).Inc()
}

// RecordPipelineExecution satisfies the pipeline engine's instrumentation
// hook (internal/pipeline), recording one execution's outcome and latency.
func (m *Metrics) RecordPipelineExecution(pipelineName, outcome string, seconds float64) {
	m.PipelineExecutionsTotal.WithLabelValues(pipelineName, outcome).Inc()
	m.PipelineExecutionDuration.WithLabelValues(pipelineName).Observe(seconds)
}

// SetPluginSessionsActive reports the current plugin.Host connection count.
func (m *Metrics) SetPluginSessionsActive(n int) {
	m.PluginSessionsActive.Set(float64(n))
}
