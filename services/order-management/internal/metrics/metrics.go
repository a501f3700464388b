// Package metrics holds the Prometheus collectors of the order-management service.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config names the metric namespace.
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig returns the oms namespace.
func DefaultConfig() Config {
	return Config{Namespace: "oms"}
}

// Metrics is the set of collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	pipelineDuration *prometheus.HistogramVec
	taskResults      *prometheus.CounterVec

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec

	outboxPublished       prometheus.Counter
	outboxPublishFailures prometheus.Counter
	outboxDrained         prometheus.Counter
	outboxDeadLetters     prometheus.Counter
	outboxPending         prometheus.Gauge
	notificationsDropped  prometheus.Counter
}

// New creates every collector on a fresh registry.
func New(cfg Config) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		pipelineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a pipeline execution.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"pipeline", "outcome"}),
		taskResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "task_results_total",
			Help:      "Task results by pipeline, task and status.",
		}, []string{"pipeline", "task", "status"}),

		commandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "commands_total",
			Help:      "Processed commands by type and result code.",
		}, []string{"command", "result"}),
		commandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "command_duration_seconds",
			Help:      "End to end duration of a command including its transaction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),

		outboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "outbox_published_total",
			Help:      "Outbox records acknowledged by the bus and deleted.",
		}),
		outboxPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "outbox_publish_failures_total",
			Help:      "Failed send attempts of outbox records.",
		}),
		outboxDrained: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "outbox_drained_total",
			Help:      "Outbox records deleted without sending because publishing is disabled.",
		}),
		outboxDeadLetters: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "outbox_dead_letter_total",
			Help:      "Send attempts made on records past the attempt limit.",
		}),
		outboxPending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "outbox_pending",
			Help:      "Outbox records waiting at the last scan.",
		}),
		notificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "outbox_notifications_dropped_total",
			Help:      "Commit notifications dropped because the channel was full.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePipeline records one pipeline run.
func (m *Metrics) ObservePipeline(pipeline string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.pipelineDuration.WithLabelValues(pipeline, outcome).Observe(elapsed.Seconds())
}

// ObserveTask counts one task result.
func (m *Metrics) ObserveTask(pipeline, task, status string) {
	if m == nil {
		return
	}
	m.taskResults.WithLabelValues(pipeline, task, strings.ToLower(status)).Inc()
}

// ObserveCommand counts a processed command. result is "success" or the lower cased error code.
func (m *Metrics) ObserveCommand(command, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commandsTotal.WithLabelValues(command, strings.ToLower(result)).Inc()
	m.commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// OutboxPublished counts an acknowledged record.
func (m *Metrics) OutboxPublished() {
	if m != nil {
		m.outboxPublished.Inc()
	}
}

// OutboxPublishFailed counts a failed send.
func (m *Metrics) OutboxPublishFailed() {
	if m != nil {
		m.outboxPublishFailures.Inc()
	}
}

// OutboxDrained counts a record deleted while publishing is disabled.
func (m *Metrics) OutboxDrained() {
	if m != nil {
		m.outboxDrained.Inc()
	}
}

// OutboxDeadLetter counts an attempt on a record past the attempt limit.
func (m *Metrics) OutboxDeadLetter() {
	if m != nil {
		m.outboxDeadLetters.Inc()
	}
}

// SetOutboxPending records the backlog seen by a scan.
func (m *Metrics) SetOutboxPending(n int64) {
	if m != nil {
		m.outboxPending.Set(float64(n))
	}
}

// NotificationDropped counts a notification lost to a full channel.
func (m *Metrics) NotificationDropped() {
	if m != nil {
		m.notificationsDropped.Inc()
	}
}
