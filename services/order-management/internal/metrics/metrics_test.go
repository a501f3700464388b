package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCommandMetrics(t *testing.T) {
	m := New(DefaultConfig())

	m.ObserveCommand("create", "success", 10*time.Millisecond)
	m.ObserveCommand("create", "DUPLICATE_ORDER", time.Millisecond)
	m.ObserveCommand("create", "success", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commandsTotal.WithLabelValues("create", "duplicate_order")))
}

func TestOutboxMetrics(t *testing.T) {
	m := New(DefaultConfig())

	m.OutboxPublished()
	m.OutboxPublishFailed()
	m.OutboxPublishFailed()
	m.SetOutboxPending(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.outboxPublished))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.outboxPublishFailures))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.outboxPending))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePipeline("create", true, time.Millisecond)
		m.ObserveTask("create", "ValidateOrderTask", "SUCCESS")
		m.OutboxPublished()
		m.NotificationDropped()
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(DefaultConfig())
	m.ObservePipeline("create-order", true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "oms_pipeline_duration_seconds")
}
