// Package monitoring exposes Prometheus metrics for the privileged process:
// bridge traffic, websocket connections, and document store activity.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Bridge metrics
	BridgeRequests *prometheus.CounterVec
	BridgeDuration *prometheus.HistogramVec
	BridgeNotifies *prometheus.CounterVec
	BridgeErrors   *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// Store metrics
	DocumentReads  *prometheus.CounterVec
	DocumentWrites *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		BridgeRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_bridge_requests_total",
				Help: "Total number of bridge requests by operation and status",
			},
			[]string{"op", "status"},
		),
		BridgeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_bridge_request_duration_seconds",
				Help:    "Bridge request handling duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"op"},
		),
		BridgeNotifies: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_bridge_notifications_total",
				Help: "Total number of fire-and-forget notifications by operation",
			},
			[]string{"op"},
		),
		BridgeErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_bridge_errors_total",
				Help: "Total number of failed bridge requests by operation",
			},
			[]string{"op"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_ws_connections",
				Help: "Current number of bridge websocket connections",
			},
		),

		DocumentReads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_store_document_reads_total",
				Help: "Total document reads by document name and status",
			},
			[]string{"document", "status"},
		),
		DocumentWrites: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_store_document_writes_total",
				Help: "Total document writes by document name and status",
			},
			[]string{"document", "status"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}

	return m
}

// RecordBridgeRequest records one handled bridge request.
func (m *Metrics) RecordBridgeRequest(op string, success bool, duration time.Duration) {
	status := "ok"
	if !success {
		status = "error"
		m.BridgeErrors.WithLabelValues(op).Inc()
	}
	m.BridgeRequests.WithLabelValues(op, status).Inc()
	m.BridgeDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordNotification records one fire-and-forget notification.
func (m *Metrics) RecordNotification(op string) {
	m.BridgeNotifies.WithLabelValues(op).Inc()
}

// RecordDocumentRead records one document read.
func (m *Metrics) RecordDocumentRead(document string, ok bool) {
	m.DocumentReads.WithLabelValues(document, statusLabel(ok)).Inc()
}

// RecordDocumentWrite records one document write.
func (m *Metrics) RecordDocumentWrite(document string, ok bool) {
	m.DocumentWrites.WithLabelValues(document, statusLabel(ok)).Inc()
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
