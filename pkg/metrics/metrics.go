// Package metrics defines the Prometheus metric collectors used across the
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInFlight   prometheus.Gauge
	MessagesConsumedTotal  prometheus.Counter
	SummariesTotal         *prometheus.CounterVec
	SummarizeLatency       *prometheus.HistogramVec
	NotesPerMessage        prometheus.Histogram
	CacheHitsTotal         prometheus.Counter
	CacheMissesTotal       prometheus.Counter
	DeliveriesTotal        *prometheus.CounterVec
	DeliveryBreakerState   prometheus.Gauge
	SnapshotsSavedTotal    *prometheus.CounterVec
	AnalyticsDroppedEvents prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		MessagesConsumedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "messages_consumed_total",
				Help: "Total chat messages consumed from the bus.",
			},
		),
		SummariesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summaries_total",
				Help: "Total summarizations by outcome (ok, empty, error).",
			},
			[]string{"outcome"},
		),
		SummarizeLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "summarize_latency_seconds",
				Help:    "Summarization pipeline latency in seconds by source.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"source"},
		),
		NotesPerMessage: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "notes_per_message",
				Help:    "Number of note tokens extracted per message.",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "summary_cache_hits_total",
				Help: "Total summary cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "summary_cache_misses_total",
				Help: "Total summary cache misses.",
			},
		),
		DeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summary_deliveries_total",
				Help: "Total summary deliveries by status (ok, failed, skipped).",
			},
			[]string{"status"},
		),
		DeliveryBreakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "delivery_circuit_breaker_state",
				Help: "Delivery circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
		),
		SnapshotsSavedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_snapshots_total",
				Help: "Total analytics snapshot saves by status.",
			},
			[]string{"status"},
		),
		AnalyticsDroppedEvents: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "analytics_dropped_events_total",
				Help: "Analytics events dropped because the buffer was full.",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.MessagesConsumedTotal,
		m.SummariesTotal,
		m.SummarizeLatency,
		m.NotesPerMessage,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.DeliveriesTotal,
		m.DeliveryBreakerState,
		m.SnapshotsSavedTotal,
		m.AnalyticsDroppedEvents,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
