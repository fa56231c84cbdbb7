// Package prometheus defines the service's metric instruments and the
// /metrics HTTP handler.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every instrument the service records. All instruments
// share one registry so the handler exposes exactly what the service owns.
type Metrics struct {
	registry *prometheus.Registry

	// PageFetches counts structure page fetch attempts by outcome
	// ("ok" or "absent").
	PageFetches *prometheus.CounterVec
	// Downloads counts raw file download attempts by outcome
	// ("ok" or "error").
	Downloads *prometheus.CounterVec
	// StageDuration observes wall time per pipeline stage
	// ("download", "protonate", "convert").
	StageDuration *prometheus.HistogramVec
	// JobsCompleted counts finished preparation jobs by final status.
	JobsCompleted *prometheus.CounterVec
	// JobsInFlight gauges currently running preparation jobs.
	JobsInFlight prometheus.Gauge
	// HTTPRequests counts API requests by method, path, and status code.
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes API request latency by method and path.
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics registers all instruments under the given namespace on a
// fresh registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		PageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_fetches_total",
			Help:      "Structure page fetch attempts by outcome.",
		}, []string{"outcome"}),
		Downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Raw structure file download attempts by outcome.",
		}, []string{"outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time per preparation pipeline stage.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"stage"}),
		JobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Finished preparation jobs by final status.",
		}, []string{"status"}),
		JobsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_in_flight",
			Help:      "Preparation jobs currently running.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	registry.MustRegister(
		m.PageFetches,
		m.Downloads,
		m.StageDuration,
		m.JobsCompleted,
		m.JobsInFlight,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Handler returns the /metrics endpoint for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStage records one pipeline stage execution.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordPageFetch records a structure page fetch attempt.
func (m *Metrics) RecordPageFetch(ok bool) {
	m.PageFetches.WithLabelValues(outcomeLabel(ok)).Inc()
}

// RecordDownload records a raw file download attempt.
func (m *Metrics) RecordDownload(ok bool) {
	if ok {
		m.Downloads.WithLabelValues("ok").Inc()
		return
	}
	m.Downloads.WithLabelValues("error").Inc()
}

func outcomeLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "absent"
}
