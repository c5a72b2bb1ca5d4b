package capture

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the capture pipeline.
type Metrics struct {
	Registry        *prometheus.Registry
	PagesTotal      prometheus.Counter
	CapturesTotal   *prometheus.CounterVec
	CaptureDuration prometheus.Histogram
	RetriesTotal    prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vrt_pages_total",
			Help: "Total work items processed.",
		},
	)
	captures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vrt_captures_total",
			Help: "Total page captures by site side and final status.",
		},
		[]string{"side", "status"},
	)
	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vrt_capture_attempt_duration_seconds",
			Help:    "Duration of individual capture attempts.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vrt_capture_retries_total",
			Help: "Total capture attempts that were retried.",
		},
	)

	registry.MustRegister(pages, captures, duration, retries)

	return &Metrics{
		Registry:        registry,
		PagesTotal:      pages,
		CapturesTotal:   captures,
		CaptureDuration: duration,
		RetriesTotal:    retries,
	}
}

// IncPage increments the processed work item counter.
func (m *Metrics) IncPage() {
	if m == nil {
		return
	}
	m.PagesTotal.Inc()
}

// IncCapture increments the capture counter for a side/status pair.
func (m *Metrics) IncCapture(side, status string) {
	if m == nil {
		return
	}
	m.CapturesTotal.WithLabelValues(side, status).Inc()
}

// ObserveDuration records one capture attempt duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.CaptureDuration.Observe(d.Seconds())
}

// IncRetries increments the retry counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}
