// Package metrics holds the prometheus collectors of the print pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "comprobante"

// Outcome labels
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics groups the collectors on their own registry
type Metrics struct {
	registry *prometheus.Registry

	Lookups        *prometheus.CounterVec
	Renders        *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	RenderedPages  prometheus.Histogram
}

// New registers all collectors, plus the go and process collectors, on a
// fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Document lookups by outcome.",
		}, []string{"outcome"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "PDF renders by document type and outcome.",
		}, []string{"type", "outcome"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent composing and printing one document.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"type"}),
		RenderedPages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rendered_pages",
			Help:      "Pages per rendered document.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}

	reg.MustRegister(
		m.Lookups,
		m.Renders,
		m.RenderDuration,
		m.RenderedPages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveLookup counts one lookup
func (m *Metrics) ObserveLookup(outcome string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
}

// ObserveRender counts one render and its duration; pages is only recorded on
// success
func (m *Metrics) ObserveRender(docType, outcome string, elapsed time.Duration, pages int) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(docType, outcome).Inc()
	m.RenderDuration.WithLabelValues(docType).Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.RenderedPages.Observe(float64(pages))
	}
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
