// Package metrics holds the service's Prometheus instruments on an explicit
// registry instead of the process-global default, so each application context
// owns its own metric state.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the business instruments exposed at /metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Creations counts successful URL shortenings.
	Creations prometheus.Counter
	// Redirects counts successful redirects, labeled by short code.
	Redirects *prometheus.CounterVec
	// Errors counts request failures, labeled by error type.
	Errors *prometheus.CounterVec
	// CreationDuration observes the latency of successful shorten
	// operations in seconds.
	CreationDuration prometheus.Histogram
}

// New creates a Metrics with a fresh registry, Go and process collectors
// included.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Creations: factory.NewCounter(prometheus.CounterOpts{
			Name: "url_shortener_creations_total",
			Help: "Total number of URL shortenings.",
		}),
		Redirects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "url_shortener_redirects_total",
			Help: "Total number of URL redirects.",
		}, []string{"short_code"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "url_shortener_custom_errors_total",
			Help: "Total number of custom errors.",
		}, []string{"error_type"}),
		CreationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "url_shortener_creation_duration_seconds",
			Help: "Time spent creating short URLs.",
		}),
	}
}

// Handler serves the registry in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
