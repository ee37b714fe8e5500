package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend records calls made to the HR backend.
type Backend struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewBackend registers the backend collectors on reg.
// A nil registerer creates unregistered collectors, which is handy in tests.
func NewBackend(reg prometheus.Registerer) *Backend {
	factory := promauto.With(reg)
	return &Backend{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of HR backend calls broken down by operation, entity and result.",
		}, []string{"operation", "entity", "result"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "console",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for HR backend calls.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10,
			},
		}, []string{"operation", "entity"}),
	}
}

// Observe records one call. result is "ok", "unauthorized" or "error".
func (b *Backend) Observe(operation, entity, result string, took time.Duration) {
	if b == nil {
		return
	}
	b.requests.WithLabelValues(operation, entity, result).Inc()
	b.latency.WithLabelValues(operation, entity).Observe(took.Seconds())
}

// Handler exposes the collectors of g over HTTP.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
