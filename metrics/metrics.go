package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records mint activity and request handling of the registry service.
type Metrics struct {
	Minted         prometheus.Counter
	Rejections     *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
}

// New registers the registry metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Minted: factory.NewCounter(prometheus.CounterOpts{
			Name: "nfo_tokens_minted_total",
			Help: "Total tokens minted by this process",
		}),

		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nfo_registry_rejections_total",
			Help: "Rejected registry invocations by reason",
		}, []string{"reason"}), // reason: "invalid_input", "unauthorized", "nonexistent", "conflict", "exhausted", "internal"

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nfo_http_request_duration_seconds",
			Help:    "Duration of registry HTTP requests by route",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}
}

func (m *Metrics) IncrementMinted() {
	if m != nil {
		m.Minted.Inc()
	}
}

func (m *Metrics) IncrementRejection(reason string) {
	if m != nil {
		m.Rejections.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route).Observe(d.Seconds())
	}
}
