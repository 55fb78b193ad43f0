package host

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of one Host.
type Metrics struct {
	Requests *prometheus.CounterVec
	Latency  prometheus.Histogram
}

// NewMetrics creates and registers the Host metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sealserve_blob_requests_total",
			Help: "Total number of blob requests by outcome",
		}, []string{"outcome"}), // outcome: "served", "missing", "rejected", "failed"
		Latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sealserve_blob_serve_duration_seconds",
			Help:    "Duration of serving one blob request",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// ObserveRequest records one blob request outcome and its duration.
func (m *Metrics) ObserveRequest(outcome string, d time.Duration) {
	if m != nil {
		m.Requests.WithLabelValues(outcome).Inc()
		m.Latency.Observe(d.Seconds())
	}
}
