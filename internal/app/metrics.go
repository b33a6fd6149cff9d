package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the app-level Prometheus counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	generations *prometheus.CounterVec
	syncs       *prometheus.CounterVec
}

// NewMetrics registers the counters with reg. Pass prometheus.DefaultRegisterer
// to expose them on /-/metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_generations_total",
			Help: "Quote generation attempts by outcome.",
		}, []string{"outcome"}),
		syncs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_history_sync_total",
			Help: "Quote history pushes to platform storage by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) generation(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) sync(result string) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(result).Inc()
}
