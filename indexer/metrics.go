package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Event outcomes.
const (
	OutcomeIndexed   = "indexed"
	OutcomeSkipped   = "skipped"   // at or before the checkpoint
	OutcomeAbandoned = "abandoned" // logged, checkpoint advanced, no entity writes
)

// Metrics are the indexer's Prometheus collectors.
type Metrics struct {
	Events     *prometheus.CounterVec
	Reverts    *prometheus.CounterVec
	Anomalies  *prometheus.CounterVec
	Checkpoint prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jbx_events_total",
			Help: "Raw events handled, by canonical kind and outcome.",
		}, []string{"kind", "outcome"}),
		Reverts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jbx_read_through_reverts_total",
			Help: "Read-through calls that reverted, by call.",
		}, []string{"call"}),
		Anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jbx_anomalies_total",
			Help: "Data anomalies flagged while aggregating, by kind.",
		}, []string{"kind"}),
		Checkpoint: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jbx_checkpoint_block",
			Help: "Block of the last committed checkpoint.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Events, m.Reverts, m.Anomalies, m.Checkpoint)
	}

	return m
}
