package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeEmitted    = "emitted"
	outcomeDropped    = "dropped"
	outcomeDuplicate  = "duplicate"
	outcomeShapeError = "shape_error"
)

// Metrics holds the Prometheus counters of the engine. A nil *Metrics
// records nothing.
type Metrics struct {
	records  *prometheus.CounterVec // By class and outcome (emitted/dropped/duplicate/shape_error)
	buffered *prometheus.CounterVec // By class
}

// NewMetrics creates and registers the engine counters. A nil registerer
// disables metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semantic_mapper",
			Subsystem: "engine",
			Name:      "records_total",
			Help:      "Subject positions processed, by class and outcome",
		}, []string{"class", "outcome"}),

		buffered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semantic_mapper",
			Subsystem: "engine",
			Name:      "buffered_links_total",
			Help:      "Links deferred until every class is written",
		}, []string{"class"}),
	}

	if err := reg.Register(m.records); err != nil {
		return nil, err
	}
	if err := reg.Register(m.buffered); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) record(class, outcome string) {
	if m == nil {
		return
	}

	m.records.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) buffer(class string, n int) {
	if m == nil || n == 0 {
		return
	}

	m.buffered.WithLabelValues(class).Add(float64(n))
}
