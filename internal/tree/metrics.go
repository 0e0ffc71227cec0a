package tree

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/sapling/internal/position"
	"github.com/roach88/sapling/internal/store"
)

// Metrics holds the tree's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	// allocations counts position allocations.
	// Labels: slot (first, last, left, right), outcome (ok, exhausted, error)
	allocations *prometheus.CounterVec

	// mutations counts node inserts and deletes.
	// Labels: op (add_root, add_child, add_sibling, create, delete),
	// outcome (ok, conflict, error)
	mutations *prometheus.CounterVec

	// queryLatency measures traversal queries.
	// Labels: kind (nodes, count)
	queryLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		allocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sapling",
			Subsystem: "tree",
			Name:      "allocations_total",
			Help:      "Sibling position allocations by slot and outcome",
		}, []string{"slot", "outcome"}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sapling",
			Subsystem: "tree",
			Name:      "mutations_total",
			Help:      "Node mutations by operation and outcome",
		}, []string{"op", "outcome"}),
		queryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sapling",
			Subsystem: "tree",
			Name:      "query_duration_seconds",
			Help:      "Traversal query latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"kind"}),
	}
}

func (m *Metrics) recordAllocation(slot position.Slot, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, position.ErrSpaceExhausted):
		outcome = "exhausted"
	default:
		outcome = "error"
	}
	m.allocations.WithLabelValues(slot.String(), outcome).Inc()
}

func (m *Metrics) recordMutation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, store.ErrPositionConflict), errors.Is(err, store.ErrPathConflict):
		outcome = "conflict"
	default:
		outcome = "error"
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) observeQuery(kind string, start time.Time) {
	if m == nil {
		return
	}
	m.queryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
