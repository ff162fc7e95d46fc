package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/outofforest/pather/types"
)

// New creates new recorder of search metrics.
func New(namespace string) *Recorder {
	return &Recorder{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of executed queries",
			},
			[]string{"status"},
		),
		expanded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expanded_nodes_total",
				Help:      "Total number of expanded search nodes",
			},
		),
		pathLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "path_length",
				Help:      "Number of states in reconstructed paths",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		resets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pool_resets_total",
				Help:      "Total number of node pool resets",
			},
		),
	}
}

// Recorder records metrics of executed queries.
// Nil recorder is valid and records nothing.
type Recorder struct {
	queries    *prometheus.CounterVec
	expanded   prometheus.Counter
	pathLength prometheus.Histogram
	resets     prometheus.Counter
}

// Register registers collectors of the recorder.
func (r *Recorder) Register(registerer prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{r.queries, r.expanded, r.pathLength, r.resets} {
		if err := registerer.Register(c); err != nil {
			return errors.Wrap(err, "registering collector failed")
		}
	}
	return nil
}

// Observe records the outcome of the query.
func (r *Recorder) Observe(status types.Status, expanded uint64, pathLength int) {
	if r == nil {
		return
	}

	r.queries.WithLabelValues(status.String()).Inc()
	r.expanded.Add(float64(expanded))
	if pathLength > 0 {
		r.pathLength.Observe(float64(pathLength))
	}
}

// ObserveReset records the reset of node pool.
func (r *Recorder) ObserveReset() {
	if r == nil {
		return
	}
	r.resets.Inc()
}
