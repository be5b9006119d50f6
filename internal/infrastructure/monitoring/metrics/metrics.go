// Package metrics exposes Prometheus instrumentation for availability
// queries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/availability"
)

// Observer implements availability.Observer on top of Prometheus collectors.
type Observer struct {
	queries         *prometheus.CounterVec
	queryDuration   prometheus.Histogram
	canonFailures   prometheus.Counter
	sourceMatches   *prometheus.CounterVec
	databaseQueries *prometheus.CounterVec
}

var _ availability.Observer = (*Observer)(nil)

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rxn",
			Subsystem: "availability",
			Name:      "queries_total",
			Help:      "Availability queries by verdict.",
		}, []string{"verdict"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rxn",
			Subsystem: "availability",
			Name:      "query_duration_seconds",
			Help:      "Wall-clock duration of availability queries.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		canonFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rxn",
			Subsystem: "availability",
			Name:      "canonicalization_failures_total",
			Help:      "Queried SMILES strings that could not be canonicalized.",
		}),
		sourceMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rxn",
			Subsystem: "availability",
			Name:      "source_matches_total",
			Help:      "First matches by availability source.",
		}, []string{"source"}),
		databaseQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rxn",
			Subsystem: "availability",
			Name:      "database_queries_total",
			Help:      "Catalog database lookups by catalog and status.",
		}, []string{"catalog", "status"}),
	}
	reg.MustRegister(o.queries, o.queryDuration, o.canonFailures, o.sourceMatches, o.databaseQueries)
	return o
}

// QueryObserved implements availability.Observer.
func (o *Observer) QueryObserved(available bool, elapsed time.Duration) {
	verdict := "unavailable"
	if available {
		verdict = "available"
	}
	o.queries.WithLabelValues(verdict).Inc()
	o.queryDuration.Observe(elapsed.Seconds())
}

// CanonicalizationFailed implements availability.Observer.
func (o *Observer) CanonicalizationFailed() {
	o.canonFailures.Inc()
}

// SourceMatched implements availability.Observer.
func (o *Observer) SourceMatched(tag string) {
	o.sourceMatches.WithLabelValues(tag).Inc()
}

// DatabaseQueried implements availability.Observer.
func (o *Observer) DatabaseQueried(name string, failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	o.databaseQueries.WithLabelValues(name, status).Inc()
}
