// Package metrics exposes Prometheus instrumentation for the extraction
// engine. Collectors are registered once with the default registry and
// served from the app's health webserver under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/featuregrid/featuregrid/internal/feature"
)

var (
	// NodeRuns counts node outcomes per status across all runs.
	NodeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "featuregrid",
		Subsystem: "executor",
		Name:      "node_runs_total",
		Help:      "Feature node executions by terminal status.",
	}, []string{"status"})

	// NodeDuration tracks wall-clock time spent inside node bodies.
	NodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "featuregrid",
		Subsystem: "executor",
		Name:      "node_duration_seconds",
		Help:      "Wall-clock duration of feature node bodies.",
		Buckets:   prometheus.DefBuckets,
	})

	// Levels counts execution levels processed across all runs.
	Levels = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "featuregrid",
		Subsystem: "executor",
		Name:      "levels_total",
		Help:      "Execution levels processed.",
	})
)

// ObserveResult records one node result.
func ObserveResult(res feature.Result) {
	NodeRuns.WithLabelValues(string(res.Status)).Inc()
	if res.Status == feature.StatusSuccess {
		NodeDuration.Observe(res.DurationMillis / 1000)
	}
}
