// Package metrics wires the batch job's progress into Prometheus, in
// the private-registry style of the teacher's pkg/metrics: package-level
// promauto collectors on one private registry, served over an optional HTTP listener
// rather than a push gateway, since this is a one-shot CLI run rather
// than a long-lived service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pumpsched"

var registry = prometheus.NewRegistry()

var (
	// IncumbentsTotal counts every strictly improving, feasible
	// incumbent the search engine reports.
	IncumbentsTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "incumbents_total",
		Help:      "Total number of improving feasible incumbents found",
	})

	// BestCostEUR tracks the current best incumbent's total cost.
	BestCostEUR = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "best_cost_eur",
		Help:      "Scaled objective (energy + switch + load-balance terms, in EUR) of the current best incumbent",
	})

	// SolveDuration observes the wall-clock time of a complete run.
	SolveDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "solve_duration_seconds",
		Help:      "Wall-clock duration of a solve run",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	// CallbackEmissions counts anytime result-file writes that were
	// actually performed.
	CallbackEmissions = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "callback_emissions_total",
		Help:      "Total number of anytime result file writes",
	})

	// CallbackSkipped counts improvements that were throttled away.
	CallbackSkipped = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "callback_skipped_total",
		Help:      "Total number of improvements skipped by the emission throttle",
	})

	// SearchStatus reports the terminal search status of the last run:
	// 0 unknown, 1 feasible, 2 optimal, 3 infeasible.
	SearchStatus = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "search_status",
		Help:      "Terminal search status of the last run (0 unknown, 1 feasible, 2 optimal, 3 infeasible)",
	})
)

// RecordBestCost updates BestCostEUR and increments IncumbentsTotal
// for one improving incumbent.
func RecordBestCost(costEUR float64) {
	IncumbentsTotal.Inc()
	BestCostEUR.Set(costEUR)
}

// RecordSearchStatus encodes status as SearchStatus's numeric value:
// 0 unknown, 1 feasible, 2 optimal, 3 infeasible.
func RecordSearchStatus(status string) {
	var v float64
	switch status {
	case "feasible":
		v = 1
	case "optimal":
		v = 2
	case "infeasible":
		v = 3
	}
	SearchStatus.Set(v)
}

// ObserveSolveDuration records how long a full run took.
func ObserveSolveDuration(d time.Duration) {
	SolveDuration.Observe(d.Seconds())
}

// Handler returns the HTTP handler serving this package's private
// registry, used when --metrics-addr is set.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
