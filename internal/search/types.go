// Package search implements the anytime search driver of spec.md §4.4:
// it configures worker parallelism and a wall-clock deadline over the
// model package's decision representation, and drives an incumbent
// toward a feasible, low-cost schedule. No mature constraint-programming
// or MILP library exists among the examined Go examples (the original
// Python implementation uses OR-Tools CP-SAT, which has no Go binding),
// so — following the teacher repo's own idiom of hand-implementing
// domain algorithms rather than wrapping a solver — this package
// hand-rolls a penalty-guided, multi-start local search: construct an
// initial schedule with a greedy volume-driven heuristic, then improve
// it under simulated annealing across a worker pool, reporting every
// strictly improving incumbent to the caller's anytime callback.
package search

import (
	"pumpsched/internal/model"
)

// Status mirrors the engine termination states of spec.md §4.4.
type Status int

const (
	StatusUnknown Status = iota
	StatusFeasible
	StatusOptimal
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusFeasible:
		return "feasible"
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Incumbent is one candidate solution surfaced during search: the
// on/off assignment, its scaled objective, and the violations (if
// any) still present. A zero-violation incumbent is a true feasible
// solution; a non-zero one is never passed to OnImprovement, but it is
// returned as Result.Best of an INFEASIBLE or UNKNOWN run so the
// caller can report its violations.
type Incumbent struct {
	On         model.OnMatrix
	Objective  model.Objective
	Violations []model.Violation
}

// Options configures the search driver (spec.md §4.4, §5).
type Options struct {
	// Workers is the worker-pool size. Default 8.
	Workers int

	// OnImprovement is invoked, synchronously and from whichever
	// worker goroutine found the improvement, on every strictly
	// improving feasible incumbent. Implementations must return
	// quickly or perform their own throttling/async hand-off
	// (internal/callback throttles, then writes synchronously); search
	// does not throttle here.
	OnImprovement func(Incumbent)

	// StallRounds is the number of consecutive synchronised rounds
	// with no improvement across any worker before the driver
	// declares StatusOptimal. Default 6.
	StallRounds int

	// IterationsPerRound bounds how much work a worker does between
	// stall-round synchronisation points. Default 250.
	IterationsPerRound int

	// RandSeed seeds the worker RNGs; workers derive independent
	// streams from it (seed+workerIndex*104729) so a run is reproducible for
	// a fixed seed and worker count.
	RandSeed int64
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.StallRounds <= 0 {
		o.StallRounds = 6
	}
	if o.IterationsPerRound <= 0 {
		o.IterationsPerRound = 250
	}
	return o
}

// Result is the search driver's final answer (spec.md §4.4): the last
// incumbent valuation and the termination status.
type Result struct {
	Status Status
	Best   Incumbent
}
