package search

import (
	"context"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"pumpsched/internal/model"
)

// initialTemperature seeds each worker's simulated-annealing chain;
// chosen so an early move costing a few switch penalties is still
// frequently accepted, letting the chain escape the construction
// heuristic's local structure before cooling.
const initialTemperature = 2000.0

// Solve runs the anytime search driver of spec.md §4.4: it builds an
// initial schedule with the construction heuristic, then runs
// opts.Workers parallel simulated-annealing workers under ctx's
// deadline, each one racing to improve a shared best incumbent.
// Every strictly improving, zero-violation incumbent invokes
// opts.OnImprovement before the driver continues searching.
func Solve(ctx context.Context, m *model.Model, opts Options) Result {
	opts = opts.withDefaults()

	prices := PricesFromModel(m)
	initial := construct(m, prices)
	_, violations := m.Simulate(initial)
	initialObj := m.Evaluate(initial)

	shared := &sharedBest{
		on:         initial,
		objective:  initialObj,
		violations: violations,
	}

	if len(violations) == 0 && opts.OnImprovement != nil {
		opts.OnImprovement(shared.snapshot())
	}

	if ctx.Err() != nil {
		return finalize(shared, false, true)
	}

	g, gctx := errgroup.WithContext(ctx)
	stalled := make([]int, opts.Workers)

	for w := 0; w < opts.Workers; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(opts.RandSeed + int64(w)*104729))
			on := shared.snapshotOn()
			temperature := initialTemperature
			rounds := 0

			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}

				candOn, candObj, candViolations := anneal(m, on, rng, opts.IterationsPerRound, temperature)
				temperature *= 0.9
				rounds++

				improved := shared.tryUpdate(candOn, candObj, candViolations)
				if improved {
					stalled[w] = 0
					if len(candViolations) == 0 && opts.OnImprovement != nil {
						opts.OnImprovement(shared.snapshot())
					}
					on = candOn
				} else {
					stalled[w]++
					on = shared.snapshotOn() // converge back toward the shared best periodically
				}

				if allStalled(stalled, opts.StallRounds) {
					return nil
				}
			}
		})
	}

	_ = g.Wait()

	deadlineHit := ctx.Err() != nil
	optimal := allStalled(stalled, opts.StallRounds) && !deadlineHit
	return finalize(shared, optimal, deadlineHit)
}

func allStalled(stalled []int, threshold int) bool {
	for _, s := range stalled {
		if s < threshold {
			return false
		}
	}
	return true
}

// finalize maps the shared incumbent to a terminal status (spec.md
// §4.4, SPEC_FULL.md §12). A violation-free incumbent is FEASIBLE (or
// OPTIMAL, once every worker has stalled without the deadline
// intervening). A remaining violation is INFEASIBLE only when every
// worker stalled on its own — the local search genuinely ran out of
// improving moves, the practical stand-in for "the repair pass cannot
// construct a schedule honouring the hard constraints" an exact solver
// would report. If the deadline cut the search off first, the driver
// never got to find out whether a feasible schedule exists, so that
// case is UNKNOWN rather than INFEASIBLE.
func finalize(shared *sharedBest, optimal bool, deadlineHit bool) Result {
	inc := shared.snapshot()
	status := StatusInfeasible
	switch {
	case len(inc.Violations) == 0:
		status = StatusFeasible
		if optimal {
			status = StatusOptimal
		}
	case deadlineHit:
		status = StatusUnknown
	}
	return Result{Status: status, Best: inc}
}

// sharedBest is the mutex-guarded incumbent shared across workers
// (spec.md §5: "no shared mutable state outside the callback's output
// file" refers to the emission path; the in-memory incumbent itself
// is the one piece of state the worker pool legitimately shares, and
// it is protected the same way).
type sharedBest struct {
	mu         sync.Mutex
	on         model.OnMatrix
	objective  model.Objective
	violations []model.Violation
}

func (s *sharedBest) snapshotOn() model.OnMatrix {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on.Clone()
}

func (s *sharedBest) snapshot() Incumbent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Incumbent{On: s.on.Clone(), Objective: s.objective, Violations: append([]model.Violation(nil), s.violations...)}
}

// tryUpdate installs candOn as the new shared best if it strictly
// improves on the current one (fewer violations always wins; among
// equal-violation candidates, lower objective wins). Returns whether
// the update was applied.
func (s *sharedBest) tryUpdate(candOn model.OnMatrix, candObj model.Objective, candViolations []model.Violation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	better := len(candViolations) < len(s.violations) ||
		(len(candViolations) == len(s.violations) && candObj.Total() < s.objective.Total())
	if !better {
		return false
	}
	s.on = candOn
	s.objective = candObj
	s.violations = candViolations
	return true
}
