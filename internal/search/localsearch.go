package search

import (
	"math"
	"math/rand"

	"pumpsched/internal/model"
	"pumpsched/internal/pumpid"
)

// violationPenalty weights each outstanding hard-constraint violation
// in the local-search score so that any feasible candidate always
// outranks an infeasible one, regardless of objective value. Scaled
// objective values for realistic horizons stay well under this.
const violationPenalty = 50_000_000

func score(obj model.Objective, violations int) int64 {
	return int64(obj.Total()) + int64(violations)*violationPenalty
}

// move is a single local-search perturbation: flip pump p's state
// across [start, end) to newState. Moves are proposed at
// dwell-length granularity so most proposals keep the schedule close
// to feasible; infeasible proposals are simply scored worse and
// usually rejected.
type move struct {
	pump       int
	start, end int
	newState   bool
}

func proposeMove(m *model.Model, rng *rand.Rand) move {
	p := pumpid.All[rng.Intn(pumpid.Count)]
	lo := m.LockedIntervals[p.Index]
	if lo >= m.N {
		lo = m.N - 1
	}
	if lo < 0 {
		lo = 0
	}
	span := m.N - lo
	if span <= 0 {
		return move{pump: p.Index, start: 0, end: 0, newState: false}
	}
	length := model.DwellIntervals + rng.Intn(model.DwellIntervals*2)
	start := lo + rng.Intn(span)
	end := start + length
	if end > m.N {
		end = m.N
	}
	return move{pump: p.Index, start: start, end: end, newState: rng.Intn(2) == 0}
}

func applyMove(on model.OnMatrix, mv move) {
	for t := mv.start; t < mv.end; t++ {
		on[mv.pump][t] = mv.newState
	}
}

// anneal runs a single worker's simulated-annealing chain for
// iterations steps, mutating on in place and returning the best
// incumbent it found. It does not touch the shared best or invoke any
// callback: the caller does the compare-and-swap against the shared
// best and reports improvements.
func anneal(m *model.Model, on model.OnMatrix, rng *rand.Rand, iterations int, temperature float64) (model.OnMatrix, model.Objective, []model.Violation) {
	_, violations := m.Simulate(on)
	obj := m.Evaluate(on)
	curScore := score(obj, len(violations))

	bestOn := on.Clone()
	bestObj := obj
	bestViolations := violations
	bestScore := curScore

	for i := 0; i < iterations; i++ {
		mv := proposeMove(m, rng)
		if mv.end <= mv.start {
			continue
		}
		prev := make([]bool, mv.end-mv.start)
		copy(prev, on[mv.pump][mv.start:mv.end])
		applyMove(on, mv)

		_, newViolations := m.Simulate(on)
		newObj := m.Evaluate(on)
		newScore := score(newObj, len(newViolations))

		accept := newScore <= curScore
		if !accept && temperature > 0 {
			delta := float64(newScore - curScore)
			accept = rng.Float64() < math.Exp(-delta/temperature)
		}

		if accept {
			curScore = newScore
			if newScore < bestScore {
				bestScore = newScore
				bestOn = on.Clone()
				bestObj = newObj
				bestViolations = newViolations
			}
		} else {
			copy(on[mv.pump][mv.start:mv.end], prev)
		}

		temperature *= 0.999
	}

	return bestOn, bestObj, bestViolations
}
