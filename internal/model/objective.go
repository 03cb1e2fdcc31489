package model

import "pumpsched/internal/pumpid"

// Objective holds the three additive integer terms of spec.md §4.3.
// The reported total cost uses only E, recomputed post-hoc with real
// level-dependent power by the solution extractor; W and L steer the
// search but are never billed.
type Objective struct {
	Energy   int // E
	Switch   int // W
	LoadBal  int // L
}

// Total is the scaled objective value the search driver minimises.
func (o Objective) Total() int { return o.Energy + o.Switch + o.LoadBal }

// SwitchMatrix derives switch[p,t] = on[p,t] != on[p,t-1] (spec.md
// §4.3 constraint 10), including the t=0 boundary against the
// pump's locked initial state.
func (m *Model) SwitchMatrix(on OnMatrix) OnMatrix {
	sw := NewOnMatrix(m.N)
	for _, p := range pumpid.All {
		for t := 0; t < m.N; t++ {
			sw[p.Index][t] = on[p.Index][t] != priorOn(m, on, p.Index, t)
		}
	}
	return sw
}

// Run returns Σ_t on[p,t] for each pump.
func (m *Model) Run(on OnMatrix) [pumpid.Count]int {
	var run [pumpid.Count]int
	for _, p := range pumpid.All {
		count := 0
		for t := 0; t < m.N; t++ {
			if on[p.Index][t] {
				count++
			}
		}
		run[p.Index] = count
	}
	return run
}

// AdjRun returns run[p] + initialIntervals[p] (spec.md §4.3).
func (m *Model) AdjRun(on OnMatrix) [pumpid.Count]int {
	run := m.Run(on)
	for i := range run {
		run[i] += m.InitialIntervals[i]
	}
	return run
}

// Excess returns, per pump, adjRun[p] - runMin(class(p)) (spec.md
// §4.3): the load-balancing penalty base.
func (m *Model) Excess(on OnMatrix) [pumpid.Count]int {
	adj := m.AdjRun(on)
	var excess [pumpid.Count]int
	for _, class := range []pumpid.Class{pumpid.Small, pumpid.Big} {
		indices := pumpid.ClassIndices(class)
		runMin := adj[indices[0]]
		for _, idx := range indices[1:] {
			if adj[idx] < runMin {
				runMin = adj[idx]
			}
		}
		for _, idx := range indices {
			excess[idx] = adj[idx] - runMin
		}
	}
	return excess
}

// Evaluate computes the scaled objective for a full assignment
// (spec.md §4.3).
func (m *Model) Evaluate(on OnMatrix) Objective {
	var obj Objective

	for _, p := range pumpid.All {
		costs := m.EnergyCostScaled[p.Index]
		for t := 0; t < m.N; t++ {
			if on[p.Index][t] {
				obj.Energy += costs[t]
			}
		}
	}

	sw := m.SwitchMatrix(on)
	for _, p := range pumpid.All {
		for t := 0; t < m.N; t++ {
			if sw[p.Index][t] {
				obj.Switch += m.SwitchPenaltyScaled
			}
		}
	}

	excess := m.Excess(on)
	for _, e := range excess {
		obj.LoadBal += e * m.LoadBalanceScaled
	}

	return obj
}
