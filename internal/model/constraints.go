package model

import "pumpsched/internal/pumpid"

// ConstraintFamily names one of the hard-constraint families of
// spec.md §4.3, for infeasibility diagnostics (spec.md §7).
type ConstraintFamily string

const (
	FamilyConservation   ConstraintFamily = "volume_conservation"
	FamilyLevelBounds    ConstraintFamily = "level_bounds"
	FamilyMaxFlow        ConstraintFamily = "max_flow_cap"
	FamilyMinRunning     ConstraintFamily = "min_one_running"
	FamilyInitialLock    ConstraintFamily = "initial_lock"
	FamilyDwell          ConstraintFamily = "dwell"
	FamilyLowLevelWindow ConstraintFamily = "low_level_window"
	FamilyDeadline       ConstraintFamily = "deadline_low_level"
)

// Violation describes one broken hard constraint, naming the family
// and the interval (and pump, where applicable) at which it occurs.
type Violation struct {
	Family ConstraintFamily
	T      int
	Pump   int // -1 if not pump-specific
	Detail string
}

// OnMatrix is the pump × interval decision variable assignment,
// on[pumpIndex][t].
type OnMatrix [pumpid.Count][]bool

// NewOnMatrix allocates a matrix for a horizon of n intervals.
func NewOnMatrix(n int) OnMatrix {
	var m OnMatrix
	for i := range m {
		m[i] = make([]bool, n)
	}
	return m
}

// Clone returns a deep copy.
func (m OnMatrix) Clone() OnMatrix {
	var out OnMatrix
	for i := range m {
		out[i] = append([]bool(nil), m[i]...)
	}
	return out
}

// priorOn returns on[p,t-1], substituting the pump's initial state for
// t=0 (spec.md §4.3 constraint 7: "on[p,-1] is the initial state").
func priorOn(m *Model, on OnMatrix, p, t int) bool {
	if t == 0 {
		return m.InitialOn[p]
	}
	return on[p][t-1]
}

// Simulate runs the volume recurrence (spec.md §4.3 constraint 2) for
// a full on/off assignment and returns the resulting volume trace
// (length N+1) together with every hard-constraint violation found.
// It does not stop at the first violation: diagnostics need the full
// picture, and the local search scores candidates by how many
// violations remain, not just whether one exists.
func (m *Model) Simulate(on OnMatrix) (volumes []int, violations []Violation) {
	volumes = make([]int, m.N+1)
	volumes[0] = m.InitialVolume

	for t := 0; t < m.N; t++ {
		outflow := 0
		runningCount := 0
		capUsed := 0
		for _, p := range pumpid.All {
			if on[p.Index][t] {
				outflow += m.QModel[p.Index]
				capUsed += m.QMax[p.Index]
				runningCount++
			}
		}
		volumes[t+1] = volumes[t] + m.Inflow[t] - outflow

		if runningCount == 0 {
			violations = append(violations, Violation{Family: FamilyMinRunning, T: t, Pump: -1,
				Detail: "no pump running"})
		}
		if capUsed > MaxOutflowPerInterval {
			violations = append(violations, Violation{Family: FamilyMaxFlow, T: t, Pump: -1,
				Detail: "combined max-flow capacity exceeds cap"})
		}
	}

	for t := 0; t <= m.N; t++ {
		if volumes[t] < m.VMin || volumes[t] > m.VMax {
			violations = append(violations, Violation{Family: FamilyLevelBounds, T: t, Pump: -1,
				Detail: "volume outside [VMin, VMax]"})
		}
	}

	for _, p := range pumpid.All {
		violations = append(violations, m.checkLock(on, p.Index)...)
		violations = append(violations, m.checkDwell(on, p.Index)...)
	}

	violations = append(violations, m.checkLowLevelWindows(volumes)...)
	violations = append(violations, m.checkDeadline(volumes)...)

	return volumes, violations
}

func (m *Model) checkLock(on OnMatrix, p int) []Violation {
	var out []Violation
	for t := 0; t < m.LockedIntervals[p] && t < m.N; t++ {
		if on[p][t] != m.InitialOn[p] {
			out = append(out, Violation{Family: FamilyInitialLock, T: t, Pump: p,
				Detail: "on[p,t] must equal the locked initial state"})
		}
	}
	return out
}

func (m *Model) checkDwell(on OnMatrix, p int) []Violation {
	var out []Violation
	for t := 1; t < m.N; t++ {
		if on[p][t] == on[p][t-1] {
			continue
		}
		// A change at t must hold for DwellIntervals consecutive steps.
		for d := 1; d < DwellIntervals && t+d < m.N; d++ {
			if on[p][t+d] != on[p][t] {
				out = append(out, Violation{Family: FamilyDwell, T: t, Pump: p,
					Detail: "state change reverted before dwell elapsed"})
				break
			}
		}
	}
	// t=0 change relative to the initial state is covered by the same rule.
	if m.N > 0 && on[p][0] != m.InitialOn[p] {
		for d := 1; d < DwellIntervals && d < m.N; d++ {
			if on[p][d] != on[p][0] {
				out = append(out, Violation{Family: FamilyDwell, T: 0, Pump: p,
					Detail: "initial state change reverted before dwell elapsed"})
				break
			}
		}
	}
	return out
}

func (m *Model) checkLowLevelWindows(volumes []int) []Violation {
	var out []Violation
	target := m.LowLevelTargetVolume()
	for _, w := range m.LowLevelWindows {
		if !w.Required {
			continue
		}
		ok := false
		for t := w.StartInterval; t < w.EndInterval && t < len(volumes); t++ {
			if volumes[t] <= target {
				ok = true
				break
			}
		}
		if !ok {
			out = append(out, Violation{Family: FamilyLowLevelWindow, T: w.StartInterval, Pump: -1,
				Detail: "no low-level visit in 24h window"})
		}
	}
	return out
}

func (m *Model) checkDeadline(volumes []int) []Violation {
	if m.DeadlineInterval < 0 {
		return nil
	}
	target := m.LowLevelTargetVolume()
	limit := m.DeadlineInterval
	if limit >= len(volumes) {
		limit = len(volumes) - 1
	}
	for t := 0; t <= limit; t++ {
		if volumes[t] <= target {
			return nil
		}
	}
	return []Violation{{Family: FamilyDeadline, T: 0, Pump: -1, Detail: "no low-level visit before deadline"}}
}

// PriorOn returns on[p,t-1] for reified switch computation at (p, t),
// substituting the initial state at t=0; exported for the
// search/solution packages that need on[p,t-1] including the t=0
// boundary.
func (m *Model) PriorOn(on OnMatrix, p, t int) bool {
	return priorOn(m, on, p, t)
}
