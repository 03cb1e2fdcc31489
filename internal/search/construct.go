package search

import (
	"sort"

	"pumpsched/internal/model"
	"pumpsched/internal/pumpcatalog"
	"pumpsched/internal/pumpid"
)

// priceLowThreshold is the "cheap electricity" cutoff used by the
// search hint of spec.md §4.3.
const priceLowThreshold = 0.05

// volumeMarginFraction keeps the greedy controller from riding the
// volume ceiling exactly, leaving headroom for the next interval's
// inflow uncertainty.
const volumeMarginFraction = 0.05

// construct builds an initial schedule by forward simulation: at each
// interval it carries forward any pump still within its post-change
// dwell window, and chooses the rest greedily to keep the tunnel
// volume inside bounds, honour the minimum-one-running and max-flow
// invariants, and nudge toward any still-unmet low-level visit
// (spec.md §3 invariants 3-8). The locked initial state is held; after
// that, free pumps are added one at a time only while the predicted
// volume is above the ceiling or no pump is running. The anchor pump
// is always tried first; price only decides the order of the other
// candidates (small pumps first when cheap, big pumps first
// otherwise). The anchor is not forced on, and no pump is turned on
// just because price is low.
func construct(m *model.Model, prices []float64) model.OnMatrix {
	on := model.NewOnMatrix(m.N)

	state := m.InitialOn
	cooldownUntil := m.LockedIntervals // can't change before the locked prefix ends

	anchor := anchorPump(m)
	windowVisited := make([]bool, len(m.LowLevelWindows))
	target := m.LowLevelTargetVolume()

	volume := m.InitialVolume
	margin := int(float64(m.VMax-m.VMin) * volumeMarginFraction)

	for t := 0; t < m.N; t++ {
		urgentLow := urgentLowLevel(m, t, windowVisited, volume, target)

		forcedOutflow, forcedCap, forcedRunning := 0, 0, 0
		var free []pumpid.Pump
		for _, p := range pumpid.All {
			if t < cooldownUntil[p.Index] {
				if state[p.Index] {
					forcedOutflow += m.QModel[p.Index]
					forcedCap += m.QMax[p.Index]
					forcedRunning++
				}
				continue
			}
			free = append(free, p)
		}

		sort.Slice(free, func(i, j int) bool {
			return candidatePriority(free[i], anchor, prices[t]) < candidatePriority(free[j], anchor, prices[t])
		})

		chosen := map[int]bool{}
		outflow, cap, running := forcedOutflow, forcedCap, forcedRunning
		ceiling := m.VMax - margin
		if urgentLow {
			ceiling = target
		}

		for _, p := range free {
			predicted := volume + m.Inflow[t] - outflow
			needMore := predicted > ceiling || running == 0
			if !needMore {
				break
			}
			if cap+m.QMax[p.Index] > model.MaxOutflowPerInterval {
				continue
			}
			chosen[p.Index] = true
			outflow += m.QModel[p.Index]
			cap += m.QMax[p.Index]
			running++
		}

		for _, p := range free {
			newState := chosen[p.Index]
			if newState != state[p.Index] {
				state[p.Index] = newState
				cooldownUntil[p.Index] = t + model.DwellIntervals
			}
			on[p.Index][t] = state[p.Index]
		}
		for _, p := range pumpid.All {
			if t < cooldownUntil[p.Index] {
				on[p.Index][t] = state[p.Index]
			}
		}

		volume = volume + m.Inflow[t] - outflow
		markWindowVisited(m, t, volume, target, windowVisited)
	}

	return on
}

// anchorPump picks the always-preferred pump of the search hint: the
// first small pump in the fixed enumeration.
func anchorPump(m *model.Model) pumpid.Pump {
	return pumpid.All[pumpid.ClassIndices(pumpid.Small)[0]]
}

// candidatePriority ranks a free pump for inclusion: the anchor pump
// first, then small pumps when price is low (cheap and sufficient),
// otherwise big pumps first (more flow per switch).
func candidatePriority(p, anchor pumpid.Pump, price float64) int {
	if p.Index == anchor.Index {
		return -1
	}
	cheap := price < priceLowThreshold
	if cheap == (p.Class == pumpid.Small) {
		return p.Index
	}
	return p.Index + pumpid.Count
}

func urgentLowLevel(m *model.Model, t int, visited []bool, volume, target int) bool {
	if volume <= target {
		return false
	}
	for wi, w := range m.LowLevelWindows {
		if !w.Required || visited[wi] {
			continue
		}
		if t >= w.StartInterval && t < w.EndInterval {
			remaining := w.EndInterval - t
			if remaining <= model.DwellIntervals*2 {
				return true
			}
		}
	}
	if m.DeadlineInterval >= 0 && t <= m.DeadlineInterval {
		remaining := m.DeadlineInterval - t
		if remaining <= model.DwellIntervals*2 {
			return true
		}
	}
	return false
}

func markWindowVisited(m *model.Model, t, volume, target int, visited []bool) {
	if volume > target {
		return
	}
	for wi, w := range m.LowLevelWindows {
		if t >= w.StartInterval && t < w.EndInterval {
			visited[wi] = true
		}
	}
}

// PricesFromModel extracts the €/kWh price series the construction
// heuristic reacts to; it reconstructs it from the model's scaled
// energy costs rather than taking the raw input again, since Model is
// the single source of truth once built.
func PricesFromModel(m *model.Model) []float64 {
	anchor := anchorPump(m)
	specs := pumpcatalog.EvaluateAtMid(anchor)
	prices := make([]float64, m.N)
	denom := specs.PowerKW * model.DeltaHours * 1000
	for t := 0; t < m.N; t++ {
		if denom == 0 {
			continue
		}
		prices[t] = float64(m.EnergyCostScaled[anchor.Index][t]) / denom
	}
	return prices
}
