// Package solution implements the solution extractor of spec.md §4.6:
// it takes a boolean on/off assignment from the search engine, which
// reasons about linearised mid-level pump specs, and replays it
// against the true level-dependent hydraulics to produce the result
// document that is actually reported to operators.
package solution

import (
	"pumpsched/internal/geometry"
	"pumpsched/internal/input"
	"pumpsched/internal/model"
	"pumpsched/internal/pumpcatalog"
	"pumpsched/internal/pumpid"
	"pumpsched/internal/schedule"
)

// Extract replays on against the model's own integer volume
// recurrence (the one the search engine reasoned about, via
// m.Simulate) rather than re-deriving a drifted volume trace from
// real-flow outflow: spec.md §4.6/§8 require the reported
// volume/level figures to satisfy the model-level recurrence exactly.
// Active pumps and the realised outflow/cost are then computed from
// the true (non-linearised) geometry and pump catalog at those
// model-level heights, matching the original's split between the
// solved volume trace and the display-time flow/cost figures.
func Extract(m *model.Model, doc *input.Document, on model.OnMatrix, st schedule.Status) schedule.Document {
	entries := make([]schedule.Entry, m.N)
	totalCost := 0.0

	volumes, _ := m.Simulate(on)

	totalMinutes := make([]int, pumpid.Count)
	for i, ps := range doc.Pumps {
		totalMinutes[i] = ps.TotalMinutes
	}

	for t := 0; t < m.N; t++ {
		volumeStart := float64(volumes[t])
		volumeEnd := float64(volumes[t+1])
		levelStart := geometry.Height(volumeStart)
		levelEnd := geometry.Height(volumeEnd)

		var active []string
		outflow := 0.0
		cost := 0.0
		price := doc.Items[t].ElectricityPrice // €/kWh

		for _, p := range pumpid.All {
			if !on[p.Index][t] {
				continue
			}
			specs := pumpcatalog.Evaluate(p, levelStart)
			outflow += specs.FlowM3H * model.DeltaHours
			cost += specs.PowerKW * model.DeltaHours * price
			active = append(active, p.ID)
			totalMinutes[p.Index] += model.IntervalMinutes
		}

		entries[t] = schedule.Entry{
			Interval:                    t,
			Date:                        doc.Items[t].Date,
			ActivePumps:                 active,
			WaterLevelStartM:            levelStart,
			WaterLevelEndM:              levelEnd,
			VolumeStartM3:               volumeStart,
			VolumeEndM3:                 volumeEnd,
			InflowM3:                    float64(m.Inflow[t]),
			OutflowM3:                   outflow,
			ElectricityPriceCentsPerKWh: price * 100,
			IntervalCostEUR:             cost,
		}

		totalCost += cost
	}

	pumpMinutes := make(map[string]int, pumpid.Count)
	for _, p := range pumpid.All {
		pumpMinutes[p.ID] = totalMinutes[p.Index]
	}

	return schedule.Document{
		Status:             st,
		TotalCostEUR:       totalCost,
		InitialWaterLevelM: doc.InitialWaterLevel,
		InitialVolumeM3:    float64(m.InitialVolume),
		PumpTotalMinutes:   pumpMinutes,
		Schedule:           entries,
	}
}
