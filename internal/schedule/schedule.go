// Package schedule defines the on-disk result document of spec.md §6:
// the JSON shape consumed by the visualiser downstream of this tool.
package schedule

import "time"

// Entry is one 15-minute row of the emitted schedule.
type Entry struct {
	Interval                   int       `json:"interval"`
	Date                       time.Time `json:"date"`
	ActivePumps                []string  `json:"active_pumps"`
	WaterLevelStartM           float64   `json:"water_level_start_m"`
	WaterLevelEndM             float64   `json:"water_level_end_m"`
	VolumeStartM3              float64   `json:"volume_start_m3"`
	VolumeEndM3                float64   `json:"volume_end_m3"`
	InflowM3                   float64   `json:"inflow_m3"`
	OutflowM3                  float64   `json:"outflow_m3"`
	ElectricityPriceCentsPerKWh float64  `json:"electricity_price_cents_per_kwh"`
	IntervalCostEUR             float64  `json:"interval_cost_eur"`
}

// Status mirrors the document-level status field of spec.md §6.
type Status string

const (
	StatusOptimal      Status = "optimal"
	StatusFeasible     Status = "feasible"
	StatusIntermediate Status = "intermediate"
)

// Document is the complete result file written by the extractor and
// the anytime callback alike; both produce exactly this shape so a
// consumer reading the file mid-search sees the same schema it would
// see after completion.
type Document struct {
	Status              Status             `json:"status"`
	TotalCostEUR        float64            `json:"total_cost_eur"`
	InitialWaterLevelM  float64            `json:"initial_water_level_m"`
	InitialVolumeM3     float64            `json:"initial_volume_m3"`
	PumpTotalMinutes    map[string]int     `json:"pump_total_minutes"`
	Schedule            []Entry            `json:"schedule"`
}
