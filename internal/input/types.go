package input

import "time"

// PumpState is the per-pump mutable state read from the input file
// (spec.md §3). Pumps absent from the input default to the zero
// value: off, unlocked, no history.
type PumpState struct {
	On            bool
	LockedMinutes int
	TotalMinutes  int
}

// Record is one horizon item: forecast inflow and price for a single
// 15-minute interval (spec.md §6).
type Record struct {
	Date             time.Time
	WaterInflowM3    float64
	ElectricityPrice float64 // €/kWh, already converted from the file's cents/kWh
}

// Document is the parsed and validated input file (spec.md §6).
type Document struct {
	InitialWaterLevel          float64
	UnderThresholdWithinMinutes *int
	Items                      []Record
	Pumps                      [8]PumpState // indexed by pumpid.Pump.Index
}
