// Package pumpcatalog implements the per-class pump performance
// curves of spec.md §4.2: power (kW) and flow (m³/h) as linear
// functions of water level, derived from a pump curve parameterised by
// lift (30 − h).
package pumpcatalog

import "pumpsched/internal/pumpid"

// MidLevel is the midpoint evaluation h_mid = (h_min+h_max)/2 = 4.0
// used by the model builder to keep dynamics integer-linear
// (spec.md §4.2, §4.3).
const MidLevel = 4.0

// MaxLevel is the worst-case evaluation point for the max-flow cap
// (spec.md §4.2, §4.3 constraint 4).
const MaxLevel = 8.0

// Specs is the level-dependent (power, flow) pair for a pump.
type Specs struct {
	PowerKW float64
	FlowM3H float64
}

// Evaluate returns the real power/flow of pump p at water level h.
func Evaluate(p pumpid.Pump, h float64) Specs {
	lift := 30 - h
	switch p.Class {
	case pumpid.Small:
		return Specs{
			PowerKW: -(15.0/8.0)*lift + 240,
			FlowM3H: (-(83.0/4.0)*lift + 1128) * 3.6,
		}
	default: // Big
		return Specs{
			PowerKW: -(43.0/15.0)*lift + 4269.0/10.0,
			FlowM3H: (-(110.0/3.0)*lift + 2080) * 3.6,
		}
	}
}

// EvaluateAtMid returns the pump's specs at the model's mid-level
// evaluation point, used for the integer-linear flow/energy terms.
func EvaluateAtMid(p pumpid.Pump) Specs {
	return Evaluate(p, MidLevel)
}

// EvaluateAtMax returns the pump's specs at h=8, the worst-case point
// for the max-flow cap upper bound.
func EvaluateAtMax(p pumpid.Pump) Specs {
	return Evaluate(p, MaxLevel)
}
