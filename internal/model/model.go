// Package model is the constraint-satisfaction core of the optimiser
// (spec.md §4.3, "THE CORE" of spec.md §1): it builds the integer
// decision model — scaled variables, the constraint set, and the
// additive objective — from a parsed input document, geometry, and
// the pump catalog. It does not search for a solution; internal/search
// consumes the Model this package produces.
package model

import (
	"math"

	"pumpsched/internal/geometry"
	"pumpsched/internal/input"
	"pumpsched/internal/pumpcatalog"
	"pumpsched/internal/pumpid"
	"pumpsched/pkg/apperror"
)

// IntervalMinutes is the fixed discretisation Δ of spec.md §3.
const IntervalMinutes = 15

// DeltaHours is Δ expressed in hours (0.25h), used throughout the
// energy/flow scaling of spec.md §4.2-§4.3.
const DeltaHours = float64(IntervalMinutes) / 60.0

// DwellIntervals is the minimum number of consecutive intervals (2h)
// a pump must hold a state after it changes (spec.md §3 invariant 5).
const DwellIntervals = 8

// LowLevelWindowIntervals is the 24h window length in intervals used
// by the low-level-visit invariant (spec.md §3 invariant 7).
const LowLevelWindowIntervals = 96

// LowLevelWindowInflowCeiling is the inflow threshold (m³) below which
// a 24h window must contain a low-level visit (spec.md §3 invariant 7).
const LowLevelWindowInflowCeiling = 144000

// MaxOutflowPerInterval is the hard cap on total realised outflow per
// interval (spec.md §3 invariant 4): 4000 m³ ≡ 16000 m³/h.
const MaxOutflowPerInterval = 4000

// DefaultSwitchPenaltyEUR and DefaultLoadBalanceWeight are the default
// objective weights of spec.md §4.3.
const (
	DefaultSwitchPenaltyEUR  = 0.10
	DefaultLoadBalanceWeight = 0.01667
)

// MoneyScale converts euro quantities to the integer resolution
// (~0.1 cent) used throughout the scaled objective (spec.md §4.3,
// §9 "Scaling").
const MoneyScale = 1000.0

const moneyScale = MoneyScale

// Config parameterises model construction beyond the raw input
// document: the horizon length, and the objective weights, all
// exposed as explicit CLI/config parameters (spec.md §6, §9).
type Config struct {
	HorizonIntervals    int
	SwitchPenaltyEUR    float64
	LoadBalanceWeight   float64
	EfficiencyModel     bool // spec.md §9: off by default; on applies the efficiency-multiplier variant
}

// LowLevelWindow is one contiguous 24h window subject to invariant 7.
type LowLevelWindow struct {
	StartInterval int
	EndInterval   int // exclusive
	TotalInflow   int
	Required      bool // true iff TotalInflow <= LowLevelWindowInflowCeiling
}

// Model is the fully-built, immutable integer CSP/objective
// representation consumed by the search driver (spec.md §4.3-§4.4).
type Model struct {
	N int // number of intervals, spec.md §3

	InitialVolume int // ⌊V(h_init)⌋
	VMin          int // ⌊V(0)⌋
	VMax          int // ⌊V(8)⌋
	VDomainMax    int // ⌊1.5·V(8)⌋, the decision-variable domain bound

	Inflow []int // per-interval forecast inflow, m³, length N

	InitialOn         [pumpid.Count]bool
	LockedIntervals   [pumpid.Count]int // ⌈lockedMinutes/15⌉
	InitialIntervals  [pumpid.Count]int // round(totalMinutes/15)
	InitialTotalMin   [pumpid.Count]int

	QModel [pumpid.Count]int // ⌊flow_model[p]·Δ⌋ at mid-level, m³/interval
	QMax   [pumpid.Count]int // ⌊flow at h=8·Δ⌋, m³/interval, for the max-flow cap

	EnergyCostScaled [pumpid.Count][]int // ⌊P_mid[p]·Δ·price[t]·1000⌋, length N

	SwitchPenaltyScaled int // ⌊λ_switch·1000⌋
	LoadBalanceScaled   int // ⌊Δ·λ_lb·1000⌋

	LowLevelWindows  []LowLevelWindow // empty if N < LowLevelWindowIntervals (spec.md §4.3 "Degenerate cases")
	DeadlineInterval int              // ⌊D/15⌋; -1 if no deadline given
}

// Build assembles a Model from a validated input document. It returns
// a domain error (apperror.CodeInvalidLevel) if the initial water
// level is out of range, and an input-shape error if the document's
// horizon doesn't match cfg.HorizonIntervals.
func Build(doc *input.Document, cfg Config) (*Model, error) {
	n := cfg.HorizonIntervals
	if len(doc.Items) != n {
		return nil, apperror.New(apperror.CodeShortHorizon, "document horizon does not match configured horizon").
			WithDetails("have", len(doc.Items)).WithDetails("want", n)
	}

	v0, err := geometry.Volume(doc.InitialWaterLevel)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidLevel, "invalid initial water level")
	}
	vMin, _ := geometry.Volume(geometry.OperatingMin)
	vMax, _ := geometry.Volume(geometry.OperatingMax)

	m := &Model{
		N:             n,
		InitialVolume: int(math.Floor(v0)),
		VMin:          int(math.Floor(vMin)),
		VMax:          int(math.Floor(vMax)),
		VDomainMax:    int(math.Floor(1.5 * vMax)),
		Inflow:        make([]int, n),
	}

	for t, rec := range doc.Items {
		m.Inflow[t] = int(math.Floor(rec.WaterInflowM3))
	}

	switchPenalty := cfg.SwitchPenaltyEUR
	if switchPenalty == 0 {
		switchPenalty = DefaultSwitchPenaltyEUR
	}
	loadBalance := cfg.LoadBalanceWeight
	if loadBalance == 0 {
		loadBalance = DefaultLoadBalanceWeight
	}
	m.SwitchPenaltyScaled = int(math.Floor(switchPenalty * moneyScale))
	m.LoadBalanceScaled = int(math.Floor(DeltaHours * loadBalance * moneyScale))

	energyMultiplier := 1.0
	if cfg.EfficiencyModel {
		energyMultiplier = efficiencyMultiplier()
	}

	for _, p := range pumpid.All {
		state := doc.Pumps[p.Index]
		m.InitialOn[p.Index] = state.On
		m.LockedIntervals[p.Index] = ceilDiv(state.LockedMinutes, IntervalMinutes)
		m.InitialIntervals[p.Index] = roundDiv(state.TotalMinutes, IntervalMinutes)
		m.InitialTotalMin[p.Index] = state.TotalMinutes

		mid := pumpcatalog.EvaluateAtMid(p)
		max := pumpcatalog.EvaluateAtMax(p)
		m.QModel[p.Index] = int(math.Floor(mid.FlowM3H * DeltaHours))
		m.QMax[p.Index] = int(math.Floor(max.FlowM3H * DeltaHours))

		costs := make([]int, n)
		for t, rec := range doc.Items {
			costs[t] = int(math.Floor(mid.PowerKW * DeltaHours * rec.ElectricityPrice * energyMultiplier * moneyScale))
		}
		m.EnergyCostScaled[p.Index] = costs
	}

	m.LowLevelWindows = buildLowLevelWindows(n, m.Inflow)

	m.DeadlineInterval = -1
	if doc.UnderThresholdWithinMinutes != nil {
		m.DeadlineInterval = *doc.UnderThresholdWithinMinutes / IntervalMinutes
	}

	return m, nil
}

// LowLevelTargetVolume is ⌊V(0.5)⌋, the scaled threshold used by the
// low-level-visit invariants (spec.md §3 invariants 7-8).
func (m *Model) LowLevelTargetVolume() int {
	v, _ := geometry.Volume(geometry.LowLevelTarget)
	return int(math.Floor(v))
}

func buildLowLevelWindows(n int, inflow []int) []LowLevelWindow {
	if n < LowLevelWindowIntervals {
		return nil // spec.md §4.3 "Degenerate cases": horizons < 24h skip this family entirely
	}
	var windows []LowLevelWindow
	for start := 0; start+LowLevelWindowIntervals <= n; start += LowLevelWindowIntervals {
		end := start + LowLevelWindowIntervals
		sum := 0
		for t := start; t < end; t++ {
			sum += inflow[t]
		}
		windows = append(windows, LowLevelWindow{
			StartInterval: start,
			EndInterval:   end,
			TotalInflow:   sum,
			Required:      sum <= LowLevelWindowInflowCeiling,
		})
	}
	return windows
}

// efficiencyMultiplier implements the alternative pumping-score
// formulation flagged in spec.md §9: one original variant divides
// electricity price by a water-level-dependent factor
// 0.7 + 0.3·h/8 before costing energy. Since the build-time cost
// table is linearised at a single representative level (the same
// pumpcatalog.MidLevel the flow/power terms already use, not the
// schedule's actual, decision-dependent water level), the divisor is
// evaluated once at that level rather than per interval. The
// canonical core (EfficiencyModel=false) omits it; this is only
// reachable when explicitly enabled via configuration.
func efficiencyMultiplier() float64 {
	divisor := 0.7 + 0.3*pumpcatalog.MidLevel/8
	return 1 / divisor
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func roundDiv(a, b int) int {
	return int(math.Round(float64(a) / float64(b)))
}
