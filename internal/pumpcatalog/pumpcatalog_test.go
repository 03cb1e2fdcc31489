package pumpcatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pumpsched/internal/pumpid"
)

func TestEvaluate_Small(t *testing.T) {
	p := pumpid.All[pumpid.ByID["1.1"]]
	s := Evaluate(p, MidLevel)
	lift := 30 - MidLevel
	assert.InDelta(t, -(15.0/8.0)*lift+240, s.PowerKW, 1e-9)
	assert.InDelta(t, (-(83.0/4.0)*lift+1128)*3.6, s.FlowM3H, 1e-9)
}

func TestEvaluate_Big(t *testing.T) {
	p := pumpid.All[pumpid.ByID["1.2"]]
	s := Evaluate(p, MaxLevel)
	lift := 30 - MaxLevel
	assert.InDelta(t, -(43.0/15.0)*lift+4269.0/10.0, s.PowerKW, 1e-9)
	assert.InDelta(t, (-(110.0/3.0)*lift+2080)*3.6, s.FlowM3H, 1e-9)
}

func TestEvaluate_FlowDecreasesWithLift(t *testing.T) {
	p := pumpid.All[pumpid.ByID["2.3"]]
	low := Evaluate(p, 0)  // lift 30
	high := Evaluate(p, 8) // lift 22
	assert.Less(t, low.FlowM3H, high.FlowM3H)
	assert.Less(t, low.PowerKW, high.PowerKW)
}
