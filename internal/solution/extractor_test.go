package solution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpsched/internal/input"
	"pumpsched/internal/model"
	"pumpsched/internal/pumpid"
	"pumpsched/internal/schedule"
)

func buildTestDoc(n int) *input.Document {
	doc := &input.Document{InitialWaterLevel: 4.0}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		doc.Items = append(doc.Items, input.Record{
			Date:             base.Add(time.Duration(i) * 15 * time.Minute),
			WaterInflowM3:    30,
			ElectricityPrice: 0.04,
		})
	}
	return doc
}

func TestExtract_AllPumpsOff(t *testing.T) {
	doc := buildTestDoc(4)
	m, err := model.Build(doc, model.Config{HorizonIntervals: 4})
	require.NoError(t, err)

	on := model.NewOnMatrix(4)
	got := Extract(m, doc, on, schedule.StatusFeasible)

	assert.Equal(t, schedule.StatusFeasible, got.Status)
	assert.Len(t, got.Schedule, 4)
	assert.Equal(t, 0.0, got.TotalCostEUR)
	for _, e := range got.Schedule {
		assert.Empty(t, e.ActivePumps)
		assert.Equal(t, 0.0, e.OutflowM3)
		assert.Greater(t, e.VolumeEndM3, e.VolumeStartM3) // inflow with no outflow raises the volume
	}
	for _, p := range pumpid.All {
		assert.Equal(t, 0, got.PumpTotalMinutes[p.ID])
	}
}

func TestExtract_ActivePumpReducesVolumeAndAccruesCost(t *testing.T) {
	doc := buildTestDoc(2)
	m, err := model.Build(doc, model.Config{HorizonIntervals: 2})
	require.NoError(t, err)

	on := model.NewOnMatrix(2)
	anchor := pumpid.All[0]
	on[anchor.Index][0] = true
	on[anchor.Index][1] = true

	got := Extract(m, doc, on, schedule.StatusOptimal)

	assert.Equal(t, schedule.StatusOptimal, got.Status)
	assert.Greater(t, got.TotalCostEUR, 0.0)
	assert.Equal(t, 30, got.PumpTotalMinutes[anchor.ID])
	assert.Contains(t, got.Schedule[0].ActivePumps, anchor.ID)
	assert.Greater(t, got.Schedule[0].OutflowM3, 0.0)
}

func TestExtract_CarriesInitialPumpMinutesForward(t *testing.T) {
	doc := buildTestDoc(1)
	doc.Pumps[0].TotalMinutes = 500
	m, err := model.Build(doc, model.Config{HorizonIntervals: 1})
	require.NoError(t, err)

	on := model.NewOnMatrix(1)
	got := Extract(m, doc, on, schedule.StatusFeasible)

	assert.Equal(t, 500, got.PumpTotalMinutes[pumpid.All[0].ID])
}
