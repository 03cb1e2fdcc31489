package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_JSONFieldNames(t *testing.T) {
	doc := Document{
		Status:             StatusOptimal,
		TotalCostEUR:       12.5,
		InitialWaterLevelM: 4.0,
		InitialVolumeM3:    1000,
		PumpTotalMinutes:   map[string]int{"1.1": 30},
		Schedule: []Entry{{
			Interval:                    0,
			Date:                        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			ActivePumps:                 []string{"1.1"},
			WaterLevelStartM:            4.0,
			WaterLevelEndM:              3.9,
			VolumeStartM3:               1000,
			VolumeEndM3:                 970,
			InflowM3:                    10,
			OutflowM3:                   40,
			ElectricityPriceCentsPerKWh: 4.5,
			IntervalCostEUR:             0.8,
		}},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))

	for _, key := range []string{
		"status", "total_cost_eur", "initial_water_level_m",
		"initial_volume_m3", "pump_total_minutes", "schedule",
	} {
		assert.Contains(t, generic, key)
	}

	entries := generic["schedule"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	for _, key := range []string{
		"interval", "date", "active_pumps", "water_level_start_m",
		"water_level_end_m", "volume_start_m3", "volume_end_m3",
		"inflow_m3", "outflow_m3", "electricity_price_cents_per_kwh",
		"interval_cost_eur",
	} {
		assert.Contains(t, entry, key)
	}
}

func TestDocument_RoundTrips(t *testing.T) {
	doc := Document{
		Status:           StatusIntermediate,
		TotalCostEUR:     3.2,
		PumpTotalMinutes: map[string]int{"2.4": 15},
		Schedule:         []Entry{{Interval: 1}},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var got Document
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, doc.Status, got.Status)
	assert.Equal(t, doc.TotalCostEUR, got.TotalCostEUR)
	assert.Equal(t, doc.PumpTotalMinutes, got.PumpTotalMinutes)
	assert.Len(t, got.Schedule, 1)
}
