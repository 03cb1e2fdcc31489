package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpsched/internal/orchestrator"
	"pumpsched/pkg/config"
	"pumpsched/pkg/logger"
)

// buildFixture writes a small, feasible 8-hour forecast (32 intervals)
// to a temp file: mild inflow, a cheap and an expensive price band, and
// all pumps starting off with no lock.
func buildFixture(t *testing.T, n int) string {
	t.Helper()

	type item struct {
		Date                string  `json:"date"`
		WaterInflow         float64 `json:"waterInflow"`
		ElectricityPrice    float64 `json:"electricityPrice"`
	}
	items := make([]item, n)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 4.5
		if i%8 < 4 {
			price = 9.0
		}
		items[i] = item{
			Date:             base.Add(time.Duration(i) * 15 * time.Minute).Format(time.RFC3339),
			WaterInflow:      40,
			ElectricityPrice: price,
		}
	}

	doc := map[string]any{
		"initialWaterLevel":          4.0,
		"underThresholdWithinMinutes": nil,
		"items":                      items,
	}
	for hall := 1; hall <= 2; hall++ {
		for slot := 1; slot <= 4; slot++ {
			doc[fmt.Sprintf("pump%d-%d", hall, slot)] = map[string]any{
				"on":           false,
				"locked":       0,
				"totalMinutes": 0,
			}
		}
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "forecast.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOrchestrator_Run_ProducesFeasibleSchedule(t *testing.T) {
	logger.Init("error")

	inputPath := buildFixture(t, 32)
	outputPath := filepath.Join(t.TempDir(), "result.json")

	cfg := &config.Config{
		Input:  config.InputConfig{Path: inputPath, HorizonHours: 8},
		Solve:  config.SolveConfig{DeadlineSeconds: 5, Workers: 2},
		Output: config.OutputConfig{Path: outputPath, EmitIntervalSeconds: 5},
		Log:    config.LogConfig{Level: "error"},
	}
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := orchestrator.Run(ctx, cfg, logger.Log)
	require.NoError(t, err)
	assert.Contains(t, []string{"feasible", "optimal"}, status.String())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var result struct {
		Status           string  `json:"status"`
		TotalCostEUR     float64 `json:"total_cost_eur"`
		Schedule         []struct {
			Interval int `json:"interval"`
		} `json:"schedule"`
		PumpTotalMinutes map[string]int `json:"pump_total_minutes"`
	}
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Contains(t, []string{"feasible", "optimal"}, result.Status)
	assert.GreaterOrEqual(t, result.TotalCostEUR, 0.0)
	assert.Len(t, result.Schedule, 32)
	assert.Len(t, result.PumpTotalMinutes, 8)
}
