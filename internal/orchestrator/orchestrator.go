// Package orchestrator wires configuration, input loading, model
// construction, the search engine, and the anytime callback into the
// single run described end to end by spec.md §4.7: load, build,
// search, extract, write.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"pumpsched/internal/callback"
	"pumpsched/internal/input"
	"pumpsched/internal/model"
	"pumpsched/internal/schedule"
	"pumpsched/internal/search"
	"pumpsched/internal/solution"
	"pumpsched/pkg/apperror"
	"pumpsched/pkg/config"
	"pumpsched/pkg/metrics"
)

// Run executes one complete solve: it loads cfg.Input.Path, builds
// the model, drives the search engine under cfg.Solve.DeadlineSeconds,
// and writes the final document to cfg.Output.Path. It returns the
// terminal search status and an error for any unrecoverable failure
// (spec.md §7): malformed input, domain violations, a search that ends
// INFEASIBLE, or a deadline hit with no feasible incumbent ever found.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger) (search.Status, error) {
	start := time.Now()

	runID := uuid.New()
	log = log.With("run_id", runID.String())

	f, err := os.Open(cfg.Input.Path)
	if err != nil {
		return search.StatusUnknown, apperror.Wrap(err, apperror.CodeIO, "cannot open input file").WithDetails("path", cfg.Input.Path)
	}
	defer f.Close()

	horizonIntervals := cfg.Input.HorizonHours * 4
	doc, err := input.Load(f, input.Options{
		HorizonIntervals: horizonIntervals,
		OffsetIntervals:  cfg.Input.OffsetIntervals,
	})
	if err != nil {
		return search.StatusUnknown, err
	}

	m, err := model.Build(doc, model.Config{
		HorizonIntervals:  horizonIntervals,
		SwitchPenaltyEUR:  cfg.Solve.SwitchPenaltyEUR,
		LoadBalanceWeight: cfg.Solve.LoadBalanceWeight,
		EfficiencyModel:   cfg.Solve.EfficiencyModel,
	})
	if err != nil {
		return search.StatusUnknown, err
	}

	emitter := callback.New(cfg.Output.Path, m, doc, log, time.Duration(cfg.Output.EmitIntervalSeconds)*time.Second)

	solveCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Solve.DeadlineSeconds)*time.Second)
	defer cancel()

	log.Info("search starting",
		"horizon_intervals", m.N,
		"deadline_seconds", cfg.Solve.DeadlineSeconds,
		"workers", cfg.Solve.Workers,
	)

	result := search.Solve(solveCtx, m, search.Options{
		Workers: cfg.Solve.Workers,
		OnImprovement: func(inc search.Incumbent) {
			metrics.RecordBestCost(float64(inc.Objective.Total()) / model.MoneyScale)
			emitter.OnImprovement(inc)
		},
	})

	metrics.ObserveSolveDuration(time.Since(start))
	metrics.RecordSearchStatus(result.Status.String())

	if result.Status == search.StatusInfeasible || result.Status == search.StatusUnknown {
		detail := "no constraint-satisfying schedule was found before the deadline"
		if len(result.Best.Violations) > 0 {
			v := result.Best.Violations[len(result.Best.Violations)-1]
			detail = fmt.Sprintf("most recently observed violation: %s at interval %d", v.Family, v.T)
		}
		code := apperror.CodeTimeoutNoIncumbent
		if result.Status == search.StatusInfeasible {
			code = apperror.CodeInfeasible
		}
		return result.Status, apperror.New(code, "search produced no feasible incumbent").WithDetails("detail", detail)
	}

	st := schedule.StatusFeasible
	if result.Status == search.StatusOptimal {
		st = schedule.StatusOptimal
	}

	finalDoc := solution.Extract(m, doc, result.Best.On, st)
	if err := emitter.Final(finalDoc); err != nil {
		return result.Status, apperror.Wrap(err, apperror.CodeIO, "failed to write final result")
	}

	log.Info("search finished",
		"status", result.Status.String(),
		"total_cost_eur", finalDoc.TotalCostEUR,
		"callback_skipped", emitter.Skipped(),
		"duration", time.Since(start),
	)

	return result.Status, nil
}
