// Command pumpsched computes a least-cost 15-minute pump operating
// schedule for a tunnel dewatering fleet over a forecast horizon.
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to
// lowest):
//  1. CLI flags
//  2. Environment variables (prefix: PUMPSCHED_)
//  3. Config file (pumpsched.yaml in standard locations, or --config)
//  4. Default values
//
// # Usage
//
//	pumpsched run --input forecast.json [--horizon-hours 48]
//	             [--switch-penalty 0.10] [--load-balance-weight 0.01667]
//	             [--deadline-seconds 120] [--workers 8]
//	             [--output optimization_result.json]
//	             [--offset-intervals 0] [--efficiency-model=false]
//	             [--metrics-addr ""] [--config path] [--log-level info]
//
// Exit code 0 on an optimal or feasible emission, 1 on infeasibility,
// a timeout with no incumbent, or any input/domain error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pumpsched/internal/orchestrator"
	"pumpsched/pkg/apperror"
	"pumpsched/pkg/config"
	"pumpsched/pkg/logger"
	"pumpsched/pkg/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] != "run" {
		fmt.Fprintln(os.Stderr, "usage: pumpsched run --input <path> [flags]")
		return 1
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	input := fs.String("input", "", "path to the forecast input file")
	horizonHours := fs.Int("horizon-hours", 0, "planning horizon in hours (default from config: 48)")
	switchPenalty := fs.Float64("switch-penalty", 0, "switch penalty in EUR (default from config: 0.10)")
	loadBalanceWeight := fs.Float64("load-balance-weight", 0, "load balance weight (default from config: 0.01667)")
	deadlineSeconds := fs.Int("deadline-seconds", 0, "solver wall-clock deadline in seconds (default from config: 120)")
	workers := fs.Int("workers", 0, "search worker pool size (default from config: 8)")
	output := fs.String("output", "", "path to write the result document (default from config)")
	offsetIntervals := fs.Int("offset-intervals", -1, "number of leading 15-minute intervals to skip in the input file")
	efficiencyModel := fs.Bool("efficiency-model", false, "apply the level-dependent efficiency-multiplier objective variant")
	metricsAddr := fs.String("metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9100 (empty disables)")
	configPath := fs.String("config", "", "path to a YAML config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error (default from config: info)")

	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}

	var loaderOpts []config.LoaderOption
	if *configPath != "" {
		loaderOpts = append(loaderOpts, config.WithConfigPaths(*configPath))
	}
	cfg, err := config.NewLoader(loaderOpts...).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	applyFlagOverrides(cfg, fs, map[string]func(){
		"input":               func() { cfg.Input.Path = *input },
		"horizon-hours":       func() { cfg.Input.HorizonHours = *horizonHours },
		"switch-penalty":      func() { cfg.Solve.SwitchPenaltyEUR = *switchPenalty },
		"load-balance-weight": func() { cfg.Solve.LoadBalanceWeight = *loadBalanceWeight },
		"deadline-seconds":    func() { cfg.Solve.DeadlineSeconds = *deadlineSeconds },
		"workers":             func() { cfg.Solve.Workers = *workers },
		"output":              func() { cfg.Output.Path = *output },
		"offset-intervals":    func() { cfg.Input.OffsetIntervals = *offsetIntervals },
		"efficiency-model":    func() { cfg.Solve.EfficiencyModel = *efficiencyModel },
		"metrics-addr":        func() { cfg.Metrics.Addr = *metricsAddr },
		"log-level":           func() { cfg.Log.Level = *logLevel },
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 1
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	log := logger.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		log.Info("metrics server listening", "addr", cfg.Metrics.Addr)
	}

	status, err := orchestrator.Run(ctx, cfg, log)
	if err != nil {
		log.Error("run failed", "error", err, "status", status.String())
		var appErr *apperror.Error
		if errors.As(err, &appErr) && len(appErr.Details) > 0 {
			fmt.Fprintf(os.Stderr, "%v %v\n", err, appErr.Details)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return apperror.ExitCode(err)
	}

	return 0
}

// applyFlagOverrides applies the subset of flags the user actually set
// on the command line, so unset flags keep the value loaded from
// defaults/file/env rather than stomping it with their zero value.
func applyFlagOverrides(cfg *config.Config, fs *flag.FlagSet, apply map[string]func()) {
	_ = cfg
	fs.Visit(func(f *flag.Flag) {
		if fn, ok := apply[f.Name]; ok {
			fn()
		}
	})
}
