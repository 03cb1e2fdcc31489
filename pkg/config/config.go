// pkg/config/config.go
package config

import "fmt"

// Config is the full set of tunables for one solve run, merged from
// defaults, an optional YAML file, environment variables and CLI
// flags (ascending priority), per the teacher's layered koanf loader.
type Config struct {
	Input   InputConfig   `koanf:"input"`
	Solve   SolveConfig   `koanf:"solve"`
	Output  OutputConfig  `koanf:"output"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// InputConfig locates and shapes the input file.
type InputConfig struct {
	Path            string `koanf:"path"`
	HorizonHours    int    `koanf:"horizon_hours"`
	OffsetIntervals int    `koanf:"offset_intervals"`
}

// SolveConfig tunes the model and the search engine.
type SolveConfig struct {
	SwitchPenaltyEUR  float64 `koanf:"switch_penalty_eur"`
	LoadBalanceWeight float64 `koanf:"load_balance_weight"`
	DeadlineSeconds   int     `koanf:"deadline_seconds"`
	Workers           int     `koanf:"workers"`
	EfficiencyModel   bool    `koanf:"efficiency_model"`
}

// OutputConfig controls where and how often the result is written.
type OutputConfig struct {
	Path                string `koanf:"path"`
	EmitIntervalSeconds int    `koanf:"emit_interval_seconds"`
}

// LogConfig mirrors the teacher's pkg/logger.Config fields.
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Output     string `koanf:"output"`
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"`
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig controls the optional HTTP exposition of pkg/metrics.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // empty disables the listener
}

// Validate accumulates every out-of-range value instead of stopping
// at the first, the way the teacher's Config.Validate does.
func (c *Config) Validate() error {
	var errs []string

	if c.Input.Path == "" {
		errs = append(errs, "input.path is required")
	}
	if c.Input.HorizonHours <= 0 {
		errs = append(errs, "input.horizon_hours must be positive")
	}
	if c.Input.OffsetIntervals < 0 {
		errs = append(errs, "input.offset_intervals must be non-negative")
	}
	if c.Solve.SwitchPenaltyEUR < 0 {
		errs = append(errs, "solve.switch_penalty_eur must be non-negative")
	}
	if c.Solve.LoadBalanceWeight < 0 {
		errs = append(errs, "solve.load_balance_weight must be non-negative")
	}
	if c.Solve.DeadlineSeconds <= 0 || c.Solve.DeadlineSeconds > 600 {
		errs = append(errs, "solve.deadline_seconds must be in (0, 600]")
	}
	if c.Solve.Workers <= 0 {
		errs = append(errs, "solve.workers must be positive")
	}
	if c.Output.Path == "" {
		errs = append(errs, "output.path is required")
	}
	if c.Output.EmitIntervalSeconds <= 0 {
		errs = append(errs, "output.emit_interval_seconds must be positive")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %v", errs)
}
