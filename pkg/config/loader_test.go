package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Input.HorizonHours != 48 {
		t.Errorf("expected horizon hours 48, got %d", cfg.Input.HorizonHours)
	}
	if cfg.Solve.DeadlineSeconds != 120 {
		t.Errorf("expected deadline 120, got %d", cfg.Solve.DeadlineSeconds)
	}
	if cfg.Solve.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Solve.Workers)
	}
	if cfg.Output.Path != "optimization_result.json" {
		t.Errorf("unexpected output path %s", cfg.Output.Path)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pumpsched.yaml")

	configContent := `
input:
  path: /data/forecast.json
solve:
  deadline.seconds: 60
log:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader(WithConfigPaths(configPath))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Input.Path != "/data/forecast.json" {
		t.Errorf("expected input path override, got %s", cfg.Input.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Log.Level)
	}
}

func TestLoader_LoadFromEnv(t *testing.T) {
	os.Setenv("PUMPSCHED_LOG.LEVEL", "warn")
	defer os.Unsetenv("PUMPSCHED_LOG.LEVEL")

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Log.Level)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pumpsched.yaml")
	os.WriteFile(configPath, []byte("log:\n  level: debug\n"), 0644)

	os.Setenv("PUMPSCHED_LOG.LEVEL", "error")
	defer os.Unsetenv("PUMPSCHED_LOG.LEVEL")

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env override to win, got %s", cfg.Log.Level)
	}
}

func TestLoader_WithEnvPrefix(t *testing.T) {
	os.Setenv("CUSTOM_LOG.LEVEL", "debug")
	defer os.Unsetenv("CUSTOM_LOG.LEVEL")

	cfg, err := NewLoader(WithEnvPrefix("CUSTOM_")).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected 'debug', got %s", cfg.Log.Level)
	}
}

func TestLoad_Simple(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoader_ConfigEnvVar(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom-config.yaml")
	os.WriteFile(configPath, []byte("input:\n  path: env-var-path.json\n"), 0644)

	os.Setenv("PUMPSCHED_CONFIG_PATH", configPath)
	defer os.Unsetenv("PUMPSCHED_CONFIG_PATH")

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Input.Path != "env-var-path.json" {
		t.Errorf("expected 'env-var-path.json', got %s", cfg.Input.Path)
	}
}
