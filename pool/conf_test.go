package pool

import (
	"testing"
	"time"

	"github.com/utkarsh5026/turbit/internal/cpu"
)

func TestNewEngineConfig_Defaults(t *testing.T) {
	cfg := newEngineConfig()

	if cfg.maxProcesses != cpu.GetNumCPU() {
		t.Errorf("maxProcesses = %d, want %d", cfg.maxProcesses, cpu.GetNumCPU())
	}
	if cfg.spawnTimeout != defaultSpawnTimeout {
		t.Errorf("spawnTimeout = %s, want %s", cfg.spawnTimeout, defaultSpawnTimeout)
	}
	if cfg.maxAttempts != 1 {
		t.Errorf("maxAttempts = %d, want 1", cfg.maxAttempts)
	}
	if cfg.launcher == nil || cfg.logger == nil {
		t.Error("launcher and logger must default to non-nil")
	}
	if cfg.lazyStart || cfg.incrementalGrowth || cfg.rateLimiter != nil {
		t.Error("optional behaviours must be off by default")
	}
}

func TestNewEngineConfig_Options(t *testing.T) {
	cfg := newEngineConfig(
		WithMaxProcesses(3),
		WithSpawnTimeout(time.Second),
		WithRetryPolicy(4, 20*time.Millisecond),
		WithRateLimit(10, 5),
		WithLazyStart(true),
		WithIncrementalGrowth(true),
	)

	if cfg.maxProcesses != 3 {
		t.Errorf("maxProcesses = %d, want 3", cfg.maxProcesses)
	}
	if cfg.spawnTimeout != time.Second {
		t.Errorf("spawnTimeout = %s, want 1s", cfg.spawnTimeout)
	}
	if cfg.maxAttempts != 4 || cfg.initialDelay != 20*time.Millisecond {
		t.Errorf("retry = %d/%s, want 4/20ms", cfg.maxAttempts, cfg.initialDelay)
	}
	if cfg.rateLimiter == nil || cfg.rateLimiter.Burst() != 5 {
		t.Error("rate limiter not configured")
	}
	if !cfg.lazyStart || !cfg.incrementalGrowth {
		t.Error("lazy start and incremental growth not enabled")
	}
	if d := cfg.backoff().NextDelay(1); d != 40*time.Millisecond {
		t.Errorf("second retry delay = %s, want 40ms", d)
	}
}

func TestNewEngineConfig_IgnoresInvalidValues(t *testing.T) {
	cfg := newEngineConfig(
		WithMaxProcesses(0),
		WithSpawnTimeout(-time.Second),
		WithRetryPolicy(0, 0),
		WithRateLimit(0, 1),
		WithLauncher(nil),
		WithLogger(nil),
	)

	if cfg.maxProcesses != cpu.GetNumCPU() {
		t.Errorf("maxProcesses = %d, want the default", cfg.maxProcesses)
	}
	if cfg.spawnTimeout != defaultSpawnTimeout {
		t.Errorf("spawnTimeout = %s, want the default", cfg.spawnTimeout)
	}
	if cfg.maxAttempts != 1 {
		t.Errorf("maxAttempts = %d, want 1", cfg.maxAttempts)
	}
	if cfg.rateLimiter != nil {
		t.Error("rate limiter configured from a zero rate")
	}
	if cfg.launcher == nil || cfg.logger == nil {
		t.Error("nil launcher or logger replaced the default")
	}
}

func TestNewRunConfig(t *testing.T) {
	rc := newRunConfig()
	if rc.typ != Simple || rc.power != DefaultPower || rc.args != nil {
		t.Errorf("defaults = %+v", rc)
	}

	rc = newRunConfig(WithType(Extended), WithPower(30), WithArgs(map[string]any{"k": 1}))
	if rc.typ != Extended || rc.power != 30 || len(rc.args) != 1 {
		t.Errorf("options not applied: %+v", rc)
	}
}
