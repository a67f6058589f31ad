package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// loadFromEnv overrides config from TURBIT_* environment variables.
func loadFromEnv(cfg *Config) error {
	ints := []struct {
		name   string
		target *int
	}{
		{"TURBIT_MAX_PROCESSES", &cfg.MaxProcesses},
		{"TURBIT_POWER", &cfg.Power},
		{"TURBIT_RETRY_ATTEMPTS", &cfg.RetryAttempts},
		{"TURBIT_BENCH_WARMUP", &cfg.Bench.Warmup},
		{"TURBIT_BENCH_ITERATIONS", &cfg.Bench.Iterations},
		{"TURBIT_BENCH_ITEMS", &cfg.Bench.Items},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
		*e.target = n
		if e.target == &cfg.Power {
			cfg.PowerSet = true
		}
	}

	bools := []struct {
		name   string
		target *bool
	}{
		{"TURBIT_AFFINITY", &cfg.Affinity},
		{"TURBIT_INCREMENTAL_GROWTH", &cfg.IncrementalGrowth},
		{"TURBIT_DEBUG", &cfg.Debug},
		{"TURBIT_BENCH_METRICS", &cfg.Bench.Metrics},
	}
	for _, e := range bools {
		if v := os.Getenv(e.name); v != "" {
			*e.target = boolFromString(v)
		}
	}

	if v := os.Getenv("TURBIT_SPAWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TURBIT_SPAWN_TIMEOUT: %w", err)
		}
		cfg.SpawnTimeout = d
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
