// Package config loads the settings of the turbit command.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/utkarsh5026/turbit/pool"
)

// Default values.
const (
	DefaultSpawnTimeout    = 10 * time.Second
	DefaultBenchWarmup     = 2
	DefaultBenchIterations = 5
	DefaultBenchItems      = 2_000_000
	DefaultRetryAttempts   = 1
)

// Config holds the full configuration of the turbit command.
type Config struct {
	// Engine
	MaxProcesses      int           `toml:"max_processes" yaml:"max_processes"`
	Power             int           `toml:"power" yaml:"power"`
	SpawnTimeout      time.Duration `toml:"spawn_timeout" yaml:"spawn_timeout"`
	Affinity          bool          `toml:"affinity" yaml:"affinity"`
	IncrementalGrowth bool          `toml:"incremental_growth" yaml:"incremental_growth"`
	RetryAttempts     int           `toml:"retry_attempts" yaml:"retry_attempts"`
	Debug             bool          `toml:"debug" yaml:"debug"`

	// Speed test
	Bench BenchConfig `toml:"bench" yaml:"bench"`

	// File the values were read from, empty when none was found.
	File string `toml:"-" yaml:"-"`

	// PowerSet is true when a file, the environment or a flag gave Power.
	// Demos keep their own power level otherwise.
	PowerSet bool `toml:"-" yaml:"-"`
}

// BenchConfig controls `turbit bench`.
type BenchConfig struct {
	Warmup     int  `toml:"warmup" yaml:"warmup"`
	Iterations int  `toml:"iterations" yaml:"iterations"`
	Items      int  `toml:"items" yaml:"items"`
	Metrics    bool `toml:"metrics" yaml:"metrics"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (TURBIT_CONFIG, or turbit.toml / turbit.yaml in the current directory)
// 3. Environment variables
// 4. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path := findConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.File = path
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Power = pool.DefaultPower
	cfg.SpawnTimeout = DefaultSpawnTimeout
	cfg.RetryAttempts = DefaultRetryAttempts
	cfg.Bench = BenchConfig{
		Warmup:     DefaultBenchWarmup,
		Iterations: DefaultBenchIterations,
		Items:      DefaultBenchItems,
	}
}

// Validate reports values no command can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxProcesses < 0 {
		errs = append(errs, fmt.Errorf("max_processes must not be negative, got %d", c.MaxProcesses))
	}
	if c.SpawnTimeout <= 0 {
		errs = append(errs, fmt.Errorf("spawn_timeout must be positive, got %s", c.SpawnTimeout))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry_attempts must be at least 1, got %d", c.RetryAttempts))
	}
	if c.Bench.Warmup < 0 {
		errs = append(errs, fmt.Errorf("bench.warmup must not be negative, got %d", c.Bench.Warmup))
	}
	if c.Bench.Iterations < 1 {
		errs = append(errs, fmt.Errorf("bench.iterations must be at least 1, got %d", c.Bench.Iterations))
	}
	if c.Bench.Items < 1 {
		errs = append(errs, fmt.Errorf("bench.items must be at least 1, got %d", c.Bench.Items))
	}
	return errors.Join(errs...)
}

// DemoPower returns the power a demo runs at: the configured one when it was
// given explicitly, the demo's own otherwise.
func (c *Config) DemoPower(demoDefault int) int {
	if c.PowerSet {
		return c.Power
	}
	return demoDefault
}

// EngineOptions translates the engine settings into pool options. A zero
// MaxProcesses keeps the engine default of one worker per core.
func (c *Config) EngineOptions() []pool.Option {
	opts := []pool.Option{
		pool.WithSpawnTimeout(c.SpawnTimeout),
		pool.WithAffinity(c.Affinity),
		pool.WithIncrementalGrowth(c.IncrementalGrowth),
		pool.WithDebug(c.Debug),
	}
	if c.MaxProcesses > 0 {
		opts = append(opts, pool.WithMaxProcesses(c.MaxProcesses))
	}
	if c.RetryAttempts > 1 {
		opts = append(opts, pool.WithRetryPolicy(c.RetryAttempts, 0), pool.WithBackoff(pool.BackoffJittered))
	}
	return opts
}
