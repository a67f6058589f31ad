package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/utkarsh5026/turbit/pool"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func load(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), args)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := load(t)

	if cfg.Power != pool.DefaultPower {
		t.Errorf("Power: got %d, want %d", cfg.Power, pool.DefaultPower)
	}
	if cfg.SpawnTimeout != DefaultSpawnTimeout {
		t.Errorf("SpawnTimeout: got %s, want %s", cfg.SpawnTimeout, DefaultSpawnTimeout)
	}
	if cfg.Bench.Iterations != DefaultBenchIterations || cfg.Bench.Warmup != DefaultBenchWarmup {
		t.Errorf("Bench: got %+v", cfg.Bench)
	}
	if cfg.File != "" {
		t.Errorf("File: got %q, want none", cfg.File)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "turbit.toml", `
max_processes = 6
power = 50
spawn_timeout = "3s"
affinity = true

[bench]
iterations = 9
items = 1000
`)

	cfg := load(t)
	if cfg.File != "turbit.toml" {
		t.Errorf("File: got %q, want turbit.toml", cfg.File)
	}
	if cfg.MaxProcesses != 6 || cfg.Power != 50 || !cfg.Affinity {
		t.Errorf("engine settings not loaded: %+v", cfg)
	}
	if cfg.SpawnTimeout != 3*time.Second {
		t.Errorf("SpawnTimeout: got %s, want 3s", cfg.SpawnTimeout)
	}
	if cfg.Bench.Iterations != 9 || cfg.Bench.Items != 1000 {
		t.Errorf("Bench: got %+v", cfg.Bench)
	}
	if cfg.Bench.Warmup != DefaultBenchWarmup {
		t.Errorf("Bench.Warmup: got %d, want the default", cfg.Bench.Warmup)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	t.Setenv(envConfigFile, writeFile(t, dir, "custom.yaml", `
power: 100
incremental_growth: true
retry_attempts: 3
bench:
  warmup: 0
`))

	cfg := load(t)
	if cfg.Power != 100 || !cfg.IncrementalGrowth || cfg.RetryAttempts != 3 {
		t.Errorf("settings not loaded: %+v", cfg)
	}
	if cfg.Bench.Warmup != 0 {
		t.Errorf("Bench.Warmup: got %d, want 0", cfg.Bench.Warmup)
	}
}

func TestLoad_Priority(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "turbit.toml", "power = 10\nmax_processes = 2\nretry_attempts = 2\n")
	t.Setenv("TURBIT_POWER", "20")
	t.Setenv("TURBIT_MAX_PROCESSES", "3")
	t.Setenv("TURBIT_DEBUG", "yes")

	cfg := load(t, "-power", "30", "demo", "upper")

	if cfg.Power != 30 {
		t.Errorf("Power: got %d, want the flag value 30", cfg.Power)
	}
	if cfg.MaxProcesses != 3 {
		t.Errorf("MaxProcesses: got %d, want the env value 3", cfg.MaxProcesses)
	}
	if cfg.RetryAttempts != 2 {
		t.Errorf("RetryAttempts: got %d, want the file value 2", cfg.RetryAttempts)
	}
	if !cfg.Debug {
		t.Error("Debug: env value not applied")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{name: "bad env int", env: map[string]string{"TURBIT_POWER": "lots"}, wantErr: "TURBIT_POWER"},
		{name: "bad env duration", env: map[string]string{"TURBIT_SPAWN_TIMEOUT": "soon"}, wantErr: "TURBIT_SPAWN_TIMEOUT"},
		{name: "unknown toml key", file: "powr = 3\n", wantErr: "unknown keys"},
		{name: "malformed toml", file: "power = \n", wantErr: "loading config file"},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: "parsing flags"},
		{name: "invalid iterations", args: []string{"-iterations", "0"}, wantErr: "bench.iterations"},
		{name: "invalid timeout", args: []string{"-spawn-timeout", "0s"}, wantErr: "spawn_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			if tt.file != "" {
				writeFile(t, dir, "turbit.toml", tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(new(strings.Builder))
			_, err := Load(fs, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want an error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(envConfigFile, writeFile(t, t.TempDir(), "turbit.json", "{}"))

	if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
		t.Error("expected an error for a .json config file")
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	base := len(cfg.EngineOptions())

	cfg.MaxProcesses = 4
	cfg.RetryAttempts = 3
	if got := len(cfg.EngineOptions()); got != base+3 {
		t.Errorf("got %d options, want %d", got, base+3)
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q) = false", s)
		}
	}
	for _, s := range []string{"0", "false", "off", "maybe"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q) = true", s)
		}
	}
}

func TestDemoPower(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
		args  []string
		want  int
	}{
		{"nothing given", func(*testing.T, string) {}, nil, 40},
		{"flag", func(*testing.T, string) {}, []string{"-power", "25"}, 25},
		{"flag equal to the default", func(*testing.T, string) {}, []string{"-power", "70"}, 70},
		{"environment", func(t *testing.T, _ string) { t.Setenv("TURBIT_POWER", "90") }, nil, 90},
		{"toml file", func(t *testing.T, dir string) { writeFile(t, dir, "turbit.toml", "power = 15\n") }, nil, 15},
		{"yaml file", func(t *testing.T, dir string) { writeFile(t, dir, "turbit.yaml", "power: 35\n") }, nil, 35},
		{"file without power", func(t *testing.T, dir string) { writeFile(t, dir, "turbit.toml", "affinity = true\n") }, nil, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			tt.setup(t, dir)

			cfg := load(t, tt.args...)
			if got := cfg.DemoPower(40); got != tt.want {
				t.Errorf("DemoPower(40): got %d, want %d", got, tt.want)
			}
		})
	}
}
