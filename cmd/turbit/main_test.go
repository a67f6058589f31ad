package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/utkarsh5026/turbit/internal/config"
	"github.com/utkarsh5026/turbit/pool"
)

func TestMain(m *testing.M) {
	pool.ServeIfWorker()
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load(nil, []string{"-max-processes", "2", "-iterations", "2", "-warmup", "1", "-items", "1000"})
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestRun_Commands(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"no command", nil, 2, "", "Usage"},
		{"help", []string{"help"}, 0, "Commands:", ""},
		{"unknown command", []string{"fly"}, 1, "", `unknown command "fly"`},
		{"unknown demo", []string{"-max-processes", "1", "demo", "nope"}, 1, "", `unknown demo "nope"`},
		{"bad flag", []string{"-power", "lots", "stats"}, 2, "", "invalid value"},
		{"stats", []string{"-max-processes", "4", "stats"}, 0, "Workers per power level", ""},
		{"one demo", []string{"-max-processes", "2", "demo", "uppercase"}, 0, "HELLO WORLD", ""},
		{"demo at its own power", []string{"-max-processes", "4", "demo", "greeting"}, 0, `"numProcessesUsed": 4`, ""},
		{"demo at the given power", []string{"-max-processes", "4", "-power", "25", "demo", "greeting"}, 0, `"numProcessesUsed": 1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout missing %q:\n%s", tt.wantOut, stdout.String())
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, stderr.String())
			}
		})
	}
}

func TestBenchmark(t *testing.T) {
	cfg := testConfig(t)
	e, err := newEngine(cfg, nil)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	defer e.Teardown()

	res, err := benchmark(context.Background(), e, []int{1000, 1000}, 100, 1, 3, nil)
	if err != nil {
		t.Fatalf("benchmark: %v", err)
	}
	if len(res.Sequential) != 3 || len(res.Engine) != 3 {
		t.Errorf("got %d/%d timings, want 3/3", len(res.Sequential), len(res.Engine))
	}
}

func TestRunBench_WithMetrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bench.Metrics = true

	var stdout, stderr bytes.Buffer
	if err := runBench(context.Background(), cfg, &stdout, &stderr); err != nil {
		t.Fatalf("runBench: %v", err)
	}
	for _, want := range []string{"Execution History", "Average Processing Times", "turbit_runs_total"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("report missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestSummarize(t *testing.T) {
	res := &benchResult{
		Sequential: []time.Duration{400 * time.Millisecond, 600 * time.Millisecond},
		Engine:     []time.Duration{100 * time.Millisecond, 150 * time.Millisecond},
	}
	s := summarize(res)

	if s.AvgSequential != 500*time.Millisecond || s.AvgEngine != 125*time.Millisecond {
		t.Errorf("averages = %s/%s", s.AvgSequential, s.AvgEngine)
	}
	if s.TimesFaster != 4 {
		t.Errorf("TimesFaster = %v, want 4", s.TimesFaster)
	}
	if s.PercentSaved != 75 {
		t.Errorf("PercentSaved = %v, want 75", s.PercentSaved)
	}
	if s.TimeSaved != 375*time.Millisecond {
		t.Errorf("TimeSaved = %s, want 375ms", s.TimeSaved)
	}

	if empty := summarize(&benchResult{}); empty != (benchSummary{}) {
		t.Errorf("summary of no runs = %+v", empty)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Microsecond, "1.50 milliseconds"},
		{999 * time.Millisecond, "999.00 milliseconds"},
		{1000 * time.Millisecond, "1.00 seconds"},
		{2500 * time.Millisecond, "2.50 seconds"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRenderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "x_total", Help: "x"}, []string{"k"})
	reg.MustRegister(c)
	c.WithLabelValues("v").Add(3)

	var buf bytes.Buffer
	if err := renderMetrics(&buf, reg); err != nil {
		t.Fatalf("renderMetrics: %v", err)
	}
	for _, want := range []string{"x_total", "k=v", "3"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}
