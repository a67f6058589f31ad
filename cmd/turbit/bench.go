package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/utkarsh5026/turbit/internal/config"
	"github.com/utkarsh5026/turbit/internal/demo"
	"github.com/utkarsh5026/turbit/pool"
)

// benchResult holds the timings of every measured run.
type benchResult struct {
	Sequential []time.Duration
	Engine     []time.Duration
}

// benchSummary is what the report prints below the run history.
type benchSummary struct {
	AvgSequential time.Duration
	AvgEngine     time.Duration
	TimesFaster   float64
	PercentSaved  float64
	TimeSaved     time.Duration
}

func runBench(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	var reg *prometheus.Registry
	if cfg.Bench.Metrics {
		reg = prometheus.NewRegistry()
	}

	var (
		e   *pool.Engine
		err error
	)
	if reg != nil {
		e, err = newEngine(cfg, reg)
	} else {
		e, err = newEngine(cfg, nil)
	}
	if err != nil {
		return err
	}
	defer e.Teardown()

	// One sort job per core; the sequential method runs them back to back,
	// the engine spreads them over the workers selected by power.
	jobs := make([]int, e.MaxProcesses())
	for i := range jobs {
		jobs[i] = cfg.Bench.Items
	}

	colorFprintln(stdout, Cyan, "BENCHMARK: Turbit Speed Test")
	fmt.Fprintf(stdout, "%d jobs of %d numbers, %d workers (power %d%%)\n\n",
		len(jobs), cfg.Bench.Items, pool.WorkerCount(cfg.Power, e.MaxProcesses()), cfg.Power)

	bar := makeProgressBar(cfg.Bench.Warmup+cfg.Bench.Iterations, stderr)
	res, err := benchmark(ctx, e, jobs, cfg.Power, cfg.Bench.Warmup, cfg.Bench.Iterations, bar)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	renderBenchReport(stdout, res, summarize(res))
	if reg != nil {
		return renderMetrics(stdout, reg)
	}
	return nil
}

func benchmark(
	ctx context.Context,
	e *pool.Engine,
	jobs []int,
	power, warmup, iterations int,
	bar *progressbar.ProgressBar,
) (*benchResult, error) {
	sequential := func() time.Duration {
		start := time.Now()
		for _, n := range jobs {
			demo.GenerateAndSort(n)
		}
		return time.Since(start)
	}

	parallel := func() (time.Duration, error) {
		start := time.Now()
		_, err := pool.Run(ctx, e, demo.SortNumbers, jobs, pool.WithType(pool.Extended), pool.WithPower(power))
		return time.Since(start), err
	}

	for range warmup {
		sequential()
		if _, err := parallel(); err != nil {
			return nil, fmt.Errorf("warmup: %w", err)
		}
		runtime.GC()
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	res := &benchResult{}
	for i := range iterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res.Sequential = append(res.Sequential, sequential())
		runtime.GC()

		d, err := parallel()
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		res.Engine = append(res.Engine, d)
		runtime.GC()

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return res, nil
}

func summarize(res *benchResult) benchSummary {
	s := benchSummary{
		AvgSequential: average(res.Sequential),
		AvgEngine:     average(res.Engine),
	}
	s.TimeSaved = s.AvgSequential - s.AvgEngine
	if s.AvgEngine > 0 {
		s.TimesFaster = float64(s.AvgSequential) / float64(s.AvgEngine)
	}
	if s.AvgSequential > 0 {
		s.PercentSaved = float64(s.TimeSaved) / float64(s.AvgSequential) * 100
	}
	return s
}

func average(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total / time.Duration(len(ds))
}

// formatDuration prints milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	if ms < 1000 && ms > -1000 {
		return fmt.Sprintf("%.2f milliseconds", ms)
	}
	return fmt.Sprintf("%.2f seconds", ms/1000)
}

func makeProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Benchmark runs"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func renderBenchReport(w io.Writer, res *benchResult, s benchSummary) {
	colorFprintln(w, Cyan, "\n1. Execution History")
	history := tablewriter.NewWriter(w)
	history.Header("Run", "Standard Method", "Turbit Method")
	for i := range res.Sequential {
		_ = history.Append(strconv.Itoa(i+1), formatDuration(res.Sequential[i]), formatDuration(res.Engine[i]))
	}
	if err := history.Render(); err != nil {
		colorFprintln(w, Red, "Error in rendering history table")
	}

	colorFprintln(w, Cyan, "\n2. Average Processing Times")
	averages := tablewriter.NewWriter(w)
	averages.Header("Method", "Average")
	_ = averages.Append("Standard", formatDuration(s.AvgSequential))
	_ = averages.Append("Turbit", formatDuration(s.AvgEngine))
	_ = averages.Render()

	colorFprintln(w, Cyan, "\n3. Turbit Performance")
	if s.TimeSaved <= 0 {
		colorFprintf(w, Yellow, "   • No speedup: %.2fx the standard time\n", 1/max(s.TimesFaster, 1e-9))
		return
	}
	colorFprintf(w, Green, "   • Up to %.0fx faster\n", s.TimesFaster)
	colorFprintf(w, Green, "   • %.0f%% less processing time\n", s.PercentSaved)
	colorFprintf(w, Green, "   • %s saved per run\n", formatDuration(s.TimeSaved))
}
