package config

import "flag"

// parseFlags registers the command flags on fs, seeded with the values
// loaded so far, and parses args. Flags override everything else.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("turbit", flag.ContinueOnError)
	}

	fs.IntVar(&cfg.MaxProcesses, "max-processes", cfg.MaxProcesses, "Worker count at power 100 (0 = one per core)")
	fs.IntVar(&cfg.Power, "power", cfg.Power, "Percentage of max processes to use")
	fs.DurationVar(&cfg.SpawnTimeout, "spawn-timeout", cfg.SpawnTimeout, "How long a worker may take to start")
	fs.BoolVar(&cfg.Affinity, "affinity", cfg.Affinity, "Pin each worker to a CPU core")
	fs.BoolVar(&cfg.IncrementalGrowth, "incremental", cfg.IncrementalGrowth, "Grow the pool without rebuilding it")
	fs.IntVar(&cfg.RetryAttempts, "retries", cfg.RetryAttempts, "Attempts per failed work item")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Print engine debug logs")

	fs.IntVar(&cfg.Bench.Warmup, "warmup", cfg.Bench.Warmup, "Speed test warmup runs")
	fs.IntVar(&cfg.Bench.Iterations, "iterations", cfg.Bench.Iterations, "Speed test measured runs")
	fs.IntVar(&cfg.Bench.Items, "items", cfg.Bench.Items, "Numbers generated and sorted per speed test run")
	fs.BoolVar(&cfg.Bench.Metrics, "metrics", cfg.Bench.Metrics, "Print engine metrics after the speed test")

	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "power" {
			cfg.PowerSet = true
		}
	})
	return nil
}
