package pool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/utkarsh5026/turbit/internal/algorithms"
	"github.com/utkarsh5026/turbit/internal/cpu"
	"golang.org/x/time/rate"
)

// DefaultPower is the share of cores a Run uses when WithPower is not given.
const DefaultPower = 70

const (
	defaultSpawnTimeout = 10 * time.Second
	defaultRetryDelay   = 100 * time.Millisecond
	defaultMaxDelay     = 5 * time.Second
	defaultJitterFactor = 0.1
)

// BackoffType re-exports the retry delay algorithms.
type BackoffType = algorithms.BackoffType

const (
	BackoffExponential = algorithms.BackoffExponential
	BackoffJittered    = algorithms.BackoffJittered
)

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	maxProcesses      int
	launcher          Launcher
	spawnTimeout      time.Duration
	lazyStart         bool
	incrementalGrowth bool
	affinity          bool
	rateLimiter       *rate.Limiter

	maxAttempts  int
	initialDelay time.Duration
	backoffType  BackoffType

	logger     Logger
	debug      bool
	registerer prometheus.Registerer
}

func newEngineConfig(opts ...Option) *engineConfig {
	cfg := &engineConfig{
		maxProcesses: cpu.GetNumCPU(),
		spawnTimeout: defaultSpawnTimeout,
		maxAttempts:  1,
		initialDelay: defaultRetryDelay,
		backoffType:  BackoffExponential,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = newConsoleLogger(cfg.debug || debugFromEnv())
	}
	if cfg.launcher == nil {
		cfg.launcher = &selfLauncher{affinity: cfg.affinity}
	}

	return cfg
}

func (cfg *engineConfig) backoff() algorithms.BackoffStrategy {
	return algorithms.NewBackoffStrategy(cfg.backoffType, cfg.initialDelay, defaultMaxDelay, defaultJitterFactor)
}

// WithMaxProcesses sets the worker count that power=100 maps to.
// If not specified, defaults to runtime.NumCPU().
func WithMaxProcesses(n int) Option {
	return func(cfg *engineConfig) {
		if n > 0 {
			cfg.maxProcesses = n
		}
	}
}

// WithLauncher replaces the way worker processes are created.
// The default re-executes the running binary.
func WithLauncher(l Launcher) Option {
	return func(cfg *engineConfig) {
		if l != nil {
			cfg.launcher = l
		}
	}
}

// WithSpawnTimeout bounds how long a new worker may take to report ready.
func WithSpawnTimeout(d time.Duration) Option {
	return func(cfg *engineConfig) {
		if d > 0 {
			cfg.spawnTimeout = d
		}
	}
}

// WithLazyStart defers spawning until the first Run. By default New starts
// MaxProcesses workers up front so the first Run pays no startup cost.
func WithLazyStart(lazy bool) Option {
	return func(cfg *engineConfig) {
		cfg.lazyStart = lazy
	}
}

// WithIncrementalGrowth makes an upscale spawn only the missing workers
// instead of tearing the pool down and rebuilding it at the new size.
func WithIncrementalGrowth(enabled bool) Option {
	return func(cfg *engineConfig) {
		cfg.incrementalGrowth = enabled
	}
}

// WithAffinity pins each worker's task thread to core workerID % NumCPU.
// Only honoured by the default launcher.
func WithAffinity(enabled bool) Option {
	return func(cfg *engineConfig) {
		cfg.affinity = enabled
	}
}

// WithRateLimit caps how fast work items are sent to workers.
// tasksPerSecond is the sustained rate, burst the number sent back to back.
//
// Example:
//
//	WithRateLimit(10, 5) // 10 items/sec with bursts of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *engineConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithRetryPolicy re-sends a task that failed inside its worker, up to
// maxAttempts total attempts, waiting initialDelay before the first retry.
// Tasks whose worker died are not retried. By default nothing is retried.
func WithRetryPolicy(maxAttempts int, initialDelay time.Duration) Option {
	return func(cfg *engineConfig) {
		if maxAttempts > 0 {
			cfg.maxAttempts = maxAttempts
		}
		if initialDelay > 0 {
			cfg.initialDelay = initialDelay
		}
	}
}

// WithBackoff selects how retry delays grow. Only meaningful together with
// WithRetryPolicy.
func WithBackoff(t BackoffType) Option {
	return func(cfg *engineConfig) {
		cfg.backoffType = t
	}
}

// WithLogger routes engine diagnostics to l.
func WithLogger(l Logger) Option {
	return func(cfg *engineConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithDebug enables debug lines on the default logger.
// Setting TURBIT_DEBUG=1 has the same effect.
func WithDebug(enabled bool) Option {
	return func(cfg *engineConfig) {
		cfg.debug = enabled
	}
}

// WithMetrics registers the engine's Prometheus collectors with reg.
// Engines sharing a registerer share the same collectors.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *engineConfig) {
		cfg.registerer = reg
	}
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

type runConfig struct {
	typ   ExecutionType
	args  map[string]any
	power int
}

func newRunConfig(opts ...RunOption) *runConfig {
	rc := &runConfig{
		typ:   Simple,
		power: DefaultPower,
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// WithType selects the execution strategy. Defaults to Simple.
func WithType(t ExecutionType) RunOption {
	return func(rc *runConfig) {
		rc.typ = t
	}
}

// WithArgs passes extra named values to every chunk of an Extended run.
// An empty map is the same as no arguments.
func WithArgs(args map[string]any) RunOption {
	return func(rc *runConfig) {
		rc.args = args
	}
}

// WithPower sets the percentage of MaxProcesses to use. Negative values count
// as 0, and every run uses at least one worker.
func WithPower(percent int) RunOption {
	return func(rc *runConfig) {
		rc.power = percent
	}
}
