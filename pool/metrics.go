package pool

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// engineMetrics holds the Prometheus collectors of an engine. A nil
// *engineMetrics records nothing.
type engineMetrics struct {
	runsTotal     *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	workers       prometheus.Gauge
	spawnFailures prometheus.Counter
	tasksTotal    *prometheus.CounterVec
}

func newEngineMetrics(reg prometheus.Registerer) *engineMetrics {
	if reg == nil {
		return nil
	}

	// Built unregistered, then registered so that a second engine on the
	// same registerer picks up the existing collectors.
	factory := promauto.With(nil)
	return &engineMetrics{
		runsTotal: register(reg, factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turbit_runs_total",
				Help: "Total number of Run calls",
			},
			[]string{"type", "outcome"},
		)),
		runDuration: register(reg, factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turbit_run_duration_seconds",
				Help:    "Run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		)),
		workers: register(reg, factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "turbit_workers",
				Help: "Number of live worker processes",
			},
		)),
		spawnFailures: register(reg, factory.NewCounter(
			prometheus.CounterOpts{
				Name: "turbit_spawn_failures_total",
				Help: "Total number of worker processes that failed to start",
			},
		)),
		tasksTotal: register(reg, factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turbit_tasks_total",
				Help: "Total number of work items sent to workers",
			},
			[]string{"outcome"},
		)),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *engineMetrics) observeRun(typ ExecutionType, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.runsTotal.WithLabelValues(string(typ), outcome).Inc()
	m.runDuration.WithLabelValues(string(typ)).Observe(elapsed.Seconds())
}

func (m *engineMetrics) workerStarted() {
	if m != nil {
		m.workers.Inc()
	}
}

func (m *engineMetrics) workerStopped() {
	if m != nil {
		m.workers.Dec()
	}
}

func (m *engineMetrics) spawnFailed() {
	if m != nil {
		m.spawnFailures.Inc()
	}
}

func (m *engineMetrics) taskDone(outcome string) {
	if m != nil {
		m.tasksTotal.WithLabelValues(outcome).Inc()
	}
}
