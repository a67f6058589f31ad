// Package benchmarks measures the engine against sequential processing.
package benchmarks

import (
	"context"
	"testing"

	"github.com/utkarsh5026/turbit/pool"
)

// =============================================================================
// Benchmark Workloads
// =============================================================================

var (
	// noop measures the fixed cost of a round trip to every worker.
	noop = pool.DefineSimple("bench.noop", func(context.Context) (int, error) {
		return 0, nil
	})

	// cpuBound spins over every item of its chunk.
	cpuBound = pool.DefineExtended("bench.cpu-bound", func(_ context.Context, chunk []int, _ pool.Args) ([]int, error) {
		out := make([]int, len(chunk))
		for i, task := range chunk {
			out[i] = cpuBoundWork(task)
		}
		return out, nil
	})

	// echo returns its chunk unchanged, so its cost is pure serialization.
	echo = pool.DefineExtended("bench.echo", func(_ context.Context, chunk []int, _ pool.Args) ([]int, error) {
		return chunk, nil
	})
)

const cpuIterations = 200_000

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(task int) int {
	result := 0
	for i := range cpuIterations {
		result += i * task
	}
	return result
}

func newEngine(b *testing.B, opts ...pool.Option) *pool.Engine {
	b.Helper()
	e, err := pool.New(append([]pool.Option{pool.WithLogger(pool.NopLogger())}, opts...)...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(e.Teardown)
	return e
}

func makeTasks(n int) []int {
	tasks := make([]int, n)
	for i := range tasks {
		tasks[i] = i
	}
	return tasks
}
