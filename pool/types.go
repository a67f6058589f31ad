package pool

import (
	"context"
	"encoding/json"
	"fmt"
)

// ExecutionType selects how a task is spread over the workers.
type ExecutionType string

const (
	// Simple invokes the task once per worker with no input. Every worker runs
	// the same logic independently, so a random generator yields N different
	// values, not N copies.
	Simple ExecutionType = "simple"

	// Extended splits the input into one contiguous chunk per worker and
	// flattens the per-chunk outputs back in chunk order.
	Extended ExecutionType = "extended"
)

func (t ExecutionType) valid() bool {
	return t == Simple || t == Extended
}

// SimpleFunc is the body of a simple task. It runs inside a worker process and
// can only see what its own package state holds there.
type SimpleFunc[R any] func(ctx context.Context) (R, error)

// ChunkFunc is the body of an extended task. It receives one chunk of the
// caller's data and the caller's extra arguments (empty when none were given),
// and returns the outputs for that chunk.
type ChunkFunc[T any, R any] func(ctx context.Context, chunk []T, args Args) ([]R, error)

// Args are the extra named values passed alongside every chunk of an extended
// run. Values stay JSON-encoded until the task decodes them.
type Args map[string]json.RawMessage

// Decode unmarshals the argument named key into v.
func (a Args) Decode(key string, v any) error {
	raw, ok := a[key]
	if !ok {
		return fmt.Errorf("argument %q not provided", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("argument %q: %w", key, err)
	}
	return nil
}

// Arg decodes the argument named key as a V.
//
// Example:
//
//	threshold, err := pool.Arg[float64](args, "riskThreshold")
func Arg[V any](args Args, key string) (V, error) {
	var v V
	err := args.Decode(key, &v)
	return v, err
}

// Stats describes one completed Run. It is a best-effort snapshot: the memory
// figure is the change in host free memory and other processes add noise.
type Stats struct {
	TimeTakenSeconds float64 `json:"timeTakenSeconds"`
	NumProcessesUsed int     `json:"numProcessesUsed"`
	DataProcessed    int     `json:"dataProcessed"`
	MemoryUsed       string  `json:"memoryUsed"`
	MemoryDeltaBytes int64   `json:"memoryDeltaBytes"`
}

// Result is what Run returns on success.
type Result[R any] struct {
	Data  []R    `json:"data"`
	Stats Stats  `json:"stats"`
	RunID string `json:"runId"`
}
