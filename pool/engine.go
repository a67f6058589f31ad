package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/utkarsh5026/turbit/internal/wire"
)

// Engine runs registered tasks on a pool of worker processes. Calls to Run
// on one engine are serialized. An Engine must be torn down when no longer
// needed, otherwise its worker processes outlive their use.
type Engine struct {
	conf    *engineConfig
	metrics *engineMetrics

	mu  sync.Mutex
	mgr *manager
}

// New creates an engine. Unless WithLazyStart(true) is given it starts
// MaxProcesses workers right away; workers that fail to start are logged and
// the engine carries on with fewer.
//
// New returns ErrNestedEngine when called inside a worker process.
func New(opts ...Option) (*Engine, error) {
	if IsWorker() {
		return nil, ErrNestedEngine
	}

	conf := newEngineConfig(opts...)
	metrics := newEngineMetrics(conf.registerer)
	e := &Engine{
		conf:    conf,
		metrics: metrics,
		mgr:     newManager(conf, metrics),
	}

	if !conf.lazyStart {
		_ = e.mgr.ensure(context.Background(), conf.maxProcesses)
	}
	return e, nil
}

// Teardown kills every worker process. It is safe to call more than once,
// and a later Run starts a fresh pool.
func (e *Engine) Teardown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mgr.teardown()
}

// Size returns the number of workers currently in the pool.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mgr.size()
}

// MaxProcesses returns the worker count that power 100 maps to.
func (e *Engine) MaxProcesses() int {
	return e.conf.maxProcesses
}

// Run executes task on the engine's workers and returns the collected outputs
// with statistics about the call.
//
// With Simple (the default) data must be empty and the task runs once on each
// of the workers selected by WithPower; Data holds one output per worker.
// With Extended data is split into one contiguous chunk per worker and Data
// holds the concatenated chunk outputs in input order.
//
// Configuration errors (ErrInvalidType, ErrUnexpectedData, ErrEmptyData,
// ErrInvalidFunc) are returned before any worker is touched. If any work item
// fails, Run returns a *TaskError for the lowest failing index and no data.
//
// Example:
//
//	double := pool.DefineExtended("double", func(_ context.Context, chunk []int, _ pool.Args) ([]int, error) {
//	    out := make([]int, len(chunk))
//	    for i, v := range chunk {
//	        out[i] = v * 2
//	    }
//	    return out, nil
//	})
//
//	res, err := pool.Run(ctx, engine, double, []int{1, 2, 3, 4}, pool.WithType(pool.Extended), pool.WithPower(50))
func Run[T any, R any](ctx context.Context, e *Engine, task Task[T, R], data []T, opts ...RunOption) (*Result[R], error) {
	rc := newRunConfig(opts...)

	e.mu.Lock()
	defer e.mu.Unlock()

	began := time.Now()
	res, err := run(ctx, e, task, data, rc)
	e.metrics.observeRun(rc.typ, err, time.Since(began))

	if err != nil {
		e.conf.logger.Errorf("run of task %q (%s) failed: %v", task.name, rc.typ, err)
		return nil, err
	}

	e.conf.logger.Debugf("run %s of task %q (%s): %d outputs from %d workers in %.3fs",
		res.RunID, task.name, rc.typ, len(res.Data), res.Stats.NumProcessesUsed, res.Stats.TimeTakenSeconds)
	return res, nil
}

func run[T any, R any](ctx context.Context, e *Engine, task Task[T, R], data []T, rc *runConfig) (*Result[R], error) {
	if err := validate(task, data, rc); err != nil {
		return nil, err
	}

	// A cancelled call must not start a rebuild it cannot finish.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	numProcesses := calcNumProcesses(rc.power, e.conf.maxProcesses)
	if err := e.mgr.resize(ctx, numProcesses); err != nil {
		return nil, err
	}

	workers := e.mgr.snapshot(numProcesses)
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}

	stats := startStats()

	var (
		items []json.RawMessage
		err   error
	)
	if rc.typ == Simple {
		items = make([]json.RawMessage, len(workers))
	} else {
		items, err = chunkItems(data, len(workers), rc.args)
		if err != nil {
			return nil, err
		}
	}

	d := &dispatcher{
		task:        task.name,
		workers:     workers,
		limiter:     e.conf.rateLimiter,
		maxAttempts: e.conf.maxAttempts,
		backoff:     e.conf.backoff(),
		logger:      e.conf.logger,
		metrics:     e.metrics,
	}
	outputs, err := d.dispatch(ctx, items)
	if err != nil {
		return nil, err
	}

	res := &Result[R]{RunID: uuid.NewString()}
	if rc.typ == Simple {
		res.Data, err = decodeEach[R](outputs)
		if err != nil {
			return nil, err
		}
		res.Stats = stats.finish(len(items), len(res.Data))
		return res, nil
	}

	res.Data, err = decodeFlat[R](outputs)
	if err != nil {
		return nil, err
	}
	res.Stats = stats.finish(min(len(workers), len(items)), len(data))
	return res, nil
}

func validate[T any, R any](task Task[T, R], data []T, rc *runConfig) error {
	if !rc.typ.valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidType, rc.typ)
	}

	switch rc.typ {
	case Simple:
		if len(data) > 0 {
			return ErrUnexpectedData
		}
	case Extended:
		if len(data) == 0 {
			return ErrEmptyData
		}
	}

	h, ok := lookupTask(task.name)
	if !ok {
		return fmt.Errorf("%w: task %q is not defined", ErrInvalidFunc, task.name)
	}
	if !h.supports(rc.typ) {
		return fmt.Errorf("%w: task %q has no %s handler", ErrInvalidFunc, task.name, rc.typ)
	}
	return nil
}

// chunkItems partitions data over n workers and encodes one request payload
// per chunk. args are attached only when non-empty.
func chunkItems[T any](data []T, n int, args map[string]any) ([]json.RawMessage, error) {
	encodedArgs, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}

	chunks := Partition(data, n)
	items := make([]json.RawMessage, len(chunks))
	for i, chunk := range chunks {
		raw, err := json.Marshal(chunk)
		if err != nil {
			return nil, fmt.Errorf("encode chunk %d: %w", i, err)
		}
		items[i], err = json.Marshal(wire.ChunkArgs{Data: raw, Args: encodedArgs})
		if err != nil {
			return nil, fmt.Errorf("encode chunk %d: %w", i, err)
		}
	}
	return items, nil
}

func encodeArgs(args map[string]any) (map[string]json.RawMessage, error) {
	if len(args) == 0 {
		return nil, nil
	}

	out := make(map[string]json.RawMessage, len(args))
	for k, v := range args {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode argument %q: %w", k, err)
		}
		out[k] = raw
	}
	return out, nil
}

func decodeEach[R any](outputs []json.RawMessage) ([]R, error) {
	data := make([]R, len(outputs))
	for i, raw := range outputs {
		if err := json.Unmarshal(raw, &data[i]); err != nil {
			return nil, fmt.Errorf("decode output of worker %d: %w", i, err)
		}
	}
	return data, nil
}

func decodeFlat[R any](outputs []json.RawMessage) ([]R, error) {
	var data []R
	for i, raw := range outputs {
		var part []R
		if err := json.Unmarshal(raw, &part); err != nil {
			return nil, fmt.Errorf("decode output of chunk %d: %w", i, err)
		}
		data = append(data, part...)
	}
	if data == nil {
		data = []R{}
	}
	return data, nil
}
