package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/utkarsh5026/turbit/internal/wire"
)

// Tasks cross the process boundary by name. The worker process is the same
// binary, so it holds the same registry and resolves the name back to the
// function; no code is ever shipped or evaluated.
var registry = struct {
	mu    sync.RWMutex
	tasks map[string]*taskHandler
}{tasks: make(map[string]*taskHandler)}

// taskHandler is the type-erased form of a task, working on raw JSON.
type taskHandler struct {
	name   string
	simple func(ctx context.Context) (json.RawMessage, error)
	chunk  func(ctx context.Context, args wire.ChunkArgs) (json.RawMessage, error)
}

func (h *taskHandler) supports(t ExecutionType) bool {
	switch t {
	case Simple:
		return h.simple != nil
	case Extended:
		return h.chunk != nil
	default:
		return false
	}
}

// Task is a handle to a registered task. T is the element type of Extended
// input, R the element type of the output.
type Task[T any, R any] struct {
	name string
}

// Name returns the name the task was registered under.
func (t Task[T, R]) Name() string {
	return t.name
}

// Define registers a task that can run in either mode. simple or chunk may be
// nil when the task only supports the other mode.
//
// Define must run during package initialization (typically as a package-level
// var) so that worker processes, which re-execute the binary, register the
// same tasks. It panics on an empty or duplicate name.
func Define[T any, R any](name string, simple SimpleFunc[R], chunk ChunkFunc[T, R]) Task[T, R] {
	if name == "" {
		panic("pool: task name must not be empty")
	}
	if simple == nil && chunk == nil {
		panic(fmt.Sprintf("pool: task %q has no handler", name))
	}

	h := &taskHandler{name: name}
	if simple != nil {
		h.simple = func(ctx context.Context) (json.RawMessage, error) {
			out, err := simple(ctx)
			if err != nil {
				return nil, err
			}
			return json.Marshal(out)
		}
	}
	if chunk != nil {
		h.chunk = func(ctx context.Context, payload wire.ChunkArgs) (json.RawMessage, error) {
			var in []T
			if err := json.Unmarshal(payload.Data, &in); err != nil {
				return nil, fmt.Errorf("decode chunk: %w", err)
			}
			args := Args(payload.Args)
			if args == nil {
				args = Args{}
			}
			out, err := chunk(ctx, in, args)
			if err != nil {
				return nil, err
			}
			if out == nil {
				out = []R{}
			}
			return json.Marshal(out)
		}
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, dup := registry.tasks[name]; dup {
		panic(fmt.Sprintf("pool: task %q already defined", name))
	}
	registry.tasks[name] = h

	return Task[T, R]{name: name}
}

// DefineSimple registers a task invoked once per worker with no input.
func DefineSimple[R any](name string, fn SimpleFunc[R]) Task[struct{}, R] {
	return Define[struct{}, R](name, fn, nil)
}

// DefineExtended registers a data-parallel task invoked once per chunk.
func DefineExtended[T any, R any](name string, fn ChunkFunc[T, R]) Task[T, R] {
	return Define[T, R](name, nil, fn)
}

func lookupTask(name string) (*taskHandler, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	h, ok := registry.tasks[name]
	return h, ok
}
