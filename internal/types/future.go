// Package types holds the small value types shared between the engine and
// its worker handles.
package types

import (
	"context"
	"sync"
)

// Result is the outcome of one dispatched task.
//
// Type parameters:
//   - R: The type of the result value
//   - K: The type of the key identifying the task (request ID, chunk index)
type Result[R any, K comparable] struct {
	Value R
	Error error
	Key   K
}

// Future is a handle to a task result that will be delivered later by the
// goroutine reading a worker's output. Once resolved, every read returns the
// same result.
type Future[R any, K comparable] struct {
	result chan Result[R, K]
	done   chan struct{}
	once   sync.Once
	value  Result[R, K]
}

// NewFuture creates an unresolved future.
func NewFuture[R any, K comparable]() *Future[R, K] {
	return &Future[R, K]{
		result: make(chan Result[R, K], 1),
		done:   make(chan struct{}),
	}
}

// Complete delivers the result. Only the first call has any effect; later
// calls are dropped so a producer never blocks on an already-resolved future.
func (f *Future[R, K]) Complete(r Result[R, K]) {
	select {
	case f.result <- r:
	default:
	}
}

// Get blocks until the result is available.
func (f *Future[R, K]) Get() (R, K, error) {
	return f.GetWithContext(context.Background())
}

// GetWithContext blocks until the result is available or ctx is done.
// On cancellation the zero value and ctx.Err() are returned; the future stays
// unresolved and can still be read later.
func (f *Future[R, K]) GetWithContext(ctx context.Context) (R, K, error) {
	select {
	case <-f.done:
		return f.value.Value, f.value.Key, f.value.Error
	case r := <-f.result:
		f.resolve(r)
		return f.value.Value, f.value.Key, f.value.Error
	case <-ctx.Done():
		var zeroR R
		var zeroK K
		return zeroR, zeroK, ctx.Err()
	}
}

func (f *Future[R, K]) resolve(r Result[R, K]) {
	f.once.Do(func() {
		f.value = r
		close(f.done)
	})
}
