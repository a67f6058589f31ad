package pool

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/utkarsh5026/turbit/internal/algorithms"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// dispatcher sends work items round-robin over a fixed set of workers and
// joins on all of them.
type dispatcher struct {
	task        string
	workers     []*worker
	limiter     *rate.Limiter
	maxAttempts int
	backoff     algorithms.BackoffStrategy
	logger      Logger
	metrics     *engineMetrics
}

// dispatch sends item i to worker i mod len(workers) without waiting between
// sends, then waits for every reply. Outputs are indexed like items. If any
// item failed, the failure with the lowest index is returned as a *TaskError
// and no outputs are returned.
func (d *dispatcher) dispatch(ctx context.Context, items []json.RawMessage) ([]json.RawMessage, error) {
	futures := make([]*replyFuture, len(items))
	for i, args := range items {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		futures[i] = d.workerFor(i).submit(d.task, args)
	}

	outputs := make([]json.RawMessage, len(items))
	failures := make([]*TaskError, len(items))

	// Every goroutine returns nil for task failures so that the group keeps
	// waiting on the rest; only context errors abort the join.
	var g errgroup.Group
	for i := range futures {
		g.Go(func() error {
			out, err := d.await(ctx, i, items[i], futures[i])
			if err == nil {
				outputs[i] = out
				return nil
			}

			var te *TaskError
			if errors.As(err, &te) {
				failures[i] = te
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, te := range failures {
		if te != nil {
			return nil, te
		}
	}
	return outputs, nil
}

func (d *dispatcher) workerFor(index int) *worker {
	return d.workers[index%len(d.workers)]
}

// await waits for one item, re-sending it to the same worker while the task
// reports an error and attempts remain.
func (d *dispatcher) await(ctx context.Context, index int, args json.RawMessage, fut *replyFuture) (json.RawMessage, error) {
	w := d.workerFor(index)

	for attempt := 1; ; attempt++ {
		out, _, err := fut.GetWithContext(ctx)
		if err == nil {
			d.metrics.taskDone("success")
			return out, nil
		}

		var remote *remoteError
		switch {
		case errors.As(err, &remote):
		case errors.Is(err, ErrWorkerExited):
			d.metrics.taskDone("worker_exited")
			return nil, &TaskError{
				Task:     d.task,
				Index:    index,
				WorkerID: w.id,
				Message:  err.Error(),
				Err:      ErrWorkerExited,
			}
		case errors.Is(err, ErrFrameTooLarge):
			d.metrics.taskDone("failed")
			return nil, &TaskError{
				Task:     d.task,
				Index:    index,
				WorkerID: w.id,
				Message:  err.Error(),
				Err:      ErrFrameTooLarge,
			}
		default:
			return nil, err
		}

		if attempt >= d.maxAttempts {
			d.metrics.taskDone("failed")
			return nil, &TaskError{
				Task:     d.task,
				Index:    index,
				WorkerID: w.id,
				Message:  remote.msg,
			}
		}

		delay := d.backoff.NextDelay(attempt - 1)
		d.logger.Debugf("task %q item %d failed on attempt %d, retrying in %s: %s", d.task, index, attempt, delay, remote.msg)
		d.metrics.taskDone("retried")
		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
		fut = w.submit(d.task, args)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
