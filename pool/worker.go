package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/turbit/internal/types"
	"github.com/utkarsh5026/turbit/internal/wire"
)

type (
	reply       = types.Result[json.RawMessage, uint64]
	replyFuture = types.Future[json.RawMessage, uint64]
)

// frameLimit is the largest frame either side of a pipe will send.
var frameLimit = wire.MaxFrameSize

// remoteError is a failure reported by the task itself inside the worker, as
// opposed to the worker process going away.
type remoteError struct {
	msg string
}

func (e *remoteError) Error() string {
	return e.msg
}

// worker is the engine's handle on one worker process. A single reader
// goroutine resolves the future of each request by its ID.
type worker struct {
	id     int
	pid    int
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *wire.Encoder
	ids    *atomic.Uint64
	logger Logger

	mu      sync.Mutex
	pending map[uint64]*replyFuture
	closed  bool

	alive    atomic.Bool
	ready    chan int
	exited   chan struct{}
	killOnce sync.Once
}

// startWorker launches a worker process and waits for its ready frame.
func startWorker(
	ctx context.Context,
	launcher Launcher,
	id int,
	timeout time.Duration,
	ids *atomic.Uint64,
	logger Logger,
) (*worker, error) {
	cmd, err := launcher.Command(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("build worker %d command: %w", id, err)
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker %d stdin pipe: %w", id, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker %d stdout pipe: %w", id, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker %d: %w", id, err)
	}

	w := &worker{
		id:      id,
		cmd:     cmd,
		stdin:   stdin,
		enc:     wire.NewEncoderLimit(stdin, frameLimit),
		ids:     ids,
		logger:  logger,
		pending: make(map[uint64]*replyFuture),
		ready:   make(chan int, 1),
		exited:  make(chan struct{}),
	}
	go w.readLoop(stdout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case pid := <-w.ready:
		w.pid = pid
		w.alive.Store(true)
		return w, nil
	case <-w.exited:
		w.kill()
		return nil, fmt.Errorf("worker %d exited before ready: %w", id, ErrWorkerExited)
	case <-timer.C:
		w.kill()
		return nil, fmt.Errorf("worker %d after %s: %w", id, timeout, ErrSpawnTimeout)
	case <-ctx.Done():
		w.kill()
		return nil, ctx.Err()
	}
}

func (w *worker) readLoop(stdout io.Reader) {
	defer close(w.exited)
	defer w.failPending()

	dec := wire.NewDecoder(stdout)
	for {
		var resp wire.Response
		if err := dec.Decode(&resp); err != nil {
			if !errors.Is(err, io.EOF) && w.alive.Load() {
				w.logger.Warnf("worker %d: reading output: %v", w.id, err)
			}
			return
		}

		if resp.ID == wire.ReadyID {
			if resp.Ready {
				select {
				case w.ready <- resp.PID:
				default:
				}
			}
			continue
		}

		w.mu.Lock()
		fut, ok := w.pending[resp.ID]
		delete(w.pending, resp.ID)
		w.mu.Unlock()
		if !ok {
			continue
		}

		if resp.Error != "" {
			fut.Complete(reply{Key: resp.ID, Error: &remoteError{msg: resp.Error}})
			continue
		}
		fut.Complete(reply{Key: resp.ID, Value: resp.Result})
	}
}

// failPending resolves every outstanding request with ErrWorkerExited and
// refuses new ones.
func (w *worker) failPending() {
	w.alive.Store(false)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	for id, fut := range w.pending {
		fut.Complete(reply{Key: id, Error: ErrWorkerExited})
		delete(w.pending, id)
	}
}

// submit sends one request and returns the future of its reply.
func (w *worker) submit(task string, args json.RawMessage) *replyFuture {
	id := w.ids.Add(1)
	fut := types.NewFuture[json.RawMessage, uint64]()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		fut.Complete(reply{Key: id, Error: ErrWorkerExited})
		return fut
	}
	w.pending[id] = fut
	w.mu.Unlock()

	if err := w.enc.Encode(wire.Request{ID: id, Task: task, Args: args}); err != nil {
		w.mu.Lock()
		delete(w.pending, id)
		w.mu.Unlock()

		// An oversized request is refused before anything is written; the
		// worker is still fine.
		if errors.Is(err, wire.ErrFrameTooLarge) {
			fut.Complete(reply{Key: id, Error: fmt.Errorf("send to worker %d: %w", w.id, ErrFrameTooLarge)})
			return fut
		}
		fut.Complete(reply{Key: id, Error: fmt.Errorf("send to worker %d: %w: %v", w.id, ErrWorkerExited, err)})
	}
	return fut
}

func (w *worker) isAlive() bool {
	return w.alive.Load()
}

// kill terminates the process and reaps it. Safe to call more than once.
func (w *worker) kill() {
	w.killOnce.Do(func() {
		w.alive.Store(false)
		_ = w.stdin.Close()
		if w.cmd.Process != nil {
			_ = w.cmd.Process.Kill()
		}
		<-w.exited
		_ = w.cmd.Wait()
	})
}
