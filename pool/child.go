package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/utkarsh5026/turbit/internal/cpu"
	"github.com/utkarsh5026/turbit/internal/wire"
)

const (
	envWorkerID = "TURBIT_WORKER_ID"
	envAffinity = "TURBIT_WORKER_AFFINITY"
)

const errResultTooLarge = "result exceeds frame limit"

// IsWorker reports whether the current process was started as a worker.
func IsWorker() bool {
	_, ok := os.LookupEnv(envWorkerID)
	return ok
}

// ServeIfWorker turns the current process into a worker when it was started by
// an Engine, and never returns in that case. Otherwise it returns immediately.
//
// Call it first thing in main, and in TestMain for test binaries:
//
//	func main() {
//	    pool.ServeIfWorker()
//	    ...
//	}
func ServeIfWorker() {
	if !IsWorker() {
		return
	}
	os.Exit(serveProcess())
}

func serveProcess() int {
	workerID, _ := strconv.Atoi(os.Getenv(envWorkerID))

	in, out := os.Stdin, os.Stdout
	// Frames own the real stdout; anything a task prints goes to stderr.
	os.Stdout = os.Stderr

	if on, _ := strconv.ParseBool(os.Getenv(envAffinity)); on {
		core, release, err := cpu.PinWorker(workerID)
		defer release()
		if err != nil {
			fmt.Fprintf(os.Stderr, "turbit worker %d: pin to core: %v\n", workerID, err)
		} else {
			fmt.Fprintf(os.Stderr, "turbit worker %d: pinned to core %d\n", workerID, core)
		}
	}

	if err := serve(context.Background(), in, out); err != nil {
		fmt.Fprintf(os.Stderr, "turbit worker %d: %v\n", workerID, err)
		return 1
	}
	return 0
}

// serve announces readiness, then answers requests one at a time until the
// engine closes the input stream.
func serve(ctx context.Context, r io.Reader, w io.Writer) error {
	enc := wire.NewEncoderLimit(w, frameLimit)
	dec := wire.NewDecoder(r)

	if err := enc.Encode(wire.Response{ID: wire.ReadyID, Ready: true, PID: os.Getpid()}); err != nil {
		return fmt.Errorf("send ready: %w", err)
	}

	for {
		var req wire.Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		err := enc.Encode(execute(ctx, req))
		if errors.Is(err, wire.ErrFrameTooLarge) {
			err = enc.Encode(wire.Response{ID: req.ID, Error: errResultTooLarge})
		}
		if err != nil {
			return fmt.Errorf("send response %d: %w", req.ID, err)
		}
	}
}

// execute runs one request. Task errors and panics become error responses;
// the worker itself keeps serving.
func execute(ctx context.Context, req wire.Request) (resp wire.Response) {
	resp.ID = req.ID

	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			resp.Result = nil
			resp.Error = fmt.Sprintf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	h, ok := lookupTask(req.Task)
	if !ok {
		resp.Error = fmt.Sprintf("task %q is not registered in the worker binary", req.Task)
		return resp
	}

	var (
		out json.RawMessage
		err error
	)
	if len(req.Args) == 0 {
		if h.simple == nil {
			resp.Error = fmt.Sprintf("task %q has no simple handler", req.Task)
			return resp
		}
		out, err = h.simple(ctx)
	} else {
		if h.chunk == nil {
			resp.Error = fmt.Sprintf("task %q has no extended handler", req.Task)
			return resp
		}
		var payload wire.ChunkArgs
		if err := json.Unmarshal(req.Args, &payload); err != nil {
			resp.Error = fmt.Sprintf("decode args: %v", err)
			return resp
		}
		out, err = h.chunk(ctx, payload)
	}

	if err != nil {
		resp.Error = err.Error()
		if resp.Error == "" {
			resp.Error = "task failed"
		}
		return resp
	}
	resp.Result = out
	return resp
}
