package pool

import (
	"errors"
	"fmt"

	"github.com/utkarsh5026/turbit/internal/wire"
)

// Configuration errors. Run returns them before touching any worker.
var (
	ErrInvalidType    = errors.New("invalid execution type: valid types are 'simple' and 'extended'")
	ErrUnexpectedData = errors.New("simple execution type should not include data")
	ErrEmptyData      = errors.New("extended execution type requires non-empty data")
	ErrInvalidFunc    = errors.New("task is not invocable for this execution type")
)

var (
	// ErrNoWorkers is returned when not a single worker process could be started.
	ErrNoWorkers = errors.New("no worker processes available")

	// ErrWorkerExited fails the tasks still pending on a worker whose process died.
	ErrWorkerExited = errors.New("worker process exited")

	// ErrNestedEngine is returned by New inside a worker process. A worker that
	// built its own engine would re-execute itself without bound.
	ErrNestedEngine = errors.New("cannot create an engine inside a worker process")

	// ErrSpawnTimeout is a spawn failure: the child never sent its ready frame.
	ErrSpawnTimeout = errors.New("worker did not report ready in time")

	// ErrFrameTooLarge fails a work item whose encoded chunk does not fit in
	// one frame. Raising the power splits the input into smaller chunks.
	ErrFrameTooLarge = wire.ErrFrameTooLarge
)

// TaskError reports a work item that failed: the task returned an error or
// panicked, its worker died before answering, or its chunk was too large to
// send.
type TaskError struct {
	Task     string // registered task name
	Index    int    // position of the work item (chunk index for extended runs)
	WorkerID int
	Message  string
	Err      error // ErrWorkerExited or ErrFrameTooLarge, nil for a task failure
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q item %d on worker %d: %s", e.Task, e.Index, e.WorkerID, e.Message)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
