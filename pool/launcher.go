package pool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Launcher builds the command for a new worker process. The command must not
// be started; the pool manager wires its pipes and starts it. The process it
// runs must call ServeIfWorker (or otherwise speak the worker protocol) when
// TURBIT_WORKER_ID is set in its environment.
type Launcher interface {
	Command(ctx context.Context, workerID int) (*exec.Cmd, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context, workerID int) (*exec.Cmd, error)

func (f LauncherFunc) Command(ctx context.Context, workerID int) (*exec.Cmd, error) {
	return f(ctx, workerID)
}

// selfLauncher re-executes the running binary as a worker.
type selfLauncher struct {
	affinity bool
}

// DefaultLauncher returns the launcher New uses when none is given: it
// re-executes the current executable with the worker environment set.
func DefaultLauncher(affinity bool) Launcher {
	return &selfLauncher{affinity: affinity}
}

func (l *selfLauncher) Command(_ context.Context, workerID int) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}

	// Not CommandContext: a worker outlives the call that spawned it and is
	// only stopped by Teardown.
	cmd := exec.Command(exe) // #nosec G204 -- re-executing our own binary
	cmd.Env = WorkerEnv(os.Environ(), workerID, l.affinity)
	return cmd, nil
}

// WorkerEnv returns base plus the variables that make a process serve as
// worker workerID. Custom launchers use it to prepare their commands.
func WorkerEnv(base []string, workerID int, affinity bool) []string {
	env := make([]string, 0, len(base)+2)
	env = append(env, base...)
	env = append(env,
		envWorkerID+"="+strconv.Itoa(workerID),
		envAffinity+"="+strconv.FormatBool(affinity),
	)
	return env
}
