//go:build !linux && !windows && !darwin

package cpu

import (
	"errors"
	"runtime"
)

// PinWorker locks the goroutine to an OS thread; pinning is unsupported here.
func PinWorker(workerID int) (core int, release func(), err error) {
	runtime.LockOSThread()

	return -1, runtime.UnlockOSThread, errors.New("cpu: thread pinning is not supported on " + runtime.GOOS)
}
