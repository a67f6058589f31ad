//go:build darwin

package cpu

import (
	"errors"
	"runtime"
)

var errPinningUnsupported = errors.New("cpu: thread pinning is not available on macOS")

// PinWorker locks the goroutine to an OS thread.
// CPU pinning is not available on macOS, so the returned error is always set
// and core is -1.
func PinWorker(workerID int) (core int, release func(), err error) {
	runtime.LockOSThread()

	return -1, runtime.UnlockOSThread, errPinningUnsupported
}
