//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
//
// cpuID wraps around runtime.NumCPU(), so worker IDs can be passed directly.
func pinToCore(cpuID int) (int, error) {
	numCPU := runtime.NumCPU()
	if cpuID < 0 || cpuID >= numCPU {
		cpuID = ((cpuID % numCPU) + numCPU) % numCPU
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return 0, err
	}

	return cpuID, nil
}

// PinWorker locks the calling goroutine to its OS thread and pins that thread
// to the core chosen for workerID. A worker process calls this on the
// goroutine that executes tasks. The returned function undoes the lock.
func PinWorker(workerID int) (core int, release func(), err error) {
	runtime.LockOSThread()
	core, err = pinToCore(workerID)

	return core, runtime.UnlockOSThread, err
}
