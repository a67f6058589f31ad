// Package cpu exposes the host facts the engine sizes itself by: core count,
// free memory, load, and per-thread core pinning for worker processes.
package cpu

import "runtime"

// GetNumCPU returns the number of logical CPUs available.
func GetNumCPU() int {
	return runtime.NumCPU()
}

// MemoryUsagePercent returns the share of physical memory in use, in [0,100].
// ok is false when the platform does not report memory figures.
func MemoryUsagePercent() (pct float64, ok bool) {
	total, tok := TotalMemory()
	free, fok := FreeMemory()
	if !tok || !fok || total == 0 {
		return 0, false
	}

	return float64(total-free) / float64(total) * 100, true
}
