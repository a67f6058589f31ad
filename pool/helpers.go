package pool

import "math"

// calcNumProcesses maps a power percentage to a worker count:
// round(maxProcesses * power/100), never below 1 and never above maxProcesses.
// For example, with 8 cores:
//   - power 0: 1 worker
//   - power 50: 4 workers
//   - power 70: 6 workers (5.6 rounded)
//   - power 250: 8 workers
func calcNumProcesses(power, maxProcesses int) int {
	if power < 0 {
		power = 0
	}

	n := int(math.Round(float64(maxProcesses) * float64(power) / 100))
	n = min(n, maxProcesses)
	return max(n, 1)
}

// WorkerCount returns how many workers a Run with the given power uses on an
// engine whose MaxProcesses is maxProcesses.
func WorkerCount(power, maxProcesses int) int {
	return calcNumProcesses(power, maxProcesses)
}
