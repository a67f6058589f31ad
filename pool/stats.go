package pool

import (
	"math"
	"strconv"
	"time"

	"github.com/utkarsh5026/turbit/internal/cpu"
)

var byteUnits = [...]string{"Bytes", "KB", "MB", "GB", "TB"}

// statsCollector samples wall time and host free memory around a run.
type statsCollector struct {
	start      time.Time
	freeBefore uint64
}

func startStats() *statsCollector {
	free, _ := cpu.FreeMemory()
	return &statsCollector{
		start:      time.Now(),
		freeBefore: free,
	}
}

func (s *statsCollector) finish(workersUsed, dataProcessed int) Stats {
	elapsed := time.Since(s.start)
	freeAfter, _ := cpu.FreeMemory()
	delta := int64(s.freeBefore) - int64(freeAfter)

	return Stats{
		TimeTakenSeconds: elapsed.Seconds(),
		NumProcessesUsed: workersUsed,
		DataProcessed:    dataProcessed,
		MemoryUsed:       FormatBytes(delta),
		MemoryDeltaBytes: delta,
	}
}

// FormatBytes renders a byte count in base-1024 units up to TB. Whole values
// print without decimals, others with two: 1024 is "1 KB", 1536 is "1.50 KB".
// Negative counts keep their sign.
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}

	sign := ""
	mag := float64(n)
	if n < 0 {
		sign = "-"
		mag = -mag
	}

	idx := 0
	for mag >= 1024 && idx < len(byteUnits)-1 {
		mag /= 1024
		idx++
	}

	var num string
	if mag == math.Trunc(mag) {
		num = strconv.FormatFloat(mag, 'f', 0, 64)
	} else {
		num = strconv.FormatFloat(mag, 'f', 2, 64)
	}
	return sign + num + " " + byteUnits[idx]
}
