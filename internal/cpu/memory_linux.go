//go:build linux

package cpu

import "golang.org/x/sys/unix"

// loadShift is SI_LOAD_SHIFT from <linux/kernel.h>.
const loadShift = 16

// FreeMemory returns free physical memory in bytes.
func FreeMemory() (uint64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return uint64(info.Freeram) * uint64(info.Unit), true
}

// TotalMemory returns total physical memory in bytes.
func TotalMemory() (uint64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return uint64(info.Totalram) * uint64(info.Unit), true
}

// LoadAverage returns the 1-minute load average.
func LoadAverage() (float64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return float64(info.Loads[0]) / float64(1<<loadShift), true
}
