//go:build darwin

package cpu

import "golang.org/x/sys/unix"

// FreeMemory returns free physical memory in bytes.
func FreeMemory() (uint64, bool) {
	pages, err := unix.SysctlUint32("vm.page_free_count")
	if err != nil {
		return 0, false
	}
	return uint64(pages) * uint64(unix.Getpagesize()), true
}

// TotalMemory returns total physical memory in bytes.
func TotalMemory() (uint64, bool) {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, false
	}
	return total, true
}

// LoadAverage is not reported on macOS.
func LoadAverage() (float64, bool) {
	return 0, false
}
