//go:build !linux && !darwin

package cpu

// FreeMemory is not reported on this platform.
func FreeMemory() (uint64, bool) {
	return 0, false
}

// TotalMemory is not reported on this platform.
func TotalMemory() (uint64, bool) {
	return 0, false
}

// LoadAverage is not reported on this platform.
func LoadAverage() (float64, bool) {
	return 0, false
}
