package algorithms

import "time"

// BackoffType selects the retry delay algorithm.
type BackoffType int

const (
	// BackoffExponential doubles the delay on every retry (default).
	BackoffExponential BackoffType = iota
	// BackoffJittered randomizes each exponential delay by ±jitterFactor so
	// workers retrying the same failure do not line up.
	BackoffJittered
)

// NewBackoffStrategy builds the strategy for backoffType.
func NewBackoffStrategy(
	backoffType BackoffType,
	initialDelay, maxDelay time.Duration,
	jitterFactor float64,
) BackoffStrategy {
	switch backoffType {
	case BackoffJittered:
		return newJitteredBackoff(initialDelay, maxDelay, jitterFactor)

	default:
		return newExponentialBackoff(initialDelay, maxDelay)
	}
}
