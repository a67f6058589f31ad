// Package algorithms holds the retry delay policies used when a failed task is
// re-sent to its worker.
package algorithms

import "time"

// BackoffStrategy computes how long to wait before re-sending a failed task.
type BackoffStrategy interface {
	// NextDelay returns the wait before retry number attemptNumber
	// (0 = first retry after the initial failure).
	NextDelay(attemptNumber int) time.Duration
}
