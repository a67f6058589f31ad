// Package pool runs CPU-bound Go functions in parallel across worker
// processes on the local machine and returns their outputs with execution
// statistics.
//
// Workers are copies of the running binary. A task is a named function
// registered at package initialization; the engine sends the name and the
// input over the worker's stdin and reads the output back from its stdout, so
// nothing but data ever crosses the process boundary.
//
// # Setup
//
// The binary must hand control to the worker loop before doing anything else:
//
//	func main() {
//	    pool.ServeIfWorker()
//
//	    engine, err := pool.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer engine.Teardown()
//	    ...
//	}
//
// Test binaries do the same from TestMain.
//
// # Defining Tasks
//
// Tasks are package-level variables so that every worker registers them too:
//
//	var randomNumber = pool.DefineSimple("random-number", func(ctx context.Context) (int, error) {
//	    return rand.IntN(100), nil
//	})
//
//	var upper = pool.DefineExtended("upper", func(ctx context.Context, chunk []string, _ pool.Args) ([]string, error) {
//	    out := make([]string, len(chunk))
//	    for i, s := range chunk {
//	        out[i] = strings.ToUpper(s)
//	    }
//	    return out, nil
//	})
//
// # Execution Types
//
//   - Simple: the task runs once on every selected worker, with no input.
//     Data has one output per worker.
//   - Extended: the input is split into one contiguous chunk per worker and
//     the chunk outputs are concatenated in input order.
//
//	res, err := pool.Run(ctx, engine, upper, words, pool.WithType(pool.Extended), pool.WithPower(100))
//
// # Power
//
// WithPower picks the share of MaxProcesses a call uses (default 70). The
// worker count is round(MaxProcesses*power/100), at least 1 and at most
// MaxProcesses. A call that needs more workers than the pool has rebuilds it
// at the larger size; a call that needs fewer uses the first ones and leaves
// the pool as it is.
//
// # Failures
//
// A task error or panic fails its own work item only, but Run waits for all
// items and then fails with a *TaskError for the lowest failing index. No
// partial data is returned. Opt-in retries are configured with
// WithRetryPolicy and WithBackoff.
package pool
