package pool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// Tasks used by the tests. They are package-level so that the test binary,
// re-executed as a worker, registers them as well.
var (
	answerTask = DefineSimple("test.answer", func(context.Context) (int, error) {
		return 42, nil
	})

	pidTask = DefineSimple("test.pid", func(context.Context) (int, error) {
		return os.Getpid(), nil
	})

	doubleTask = DefineExtended("test.double", func(_ context.Context, chunk []int, _ Args) ([]int, error) {
		out := make([]int, len(chunk))
		for i, v := range chunk {
			out[i] = v * 2
		}
		return out, nil
	})

	chunkSizeTask = DefineExtended("test.chunk-size", func(_ context.Context, chunk []int, _ Args) ([]int, error) {
		return []int{len(chunk)}, nil
	})

	scaleTask = DefineExtended("test.scale", func(_ context.Context, chunk []float64, args Args) ([]float64, error) {
		factor, err := Arg[float64](args, "factor")
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(chunk))
		for i, v := range chunk {
			out[i] = v * factor
		}
		return out, nil
	})

	nilOutputTask = DefineExtended("test.nil-output", func(context.Context, []int, Args) ([]int, error) {
		return nil, nil
	})

	argCountTask = DefineExtended("test.arg-count", func(_ context.Context, chunk []int, args Args) ([]int, error) {
		return []int{len(args)}, nil
	})

	boomTask = Define("test.boom",
		func(context.Context) (string, error) {
			return "", errors.New("boom")
		},
		func(_ context.Context, chunk []int, _ Args) ([]string, error) {
			for _, v := range chunk {
				if v%7 == 0 {
					return nil, fmt.Errorf("boom at %d", v)
				}
			}
			return make([]string, len(chunk)), nil
		},
	)

	panicTask = DefineSimple("test.panic", func(context.Context) (string, error) {
		panic("kaboom")
	})

	exitTask = DefineSimple("test.exit", func(context.Context) (string, error) {
		os.Exit(3)
		return "", nil
	})

	sleepTask = DefineSimple("test.sleep", func(context.Context) (string, error) {
		time.Sleep(2 * time.Second)
		return "awake", nil
	})

	noisyTask = DefineSimple("test.noisy", func(context.Context) (string, error) {
		fmt.Println("this line must not reach the engine")
		return "quiet", nil
	})

	flakyCalls atomic.Int32
	flakyTask  = DefineSimple("test.flaky", func(context.Context) (int32, error) {
		n := flakyCalls.Add(1)
		if n < 3 {
			return 0, fmt.Errorf("attempt %d failed", n)
		}
		return n, nil
	})
)
