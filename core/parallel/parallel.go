// Package parallel splits row-independent work into contiguous chunks and
// runs them on a bounded set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count below which inference loops stay sequential.
const DefaultThreshold = 1000

// Parallelize splits [0, items) into at most runtime.NumCPU() contiguous
// ranges and calls fn once per range concurrently. It returns after every
// call has finished.
func Parallelize(items int, fn func(start, end int)) {
	_ = ParallelizeErr(items, func(start, end int) error {
		fn(start, end)
		return nil
	})
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items <= threshold, and Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}

// ParallelizeErr is Parallelize for chunk functions that can fail. Every chunk
// runs to completion; the error of the lowest-indexed failing chunk is returned
// so the reported failure does not depend on scheduling.
func ParallelizeErr(items int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}
	chunk := (items + workers - 1) / workers

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, items)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			errs[w] = fn(s, e)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ParallelizeErrWithThreshold is the failing counterpart of ParallelizeWithThreshold.
func ParallelizeErrWithThreshold(items, threshold int, fn func(start, end int) error) error {
	if items <= threshold {
		if items <= 0 {
			return nil
		}
		return fn(0, items)
	}
	return ParallelizeErr(items, fn)
}
