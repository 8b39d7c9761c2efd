// Package concurrency provides a bounded fan-out helper used for per-course
// provider calls.
package concurrency

import (
	"context"
	"sync"
)

// Options configures ProcessParallel.
type Options struct {
	// MaxWorkers caps the number of concurrent workers. Zero or negative
	// falls back to the default.
	MaxWorkers int
}

// DefaultOptions returns the default worker pool size.
func DefaultOptions() Options {
	return Options{MaxWorkers: 10}
}

// ProcessParallel runs itemFunc over items with a bounded worker pool and
// returns the results in input order. The returned error slice collects every
// per-item failure; the result slot for a failed item holds the zero value.
// Once ctx is canceled, unclaimed items fail with ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts Options,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	type outcome struct {
		index  int
		result R
		err    error
	}

	jobs := make(chan int, len(items))
	results := make(chan outcome, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jobIndex := range jobs {
				// Every claimed job reports exactly one outcome, so the
				// collector below never blocks short of len(items).
				if err := ctx.Err(); err != nil {
					var zero R
					results <- outcome{index: jobIndex, result: zero, err: err}
					continue
				}
				result, err := itemFunc(ctx, jobIndex, items[jobIndex])
				results <- outcome{index: jobIndex, result: result, err: err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	resultList := make([]R, len(items))
	var errs []error
	for i := 0; i < len(items); i++ {
		res := <-results
		if res.err != nil {
			errs = append(errs, res.err)
		}
		resultList[res.index] = res.result
	}
	return resultList, errs
}
