// Package usecase contains the orchestration layer shared by the research
// tools: bounded fan-out of independent per-item work with a join barrier.
package usecase

import (
	"context"
	"sync"
)

// FanOut runs fn over items with at most workers concurrent goroutines and
// blocks until every item has been processed (join barrier). The result
// slice is indexed by input position, so completion order never leaks into
// aggregation. Workers never communicate with each other; each one writes
// only its own slot.
//
// fn is responsible for honoring ctx: on cancellation, pending items still
// pass through fn, which is expected to fail fast with a per-item outcome.
func FanOut[I, O any](ctx context.Context, items []I, workers int, fn func(ctx context.Context, item I) O) []O {
	results := make([]O, len(items))
	if len(items) == 0 {
		return results
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = fn(ctx, items[i])
			}
		}()
	}

	for i := range items {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
