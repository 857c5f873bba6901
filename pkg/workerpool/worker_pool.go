// Package workerpool fans work out across a bounded number of goroutines
// pulling from a shared channel of indices — the same work-stealing shape
// as a classic dispatcher/worker pool, stripped of the parts the driver
// (spec §4.5) doesn't need: no task queue, no per-task timeout, no
// cancellation. Per spec §5, a per-source computation is self-contained and
// never blocks, so there is nothing for a deadline or a cancel signal to
// interrupt.
package workerpool

import (
	"runtime"
	"sync"
)

// WorkerPoolConfig controls how many goroutines Run uses.
type WorkerPoolConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// Resolve returns MaxWorkers, defaulting to runtime.NumCPU() when unset.
func (c WorkerPoolConfig) Resolve() int {
	if c.MaxWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.MaxWorkers
}

// Run calls fn once for every index in [0, n), across up to config's
// MaxWorkers goroutines, and returns the results indexed the same way.
// Workers pull indices off a shared channel, so a worker that finishes an
// expensive index immediately steals the next one instead of sitting idle
// (spec §5's "embarrassingly parallel... no task-to-task synchronization").
func Run[T any](config WorkerPoolConfig, n int, fn func(i int) T) []T {
	results := make([]T, n)
	if n == 0 {
		return results
	}

	workers := config.Resolve()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = fn(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}
