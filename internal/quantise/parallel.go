package quantise

import (
	"runtime"
	"sync"
)

// minChunk is the smallest slice of work worth handing to its own goroutine.
const minChunk = 4096

// resolveWorkers turns a configured worker count into a usable one.
func resolveWorkers(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// splitRange returns the half-open bounds of chunk `worker` when n items are
// divided into `workers` contiguous chunks.
func splitRange(n, workers, worker int) (int, int) {
	base := n / workers
	rem := n % workers
	start := worker*base + min(worker, rem)
	end := start + base
	if worker < rem {
		end++
	}
	return start, end
}

// parallelFor runs fn over [0, n) split into contiguous chunks. Each index is
// visited exactly once, so results written by index are independent of scheduling.
func parallelFor(n, workers int, fn func(start, end int)) {
	workers = min(resolveWorkers(workers), max(n/minChunk, 1))
	if workers <= 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	for w := range workers {
		start, end := splitRange(n, workers, w)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	wg.Wait()
}
