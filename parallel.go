package subband

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelFor runs fn for every index in [0, n) on at most workers
// goroutines. Callers write results into pre-allocated slots by index so
// output order never depends on scheduling.
func parallelFor(n, workers int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)
	if workers == 1 {
		for i := 0; i < n; i += 1 {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	chunk := (n + workers - 1) / workers
	g := new(errgroup.Group)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i += 1 {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
