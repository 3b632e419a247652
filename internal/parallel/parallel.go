// Package parallel runs independent per-channel work across goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Workers int // Maximum concurrent goroutines; 1 or less runs inline.
	MinWork int // For runs inline when n is below this.
}

// DefaultConfig uses every available CPU and parallelizes from 4 items.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		MinWork: 4,
	}
}

// For calls f(i) for every i in [0, n) and returns once all calls are done.
// Calls for distinct i may run concurrently, so f must only write state
// owned by item i.
func For(n int, f func(i int), cfg Config) {
	if cfg.Workers <= 1 || n < max(cfg.MinWork, 2) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			f(i)
			return nil
		})
	}
	_ = g.Wait()
}
