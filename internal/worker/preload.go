package worker

import (
	"context"
	"sync"

	"github.com/driftgate/driftgate/internal/source"
)

// Target is one distinct resolved path to pre-warm
type Target struct {
	Path     string
	NeedTree bool // Whether any AST matcher targets this path
}

// Preloader warms a per-run source store concurrently before the
// sequential evaluation pass. Warming is purely a performance
// optimization: the store is write-once per key, and any read or parse
// error is swallowed here because the ordered evaluation pass will hit
// the same path again and surface the error deterministically.
type Preloader struct {
	store   *source.Store
	workers int
}

// NewPreloader creates a preloader with the given concurrency
func NewPreloader(store *source.Store, workers int) *Preloader {
	if workers <= 0 {
		workers = 1
	}
	return &Preloader{store: store, workers: workers}
}

// Warm reads (and parses, where needed) every existing target path
func (p *Preloader) Warm(ctx context.Context, targets []Target) {
	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.workers)

	for _, target := range targets {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			if !source.Exists(t.Path) {
				return
			}
			if t.NeedTree {
				_, _, _ = p.store.Tree(t.Path)
				return
			}
			_, _ = p.store.Text(t.Path)
		}(target)
	}

	wg.Wait()
}
