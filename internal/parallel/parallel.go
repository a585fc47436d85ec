// Package parallel fans batched, element-independent work out over
// contiguous index ranges.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinChunk is the smallest range handed to a worker. Batches at or below it
// run on the calling goroutine.
const MinChunk = 1024

// For splits [0, n) into contiguous chunks and runs fn on each, using up to
// GOMAXPROCS goroutines. Chunks write disjoint output ranges, so fn needs no
// locking. The returned error is the one from the lowest failing chunk.
func For(n int, fn func(lo, hi int) error) error {
	workers := runtime.GOMAXPROCS(0)
	if n <= MinChunk || workers == 1 {
		if n == 0 {
			return nil
		}
		return fn(0, n)
	}

	chunk := max((n+workers-1)/workers, MinChunk)
	nchunks := (n + chunk - 1) / chunk
	errs := make([]error, nchunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for c := 0; c < nchunks; c++ {
		lo := c * chunk
		hi := min(lo+chunk, n)
		g.Go(func() error {
			errs[c] = fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ForContext is like For but stops handing out chunks once ctx is done or a
// chunk fails, and limits concurrency to limit (GOMAXPROCS if <= 0).
func ForContext(ctx context.Context, n, chunk, limit int, fn func(ctx context.Context, lo, hi int) error) error {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if chunk <= 0 {
		chunk = MinChunk
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for lo := 0; lo < n; lo += chunk {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return fn(gctx, lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
