package dynamo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelFor calls fn over [0, n) split into at most workers contiguous
// chunks and returns once every chunk is done. Ranges no longer than
// minChunk, or a single worker, run inline on the calling goroutine.
func ParallelFor(n, workers, minChunk int, fn func(start, end int)) {
	_ = ParallelForContext(context.Background(), n, workers, minChunk, func(_ context.Context, start, end int) error {
		fn(start, end)
		return nil
	})
}

// ParallelForContext is ParallelFor for chunks that can fail. The context
// passed to fn is cancelled as soon as one chunk returns an error, and the
// first such error is returned.
func ParallelForContext(ctx context.Context, n, workers, minChunk int, fn func(ctx context.Context, start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		return fn(ctx, 0, n)
	}
	workers = min(workers, max(n/minChunk, 1))
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error { return fn(gctx, start, end) })
	}
	return g.Wait()
}
