package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool runs indexed work items on a bounded number of goroutines.
// A Pool holds no goroutines between calls and is safe for concurrent use.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given concurrency limit.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// For calls fn(ctx, i) for every i in [0, n) and waits for all calls to
// return. The first error cancels the context passed to the remaining
// calls and is returned. Work runs on the calling goroutine when n or the
// pool size is 1.
func (p *Pool) For(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	if n == 1 || p.workers == 1 {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
