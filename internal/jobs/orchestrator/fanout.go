package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FanOut runs fn for every index in [0, n) with at most limit in flight
// (unbounded when limit <= 0). Results land in a slot per index, so completion
// order never matters. The first error cancels the remaining units and is
// returned; no partial results are returned with it.
func FanOut[T any](ctx context.Context, limit, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	out := make([]T, n)
	if n == 0 {
		return out, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(gctx, i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
