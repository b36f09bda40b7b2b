package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map runs fn for every index in [0, n) and returns the results in index
// order. At most limit calls run at once; limit <= 0 means no limit. The
// first error cancels the context passed to the remaining calls and is
// returned once every started call has finished.
func Map[R any](ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (R, error)) ([]R, error) {
	out := make([]R, n)
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, i)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// Each is Map for calls without a result.
func Each(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	_, err := Map(ctx, n, limit, func(ctx context.Context, i int) (struct{}, error) {
		return struct{}{}, fn(ctx, i)
	})
	return err
}
