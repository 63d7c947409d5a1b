package reconcile

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// forEachIndexed calls fn for every index in [0, n) using at most limit goroutines.
// Workers pull the next unclaimed index, so one slow call never holds back the
// remaining work. The first error cancels the context handed to fn and is returned.
func forEachIndexed(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}

	workers := min(max(limit, 1), n)

	var cursor atomic.Int64
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(cursor.Add(1) - 1)
				if i >= n {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(gctx, i); err != nil {
					return err
				}
			}
		})
	}

	return g.Wait()
}
