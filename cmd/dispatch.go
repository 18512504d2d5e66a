package cmd

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dispatcher runs n independent tasks. fn returns an error only when the
// whole run must stop. Tasks which haven't started when that happens, or when
// ctx is cancelled, are never started.
type Dispatcher interface {
	Dispatch(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}

// NewDispatcher returns a Pool with the given number of workers, or a
// Sequential dispatcher if there is only one.
func NewDispatcher(workers int) Dispatcher {
	if workers <= 1 {
		return Sequential{}
	}
	return Pool{Workers: workers}
}

// Sequential runs tasks one at a time in order.
type Sequential struct{}

func (Sequential) Dispatch(
	ctx context.Context, n int, fn func(ctx context.Context, i int) error,
) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// Pool runs up to Workers tasks at once. Tasks are started in order, but may
// finish in any order.
type Pool struct {
	Workers int
}

func (p Pool) Dispatch(
	ctx context.Context, n int, fn func(ctx context.Context, i int) error,
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error { return fn(gctx, i) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
