package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Result holds a value or an error for callers that tolerate partial failure.
type Result[T any] struct {
	Value T
	Err   error
}

// Settle2 runs both functions concurrently and waits for both. Unlike an
// errgroup with context, one failure does not cancel the other; each result
// carries its own error.
//
//	usage, sub := Settle2(ctx,
//	    func(ctx context.Context) (*domain.Usage, error) { return billing.Usage(ctx, token) },
//	    func(ctx context.Context) (*domain.Subscription, error) { return billing.Subscription(ctx, token) },
//	)
func Settle2[T1, T2 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
) (Result[T1], Result[T2]) {
	var (
		g  errgroup.Group
		r1 Result[T1]
		r2 Result[T2]
	)

	g.Go(func() error {
		r1.Value, r1.Err = fn1(ctx)
		return nil
	})

	g.Go(func() error {
		r2.Value, r2.Err = fn2(ctx)
		return nil
	})

	_ = g.Wait()

	return r1, r2
}

// FanOut distributes items across a fixed number of workers and stops
// feeding new items after the first error.
//
//	err := FanOut(ctx, 4, workspaces, func(ctx context.Context, ws *workspace) error {
//	    return ws.close()
//	})
func FanOut[T any](ctx context.Context, workers int, items []T, fn func(context.Context, T) error) error {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	itemChan := make(chan T)

	for range workers {
		g.Go(func() error {
			for item := range itemChan {
				if err := fn(ctx, item); err != nil {
					return err
				}
			}

			return nil
		})
	}

	g.Go(func() error {
		defer close(itemChan)

		for _, item := range items {
			select {
			case itemChan <- item:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("fan out failed: %w", err)
	}

	return nil
}
