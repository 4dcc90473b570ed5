package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/frontier"
)

// WorkerFunc processes one morsel and is called repeatedly by the same
// worker goroutine until its dispatcher is drained.
type WorkerFunc func(m frontier.Morsel) error

// NewWorker is invoked exactly once per worker goroutine, before that
// worker claims its first morsel — this is where a compute value's Clone is
// called, giving each worker an independent, non-racing instance.
type NewWorker func() WorkerFunc

// Run schedules numWorkers goroutines against dispatcher, each built via
// newWorker, until every morsel has been claimed. The first error from any
// worker — including one observed from interrupted — cancels the rest and
// is returned; a drained dispatcher with no error returns nil. The calling
// goroutine blocks in Wait without holding a semaphore weight, so it never
// counts against the k-worker budget.
func Run(ctx context.Context, numWorkers int, dispatcher *frontier.Dispatcher, interrupted func() bool, newWorker NewWorker) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	sem := semaphore.NewWeighted(int64(numWorkers))
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			work := newWorker()
			for {
				if interrupted != nil && interrupted() {
					return core.ErrInterrupted
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				m, ok := dispatcher.Next()
				if !ok {
					return nil
				}
				if err := work(m); err != nil {
					return err
				}
			}
		})
	}

	return g.Wait()
}
