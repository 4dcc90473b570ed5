package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/scheduler"
)

func TestRun_DrainsEveryMorselExactlyOnce(t *testing.T) {
	const maxOffset = 4000
	const numWorkers = 4
	dispatcher := frontier.NewDispatcher(maxOffset, numWorkers)

	var mu sync.Mutex
	var total uint64

	err := scheduler.Run(context.Background(), numWorkers, dispatcher, nil, func() scheduler.WorkerFunc {
		return func(m frontier.Morsel) error {
			mu.Lock()
			total += m.Len()
			mu.Unlock()
			return nil
		}
	})
	require.NoError(t, err)
	require.Equal(t, uint64(maxOffset), total)
}

func TestRun_WorkerErrorPropagatesAndCancelsRest(t *testing.T) {
	dispatcher := frontier.NewDispatcher(10000, 4)
	boom := errors.New("boom")

	err := scheduler.Run(context.Background(), 4, dispatcher, nil, func() scheduler.WorkerFunc {
		return func(m frontier.Morsel) error {
			return boom
		}
	})
	require.ErrorIs(t, err, boom)
}

func TestRun_InterruptedStopsWork(t *testing.T) {
	dispatcher := frontier.NewDispatcher(100000, 2)
	var calls int32
	interrupted := func() bool { return true }

	err := scheduler.Run(context.Background(), 2, dispatcher, interrupted, func() scheduler.WorkerFunc {
		return func(m frontier.Morsel) error {
			calls++
			return nil
		}
	})
	require.Error(t, err)
}

func TestRun_ZeroWorkersFallsBackToOne(t *testing.T) {
	dispatcher := frontier.NewDispatcher(10, 0)
	var seen int
	err := scheduler.Run(context.Background(), 0, dispatcher, nil, func() scheduler.WorkerFunc {
		return func(m frontier.Morsel) error {
			seen++
			return nil
		}
	})
	require.NoError(t, err)
	require.Greater(t, seen, 0)
}
