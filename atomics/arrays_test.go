package atomics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/atomics"
	"github.com/kuzudb/gds-core/core"
)

func TestUint32Array_LoadStoreReset(t *testing.T) {
	a := atomics.NewUint32Array(4, 7)
	require.Equal(t, 4, a.Len())
	require.Equal(t, uint32(7), a.Load(2))

	a.Store(2, 99)
	require.Equal(t, uint32(99), a.Load(2))

	a.Reset(1)
	for i := core.Offset(0); i < 4; i++ {
		require.Equal(t, uint32(1), a.Load(i))
	}
}

func TestUint32Array_CompareAndSwap(t *testing.T) {
	a := atomics.NewUint32Array(1, 0)
	require.True(t, a.CompareAndSwap(0, 0, 5))
	require.False(t, a.CompareAndSwap(0, 0, 9))
	require.Equal(t, uint32(5), a.Load(0))
}

func TestUint64Array_FetchAddFetchSub(t *testing.T) {
	a := atomics.NewUint64Array(1, 0)
	prev := a.FetchAdd(0, 3)
	require.Equal(t, uint64(0), prev)
	require.Equal(t, uint64(3), a.Load(0))

	next := a.FetchSub(0, 1)
	require.Equal(t, uint64(2), next)
}

func TestUint64Array_FetchSubSaturatesAtZero(t *testing.T) {
	a := atomics.NewUint64Array(1, 2)
	next := a.FetchSub(0, 10)
	require.Equal(t, uint64(0), next)
}

func TestUint64Array_FetchAddSignedRoundTrips(t *testing.T) {
	a := atomics.NewUint64Array(1, 10)
	a.FetchAddSigned(0, -3)
	require.Equal(t, uint64(7), a.Load(0))
	a.FetchAddSigned(0, 5)
	require.Equal(t, uint64(12), a.Load(0))
}

func TestUint64Array_CASIfLess(t *testing.T) {
	a := atomics.NewUint64Array(1, 10)
	require.True(t, a.CASIfLess(0, 5))
	require.Equal(t, uint64(5), a.Load(0))
	require.False(t, a.CASIfLess(0, 5))
	require.False(t, a.CASIfLess(0, 6))
}

func TestUint64Array_CASIfLess_ConcurrentKeepsMinimum(t *testing.T) {
	a := atomics.NewUint64Array(1, 1000)
	var wg sync.WaitGroup
	for _, v := range []uint64{50, 10, 900, 3, 77} {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			a.CASIfLess(0, v)
		}(v)
	}
	wg.Wait()
	require.Equal(t, uint64(3), a.Load(0))
}

func TestFloat64Array_LoadStoreFetchAdd(t *testing.T) {
	a := atomics.NewFloat64Array(2, 1.5)
	require.Equal(t, 2, a.Len())
	require.InDelta(t, 1.5, a.Load(0), 1e-9)

	a.Store(1, 2.25)
	require.InDelta(t, 2.25, a.Load(1), 1e-9)

	got := a.FetchAdd(0, 0.5)
	require.InDelta(t, 2.0, got, 1e-9)
	require.InDelta(t, 2.0, a.Load(0), 1e-9)
}

func TestFloat64Array_CASIfLess(t *testing.T) {
	a := atomics.NewFloat64Array(1, 10.0)
	require.True(t, a.CASIfLess(0, 4.0))
	require.False(t, a.CASIfLess(0, 4.0))
	require.False(t, a.CASIfLess(0, 9.0))
	require.InDelta(t, 4.0, a.Load(0), 1e-9)
}

func TestFloat64Array_CASIfLess_RejectsNaN(t *testing.T) {
	a := atomics.NewFloat64Array(1, 1.0)
	nan := nanValue()
	require.False(t, a.CASIfLess(0, nan))
	require.InDelta(t, 1.0, a.Load(0), 1e-9)
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestFloat64Array_Reset(t *testing.T) {
	a := atomics.NewFloat64Array(3, 1.0)
	a.Store(1, 42.0)
	a.Reset(0.0)
	for i := core.Offset(0); i < 3; i++ {
		require.Equal(t, 0.0, a.Load(i))
	}
}
