package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/core"
)

func TestTableIDMap_SetGetMustGet(t *testing.T) {
	m := core.NewTableIDMap[string]()
	m.Set(1, "alpha")
	m.Set(2, "beta")

	v, ok := m.Get(1)
	require.True(t, ok)
	require.Equal(t, "alpha", v)

	_, ok = m.Get(99)
	require.False(t, ok)

	require.Equal(t, "beta", m.MustGet(2))
	require.ElementsMatch(t, []core.TableID{1, 2}, m.Tables())
}

func TestTableIDMap_MustGet_PanicsOnUnknownTable(t *testing.T) {
	m := core.NewTableIDMap[int]()
	require.PanicsWithValue(t, core.ErrUnknownTable, func() { m.MustGet(5) })
}

func TestTableIDMap_PinPinned(t *testing.T) {
	m := core.NewTableIDMap[int]()
	m.Set(1, 10)
	m.Set(2, 20)

	require.ErrorIs(t, m.Pin(99), core.ErrUnknownTable)

	require.NoError(t, m.Pin(2))
	require.Equal(t, 20, m.Pinned())
	tbl, ok := m.PinnedTable()
	require.True(t, ok)
	require.Equal(t, core.TableID(2), tbl)
}

func TestTableIDMap_Pinned_PanicsBeforeFirstPin(t *testing.T) {
	m := core.NewTableIDMap[int]()
	require.PanicsWithValue(t, core.ErrNotPinned, func() { m.Pinned() })
}

func TestTableIDMap_Set_OverwritesPreviousValue(t *testing.T) {
	m := core.NewTableIDMap[int]()
	m.Set(1, 10)
	m.Set(1, 20)
	require.Equal(t, 20, m.MustGet(1))
}
