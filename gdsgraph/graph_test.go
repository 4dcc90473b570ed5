package gdsgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/gdsgraph"
)

const (
	personTable core.TableID = 1
	knowsTable  core.TableID = 2
)

func buildTriangle(t *testing.T) *gdsgraph.Graph {
	b := gdsgraph.NewBuilder().
		AddNodeTable(personTable, 3).
		AddRelTable(core.RelTableInfo{FromTable: personTable, RelTable: knowsTable, ToTable: personTable})
	b.AddEdge(knowsTable, 0, 1, 1)
	b.AddEdge(knowsTable, 1, 2, 2)
	b.AddEdge(knowsTable, 2, 0, 3)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestGraph_ScanFwdBwd(t *testing.T) {
	g := buildTriangle(t)
	assert.Equal(t, uint64(3), g.MaxOffset(personTable))

	state, err := g.PrepareRelScan(personTable, knowsTable, personTable, nil, false)
	require.NoError(t, err)

	it, err := g.ScanFwd(core.NodeID{Table: personTable, Offset: 0}, state)
	require.NoError(t, err)
	chunk, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, 1, chunk.Len())
	chunk.ForEach(func(nbr core.NodeID, edge core.EdgeID, i int) {
		assert.Equal(t, core.Offset(1), nbr.Offset)
	})
	w, ok := chunk.Weight(0)
	require.True(t, ok)
	assert.Equal(t, 1.0, w)

	_, ok = it.Next()
	assert.False(t, ok)

	itBwd, err := g.ScanBwd(core.NodeID{Table: personTable, Offset: 0}, state)
	require.NoError(t, err)
	chunkBwd, ok := itBwd.Next()
	require.True(t, ok)
	chunkBwd.ForEach(func(nbr core.NodeID, edge core.EdgeID, i int) {
		assert.Equal(t, core.Offset(2), nbr.Offset) // 2 -> 0 is the only incoming edge
	})
}

func TestBuilder_UnknownNodeTable(t *testing.T) {
	b := gdsgraph.NewBuilder()
	b.AddEdge(knowsTable, 0, 1, 1)
	_, err := b.Build()
	assert.ErrorIs(t, err, gdsgraph.ErrUnknownNodeTable)
}
