package varlen_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/gdsgraph"
	"github.com/kuzudb/gds-core/result"
	"github.com/kuzudb/gds-core/varlen"
	"github.com/kuzudb/gds-core/writer"
)

const (
	nodeTable core.TableID = 1
	edgeTable core.TableID = 2
)

// buildFourCycle wires a directed 4-cycle 0-1-2-3-0.
func buildFourCycle(t *testing.T) *gdsgraph.Graph {
	b := gdsgraph.NewBuilder().
		AddNodeTable(nodeTable, 4).
		AddRelTable(core.RelTableInfo{FromTable: nodeTable, RelTable: edgeTable, ToTable: nodeTable})
	b.AddEdge(edgeTable, 0, 1, 1)
	b.AddEdge(edgeTable, 1, 2, 1)
	b.AddEdge(edgeTable, 2, 3, 1)
	b.AddEdge(edgeTable, 3, 0, 1)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestRun_FourCycleTwoAcyclicPaths(t *testing.T) {
	g := buildFourCycle(t)
	ectx := gdsgraph.NewExecutionContext(context.Background(), 1)
	out := result.New("src", "dst", "length", "direction", "pathNodeIDs", "pathEdgeIDs")

	source := core.NodeID{Table: nodeTable, Offset: 0}
	dest := core.NodeID{Table: nodeTable, Offset: 2}
	opts := writer.PathOptions{Semantic: writer.Acyclic, LowerBound: 1}
	cfg := gdsconfig.New(gdsconfig.WithMaxIterations(3))

	err := varlen.Run(context.Background(), ectx, g, source, core.BOTH, []core.NodeID{dest}, opts, cfg, out)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	for _, row := range out.Rows() {
		require.Equal(t, int64(2), row[2])
	}
}

func TestRun_EmptyPathWhenSourceIsDestination(t *testing.T) {
	// A forward-only chain: nothing ever walks back into the source, so the
	// only src-to-src path is the empty one.
	b := gdsgraph.NewBuilder().
		AddNodeTable(nodeTable, 3).
		AddRelTable(core.RelTableInfo{FromTable: nodeTable, RelTable: edgeTable, ToTable: nodeTable})
	b.AddEdge(edgeTable, 0, 1, 1)
	b.AddEdge(edgeTable, 1, 2, 1)
	g, err := b.Build()
	require.NoError(t, err)

	ectx := gdsgraph.NewExecutionContext(context.Background(), 1)
	out := result.New("src", "dst", "length", "direction", "pathNodeIDs", "pathEdgeIDs")

	source := core.NodeID{Table: nodeTable, Offset: 0}
	opts := writer.PathOptions{Semantic: writer.Walk, LowerBound: 0}
	cfg := gdsconfig.New(gdsconfig.WithMaxIterations(2))

	err = varlen.Run(context.Background(), ectx, g, source, core.FWD, []core.NodeID{source}, opts, cfg, out)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	require.Equal(t, int64(0), out.Rows()[0][2])
}

func TestRun_CycleWalksBackToSource(t *testing.T) {
	g := buildFourCycle(t)
	ectx := gdsgraph.NewExecutionContext(context.Background(), 1)
	out := result.New("src", "dst", "length", "direction", "pathNodeIDs", "pathEdgeIDs")

	source := core.NodeID{Table: nodeTable, Offset: 0}
	opts := writer.PathOptions{Semantic: writer.Walk, LowerBound: 0}
	cfg := gdsconfig.New(gdsconfig.WithMaxIterations(2))

	err := varlen.Run(context.Background(), ectx, g, source, core.BOTH, []core.NodeID{source}, opts, cfg, out)
	require.NoError(t, err)

	// Two length-2 walks return to the source within the hop budget —
	// 0-1-0 and 0-3-0 — and their existence suppresses the empty path.
	require.Equal(t, 2, out.Len())
	for _, row := range out.Rows() {
		require.Equal(t, int64(2), row[2])
		nodes := row[4].([]core.NodeID)
		require.Equal(t, source, nodes[0])
		require.Equal(t, source, nodes[len(nodes)-1])
	}
}
