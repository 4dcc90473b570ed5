package pagerank_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/gdsgraph"
	"github.com/kuzudb/gds-core/pagerank"
	"github.com/kuzudb/gds-core/result"
)

const (
	nodeTable core.TableID = 1
	edgeTable core.TableID = 2
)

// buildStarGraph wires a 4-node directed star: every spoke points at the
// hub, so the hub should end up with a far larger rank than any spoke.
func buildStarGraph(t *testing.T) *gdsgraph.Graph {
	b := gdsgraph.NewBuilder().
		AddNodeTable(nodeTable, 4).
		AddRelTable(core.RelTableInfo{FromTable: nodeTable, RelTable: edgeTable, ToTable: nodeTable})
	b.AddEdge(edgeTable, 1, 0, 1)
	b.AddEdge(edgeTable, 2, 0, 1)
	b.AddEdge(edgeTable, 3, 0, 1)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestRun_HubOutranksSpokes(t *testing.T) {
	g := buildStarGraph(t)
	ectx := gdsgraph.NewExecutionContext(context.Background(), 2)
	out := result.New("nodeID", "rank")

	cfg := gdsconfig.New(gdsconfig.WithMaxIterations(50), gdsconfig.WithTolerance(1e-10))
	require.NoError(t, pagerank.Run(context.Background(), ectx, g, cfg, out))

	ranks := make(map[int64]float64, 4)
	var sum float64
	for _, row := range out.Rows() {
		off := int64(row[0].(core.NodeID).Offset)
		r := row[1].(float64)
		ranks[off] = r
		sum += r
	}

	require.InDelta(t, 1.0, sum, 1e-6)
	require.Greater(t, ranks[0], ranks[1])
	require.Greater(t, ranks[0], ranks[2])
	require.Greater(t, ranks[0], ranks[3])
}

func TestRun_EmptyGraph(t *testing.T) {
	b := gdsgraph.NewBuilder().
		AddNodeTable(nodeTable, 0).
		AddRelTable(core.RelTableInfo{FromTable: nodeTable, RelTable: edgeTable, ToTable: nodeTable})
	g, err := b.Build()
	require.NoError(t, err)

	ectx := gdsgraph.NewExecutionContext(context.Background(), 1)
	out := result.New("nodeID", "rank")
	require.NoError(t, pagerank.Run(context.Background(), ectx, g, gdsconfig.New(), out))
	require.Equal(t, 0, out.Len())
}
