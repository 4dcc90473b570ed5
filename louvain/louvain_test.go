package louvain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/gdsgraph"
	"github.com/kuzudb/gds-core/louvain"
	"github.com/kuzudb/gds-core/result"
)

const (
	nodeTable core.TableID = 1
	edgeTable core.TableID = 2
)

func undirected(b *gdsgraph.Builder, u, v core.Offset) {
	b.AddEdge(edgeTable, u, v, 1)
	b.AddEdge(edgeTable, v, u, 1)
}

// buildTwoTrianglesOneBridge wires two triangles
// {0,1,2} and {3,4,5} linked by a single edge (2,3).
func buildTwoTrianglesOneBridge(t *testing.T) *gdsgraph.Graph {
	b := gdsgraph.NewBuilder().
		AddNodeTable(nodeTable, 6).
		AddRelTable(core.RelTableInfo{FromTable: nodeTable, RelTable: edgeTable, ToTable: nodeTable})
	undirected(b, 0, 1)
	undirected(b, 1, 2)
	undirected(b, 2, 0)
	undirected(b, 3, 4)
	undirected(b, 4, 5)
	undirected(b, 5, 3)
	undirected(b, 2, 3)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestRun_TwoTrianglesSplitIntoTwoCommunities(t *testing.T) {
	g := buildTwoTrianglesOneBridge(t)
	ectx := gdsgraph.NewExecutionContext(context.Background(), 1)
	out := result.New("nodeID", "louvain_id")

	cfg := gdsconfig.New(gdsconfig.WithMaxIterations(20))
	require.NoError(t, louvain.Run(context.Background(), ectx, g, cfg, out))

	require.Equal(t, 6, out.Len())
	comm := make(map[int64]int64, 6)
	for _, row := range out.Rows() {
		off := int64(row[0].(core.NodeID).Offset)
		comm[off] = row[1].(int64)
	}

	require.Equal(t, comm[0], comm[1])
	require.Equal(t, comm[1], comm[2])
	require.Equal(t, comm[3], comm[4])
	require.Equal(t, comm[4], comm[5])
	require.NotEqual(t, comm[0], comm[3])
}

func TestRun_RequiresSingleSchema(t *testing.T) {
	b := gdsgraph.NewBuilder().
		AddNodeTable(nodeTable, 2).
		AddNodeTable(core.TableID(3), 2).
		AddRelTable(core.RelTableInfo{FromTable: nodeTable, RelTable: edgeTable, ToTable: nodeTable})
	g, err := b.Build()
	require.NoError(t, err)

	ectx := gdsgraph.NewExecutionContext(context.Background(), 1)
	out := result.New("nodeID", "louvain_id")
	err = louvain.Run(context.Background(), ectx, g, gdsconfig.New(), out)
	require.ErrorIs(t, err, louvain.ErrSingleSchemaRequired)
}
