package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/compute"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/driver"
	"github.com/kuzudb/gds-core/frontier"
)

// chainGraph is a tiny single-table fake implementing core.Graph: nodes
// 0..n-1 each point to node i+1, so a BFS from 0 discovers node i at
// iteration i.
type chainGraph struct {
	n int
}

const chainTable core.TableID = 1
const chainRel core.TableID = 2

func (g *chainGraph) NodeTableIDs() []core.TableID { return []core.TableID{chainTable} }

func (g *chainGraph) RelTableInfos() []core.RelTableInfo {
	return []core.RelTableInfo{{FromTable: chainTable, RelTable: chainRel, ToTable: chainTable}}
}

func (g *chainGraph) MaxOffset(t core.TableID) uint64 { return uint64(g.n) }

func (g *chainGraph) MaxOffsetMap() *core.TableIDMap[uint64] {
	m := core.NewTableIDMap[uint64]()
	m.Set(chainTable, uint64(g.n))
	return m
}

func (g *chainGraph) PrepareRelScan(_, _, _ core.TableID, _ []string, _ bool) (core.ScanState, error) {
	return nil, nil
}

func (g *chainGraph) ScanFwd(node core.NodeID, _ core.ScanState) (core.ChunkIterator, error) {
	if int(node.Offset)+1 >= g.n {
		return &chunkIter{}, nil
	}
	nbr := core.NodeID{Table: chainTable, Offset: node.Offset + 1}
	edge := core.EdgeID{RelTable: chainRel, Offset: node.Offset}
	return &chunkIter{chunks: []core.Chunk{&fakeChunk{nbrs: []core.NodeID{nbr}, edges: []core.EdgeID{edge}}}}, nil
}

func (g *chainGraph) ScanBwd(node core.NodeID, state core.ScanState) (core.ChunkIterator, error) {
	if node.Offset == 0 {
		return &chunkIter{}, nil
	}
	nbr := core.NodeID{Table: chainTable, Offset: node.Offset - 1}
	edge := core.EdgeID{RelTable: chainRel, Offset: node.Offset - 1}
	return &chunkIter{chunks: []core.Chunk{&fakeChunk{nbrs: []core.NodeID{nbr}, edges: []core.EdgeID{edge}}}}, nil
}

type chunkIter struct {
	chunks []core.Chunk
	i      int
}

func (c *chunkIter) Next() (core.Chunk, bool) {
	if c.i >= len(c.chunks) {
		return nil, false
	}
	ch := c.chunks[c.i]
	c.i++
	return ch, true
}

type fakeChunk struct {
	nbrs  []core.NodeID
	edges []core.EdgeID
}

func (c *fakeChunk) Len() int { return len(c.nbrs) }
func (c *fakeChunk) ForEach(fn func(nbr core.NodeID, edge core.EdgeID, i int)) {
	for i, nbr := range c.nbrs {
		fn(nbr, c.edges[i], i)
	}
}
func (c *fakeChunk) Weight(i int) (float64, bool) { return 0, false }

type fakeExecCtx struct{ ctx context.Context }

func (e *fakeExecCtx) MaxThreadsForExec() int             { return 4 }
func (e *fakeExecCtx) Interrupted() bool                  { return false }
func (e *fakeExecCtx) Context() context.Context           { return e.ctx }
func (e *fakeExecCtx) UpdateProgress(_ string, _ float64) {}

// bfsCompute activates every unvisited neighbor it sees, exactly the shape
// single-pair shortest-path discovery takes.
type bfsCompute struct {
	pair *frontier.Pair
}

func (c *bfsCompute) Compute(bound core.NodeID, chunk core.Chunk, isFwd bool) {
	chunk.ForEach(func(nbr core.NodeID, edge core.EdgeID, i int) {
		c.pair.AddNodeToNextFrontier(nbr.Offset)
	})
}

func (c *bfsCompute) Clone() compute.EdgeCompute { return &bfsCompute{pair: c.pair} }

func TestExtensionStep_ChainDiscoveryOrder(t *testing.T) {
	g := &chainGraph{n: 5}
	pair := frontier.NewPair(g, 2, false)

	require.NoError(t, pair.PinNextFrontier(chainTable))
	require.True(t, pair.AddNodeToNextFrontier(0)) // seed source at offset 0

	ectx := &fakeExecCtx{ctx: context.Background()}
	specs := []driver.ScanSpec{{Rel: g.RelTableInfos()[0], Direction: core.FWD}}

	err := driver.Converge(ectx, pair, 10, func(curIter uint32) error {
		return driver.ExtensionStep(context.Background(), ectx, g, pair, specs, 2, func() compute.EdgeCompute {
			return &bfsCompute{pair: pair}
		})
	})
	require.NoError(t, err)

	require.NoError(t, pair.Cur().Pin(chainTable))
	for i := 0; i < g.n; i++ {
		assert.Equal(t, uint32(i), pair.Cur().Get(core.Offset(i)), "node %d should be discovered at iteration %d", i, i)
	}
}

func TestConverge_StopsWhenNoActivity(t *testing.T) {
	g := &chainGraph{n: 1}
	pair := frontier.NewPair(g, 1, false)
	require.NoError(t, pair.PinNextFrontier(chainTable))
	require.True(t, pair.AddNodeToNextFrontier(0))

	calls := 0
	err := driver.Converge(&fakeExecCtx{ctx: context.Background()}, pair, 100, func(curIter uint32) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "single isolated node activates nothing further, so only one step should run")
}
