package parentgraph_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/parentgraph"
)

const table core.TableID = 1
const rel core.TableID = 2

func nid(i uint64) core.NodeID { return core.NodeID{Table: table, Offset: core.Offset(i)} }
func eid(i uint64) core.EdgeID { return core.EdgeID{RelTable: rel, Offset: core.Offset(i)} }

type fakeGraph struct{ n uint64 }

func (g *fakeGraph) NodeTableIDs() []core.TableID       { return []core.TableID{table} }
func (g *fakeGraph) RelTableInfos() []core.RelTableInfo { return nil }
func (g *fakeGraph) MaxOffset(core.TableID) uint64      { return g.n }
func (g *fakeGraph) MaxOffsetMap() *core.TableIDMap[uint64] {
	m := core.NewTableIDMap[uint64]()
	m.Set(table, g.n)
	return m
}
func (g *fakeGraph) PrepareRelScan(_, _, _ core.TableID, _ []string, _ bool) (core.ScanState, error) {
	return nil, nil
}
func (g *fakeGraph) ScanFwd(core.NodeID, core.ScanState) (core.ChunkIterator, error) {
	return nil, nil
}
func (g *fakeGraph) ScanBwd(core.NodeID, core.ScanState) (core.ChunkIterator, error) {
	return nil, nil
}

func chainLen(head *parentgraph.ParentList) int {
	n := 0
	for cur := head; cur != nil; cur = cur.Next {
		n++
	}
	return n
}

func TestAddParent_ChainsAlternatives(t *testing.T) {
	bg := parentgraph.NewBFSGraph(&fakeGraph{n: 4})
	block := parentgraph.NewBlockRef(bg)

	bg.AddParent(2, nid(1), nid(3), eid(0), true, block)
	bg.AddParent(2, nid(2), nid(3), eid(1), true, block)

	head := bg.Head(nid(3))
	require.NotNil(t, head)
	assert.Equal(t, 2, chainLen(head))
	assert.Equal(t, nid(2), head.Node, "latest added publishes as the new head")
	assert.Equal(t, nid(1), head.Next.Node)
}

func TestAddSingleParent_FirstWriterWins(t *testing.T) {
	bg := parentgraph.NewBFSGraph(&fakeGraph{n: 4})
	block := parentgraph.NewBlockRef(bg)

	require.True(t, bg.AddSingleParent(1, nid(0), nid(2), eid(0), true, block))
	require.False(t, bg.AddSingleParent(1, nid(1), nid(2), eid(1), true, block))

	head := bg.Head(nid(2))
	require.NotNil(t, head)
	assert.Equal(t, 1, chainLen(head))
	assert.Equal(t, nid(0), head.Node)
}

func TestAddSingleParent_ConcurrentWritersPublishExactlyOne(t *testing.T) {
	bg := parentgraph.NewBFSGraph(&fakeGraph{n: 2})
	const writers = 8

	var wg sync.WaitGroup
	wins := make([]bool, writers)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			block := parentgraph.NewBlockRef(bg)
			wins[w] = bg.AddSingleParent(1, nid(0), nid(1), eid(uint64(w)), true, block)
		}(w)
	}
	wg.Wait()

	var winners int
	for _, won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, chainLen(bg.Head(nid(1))))
}

func TestTryAddSingleParentWithWeight_KeepsMinimum(t *testing.T) {
	bg := parentgraph.NewBFSGraph(&fakeGraph{n: 4})
	block := parentgraph.NewBlockRef(bg)

	require.True(t, bg.TryAddSingleParentWithWeight(nid(0), nid(3), eid(0), true, 5.0, block))
	require.False(t, bg.TryAddSingleParentWithWeight(nid(1), nid(3), eid(1), true, 7.0, block), "costlier path rejected")
	require.True(t, bg.TryAddSingleParentWithWeight(nid(2), nid(3), eid(2), true, 2.0, block), "cheaper path replaces")

	head := bg.Head(nid(3))
	require.NotNil(t, head)
	assert.Equal(t, 2.0, head.Cost)
	assert.Equal(t, nid(2), head.Node)
	assert.Nil(t, head.Next, "single-parent variant never chains")
}

func TestTryAddParentWithWeight_EqualCostAppendsToChain(t *testing.T) {
	bg := parentgraph.NewBFSGraph(&fakeGraph{n: 4})
	block := parentgraph.NewBlockRef(bg)

	require.True(t, bg.TryAddParentWithWeight(nid(0), nid(3), eid(0), true, 4.0, block))
	require.True(t, bg.TryAddParentWithWeight(nid(1), nid(3), eid(1), true, 4.0, block), "tied cost preserved as an alternative")
	require.True(t, bg.TryAddParentWithWeight(nid(2), nid(3), eid(2), true, 1.0, block), "strictly cheaper discards the old chain")
	require.False(t, bg.TryAddParentWithWeight(nid(0), nid(3), eid(3), true, 3.0, block))

	head := bg.Head(nid(3))
	require.NotNil(t, head)
	assert.Equal(t, 1.0, head.Cost)
	assert.Equal(t, 1, chainLen(head))
}

func TestObjectBlock_ReserveAndRevert(t *testing.T) {
	b := parentgraph.NewObjectBlock()
	first := b.ReserveNext()
	require.NotNil(t, first)
	b.RevertLast()
	again := b.ReserveNext()
	assert.Same(t, first, again, "revert reclaims the most recent slot")
}

func TestBlockRef_RollsOverWhenBlockExhausts(t *testing.T) {
	bg := parentgraph.NewBFSGraph(&fakeGraph{n: 2})
	block := parentgraph.NewBlockRef(bg)

	// Far more parents than one block holds; every reserve must succeed.
	for i := 0; i < parentgraph.BlockSize+10; i++ {
		bg.AddParent(1, nid(0), nid(1), eid(uint64(i)), true, block)
	}
	assert.Equal(t, parentgraph.BlockSize+10, chainLen(bg.Head(nid(1))))
}
