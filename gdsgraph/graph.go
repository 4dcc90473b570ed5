package gdsgraph

import (
	"context"
	"errors"

	"github.com/kuzudb/gds-core/core"
)

// ErrUnknownRelTable is returned by PrepareRelScan for a relTable never
// passed to Builder.AddRelTable.
var ErrUnknownRelTable = errors.New("gdsgraph: unknown relationship table")

// Graph is a read-only, in-memory core.Graph built by Builder.
type Graph struct {
	maxOffset map[core.TableID]uint64
	nodeOrder []core.TableID
	relInfos  []core.RelTableInfo
	fwd       map[core.TableID]*csr
	bwd       map[core.TableID]*csr
}

func (g *Graph) NodeTableIDs() []core.TableID { return append([]core.TableID(nil), g.nodeOrder...) }

func (g *Graph) RelTableInfos() []core.RelTableInfo {
	return append([]core.RelTableInfo(nil), g.relInfos...)
}

func (g *Graph) MaxOffset(tableID core.TableID) uint64 { return g.maxOffset[tableID] }

func (g *Graph) MaxOffsetMap() *core.TableIDMap[uint64] {
	m := core.NewTableIDMap[uint64]()
	for t, n := range g.maxOffset {
		m.Set(t, n)
	}
	return m
}

// scanState pins which relTable's CSR pair subsequent Scan* calls read.
type scanState struct {
	fwd, bwd *csr
}

func (g *Graph) PrepareRelScan(relGroup, relTable, dstTable core.TableID, properties []string, randomLookup bool) (core.ScanState, error) {
	fwd, ok := g.fwd[relTable]
	if !ok {
		return nil, ErrUnknownRelTable
	}
	bwd := g.bwd[relTable]
	return &scanState{fwd: fwd, bwd: bwd}, nil
}

func (g *Graph) ScanFwd(node core.NodeID, state core.ScanState) (core.ChunkIterator, error) {
	return scanDirection(state, node, true)
}

func (g *Graph) ScanBwd(node core.NodeID, state core.ScanState) (core.ChunkIterator, error) {
	return scanDirection(state, node, false)
}

func scanDirection(state core.ScanState, node core.NodeID, forward bool) (core.ChunkIterator, error) {
	ss, ok := state.(*scanState)
	if !ok {
		return nil, errors.New("gdsgraph: scan state from a different graph")
	}
	c := ss.fwd
	if !forward {
		c = ss.bwd
	}
	if c == nil || int(node.Offset)+1 >= len(c.rowOffsets) {
		return &chunkIter{}, nil
	}
	begin, end := c.rowOffsets[node.Offset], c.rowOffsets[node.Offset+1]
	return &chunkIter{
		chunks: []core.Chunk{&adjacencyChunk{
			relTable: c.relTable,
			nbrTable: c.nbrTable,
			nbrs:     c.nbrs[begin:end],
			edges:    c.edgeOffsets[begin:end],
			weights:  c.weights[begin:end],
		}},
	}, nil
}

type chunkIter struct {
	chunks []core.Chunk
	i      int
}

func (it *chunkIter) Next() (core.Chunk, bool) {
	if it.i >= len(it.chunks) {
		return nil, false
	}
	c := it.chunks[it.i]
	it.i++
	return c, true
}

// adjacencyChunk is one bound node's full neighbor list, sourced directly
// from a csr row — no batching, since an in-memory CSR row already lives in
// one contiguous slice.
type adjacencyChunk struct {
	relTable core.TableID
	nbrTable core.TableID
	nbrs     []core.Offset
	edges    []uint64
	weights  []float64
}

func (c *adjacencyChunk) Len() int { return len(c.nbrs) }

func (c *adjacencyChunk) ForEach(fn func(nbr core.NodeID, edge core.EdgeID, i int)) {
	for i, off := range c.nbrs {
		fn(core.NodeID{Table: c.nbrTable, Offset: off}, core.EdgeID{RelTable: c.relTable, Offset: core.Offset(c.edges[i])}, i)
	}
}

// Weight returns the stored weight for index i with ok=true whether or not
// the scan was prepared with a weight property; ok is false only for an
// out-of-range i.
func (c *adjacencyChunk) Weight(i int) (float64, bool) {
	if i < 0 || i >= len(c.weights) {
		return 0, false
	}
	return c.weights[i], true
}

// execContext is a minimal core.ExecutionContext used by standalone
// algorithm invocations (outside a larger query) and by tests.
type execContext struct {
	ctx         context.Context
	maxThreads  int
	interrupted func() bool
}

// NewExecutionContext builds a core.ExecutionContext with a fixed worker
// count; Interrupted reports true once ctx is done, and progress reporting
// is a no-op.
func NewExecutionContext(ctx context.Context, maxThreads int) core.ExecutionContext {
	return &execContext{ctx: ctx, maxThreads: maxThreads}
}

func (e *execContext) MaxThreadsForExec() int { return e.maxThreads }
func (e *execContext) Interrupted() bool {
	if e.interrupted != nil {
		return e.interrupted()
	}
	select {
	case <-e.ctx.Done():
		return true
	default:
		return false
	}
}
func (e *execContext) Context() context.Context           { return e.ctx }
func (e *execContext) UpdateProgress(_ string, _ float64) {}
