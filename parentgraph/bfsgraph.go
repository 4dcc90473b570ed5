package parentgraph

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/kuzudb/gds-core/core"
)

// heads is the per-table array of parent-chain head pointers.
type heads struct {
	data []atomic.Pointer[ParentList]
}

func newHeads(n uint64) *heads { return &heads{data: make([]atomic.Pointer[ParentList], n)} }

// BFSGraph is the lock-free parent graph: one head pointer per (table,
// offset) plus the arena of ObjectBlocks backing every ParentList node ever
// published. The block list grows under a mutex; head reads/CAS are
// lock-free.
type BFSGraph struct {
	mu     sync.Mutex
	blocks []*ObjectBlock
	heads  *core.TableIDMap[*heads]
}

// NewBFSGraph allocates one head array per node table in graph, empty (nil
// head = no parent recorded yet).
func NewBFSGraph(graph core.Graph) *BFSGraph {
	m := core.NewTableIDMap[*heads]()
	for _, t := range graph.NodeTableIDs() {
		m.Set(t, newHeads(graph.MaxOffset(t)))
	}
	return &BFSGraph{heads: m}
}

// NewBlock allocates and registers a new ObjectBlock, returning it for a
// worker to claim as its local arena.
func (g *BFSGraph) NewBlock() *ObjectBlock {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := NewObjectBlock()
	g.blocks = append(g.blocks, b)
	return b
}

// Head returns the current parent-chain head for node, or nil if none.
func (g *BFSGraph) Head(node core.NodeID) *ParentList {
	h := g.heads.MustGet(node.Table)
	return h.data[node.Offset].Load()
}

// BlockRef is a worker-local handle on the arena: ReserveSlot claims the
// next free ParentList from the current block, transparently rolling over
// to a fresh block (allocated under BFSGraph's mutex) when the current one
// is exhausted. One BlockRef belongs to exactly one worker for exactly
// one driver invocation.
type BlockRef struct {
	graph *BFSGraph
	block *ObjectBlock
}

// NewBlockRef creates a BlockRef seeded with a freshly allocated block.
func NewBlockRef(graph *BFSGraph) *BlockRef {
	return &BlockRef{graph: graph, block: graph.NewBlock()}
}

func (r *BlockRef) reserve() *ParentList {
	for {
		if slot := r.block.ReserveNext(); slot != nil {
			return slot
		}
		r.block = r.graph.NewBlock()
	}
}

func (r *BlockRef) revert() { r.block.RevertLast() }

// AddParent publishes a new head for nbr's parent chain, chaining the
// previous head as Next — the all-paths variant: every discovery this
// iteration is recorded, none are overwritten. Loops until the CAS
// succeeds, since a racing worker may publish a competing head first.
func (g *BFSGraph) AddParent(iter uint32, bound, nbr core.NodeID, edge core.EdgeID, fwd bool, block *BlockRef) {
	h := g.heads.MustGet(nbr.Table)
	for {
		oldHead := h.data[nbr.Offset].Load()
		slot := block.reserve()
		*slot = ParentList{Iter: iter, Node: bound, Edge: edge, Fwd: fwd, Next: oldHead}
		if h.data[nbr.Offset].CompareAndSwap(oldHead, slot) {
			return
		}
		block.revert()
	}
}

// AddSingleParent publishes nbr's one and only parent record via a CAS
// expecting a nil head. On success the new node's Next is nil (no chain).
// On failure — another worker already claimed the single parent slot — the
// reserved arena slot is rolled back. Returns true iff this call won.
func (g *BFSGraph) AddSingleParent(iter uint32, bound, nbr core.NodeID, edge core.EdgeID, fwd bool, block *BlockRef) bool {
	h := g.heads.MustGet(nbr.Table)
	slot := block.reserve()
	*slot = ParentList{Iter: iter, Node: bound, Edge: edge, Fwd: fwd, Next: nil}
	if h.data[nbr.Offset].CompareAndSwap(nil, slot) {
		return true
	}
	block.revert()
	return false
}

// headCost returns the cost recorded at head, or +Inf if head is nil.
func headCost(head *ParentList) float64 {
	if head == nil {
		return math.Inf(1)
	}
	return head.Cost
}

// TryAddSingleParentWithWeight implements the weighted single-parent
// monotonically-decreasing publish: while cost is strictly less than the
// current head's cost, attempt to CAS in a new sole parent. Returns false
// without modifying the graph if a concurrent winner's cost is already <=
// cost (the reserved slot is rolled back in that case too).
func (g *BFSGraph) TryAddSingleParentWithWeight(bound, nbr core.NodeID, edge core.EdgeID, fwd bool, cost float64, block *BlockRef) bool {
	h := g.heads.MustGet(nbr.Table)
	for {
		oldHead := h.data[nbr.Offset].Load()
		if cost >= headCost(oldHead) {
			return false
		}
		slot := block.reserve()
		*slot = ParentList{Node: bound, Edge: edge, Fwd: fwd, Cost: cost, Next: nil}
		if h.data[nbr.Offset].CompareAndSwap(oldHead, slot) {
			return true
		}
		block.revert()
	}
}

// TryAddParentWithWeight is the all-parents weighted variant: a strictly
// smaller cost replaces the chain outright (new sole head, old chain
// discarded as no longer minimal); an equal cost appends to the front of
// the existing minimal-cost chain, preserving every alternative minimum-cost
// path. A strictly larger cost is rejected.
func (g *BFSGraph) TryAddParentWithWeight(bound, nbr core.NodeID, edge core.EdgeID, fwd bool, cost float64, block *BlockRef) bool {
	h := g.heads.MustGet(nbr.Table)
	for {
		oldHead := h.data[nbr.Offset].Load()
		cur := headCost(oldHead)
		if cost > cur {
			return false
		}
		slot := block.reserve()
		next := (*ParentList)(nil)
		if cost == cur {
			next = oldHead
		}
		*slot = ParentList{Node: bound, Edge: edge, Fwd: fwd, Cost: cost, Next: next}
		if h.data[nbr.Offset].CompareAndSwap(oldHead, slot) {
			return true
		}
		block.revert()
	}
}
