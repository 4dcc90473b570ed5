package frontier

import (
	"math"

	"github.com/kuzudb/gds-core/atomics"
	"github.com/kuzudb/gds-core/core"
)

// Unvisited is the sentinel PathLengths value meaning "never activated".
// curIter must never be allowed to reach it; practically any maxIterations
// well under math.MaxUint32 is safe. gdsconfig only rejects non-positive
// maxIterations; it checks no upper bound.
const Unvisited uint32 = math.MaxUint32

// PathLengths stores, per (table, offset), the iteration at which a node
// was activated: one dense Uint32Array per node table, shared by every
// View taken over it. A single-buffered Pair's "current" and "next"
// handles are two independently-pinnable Views over this same shared
// storage, not two separate allocations — a node's tag is written exactly
// once, and every View sees it from then on regardless of which table each
// View happens to be pinned to at the time. A double-buffered Pair instead holds two separate
// PathLengths and swaps them between iterations.
type PathLengths struct {
	arrays *core.TableIDMap[*atomics.Uint32Array]
	pinned *atomics.Uint32Array
}

// NewPathLengths allocates one Uint32Array per node table in graph, every
// slot initialized to Unvisited.
func NewPathLengths(graph core.Graph) *PathLengths {
	return &PathLengths{arrays: atomics.AllocateUint32Arrays(graph, Unvisited)}
}

// View returns a new handle over the same underlying per-table arrays.
// Pinning one View to a table never disturbs another View's pin, so a
// "current" View can stay pinned to a from-table while a "next" View is
// independently pinned to a to-table within the same extension step.
func (p *PathLengths) View() *PathLengths {
	return &PathLengths{arrays: p.arrays}
}

// Pin selects tableID for subsequent unqualified Get/TrySetIfUnvisited calls
// on this View. Does not affect any other View over the same arrays.
func (p *PathLengths) Pin(tableID core.TableID) error {
	arr, ok := p.arrays.Get(tableID)
	if !ok {
		return core.ErrUnknownTable
	}
	p.pinned = arr
	return nil
}

// Get returns the iteration tag at offset in the pinned table, or Unvisited.
func (p *PathLengths) Get(offset core.Offset) uint32 { return p.pinned.Load(offset) }

// TrySetIfUnvisited atomically tags offset with iter iff it is currently
// Unvisited. Returns true iff this call won the race to first-activate it.
func (p *PathLengths) TrySetIfUnvisited(offset core.Offset, iter uint32) bool {
	return p.pinned.CompareAndSwap(offset, Unvisited, iter)
}

// Set unconditionally tags offset with iter in the pinned table.
func (p *PathLengths) Set(offset core.Offset, iter uint32) {
	p.pinned.Store(offset, iter)
}

// Reset restores every table back to all-Unvisited, for reuse across a
// fresh algorithm invocation.
func (p *PathLengths) Reset() {
	for _, t := range p.arrays.Tables() {
		arr, _ := p.arrays.Get(t)
		arr.Reset(Unvisited)
	}
}

// Array returns the raw per-table array map, for algorithms (e.g. writer)
// that need to read lengths outside of a Pin/Get sequence.
func (p *PathLengths) Array() *core.TableIDMap[*atomics.Uint32Array] { return p.arrays }
