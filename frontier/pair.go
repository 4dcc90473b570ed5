package frontier

import (
	"sync"
	"sync/atomic"

	"github.com/kuzudb/gds-core/core"
)

// Pair aggregates the current/next PathLengths, the iteration counter, the
// approximate active-next-iteration count, and a per-table Dispatcher — the
// full mutable state the driver advances one iteration at a time.
//
// Two buffering modes exist:
//
//   - Single (NewPair with doubleBuffered=false): cur and next are
//     independently-pinnable views over ONE shared mask. A node's tag is
//     written at most once, by AddNodeToNextFrontier's Unvisited-CAS, so
//     writes to "next" can never disturb the current frontier, and the
//     accumulated tags double as per-node discovery lengths. This is the
//     mode for the SP/ASP family.
//
//   - Double (doubleBuffered=true): cur and next are two separate masks,
//     swapped by BeginNewIteration. Required by algorithms that RE-activate
//     nodes (variable-length joins, WSP/AWSP): their unconditional
//     ForceSetNextFrontier store would, over a single shared mask,
//     overwrite the tag of a node still waiting to be scanned this
//     iteration and hide it from the remaining morsels. With two masks a
//     stale tag from an earlier use of the same buffer can never collide
//     with curIter-1 — the buffer serves "next" only on every other
//     iteration, so its stale tags are always older than curIter-1.
//
// "Approximate": duplicate activations across racing workers may be
// counted twice, so the count is not an exact cardinality. Correctness only
// depends on it being zero iff no worker activated anything this iteration,
// which fetch-add-then-check preserves regardless of double counting.
type Pair struct {
	graph core.Graph

	mu  sync.Mutex
	cur *PathLengths
	nxt *PathLengths

	curIter                 atomic.Uint32
	numApproxActiveNextIter atomic.Int64

	numWorkers     int
	dispatchers    *core.TableIDMap[*Dispatcher]
	doubleBuffered bool
}

// NewPair builds a frontier pair over every node table in graph, in the
// buffering mode described on Pair.
func NewPair(graph core.Graph, numWorkers int, doubleBuffered bool) *Pair {
	base := NewPathLengths(graph)
	cur := base.View()
	nxt := base.View()
	if doubleBuffered {
		nxt = NewPathLengths(graph)
	}
	dispatchers := core.NewTableIDMap[*Dispatcher]()
	for _, t := range graph.NodeTableIDs() {
		dispatchers.Set(t, NewDispatcher(graph.MaxOffset(t), numWorkers))
	}
	return &Pair{
		graph:          graph,
		cur:            cur,
		nxt:            nxt,
		numWorkers:     numWorkers,
		dispatchers:    dispatchers,
		doubleBuffered: doubleBuffered,
	}
}

// Cur returns the current-iteration PathLengths (read during a frontier
// compute to find active bound nodes).
func (p *Pair) Cur() *PathLengths { return p.cur }

// Next returns the next-iteration PathLengths (written during a frontier
// compute to activate neighbors).
func (p *Pair) Next() *PathLengths { return p.nxt }

// CurIter returns the iteration number the driver is currently processing.
func (p *Pair) CurIter() uint32 { return p.curIter.Load() }

// BeginNewIteration advances the iteration counter, zeros the
// active-next-iteration count, and — in double-buffered mode — swaps cur
// and next so the previous "next" becomes this iteration's "cur". Holds an
// internal mutex so only one thread performs the swap.
func (p *Pair) BeginNewIteration() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.curIter.Add(1)
	p.numApproxActiveNextIter.Store(0)
	if p.doubleBuffered {
		p.cur, p.nxt = p.nxt, p.cur
	}
	for _, t := range p.dispatchers.Tables() {
		d, _ := p.dispatchers.Get(t)
		d.Reset(p.graph.MaxOffset(t), p.numWorkers)
	}
}

// ContinueNextIter reports whether the driver should run another iteration:
// the iteration budget isn't exhausted and something was activated.
func (p *Pair) ContinueNextIter(maxIterations int) bool {
	return int(p.curIter.Load()) < maxIterations && p.numApproxActiveNextIter.Load() > 0
}

// PinNextFrontier pins tableID on the next-side PathLengths for subsequent
// AddNodeToNextFrontier calls.
func (p *Pair) PinNextFrontier(tableID core.TableID) error { return p.nxt.Pin(tableID) }

// PinCurFrontier pins tableID on the current-side PathLengths.
func (p *Pair) PinCurFrontier(tableID core.TableID) error { return p.cur.Pin(tableID) }

// AddNodeToNextFrontier activates offset in the pinned next-table iff it was
// previously Unvisited, bumping the approximate active count on success.
// Returns true iff this call performed the activation. Only meaningful in
// single-buffered mode, where a tag is written at most once; re-activating
// algorithms use ForceSetNextFrontier on a double-buffered pair instead.
func (p *Pair) AddNodeToNextFrontier(offset core.Offset) bool {
	iter := p.curIter.Load()
	if p.nxt.TrySetIfUnvisited(offset, iter) {
		p.numApproxActiveNextIter.Add(1)
		return true
	}
	return false
}

// ForceSetNextFrontier unconditionally tags offset with the current
// iteration on the pinned next-table, regardless of any prior tag, and
// bumps the approximate active count. Used by algorithms whose activation
// condition isn't "first time seen" but "state changed" — variable-length
// joins re-activate every scanned neighbor, WSP/AWSP re-activate a neighbor
// every time a cheaper cost is published. Callers are
// expected to run such algorithms on a double-buffered Pair.
func (p *Pair) ForceSetNextFrontier(offset core.Offset) {
	p.nxt.Set(offset, p.curIter.Load())
	p.numApproxActiveNextIter.Add(1)
}

// MarkNextFrontierActivity records that a worker produced at least one
// activation this iteration without needing a fresh PathLengths write —
// used by algorithms (WCC, SCC coloring) whose "activation" is a successful
// CAS on a separate atomic array rather than a PathLengths transition.
func (p *Pair) MarkNextFrontierActivity() { p.numApproxActiveNextIter.Add(1) }

// Dispatcher returns the per-table morsel dispatcher for tableID.
func (p *Pair) Dispatcher(tableID core.TableID) (*Dispatcher, error) {
	d, ok := p.dispatchers.Get(tableID)
	if !ok {
		return nil, core.ErrUnknownTable
	}
	return d, nil
}
