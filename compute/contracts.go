package compute

import "github.com/kuzudb/gds-core/core"

// EdgeCompute is invoked once per bound node in an active morsel, given the
// chunk of its neighbors scanned this step. It returns nothing directly;
// instead it calls back into a frontier.Pair (via the closure it was built
// with) to activate whichever neighbors the algorithm wants visited next.
// isFwd tells the compute which scan direction produced chunk, needed by
// algorithms (SP paths) that record direction in their output.
//
// Clone returns an independent instance for another worker to use
// concurrently, so no shared mutable per-instance state races — a plain
// method rather than a virtual dispatch.
type EdgeCompute interface {
	Compute(bound core.NodeID, chunk core.Chunk, isFwd bool)
	Clone() EdgeCompute
}

// VertexCompute is invoked once per offset range of one node table,
// independent of frontier state, through driver.RunVertexPass — in this
// core, WCC's output-writing phase after convergence (wcc.groupsWriter).
// Implementations must be idempotent.
type VertexCompute interface {
	Compute(table core.TableID, begin, end core.Offset)
	Clone() VertexCompute
}
