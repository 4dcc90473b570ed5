package parentgraph

import "github.com/kuzudb/gds-core/core"

// ParentList is one predecessor record in a destination node's parent
// chain: which node/edge it was reached from, in which iteration, in which
// scan direction, and (for weighted variants) the accumulated cost along
// this path. Next chains to an alternative or earlier parent; for unweighted
// all-paths BFS, Iter decreases monotonically walking Next from the head
// because only same-iteration parents are ever appended to the front.
type ParentList struct {
	Iter uint32
	Node core.NodeID
	Edge core.EdgeID
	Fwd  bool
	Cost float64
	Next *ParentList
}
