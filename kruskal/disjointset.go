package kruskal

import "github.com/kuzudb/gds-core/core"

// disjointSet tracks connected components over a single node table's dense
// offset range: parents[i]/rank[i], find via path-halving, union by rank
// with a node-id tie-break. Single-threaded — kruskal.Run
// only ever touches it after the parallel edge-collection pass has finished.
type disjointSet struct {
	parent []core.Offset
	rank   []uint32
}

func newDisjointSet(n uint64) *disjointSet {
	d := &disjointSet{parent: make([]core.Offset, n), rank: make([]uint32, n)}
	for i := range d.parent {
		d.parent[i] = core.Offset(i)
	}
	return d
}

// find returns x's component root, halving the path to it along the way.
func (d *disjointSet) find(x core.Offset) core.Offset {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

// union merges the components rooted at ra and rb. Lower-rank attaches
// under higher-rank; on a rank tie the smaller offset becomes the parent
// and its rank is incremented. No-op if ra == rb.
func (d *disjointSet) union(ra, rb core.Offset) {
	if ra == rb {
		return
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	case ra < rb:
		d.parent[rb] = ra
		d.rank[ra]++
	default:
		d.parent[ra] = rb
		d.rank[rb]++
	}
}
