package writer

import (
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/parentgraph"
)

// PathSemantic selects which repetition constraint a path must satisfy.
type PathSemantic int

const (
	// Walk allows repeated nodes and edges.
	Walk PathSemantic = iota
	// Trail forbids a repeated edge.
	Trail
	// Acyclic forbids a repeated node.
	Acyclic
)

// PathOptions configures SPPathsOutputWriter's enumeration.
type PathOptions struct {
	Semantic   PathSemantic
	LowerBound int
	// NodeMask, if non-nil, is consulted for every candidate predecessor;
	// returning false prunes that branch.
	NodeMask func(core.NodeID) bool
	// FlipPath emits destination-anchored rows (dst...src) instead of the
	// default source-anchored (src...dst).
	FlipPath bool
	// Limit caps the total number of rows emitted across all destinations;
	// 0 means unlimited.
	Limit int64
}

// WriteSPPaths enumerates every parent-graph path from source to each
// destination in destinations, applying opts's semantic/bound/mask filters,
// and appends one row per surviving path: (src, dst, length, directions,
// pathNodeIDs, pathEdgeIDs).
//
// The DFS is iteration-gated: descending from a record tagged iteration i
// only considers parent records tagged i-1, and a path is complete when the
// chain bottoms out at iteration 1, whose bound node is always the source.
// SP/ASP parent graphs satisfy the gate trivially — every record at a node
// carries that node's discovery iteration — but variable-length joins
// depend on it: their nodes accumulate records across many iterations, and
// an ungated walk over those chains could stitch records from unrelated
// iterations together or chase a cycle's records forever.
func WriteSPPaths(graph *parentgraph.BFSGraph, source core.NodeID, destinations []core.NodeID, opts PathOptions, out core.FactorizedTable) {
	var emitted int64
	for _, d := range destinations {
		if opts.Limit > 0 && emitted >= opts.Limit {
			return
		}
		emitted += enumeratePaths(graph, source, d, opts, out, opts.Limit-emitted, true)
	}
}

// WriteWSPPath implements WSPPathsOutputWriter: the weighted
// single-parent graph carries at most one chain per destination, so there is
// exactly one path to walk, terminated on reaching the source node.
func WriteWSPPath(graph *parentgraph.BFSGraph, source core.NodeID, dst core.NodeID, opts PathOptions, out core.FactorizedTable) {
	if dst == source {
		return
	}
	var nodes []core.NodeID
	var edges []core.EdgeID
	var dirs []bool

	nodes = append(nodes, dst)
	cur := graph.Head(dst)
	if cur == nil {
		return // unreachable
	}
	totalCost := cur.Cost
	for cur != nil {
		edges = append(edges, cur.Edge)
		dirs = append(dirs, cur.Fwd)
		nodes = append(nodes, cur.Node)
		if cur.Node == source {
			break
		}
		cur = graph.Head(cur.Node)
	}
	if len(nodes) == 0 || nodes[len(nodes)-1] != source {
		return // unreachable
	}
	if len(edges) < opts.LowerBound {
		return
	}

	if !opts.FlipPath {
		reverseNodes(nodes)
		reverseEdges(edges)
		reverseDirs(dirs)
	}
	out.Append(source, dst, int64(len(edges)), dirs, nodes, edges, totalCost)
}

// WriteAWSPPaths enumerates every minimal-cost parent-graph path from source
// to each destination — the same multi-parent DFS WriteSPPaths runs, since
// AWSP's parent graph only ever chains together alternatives that share the
// one minimal cost for that destination — and appends that shared cost as a
// trailing weight column on every emitted row.
//
// The DFS here is cost-gated rather than iteration-gated: weighted records
// carry no iteration tag, and termination follows from costs strictly
// decreasing toward the source along every chain.
func WriteAWSPPaths(graph *parentgraph.BFSGraph, source core.NodeID, destinations []core.NodeID, opts PathOptions, out core.FactorizedTable) {
	var emitted int64
	for _, d := range destinations {
		if opts.Limit > 0 && emitted >= opts.Limit {
			return
		}
		var cost float64
		if head := graph.Head(d); head != nil {
			cost = head.Cost
		}
		emitted += enumeratePaths(graph, source, d, opts, &weightedTable{out: out, cost: cost}, opts.Limit-emitted, false)
	}
}

// weightedTable decorates a FactorizedTable, appending a fixed trailing
// weight column to every row passed through it.
type weightedTable struct {
	out  core.FactorizedTable
	cost float64
}

func (w *weightedTable) Append(row ...any) {
	w.out.Append(append(row, w.cost)...)
}

// enumeratePaths runs the explicit-stack backtracking DFS for one
// destination, returning the number of rows it emitted (capped by
// limit; limit <= 0 means unlimited). iterAware selects the iteration-gated
// traversal (unweighted parent graphs) versus the ungated one (weighted).
//
// When dst == source and no parent chain reached it, a lower bound of zero
// emits the single empty path; once any non-empty chain exists, only those
// chains are enumerated.
func enumeratePaths(graph *parentgraph.BFSGraph, source, dst core.NodeID, opts PathOptions, out core.FactorizedTable, limit int64, iterAware bool) int64 {
	head := graph.Head(dst)
	if head == nil {
		if dst == source && opts.LowerBound == 0 {
			emitEmptyPath(source, out)
			return 1
		}
		return 0
	}

	var stack []*parentgraph.ParentList
	var emitted int64
	cur := head
	for {
		if cur == nil {
			if len(stack) == 0 {
				return emitted
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cur = top.Next
			continue
		}

		if iterAware && !iterEligible(stack, cur, opts.LowerBound) {
			cur = cur.Next
			continue
		}
		if violatesSemantic(stack, cur, dst, opts.Semantic) {
			cur = cur.Next
			continue
		}
		if opts.NodeMask != nil && !opts.NodeMask(cur.Node) {
			cur = cur.Next
			continue
		}

		if reachedSource(cur, source, iterAware) {
			if len(stack)+1 >= opts.LowerBound {
				emitPath(stack, cur, source, dst, opts, out)
				emitted++
				if limit > 0 && emitted >= limit {
					return emitted
				}
			}
			cur = cur.Next
			continue
		}

		stack = append(stack, cur)
		cur = graph.Head(cur.Node)
	}
}

// iterEligible enforces the descent gate: at the destination level, any
// record long enough to clear the lower bound may start a path; below it,
// only records tagged exactly one iteration earlier than the record above
// continue one.
func iterEligible(stack []*parentgraph.ParentList, cand *parentgraph.ParentList, lowerBound int) bool {
	if len(stack) == 0 {
		return cand.Iter >= 1 && int(cand.Iter) >= lowerBound
	}
	return cand.Iter == stack[len(stack)-1].Iter-1
}

// reachedSource reports whether cand is the path's final hop out of the
// source. In iteration-gated mode the chain bottom is the record tagged 1 —
// its bound node is necessarily the source, and stopping earlier (a
// mid-path visit to the source in a variable-length walk) would truncate
// the walk being enumerated.
func reachedSource(cand *parentgraph.ParentList, source core.NodeID, iterAware bool) bool {
	if iterAware {
		return cand.Iter == 1 && cand.Node == source
	}
	return cand.Node == source
}

func violatesSemantic(stack []*parentgraph.ParentList, cand *parentgraph.ParentList, dst core.NodeID, semantic PathSemantic) bool {
	switch semantic {
	case Trail:
		for _, f := range stack {
			if f.Edge == cand.Edge {
				return true
			}
		}
	case Acyclic:
		if cand.Node == dst {
			return true
		}
		for _, f := range stack {
			if f.Node == cand.Node {
				return true
			}
		}
	}
	return false
}

// emitPath materializes one complete destination-to-source chain (stack,
// then last, the final hop into source) into output-ready node/edge/
// direction slices and appends a row.
func emitPath(stack []*parentgraph.ParentList, last *parentgraph.ParentList, source, dst core.NodeID, opts PathOptions, out core.FactorizedTable) {
	nodes := make([]core.NodeID, 0, len(stack)+2)
	edges := make([]core.EdgeID, 0, len(stack)+1)
	dirs := make([]bool, 0, len(stack)+1)

	nodes = append(nodes, dst)
	for _, f := range stack {
		nodes = append(nodes, f.Node)
		edges = append(edges, f.Edge)
		dirs = append(dirs, f.Fwd)
	}
	nodes = append(nodes, last.Node)
	edges = append(edges, last.Edge)
	dirs = append(dirs, last.Fwd)

	if !opts.FlipPath {
		reverseNodes(nodes)
		reverseEdges(edges)
		reverseDirs(dirs)
	}
	out.Append(source, dst, int64(len(edges)), dirs, nodes, edges)
}

// emitEmptyPath appends the zero-length src-to-src row.
func emitEmptyPath(source core.NodeID, out core.FactorizedTable) {
	out.Append(source, source, int64(0), []bool{}, []core.NodeID{source}, []core.EdgeID{})
}

func reverseNodes(s []core.NodeID) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseEdges(s []core.EdgeID) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseDirs(s []bool) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
