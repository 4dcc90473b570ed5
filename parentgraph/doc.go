// Package parentgraph implements the lock-free BFS parent graph: a
// per-destination linked list of predecessor records, backed by
// bump-allocated ObjectBlocks owned by a BFSGraph.
//
// The arena — BFSGraph's owned blocks — outlives every chain it hands out,
// so interior *ParentList links are always valid for the BFSGraph's
// lifetime; there is no separate dispatch layer for single- vs multi-parent
// variants, just distinct methods on the same BFSGraph.
package parentgraph
