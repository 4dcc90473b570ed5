// Package frontier implements the two-valued current/next frontier pair and
// the morsel dispatcher that hands workers contiguous offset ranges to scan.
//
// A Pair comes in two buffering modes. The single mode shares ONE
// PathLengths mask between the current and next handles: a node's tag is
// written exactly once, doubling as "has this node been visited" (sentinel
// Unvisited) and "at what iteration" (any other value) — a deliberate
// memory optimization. The double mode carries two separate masks swapped
// at each iteration boundary, for algorithms that
// re-activate already-visited nodes and would otherwise clobber the
// current frontier mid-iteration. See Pair's doc comment for which
// algorithms need which.
package frontier
