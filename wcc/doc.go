// Package wcc implements weakly connected components via parallel label
// propagation: every node starts labeled with its own global offset, then
// repeatedly CASes its neighbors down to the smaller of the two labels,
// over both edge directions, until no label changes.
//
// Unlike the BFS-family algorithms in package sp, wcc does not narrow its
// scan to a frontier.PathLengths-tracked discovery set — every node is
// rescanned every iteration, since a node's label can still decrease after
// it was first touched. It reuses frontier.Pair only for the outer
// iteration/dispatcher bookkeeping driver.Converge expects, per
// driver/doc.go's documented rationale.
package wcc
