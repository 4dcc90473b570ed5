// Package scc implements strongly connected components via two distinct
// algorithms with an identical output contract:
//
//   - RunColoring: parallel forward/backward color propagation to a
//     fixpoint, repeated in rounds until every node is finished.
//   - RunKosaraju: the classical sequential two-pass DFS (finish order,
//     then reverse-order backward DFS), for small or single-worker graphs
//     where the parallel coloring rounds aren't worth their overhead.
package scc
