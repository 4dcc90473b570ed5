// Package writer turns accumulated per-vertex algorithm state into output
// rows: WriteDestinations for plain distance output, WriteSPPaths for path
// enumeration over a parentgraph.BFSGraph, WriteWSPPath for the
// single-parent weighted case.
//
// Path enumeration walks the parent graph with an explicit stack of
// *parentgraph.ParentList frames rather than recursion, so no path length
// can blow a call stack.
package writer
