// Package gdsgraph is a reference, in-memory core.Graph implementation: a
// CSR (compressed sparse row) adjacency per relationship table, built once
// from an edge list and read-only afterward, with dense per-table offset
// arrays matching this core's NodeID/EdgeID data model.
//
// Builder assembles a Graph from AddNodeTable/AddRelTable/AddEdge calls,
// then Build() sorts and compresses each relationship table's edges into
// forward and backward CSR arrays once — the same "construct, then treat as
// read-only under concurrent readers" discipline the rest of this core
// assumes of its storage-engine collaborator.
package gdsgraph
