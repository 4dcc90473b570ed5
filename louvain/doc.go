// Package louvain implements Louvain community detection: an in-memory
// CSR graph builder, a per-iteration modularity-gain evaluator
// with deterministic tie-break and swap-protection rules, community
// renumbering, and supernode aggregation across phases. Requires a graph
// with exactly one node table and one relationship table, mirroring
// kruskal's ErrSingleSchemaRequired.
package louvain
