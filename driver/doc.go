// Package driver implements the GDS driver loop: the outer "until
// convergence" iteration (Converge) shared by the frontier-driven
// algorithms in this core (sp, varlen, wcc), plus ExtensionStep, the
// frontier-narrowed neighbor-scan used by the BFS-family algorithms
// (SP/ASP/WSP/AWSP, variable-length joins) that read only the previous
// iteration's newly discovered nodes.
//
// WCC reuses Converge for its outer loop but drives its own per-iteration
// morsel scan directly through package scheduler, because its per-node
// state lives in an atomic array of component IDs rather than in a
// frontier.PathLengths pair. SCC coloring, K-Core, Louvain and PageRank run
// self-driven loops over package scheduler and do not call Converge.
package driver
