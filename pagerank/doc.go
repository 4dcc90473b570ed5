// Package pagerank implements PageRank over a core.Graph: an edge-compute
// that distributes each node's rank mass to its out-neighbors weighted by
// out-degree, and a convergence loop that applies damping and stops once
// the L1 rank delta drops below cfg.Tolerance or cfg.MaxIterations is
// reached.
package pagerank
