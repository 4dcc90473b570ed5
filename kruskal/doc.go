// Package kruskal implements spanning-forest construction: a parallel
// forward-edge collection pass followed by a single-threaded sort and
// union-find walk (rank + path compression) over the dense per-table
// offset space, driven by this core's scheduler and morsel dispatcher.
package kruskal
