// Package atomics provides per-node-table dense atomic object arrays with
// table pinning: one contiguous allocation per table, sized to that table's
// maxOffset, exposing relaxed atomic load/store/fetch-add/compare-exchange
// with no per-access bounds check on the hot path.
//
// Multi-label graphs touch one table per extension step, so a single
// pointer load per step (via Pin) amortizes indexing and keeps the inner
// loop pointer-chasing-free. Callers guarantee offset < maxOffset(pinned
// table); debug assertions are the caller's responsibility, not this
// package's — see core.TableIDMap.MustGet for the one bounds panic this
// package exposes, which only fires for an unknown table, never a bad
// offset.
package atomics
