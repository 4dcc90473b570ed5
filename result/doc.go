// Package result provides an in-memory reference implementation of
// core.TablePool/core.FactorizedTable: one output partition per worker,
// merged into a single backing table once the driver completes.
//
// The merge runs once, single-threaded, after every worker has already
// finished, so a single lock on the pool suffices — partitions themselves
// are never shared between workers.
package result
