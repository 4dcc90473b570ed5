package core

import "context"

// Graph is the storage-engine handle this core consumes. It is a contract,
// not an implementation: the query binder/catalog/buffer manager own the
// concrete type, and are expected to serve every scan from warm buffers (or
// return an error) — this core never blocks on disk I/O itself. See the
// gdsgraph package for a reference implementation used by tests.
type Graph interface {
	// NodeTableIDs lists every node table this graph exposes.
	NodeTableIDs() []TableID

	// RelTableInfos lists every (fromTable, relTable, toTable) triple.
	RelTableInfos() []RelTableInfo

	// MaxOffset returns the number of rows (one past the largest valid
	// offset) for tableID.
	MaxOffset(tableID TableID) uint64

	// MaxOffsetMap returns MaxOffset for every node table, pre-pinned per
	// table so DenseObjectArray allocation never round-trips per lookup.
	MaxOffsetMap() *TableIDMap[uint64]

	// PrepareRelScan returns scan state for repeated Scan* calls against
	// (relGroup, relTable, dstTable), optionally projecting properties.
	// randomLookup hints that callers will scan single nodes rather than
	// whole morsels, letting the storage layer pick an access path.
	PrepareRelScan(relGroup, relTable, dstTable TableID, properties []string, randomLookup bool) (ScanState, error)

	// ScanFwd iterates the outgoing adjacency of node using the given scan
	// state, yielding chunks of neighbors.
	ScanFwd(node NodeID, state ScanState) (ChunkIterator, error)

	// ScanBwd iterates the incoming adjacency of node using the given scan
	// state, yielding chunks of neighbors.
	ScanBwd(node NodeID, state ScanState) (ChunkIterator, error)
}

// ScanState is opaque state returned by Graph.PrepareRelScan and threaded
// back into ScanFwd/ScanBwd; its shape is owned by the storage engine.
type ScanState interface{}

// ChunkIterator yields successive Chunks of one scan.
type ChunkIterator interface {
	// Next returns the next chunk, or ok=false once the scan is exhausted.
	Next() (Chunk, bool)
}

// Chunk is one batch of neighbors returned by a scan. EdgeProps, when the
// scan requested properties, is indexed the same way as ForEach's i.
type Chunk interface {
	// Len returns the number of neighbors in this chunk.
	Len() int
	// ForEach invokes fn once per neighbor, in chunk order.
	ForEach(fn func(nbr NodeID, edge EdgeID, i int))
	// Weight returns the edge weight for index i, when the scan was
	// prepared with a weight property. Returns ok=false otherwise.
	Weight(i int) (float64, bool)
}

// ExecutionContext is the query-execution collaborator this core consumes:
// worker budget, memory, the task scheduler, cancellation, and progress
// reporting. Named but intentionally thin — the scheduler/progress-bar
// implementations are out of this core's scope.
type ExecutionContext interface {
	// MaxThreadsForExec returns k, the worker count for this invocation.
	MaxThreadsForExec() int
	// Interrupted reports whether the query has been cancelled.
	Interrupted() bool
	// Context returns a context.Context whose cancellation mirrors
	// Interrupted, for use with APIs that expect one.
	Context() context.Context
	// UpdateProgress reports fraction complete in [0,1] for queryID.
	UpdateProgress(queryID string, fraction float64)
}

// TablePool is the factorized-table-pool collaborator: per-worker local
// output partitions merged into a shared result table once the driver
// finishes. See the result package for a reference implementation.
type TablePool interface {
	// ClaimLocalTable hands the calling worker its own output partition.
	ClaimLocalTable() FactorizedTable
	// ReturnLocalTable releases a partition back to the pool.
	ReturnLocalTable(FactorizedTable)
	// MergeLocalTables folds every claimed partition into the pool's
	// backing table. Called once, after the driver completes.
	MergeLocalTables()
}

// FactorizedTable accepts one output row at a time. Columns are positional;
// callers are expected to append values in the algorithm's declared
// column order.
type FactorizedTable interface {
	Append(row ...any)
}
