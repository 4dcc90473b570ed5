package result

import (
	"sync"

	"github.com/kuzudb/gds-core/core"
)

// Partition is one worker's local row buffer. Append is safe only from the
// worker that claimed it; rows are plain positional values, matching
// core.FactorizedTable's column-order contract.
type Partition struct {
	rows [][]any
}

// Append adds one output row.
func (p *Partition) Append(row ...any) {
	p.rows = append(p.rows, append([]any(nil), row...))
}

// Table is an in-memory core.TablePool plus the merged core.FactorizedTable
// rows an algorithm's caller ultimately reads.
type Table struct {
	mu         sync.Mutex
	columns    []string
	partitions []*Partition
	claimed    map[*Partition]bool
	merged     [][]any
}

// New builds an empty Table declaring its output column names, for
// diagnostic/printing purposes only — the columns are not type-checked.
func New(columns ...string) *Table {
	return &Table{columns: columns, claimed: make(map[*Partition]bool)}
}

// ClaimLocalTable hands the calling worker a fresh partition, satisfying
// core.TablePool.
func (t *Table) ClaimLocalTable() core.FactorizedTable {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := &Partition{}
	t.partitions = append(t.partitions, p)
	t.claimed[p] = true
	return p
}

// ReturnLocalTable releases a partition; its rows remain queued for merge.
func (t *Table) ReturnLocalTable(ft core.FactorizedTable) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := ft.(*Partition); ok {
		delete(t.claimed, p)
	}
}

// MergeLocalTables folds every partition's rows into the table's merged
// output, in partition-claim order. Called once, after the driver
// finishes.
func (t *Table) MergeLocalTables() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.partitions {
		t.merged = append(t.merged, p.rows...)
	}
	t.partitions = nil
}

// Rows returns the merged rows. Only meaningful after MergeLocalTables.
func (t *Table) Rows() [][]any { return t.merged }

// Columns returns the declared column names.
func (t *Table) Columns() []string { return t.columns }

// Len returns the number of merged rows.
func (t *Table) Len() int { return len(t.merged) }
