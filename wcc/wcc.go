package wcc

import (
	"context"

	"github.com/kuzudb/gds-core/atomics"
	"github.com/kuzudb/gds-core/compute"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/driver"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/scheduler"
)

// Run computes weakly connected components over every node table in graph
// and appends (nodeID, groupID) rows to out.
func Run(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, cfg gdsconfig.Config, out core.TablePool) error {
	numWorkers := ectx.MaxThreadsForExec()
	if numWorkers < 1 {
		numWorkers = 1
	}

	ids := allocateGlobalIDs(graph)
	pair := frontier.NewPair(graph, numWorkers, false)

	// Seed one unit of activity so the first iteration always runs — wcc
	// drives its own full-table rescans rather than frontier.Pair's
	// discovery-tag narrowing, so Converge's seed-before-loop idiom applies
	// (see package doc).
	pair.MarkNextFrontierActivity()

	err := driver.Converge(ectx, pair, int(cfg.MaxIterations), func(uint32) error {
		return propagate(ctx, ectx, graph, pair, ids, numWorkers)
	})
	if err != nil {
		return err
	}

	return writeGroups(ctx, ectx, graph, ids, out, numWorkers)
}

// allocateGlobalIDs assigns every node a globally unique initial label —
// startOffset(table) + offset — so labels compare meaningfully across
// tables.
func allocateGlobalIDs(graph core.Graph) *core.TableIDMap[*atomics.Uint64Array] {
	m := core.NewTableIDMap[*atomics.Uint64Array]()
	var start uint64
	for _, t := range graph.NodeTableIDs() {
		n := graph.MaxOffset(t)
		arr := atomics.NewUint64Array(n, 0)
		for i := uint64(0); i < n; i++ {
			arr.Store(core.Offset(i), start+i)
		}
		m.Set(t, arr)
		start += n
	}
	return m
}

// propagate runs one full pass over every relationship table in both
// directions: for each bound node, CAS each neighbor's label down to the
// bound's label if strictly smaller, marking frontier activity on success.
func propagate(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, pair *frontier.Pair, ids *core.TableIDMap[*atomics.Uint64Array], numWorkers int) error {
	for _, rel := range graph.RelTableInfos() {
		for _, dir := range []core.Direction{core.FWD, core.BWD} {
			fromTable, toTable, isFwd := rel.FromTable, rel.ToTable, true
			if dir == core.BWD {
				fromTable, toTable, isFwd = rel.ToTable, rel.FromTable, false
			}

			scanState, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, nil, false)
			if err != nil {
				return err
			}
			dispatcher, err := pair.Dispatcher(fromTable)
			if err != nil {
				return err
			}
			// The FWD pass (or an earlier rel table) has drained the cursor.
			dispatcher.Reset(graph.MaxOffset(fromTable), numWorkers)

			fromIDs := ids.MustGet(fromTable)
			toIDs := ids.MustGet(toTable)

			err = scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
				return func(m frontier.Morsel) error {
					for off := m.Begin; off < m.End; off++ {
						bound := core.NodeID{Table: fromTable, Offset: core.Offset(off)}
						cur := fromIDs.Load(bound.Offset)

						var it core.ChunkIterator
						var scanErr error
						if isFwd {
							it, scanErr = graph.ScanFwd(bound, scanState)
						} else {
							it, scanErr = graph.ScanBwd(bound, scanState)
						}
						if scanErr != nil {
							return scanErr
						}
						for {
							chunk, ok := it.Next()
							if !ok {
								break
							}
							chunk.ForEach(func(nbr core.NodeID, _ core.EdgeID, _ int) {
								if toIDs.CASIfLess(nbr.Offset, cur) {
									pair.MarkNextFrontierActivity()
								}
							})
						}
					}
					return nil
				}
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// groupsWriter appends one (nodeID, groupID) row per offset of its morsel
// range into a worker-local output partition.
type groupsWriter struct {
	ids  *core.TableIDMap[*atomics.Uint64Array]
	pool core.TablePool
	part core.FactorizedTable
}

func (w *groupsWriter) Clone() compute.VertexCompute {
	return &groupsWriter{ids: w.ids, pool: w.pool, part: w.pool.ClaimLocalTable()}
}

func (w *groupsWriter) Compute(table core.TableID, begin, end core.Offset) {
	arr := w.ids.MustGet(table)
	for off := begin; off < end; off++ {
		w.part.Append(core.NodeID{Table: table, Offset: off}, int64(arr.Load(off)))
	}
}

// writeGroups runs the output sweep as a parallel vertex-compute: each
// worker claims its own partition, fills it morsel by morsel, and the pool
// merges every partition once all tables are done.
func writeGroups(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, ids *core.TableIDMap[*atomics.Uint64Array], out core.TablePool, numWorkers int) error {
	w := &groupsWriter{ids: ids, pool: out}
	for _, t := range graph.NodeTableIDs() {
		if err := driver.RunVertexPass(ctx, ectx, numWorkers, t, graph.MaxOffset(t), w.Clone); err != nil {
			return err
		}
	}
	out.MergeLocalTables()
	return nil
}
