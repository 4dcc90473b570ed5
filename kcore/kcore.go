package kcore

import (
	"context"
	"math"

	"github.com/kuzudb/gds-core/atomics"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/scheduler"
)

// Unassigned marks a node whose core number hasn't been determined yet.
const Unassigned uint64 = math.MaxUint64

// Run computes the k-core decomposition of graph and appends (nodeID,
// kDegree) rows to out. cfg.MaxIterations bounds the
// highest k value attempted, a pragmatic reading of the shared
// maxIterations option for an algorithm whose natural termination bound is
// the graph's maximum degree, not an iteration count.
func Run(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, cfg gdsconfig.Config, out core.TablePool) error {
	numWorkers := ectx.MaxThreadsForExec()
	if numWorkers < 1 {
		numWorkers = 1
	}

	degree := atomics.AllocateUint64Arrays(graph, 0)
	if err := computeDegrees(ctx, ectx, graph, degree, numWorkers); err != nil {
		return err
	}

	coreArr := atomics.AllocateUint64Arrays(graph, Unassigned)
	total := totalNodes(graph)
	assigned := 0

	for k := int64(0); assigned < total && k < cfg.MaxIterations; k++ {
		for {
			newly := peelAtK(graph, degree, coreArr, uint64(k))
			if len(newly) == 0 {
				break
			}
			assigned += len(newly)
			if err := decrementNeighbors(ctx, ectx, graph, degree, newly, numWorkers); err != nil {
				return err
			}
		}
		if total > 0 {
			ectx.UpdateProgress("", float64(assigned)/float64(total))
		}
	}

	return writeCore(graph, coreArr, out)
}

func totalNodes(graph core.Graph) int {
	var n int
	for _, t := range graph.NodeTableIDs() {
		n += int(graph.MaxOffset(t))
	}
	return n
}

// computeDegrees accumulates each node's total incident edge count — both
// directions, every relationship table — in a single pass.
func computeDegrees(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, degree *core.TableIDMap[*atomics.Uint64Array], numWorkers int) error {
	for _, rel := range graph.RelTableInfos() {
		for _, dir := range []core.Direction{core.FWD, core.BWD} {
			fromTable, isFwd := rel.FromTable, dir == core.FWD
			if !isFwd {
				fromTable = rel.ToTable
			}

			scanState, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, nil, false)
			if err != nil {
				return err
			}
			dispatcher := frontier.NewDispatcher(graph.MaxOffset(fromTable), numWorkers)
			deg := degree.MustGet(fromTable)

			err = scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
				return func(m frontier.Morsel) error {
					for off := m.Begin; off < m.End; off++ {
						bound := core.NodeID{Table: fromTable, Offset: core.Offset(off)}
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
						var count uint64
						for {
							chunk, ok := it.Next()
							if !ok {
								break
							}
							count += uint64(chunk.Len())
						}
						if count > 0 {
							deg.FetchAdd(bound.Offset, count)
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

// peelAtK scans every still-unassigned node and assigns core number k to
// any whose current degree has dropped to k or below, returning the
// newly-assigned nodes for the caller to decrement neighbors of.
func peelAtK(graph core.Graph, degree, coreArr *core.TableIDMap[*atomics.Uint64Array], k uint64) []core.NodeID {
	var newly []core.NodeID
	for _, t := range graph.NodeTableIDs() {
		deg := degree.MustGet(t)
		assignment := coreArr.MustGet(t)
		n := graph.MaxOffset(t)
		for i := uint64(0); i < n; i++ {
			off := core.Offset(i)
			if assignment.Load(off) != Unassigned {
				continue
			}
			if deg.Load(off) <= k {
				assignment.Store(off, k)
				newly = append(newly, core.NodeID{Table: t, Offset: off})
			}
		}
	}
	return newly
}

// decrementNeighbors decrements the degree of every neighbor (both
// directions) of every just-peeled node in newly, in parallel over newly's
// index range.
func decrementNeighbors(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, degree *core.TableIDMap[*atomics.Uint64Array], newly []core.NodeID, numWorkers int) error {
	rels := graph.RelTableInfos()
	scanStates := make(map[core.TableID]core.ScanState, len(rels))
	for _, rel := range rels {
		ss, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, nil, false)
		if err != nil {
			return err
		}
		scanStates[rel.RelTable] = ss
	}

	dispatcher := frontier.NewDispatcher(uint64(len(newly)), numWorkers)
	return scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
		return func(m frontier.Morsel) error {
			for idx := m.Begin; idx < m.End; idx++ {
				node := newly[idx]
				for _, rel := range rels {
					ss := scanStates[rel.RelTable]
					if rel.FromTable == node.Table {
						if err := decrementScan(graph, degree, node, ss, true); err != nil {
							return err
						}
					}
					if rel.ToTable == node.Table {
						if err := decrementScan(graph, degree, node, ss, false); err != nil {
							return err
						}
					}
				}
			}
			return nil
		}
	})
}

func decrementScan(graph core.Graph, degree *core.TableIDMap[*atomics.Uint64Array], node core.NodeID, ss core.ScanState, forward bool) error {
	var it core.ChunkIterator
	var err error
	if forward {
		it, err = graph.ScanFwd(node, ss)
	} else {
		it, err = graph.ScanBwd(node, ss)
	}
	if err != nil {
		return err
	}
	for {
		chunk, ok := it.Next()
		if !ok {
			break
		}
		chunk.ForEach(func(nbr core.NodeID, _ core.EdgeID, _ int) {
			degree.MustGet(nbr.Table).FetchSub(nbr.Offset, 1)
		})
	}
	return nil
}

func writeCore(graph core.Graph, coreArr *core.TableIDMap[*atomics.Uint64Array], out core.TablePool) error {
	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for _, t := range graph.NodeTableIDs() {
		arr := coreArr.MustGet(t)
		n := graph.MaxOffset(t)
		for i := uint64(0); i < n; i++ {
			part.Append(core.NodeID{Table: t, Offset: core.Offset(i)}, int64(arr.Load(core.Offset(i))))
		}
	}
	out.MergeLocalTables()
	return nil
}
