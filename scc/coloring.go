package scc

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/kuzudb/gds-core/atomics"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/scheduler"
)

// Unassigned marks a node whose component hasn't been finalized yet.
const Unassigned uint64 = math.MaxUint64

// ErrNoNodeTables is returned when graph exposes no node tables at all.
var ErrNoNodeTables = errors.New("scc: graph has no node tables")

// RunColoring computes strongly connected components via the forward/
// backward coloring algorithm and appends (nodeID,
// groupID) rows to out. Each round finishes at least the globally
// smallest-ID unfinished node, guaranteeing progress; cfg.MaxIterations
// bounds the number of rounds.
func RunColoring(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, cfg gdsconfig.Config, out core.TablePool) error {
	if len(graph.NodeTableIDs()) == 0 {
		return ErrNoNodeTables
	}
	numWorkers := ectx.MaxThreadsForExec()
	if numWorkers < 1 {
		numWorkers = 1
	}

	ids := allocateGlobalIDs(graph)
	componentIDs := atomics.AllocateUint64Arrays(graph, Unassigned)
	fwdColors := atomics.AllocateUint64Arrays(graph, 0)
	bwdColors := atomics.AllocateUint64Arrays(graph, 0)

	remaining := totalNodes(graph)
	for iter := int64(0); iter < cfg.MaxIterations && remaining > 0; iter++ {
		resetColors(graph, ids, componentIDs, fwdColors, bwdColors)
		if err := propagateToFixpoint(ctx, ectx, graph, componentIDs, fwdColors, core.FWD, numWorkers); err != nil {
			return err
		}
		if err := propagateToFixpoint(ctx, ectx, graph, componentIDs, bwdColors, core.BWD, numWorkers); err != nil {
			return err
		}
		remaining = finalizeMatchingColors(graph, componentIDs, fwdColors, bwdColors)
		ectx.UpdateProgress("", float64(iter+1)/float64(cfg.MaxIterations))
	}

	return writeComponents(graph, componentIDs, out)
}

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

func totalNodes(graph core.Graph) int {
	var n int
	for _, t := range graph.NodeTableIDs() {
		n += int(graph.MaxOffset(t))
	}
	return n
}

// resetColors seeds fwd/bwd color back to each unfinished node's own
// global id ahead of a propagation round.
func resetColors(graph core.Graph, ids, componentIDs, fwdColors, bwdColors *core.TableIDMap[*atomics.Uint64Array]) {
	for _, t := range graph.NodeTableIDs() {
		comp := componentIDs.MustGet(t)
		idArr := ids.MustGet(t)
		fwd := fwdColors.MustGet(t)
		bwd := bwdColors.MustGet(t)
		n := graph.MaxOffset(t)
		for i := uint64(0); i < n; i++ {
			off := core.Offset(i)
			if comp.Load(off) != Unassigned {
				continue
			}
			id := idArr.Load(off)
			fwd.Store(off, id)
			bwd.Store(off, id)
		}
	}
}

// propagateToFixpoint repeatedly CAS-minimums colors along dir's edges,
// restricted to still-unfinished nodes on both ends, until a full pass
// makes no change.
func propagateToFixpoint(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, componentIDs, colors *core.TableIDMap[*atomics.Uint64Array], dir core.Direction, numWorkers int) error {
	for {
		var changed atomic.Bool
		for _, rel := range graph.RelTableInfos() {
			fromTable, toTable, isFwd := rel.FromTable, rel.ToTable, dir == core.FWD
			if !isFwd {
				fromTable, toTable = rel.ToTable, rel.FromTable
			}

			scanState, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, nil, false)
			if err != nil {
				return err
			}
			dispatcher := frontier.NewDispatcher(graph.MaxOffset(fromTable), numWorkers)

			fromComp := componentIDs.MustGet(fromTable)
			fromColor := colors.MustGet(fromTable)
			toComp := componentIDs.MustGet(toTable)
			toColor := colors.MustGet(toTable)

			err = scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
				return func(m frontier.Morsel) error {
					for off := m.Begin; off < m.End; off++ {
						boundOff := core.Offset(off)
						if fromComp.Load(boundOff) != Unassigned {
							continue
						}
						boundColor := fromColor.Load(boundOff)
						bound := core.NodeID{Table: fromTable, Offset: boundOff}

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
								if toComp.Load(nbr.Offset) != Unassigned {
									return
								}
								if toColor.CASIfLess(nbr.Offset, boundColor) {
									changed.Store(true)
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
		if !changed.Load() {
			return nil
		}
	}
}

// finalizeMatchingColors assigns a final component to every unfinished node
// whose fwd and bwd colors now agree, and returns the count still
// unfinished afterward.
func finalizeMatchingColors(graph core.Graph, componentIDs, fwdColors, bwdColors *core.TableIDMap[*atomics.Uint64Array]) int {
	remaining := 0
	for _, t := range graph.NodeTableIDs() {
		comp := componentIDs.MustGet(t)
		fwd := fwdColors.MustGet(t)
		bwd := bwdColors.MustGet(t)
		n := graph.MaxOffset(t)
		for i := uint64(0); i < n; i++ {
			off := core.Offset(i)
			if comp.Load(off) != Unassigned {
				continue
			}
			if f, b := fwd.Load(off), bwd.Load(off); f == b {
				comp.Store(off, f)
			} else {
				remaining++
			}
		}
	}
	return remaining
}

func writeComponents(graph core.Graph, componentIDs *core.TableIDMap[*atomics.Uint64Array], out core.TablePool) error {
	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for _, t := range graph.NodeTableIDs() {
		arr := componentIDs.MustGet(t)
		n := graph.MaxOffset(t)
		for i := uint64(0); i < n; i++ {
			part.Append(core.NodeID{Table: t, Offset: core.Offset(i)}, int64(arr.Load(core.Offset(i))))
		}
	}
	out.MergeLocalTables()
	return nil
}
