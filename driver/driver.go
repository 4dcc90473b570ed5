package driver

import (
	"context"

	"github.com/kuzudb/gds-core/compute"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/scheduler"
)

// Converge drives the outer iteration loop the frontier-driven algorithms
// in this core (sp, varlen, wcc) share: begin a new iteration, run step, repeat until pair reports no
// further activity or maxIterations is reached. Progress is reported to
// ectx after each iteration as the fraction of the iteration budget spent —
// a coarse measure, since most runs converge well before the budget, but
// the only monotone signal available without knowing the frontier's future.
//
// Callers must seed at least one activation on pair's next frontier (via
// PinNextFrontier + AddNodeToNextFrontier) before calling Converge —
// otherwise the very first ContinueNextIter check sees zero approximate
// activity and the loop never runs a single iteration.
func Converge(ectx core.ExecutionContext, pair *frontier.Pair, maxIterations int, step func(curIter uint32) error) error {
	for pair.ContinueNextIter(maxIterations) {
		pair.BeginNewIteration()
		if err := step(pair.CurIter()); err != nil {
			return err
		}
		if maxIterations > 0 {
			ectx.UpdateProgress("", float64(pair.CurIter())/float64(maxIterations))
		}
	}
	return nil
}

// ScanSpec names one relationship table and the direction(s) an extension
// step should scan it in. BOTH expands to one forward pass and one backward
// pass, each pinning the frontier pair to the appropriate table.
type ScanSpec struct {
	Rel        core.RelTableInfo
	Direction  core.Direction
	Properties []string
}

// ExtensionStep implements one BFS-family iteration: for
// every ScanSpec, it pins the frontier pair to the scan's from/to tables,
// dispatches morsels over the from-table's offset range, and for every
// offset that pair's current PathLengths tagged in the previous iteration
// (the newly discovered frontier), scans its neighbors and invokes a cloned
// EdgeCompute. Activation of newly-found neighbors happens inside the
// EdgeCompute closure itself, against the pair it was built with — this
// function only drives the scan.
func ExtensionStep(
	ctx context.Context,
	ectx core.ExecutionContext,
	graph core.Graph,
	pair *frontier.Pair,
	specs []ScanSpec,
	numWorkers int,
	newCompute func() compute.EdgeCompute,
) error {
	curIter := pair.CurIter()

	for _, spec := range specs {
		for _, dir := range expandDirection(spec.Direction) {
			fromTable, toTable, isFwd := spec.Rel.FromTable, spec.Rel.ToTable, true
			if dir == core.BWD {
				fromTable, toTable, isFwd = spec.Rel.ToTable, spec.Rel.FromTable, false
			}

			if err := pair.PinCurFrontier(fromTable); err != nil {
				return err
			}
			if err := pair.PinNextFrontier(toTable); err != nil {
				return err
			}

			scanState, err := graph.PrepareRelScan(spec.Rel.FromTable, spec.Rel.RelTable, spec.Rel.ToTable, spec.Properties, false)
			if err != nil {
				return err
			}

			dispatcher, err := pair.Dispatcher(fromTable)
			if err != nil {
				return err
			}
			// An earlier pass over the same from-table in this iteration (the
			// FWD half of BOTH, or another rel table) has drained the cursor.
			dispatcher.Reset(graph.MaxOffset(fromTable), numWorkers)

			cur := pair.Cur()
			err = scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
				ec := newCompute()
				return func(m frontier.Morsel) error {
					for off := m.Begin; off < m.End; off++ {
						offset := core.Offset(off)
						if cur.Get(offset) != curIter-1 {
							continue
						}
						bound := core.NodeID{Table: fromTable, Offset: offset}

						var it core.ChunkIterator
						var scanErr error
						if dir == core.BWD {
							it, scanErr = graph.ScanBwd(bound, scanState)
						} else {
							it, scanErr = graph.ScanFwd(bound, scanState)
						}
						if scanErr != nil {
							return scanErr
						}
						for {
							chunk, ok := it.Next()
							if !ok {
								break
							}
							ec.Compute(bound, chunk, isFwd)
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

func expandDirection(d core.Direction) []core.Direction {
	if d == core.BOTH {
		return []core.Direction{core.FWD, core.BWD}
	}
	return []core.Direction{d}
}

// RunVertexPass dispatches a VertexCompute over every offset of tableID,
// independent of frontier state — used for one-shot passes such as WCC's
// final output-writing sweep.
func RunVertexPass(ctx context.Context, ectx core.ExecutionContext, numWorkers int, tableID core.TableID, maxOffset uint64, newCompute func() compute.VertexCompute) error {
	dispatcher := frontier.NewDispatcher(maxOffset, numWorkers)
	return scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
		vc := newCompute()
		return func(m frontier.Morsel) error {
			vc.Compute(tableID, core.Offset(m.Begin), core.Offset(m.End))
			return nil
		}
	})
}
