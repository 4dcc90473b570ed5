package pagerank

import (
	"context"
	"sync"

	"github.com/kuzudb/gds-core/atomics"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/scheduler"
)

// danglingAccumulator sums each worker's dangling-node mass under a mutex;
// contention is negligible since it's touched once per morsel, not once per
// node.
type danglingAccumulator struct {
	mu  sync.Mutex
	sum float64
}

func (d *danglingAccumulator) add(v float64) {
	d.mu.Lock()
	d.sum += v
	d.mu.Unlock()
}

func (d *danglingAccumulator) total() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sum
}

// Run computes PageRank over every node table in graph and appends
// (nodeID, rank) rows to out. Distributes mass along forward edges only —
// PageRank is defined over a graph's outgoing adjacency — weighted equally
// across each node's out-neighbors; dangling nodes (out-degree zero)
// redistribute their mass uniformly across every node, the standard
// treatment for a graph that isn't known to be strongly connected.
func Run(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, cfg gdsconfig.Config, out core.TablePool) error {
	numWorkers := ectx.MaxThreadsForExec()
	if numWorkers < 1 {
		numWorkers = 1
	}

	total := totalNodes(graph)
	if total == 0 {
		part := out.ClaimLocalTable()
		out.ReturnLocalTable(part)
		out.MergeLocalTables()
		return nil
	}
	n := float64(total)

	outDegree := atomics.AllocateUint64Arrays(graph, 0)
	if err := computeOutDegrees(ctx, ectx, graph, outDegree, numWorkers); err != nil {
		return err
	}

	rank := atomics.AllocateFloat64Arrays(graph, 1/n)
	next := atomics.AllocateFloat64Arrays(graph, 0)

	d := cfg.DampingFactor
	for iter := int64(0); iter < cfg.MaxIterations; iter++ {
		resetFloatMap(graph, next, 0)

		dangling, err := distribute(ctx, ectx, graph, rank, next, outDegree, numWorkers)
		if err != nil {
			return err
		}
		danglingShare := dangling / n

		var delta float64
		for _, t := range graph.NodeTableIDs() {
			r := rank.MustGet(t)
			nx := next.MustGet(t)
			m := graph.MaxOffset(t)
			for i := uint64(0); i < m; i++ {
				off := core.Offset(i)
				newVal := (1-d)/n + d*(nx.Load(off)+danglingShare)
				delta += abs(newVal - r.Load(off))
				r.Store(off, newVal)
			}
		}
		if delta < cfg.Tolerance {
			break
		}
		ectx.UpdateProgress("", float64(iter+1)/float64(cfg.MaxIterations))
	}

	return writeRanks(graph, rank, out)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func totalNodes(graph core.Graph) int {
	var n int
	for _, t := range graph.NodeTableIDs() {
		n += int(graph.MaxOffset(t))
	}
	return n
}

func resetFloatMap(graph core.Graph, m *core.TableIDMap[*atomics.Float64Array], fill float64) {
	for _, t := range graph.NodeTableIDs() {
		m.MustGet(t).Reset(fill)
	}
}

// computeOutDegrees accumulates each node's forward out-degree across every
// relationship table in a single parallel pass.
func computeOutDegrees(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, outDegree *core.TableIDMap[*atomics.Uint64Array], numWorkers int) error {
	for _, rel := range graph.RelTableInfos() {
		scanState, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, nil, false)
		if err != nil {
			return err
		}
		deg := outDegree.MustGet(rel.FromTable)
		dispatcher := frontier.NewDispatcher(graph.MaxOffset(rel.FromTable), numWorkers)

		err = scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
			return func(m frontier.Morsel) error {
				for off := m.Begin; off < m.End; off++ {
					bound := core.NodeID{Table: rel.FromTable, Offset: core.Offset(off)}
					it, scanErr := graph.ScanFwd(bound, scanState)
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
	return nil
}

// distribute runs one parallel pass over every forward edge, adding each
// bound node's rank/outDegree share to its neighbor's next-rank slot, then a
// separate pass over every node table summing the rank mass held by
// dangling (out-degree zero) nodes, so the caller can redistribute it
// uniformly. The dangling sum is computed once per node regardless of how
// many relationship tables use that node's table as a source — folding it
// into the per-relationship edge loop would double-count a node's mass once
// for every relationship table it happens to originate edges in.
func distribute(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, rank, next *core.TableIDMap[*atomics.Float64Array], outDegree *core.TableIDMap[*atomics.Uint64Array], numWorkers int) (float64, error) {
	for _, rel := range graph.RelTableInfos() {
		scanState, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, nil, false)
		if err != nil {
			return 0, err
		}
		r := rank.MustGet(rel.FromTable)
		nx := next.MustGet(rel.ToTable)
		deg := outDegree.MustGet(rel.FromTable)
		dispatcher := frontier.NewDispatcher(graph.MaxOffset(rel.FromTable), numWorkers)

		err = scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
			return func(m frontier.Morsel) error {
				for off := m.Begin; off < m.End; off++ {
					bound := core.NodeID{Table: rel.FromTable, Offset: core.Offset(off)}
					d := deg.Load(bound.Offset)
					if d == 0 {
						continue
					}
					share := r.Load(bound.Offset) / float64(d)
					it, scanErr := graph.ScanFwd(bound, scanState)
					if scanErr != nil {
						return scanErr
					}
					for {
						chunk, ok := it.Next()
						if !ok {
							break
						}
						chunk.ForEach(func(nbr core.NodeID, _ core.EdgeID, _ int) {
							nx.FetchAdd(nbr.Offset, share)
						})
					}
				}
				return nil
			}
		})
		if err != nil {
			return 0, err
		}
	}

	return sumDanglingMass(ctx, ectx, graph, rank, outDegree, numWorkers)
}

// sumDanglingMass adds up the rank held by every zero-out-degree node across
// every node table, in parallel, one node counted exactly once.
func sumDanglingMass(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, rank *core.TableIDMap[*atomics.Float64Array], outDegree *core.TableIDMap[*atomics.Uint64Array], numWorkers int) (float64, error) {
	var danglingMu danglingAccumulator
	for _, t := range graph.NodeTableIDs() {
		r := rank.MustGet(t)
		deg := outDegree.MustGet(t)
		dispatcher := frontier.NewDispatcher(graph.MaxOffset(t), numWorkers)

		err := scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
			return func(m frontier.Morsel) error {
				var localDangling float64
				for off := m.Begin; off < m.End; off++ {
					offset := core.Offset(off)
					if deg.Load(offset) == 0 {
						localDangling += r.Load(offset)
					}
				}
				if localDangling != 0 {
					danglingMu.add(localDangling)
				}
				return nil
			}
		})
		if err != nil {
			return 0, err
		}
	}
	return danglingMu.total(), nil
}

func writeRanks(graph core.Graph, rank *core.TableIDMap[*atomics.Float64Array], out core.TablePool) error {
	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for _, t := range graph.NodeTableIDs() {
		r := rank.MustGet(t)
		n := graph.MaxOffset(t)
		for i := uint64(0); i < n; i++ {
			part.Append(core.NodeID{Table: t, Offset: core.Offset(i)}, r.Load(core.Offset(i)))
		}
	}
	out.MergeLocalTables()
	return nil
}
