package sp

import (
	"context"

	"github.com/kuzudb/gds-core/atomics"
	"github.com/kuzudb/gds-core/compute"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/driver"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/parentgraph"
	"github.com/kuzudb/gds-core/writer"
)

func buildSpecs(graph core.Graph, direction core.Direction, properties []string) []driver.ScanSpec {
	rels := graph.RelTableInfos()
	specs := make([]driver.ScanSpec, len(rels))
	for i, rel := range rels {
		specs[i] = driver.ScanSpec{Rel: rel, Direction: direction, Properties: properties}
	}
	return specs
}

func seedSource(pair *frontier.Pair, source core.NodeID) error {
	if err := pair.PinNextFrontier(source.Table); err != nil {
		return err
	}
	pair.AddNodeToNextFrontier(source.Offset)
	return nil
}

func numWorkersOf(ectx core.ExecutionContext) int {
	n := ectx.MaxThreadsForExec()
	if n < 1 {
		n = 1
	}
	return n
}

// destCompute implements SP-destinations: activate any neighbor still
// Unvisited, nothing more.
type destCompute struct{ pair *frontier.Pair }

func (c *destCompute) Clone() compute.EdgeCompute { return &destCompute{pair: c.pair} }

func (c *destCompute) Compute(bound core.NodeID, chunk core.Chunk, _ bool) {
	chunk.ForEach(func(nbr core.NodeID, _ core.EdgeID, _ int) {
		c.pair.AddNodeToNextFrontier(nbr.Offset)
	})
}

// Destinations computes single-source shortest-path lengths and appends
// (source, dst, length) rows to out for every node reachable from source.
func Destinations(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, source core.NodeID, direction core.Direction, cfg gdsconfig.Config, out core.TablePool) error {
	numWorkers := numWorkersOf(ectx)
	pair := frontier.NewPair(graph, numWorkers, false)
	if err := seedSource(pair, source); err != nil {
		return err
	}

	specs := buildSpecs(graph, direction, nil)
	if err := driver.Converge(ectx, pair, int(cfg.MaxIterations), func(uint32) error {
		return driver.ExtensionStep(ctx, ectx, graph, pair, specs, numWorkers, func() compute.EdgeCompute {
			return &destCompute{pair: pair}
		})
	}); err != nil {
		return err
	}

	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for _, t := range graph.NodeTableIDs() {
		if err := pair.Cur().Pin(t); err != nil {
			return err
		}
		writer.WriteDestinations(pair.Cur(), source, t, graph.MaxOffset(t), part)
	}
	out.MergeLocalTables()
	return nil
}

// aspDestCompute implements ASP-destinations: maintain a per-node
// multiplicity count, adding bound's multiplicity to nbr's whenever nbr is
// discovered for the first time or re-discovered within the same iteration.
type aspDestCompute struct {
	pair *frontier.Pair
	mult *core.TableIDMap[*atomics.Uint64Array]
	iter uint32
}

func (c *aspDestCompute) Clone() compute.EdgeCompute {
	return &aspDestCompute{pair: c.pair, mult: c.mult, iter: c.iter}
}

func (c *aspDestCompute) Compute(bound core.NodeID, chunk core.Chunk, _ bool) {
	boundMult := c.mult.MustGet(bound.Table).Load(bound.Offset)
	chunk.ForEach(func(nbr core.NodeID, _ core.EdgeID, _ int) {
		c.pair.AddNodeToNextFrontier(nbr.Offset)
		if c.pair.Next().Get(nbr.Offset) == c.iter {
			c.mult.MustGet(nbr.Table).FetchAdd(nbr.Offset, boundMult)
		}
	})
}

// AllDestinations computes every distinct-shortest-path multiplicity from
// source and appends each destination's (source, dst, length) row repeated
// multiplicity times.
func AllDestinations(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, source core.NodeID, direction core.Direction, cfg gdsconfig.Config, out core.TablePool) error {
	numWorkers := numWorkersOf(ectx)

	mult := atomics.AllocateUint64Arrays(graph, 0)
	mult.MustGet(source.Table).Store(source.Offset, 1)

	pair := frontier.NewPair(graph, numWorkers, false)
	if err := seedSource(pair, source); err != nil {
		return err
	}

	specs := buildSpecs(graph, direction, nil)
	if err := driver.Converge(ectx, pair, int(cfg.MaxIterations), func(curIter uint32) error {
		return driver.ExtensionStep(ctx, ectx, graph, pair, specs, numWorkers, func() compute.EdgeCompute {
			return &aspDestCompute{pair: pair, mult: mult, iter: curIter}
		})
	}); err != nil {
		return err
	}

	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for _, t := range graph.NodeTableIDs() {
		if err := pair.Cur().Pin(t); err != nil {
			return err
		}
		m := mult.MustGet(t)
		writer.WriteMultiplicities(pair.Cur(), func(off core.Offset) uint64 { return m.Load(off) }, source, t, graph.MaxOffset(t), part)
	}
	out.MergeLocalTables()
	return nil
}

// pathsCompute implements SP-paths: the winner of the Unvisited CAS
// also wins the single-parent slot, so every node ends up with exactly one
// recorded predecessor.
type pathsCompute struct {
	pair  *frontier.Pair
	graph *parentgraph.BFSGraph
	block *parentgraph.BlockRef
	iter  uint32
}

func (c *pathsCompute) Clone() compute.EdgeCompute {
	return &pathsCompute{pair: c.pair, graph: c.graph, block: parentgraph.NewBlockRef(c.graph), iter: c.iter}
}

func (c *pathsCompute) Compute(bound core.NodeID, chunk core.Chunk, isFwd bool) {
	chunk.ForEach(func(nbr core.NodeID, edge core.EdgeID, _ int) {
		if c.pair.AddNodeToNextFrontier(nbr.Offset) {
			c.graph.AddSingleParent(c.iter, bound, nbr, edge, isFwd, c.block)
		}
	})
}

// Paths computes single-source shortest paths and writes every surviving
// path from source to each destination via writer.WriteSPPaths — exactly one
// path per destination, since pathsCompute records a single parent.
func Paths(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, source core.NodeID, direction core.Direction, destinations []core.NodeID, opts writer.PathOptions, cfg gdsconfig.Config, out core.TablePool) error {
	return runPaths(ctx, ectx, graph, source, direction, destinations, opts, cfg, out, false)
}

// allPathsCompute implements ASP-paths: every neighbor discovered
// within the current iteration (first time or tied) gets an additional
// parent record, preserving every alternative shortest path.
type allPathsCompute struct {
	pair  *frontier.Pair
	graph *parentgraph.BFSGraph
	block *parentgraph.BlockRef
	iter  uint32
}

func (c *allPathsCompute) Clone() compute.EdgeCompute {
	return &allPathsCompute{pair: c.pair, graph: c.graph, block: parentgraph.NewBlockRef(c.graph), iter: c.iter}
}

func (c *allPathsCompute) Compute(bound core.NodeID, chunk core.Chunk, isFwd bool) {
	chunk.ForEach(func(nbr core.NodeID, edge core.EdgeID, _ int) {
		c.pair.AddNodeToNextFrontier(nbr.Offset)
		if c.pair.Next().Get(nbr.Offset) == c.iter {
			c.graph.AddParent(c.iter, bound, nbr, edge, isFwd, c.block)
		}
	})
}

// AllPaths computes all distinct shortest paths from source to each
// destination and writes every one of them.
func AllPaths(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, source core.NodeID, direction core.Direction, destinations []core.NodeID, opts writer.PathOptions, cfg gdsconfig.Config, out core.TablePool) error {
	return runPaths(ctx, ectx, graph, source, direction, destinations, opts, cfg, out, true)
}

func runPaths(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, source core.NodeID, direction core.Direction, destinations []core.NodeID, opts writer.PathOptions, cfg gdsconfig.Config, out core.TablePool, all bool) error {
	numWorkers := numWorkersOf(ectx)
	pg := parentgraph.NewBFSGraph(graph)
	pair := frontier.NewPair(graph, numWorkers, false)
	if err := seedSource(pair, source); err != nil {
		return err
	}

	specs := buildSpecs(graph, direction, nil)
	err := driver.Converge(ectx, pair, int(cfg.MaxIterations), func(curIter uint32) error {
		return driver.ExtensionStep(ctx, ectx, graph, pair, specs, numWorkers, func() compute.EdgeCompute {
			if all {
				return &allPathsCompute{pair: pair, graph: pg, block: parentgraph.NewBlockRef(pg), iter: curIter}
			}
			return &pathsCompute{pair: pair, graph: pg, block: parentgraph.NewBlockRef(pg), iter: curIter}
		})
	})
	if err != nil {
		return err
	}

	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	writer.WriteSPPaths(pg, source, destinations, opts, part)
	out.MergeLocalTables()
	return nil
}
