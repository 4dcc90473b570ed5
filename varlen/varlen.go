package varlen

import (
	"context"

	"github.com/kuzudb/gds-core/compute"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/driver"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/parentgraph"
	"github.com/kuzudb/gds-core/writer"
)

// joinCompute: unlike every SP-family compute, every neighbor is
// activated and given a new parent record on every
// iteration, with no Unvisited/first-discovery gate — the point is to
// preserve every walk up to the iteration cap, not just the shortest one.
type joinCompute struct {
	pair  *frontier.Pair
	graph *parentgraph.BFSGraph
	block *parentgraph.BlockRef
	iter  uint32
}

func (c *joinCompute) Clone() compute.EdgeCompute {
	return &joinCompute{pair: c.pair, graph: c.graph, block: parentgraph.NewBlockRef(c.graph), iter: c.iter}
}

func (c *joinCompute) Compute(bound core.NodeID, chunk core.Chunk, isFwd bool) {
	chunk.ForEach(func(nbr core.NodeID, edge core.EdgeID, _ int) {
		c.pair.ForceSetNextFrontier(nbr.Offset)
		c.graph.AddParent(c.iter, bound, nbr, edge, isFwd, c.block)
	})
}

// Run computes variable-length paths from source to each node in
// destinations, upper-bounded by cfg.MaxIterations hops, and writes every
// surviving walk via writer.WriteSPPaths with opts's semantic/lower-bound
// filters applied.
func Run(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, source core.NodeID, direction core.Direction, destinations []core.NodeID, opts writer.PathOptions, cfg gdsconfig.Config, out core.TablePool) error {
	numWorkers := ectx.MaxThreadsForExec()
	if numWorkers < 1 {
		numWorkers = 1
	}

	pg := parentgraph.NewBFSGraph(graph)
	pair := frontier.NewPair(graph, numWorkers, true)
	if err := pair.PinNextFrontier(source.Table); err != nil {
		return err
	}
	pair.AddNodeToNextFrontier(source.Offset)

	rels := graph.RelTableInfos()
	specs := make([]driver.ScanSpec, len(rels))
	for i, rel := range rels {
		specs[i] = driver.ScanSpec{Rel: rel, Direction: direction}
	}

	err := driver.Converge(ectx, pair, int(cfg.MaxIterations), func(curIter uint32) error {
		return driver.ExtensionStep(ctx, ectx, graph, pair, specs, numWorkers, func() compute.EdgeCompute {
			return &joinCompute{pair: pair, graph: pg, block: parentgraph.NewBlockRef(pg), iter: curIter}
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
