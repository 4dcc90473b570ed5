package sp

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

// boundCost returns the total path cost bound already carries — zero for
// source itself, else the cost recorded at its single published parent
// record, since bound was only ever activated after TryAdd*WithWeight
// published that value.
func boundCost(graph *parentgraph.BFSGraph, source, bound core.NodeID) float64 {
	if bound == source {
		return 0
	}
	if head := graph.Head(bound); head != nil {
		return head.Cost
	}
	return 0
}

// wspCompute implements WSP: monotonically-decreasing CAS on the cost
// carried by the single-parent record, re-activating nbr whenever its cost
// strictly decreases. Driver may revisit the same node many times as
// cheaper paths are found (Bellman-Ford-style relaxation under a frontier
// that only ever re-scans last iteration's winners).
type wspCompute struct {
	pair   *frontier.Pair
	graph  *parentgraph.BFSGraph
	source core.NodeID
	block  *parentgraph.BlockRef
}

func (c *wspCompute) Clone() compute.EdgeCompute {
	return &wspCompute{pair: c.pair, graph: c.graph, source: c.source, block: parentgraph.NewBlockRef(c.graph)}
}

func (c *wspCompute) Compute(bound core.NodeID, chunk core.Chunk, isFwd bool) {
	base := boundCost(c.graph, c.source, bound)
	chunk.ForEach(func(nbr core.NodeID, edge core.EdgeID, i int) {
		w, ok := chunk.Weight(i)
		if !ok {
			w = 1
		}
		cost := base + w
		if c.graph.TryAddSingleParentWithWeight(bound, nbr, edge, isFwd, cost, c.block) {
			c.pair.ForceSetNextFrontier(nbr.Offset)
		}
	})
}

// WeightedPaths computes the weighted single-source shortest path to each
// destination and writes it with its total cost. cfg must
// carry a WeightProperty.
func WeightedPaths(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, source core.NodeID, direction core.Direction, destinations []core.NodeID, opts writer.PathOptions, cfg gdsconfig.Config, out core.TablePool) error {
	if err := cfg.RequireWeightProperty(); err != nil {
		return err
	}
	numWorkers := numWorkersOf(ectx)
	pg := parentgraph.NewBFSGraph(graph)
	pair := frontier.NewPair(graph, numWorkers, true)
	if err := seedSource(pair, source); err != nil {
		return err
	}

	specs := buildSpecs(graph, direction, []string{cfg.WeightProperty})
	err := driver.Converge(ectx, pair, int(cfg.MaxIterations), func(uint32) error {
		return driver.ExtensionStep(ctx, ectx, graph, pair, specs, numWorkers, func() compute.EdgeCompute {
			return &wspCompute{pair: pair, graph: pg, source: source, block: parentgraph.NewBlockRef(pg)}
		})
	})
	if err != nil {
		return err
	}

	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for _, d := range destinations {
		writer.WriteWSPPath(pg, source, d, opts, part)
	}
	out.MergeLocalTables()
	return nil
}

// awspCompute implements AWSP: same cost update as WSP, but
// try_add_parent_with_weight records every parent tied at the new minimum
// cost instead of replacing the chain outright.
type awspCompute struct {
	pair   *frontier.Pair
	graph  *parentgraph.BFSGraph
	source core.NodeID
	block  *parentgraph.BlockRef
}

func (c *awspCompute) Clone() compute.EdgeCompute {
	return &awspCompute{pair: c.pair, graph: c.graph, source: c.source, block: parentgraph.NewBlockRef(c.graph)}
}

func (c *awspCompute) Compute(bound core.NodeID, chunk core.Chunk, isFwd bool) {
	base := boundCost(c.graph, c.source, bound)
	chunk.ForEach(func(nbr core.NodeID, edge core.EdgeID, i int) {
		w, ok := chunk.Weight(i)
		if !ok {
			w = 1
		}
		cost := base + w
		if c.graph.TryAddParentWithWeight(bound, nbr, edge, isFwd, cost, c.block) {
			c.pair.ForceSetNextFrontier(nbr.Offset)
		}
	})
}

// AllWeightedPaths computes every minimal-cost path from source to each
// destination and writes all of them with their shared total cost. cfg
// must carry a WeightProperty.
func AllWeightedPaths(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, source core.NodeID, direction core.Direction, destinations []core.NodeID, opts writer.PathOptions, cfg gdsconfig.Config, out core.TablePool) error {
	if err := cfg.RequireWeightProperty(); err != nil {
		return err
	}
	numWorkers := numWorkersOf(ectx)
	pg := parentgraph.NewBFSGraph(graph)
	pair := frontier.NewPair(graph, numWorkers, true)
	if err := seedSource(pair, source); err != nil {
		return err
	}

	specs := buildSpecs(graph, direction, []string{cfg.WeightProperty})
	err := driver.Converge(ectx, pair, int(cfg.MaxIterations), func(uint32) error {
		return driver.ExtensionStep(ctx, ectx, graph, pair, specs, numWorkers, func() compute.EdgeCompute {
			return &awspCompute{pair: pair, graph: pg, source: source, block: parentgraph.NewBlockRef(pg)}
		})
	})
	if err != nil {
		return err
	}

	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	writer.WriteAWSPPaths(pg, source, destinations, opts, part)
	out.MergeLocalTables()
	return nil
}
