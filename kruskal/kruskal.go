package kruskal

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/scheduler"
)

// ErrSingleSchemaRequired is returned when graph exposes more than one node
// table or more than one relationship table — spanning-forest construction
// needs a single unambiguous component space.
var ErrSingleSchemaRequired = errors.New("kruskal: spanning forest requires exactly one node table and one relationship table")

type edge struct {
	src, dst  core.Offset
	relOffset core.Offset
	weight    float64
}

// Run computes a minimum (or maximum) spanning forest of graph and appends
// one row per forest edge — (src, dst, rel, forestId) — to out.
// cfg.Variant selects MIN or MAX; cfg.WeightProperty names
// the edge property to read weights from, or "" for an implicitly uniform
// weight (any spanning tree is then minimal, ties broken by (src,dst,rel)).
func Run(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, cfg gdsconfig.Config, out core.TablePool) error {
	nodeTables := graph.NodeTableIDs()
	rels := graph.RelTableInfos()
	if len(nodeTables) != 1 || len(rels) != 1 {
		return ErrSingleSchemaRequired
	}
	table := nodeTables[0]
	rel := rels[0]
	n := graph.MaxOffset(table)

	edges, err := collectEdges(ctx, ectx, graph, rel, cfg, n)
	if err != nil {
		return err
	}

	less := ascending
	if cfg.Variant == gdsconfig.VariantMax {
		less = descending
	}
	sort.Slice(edges, func(i, j int) bool { return less(edges[i], edges[j]) })

	ds := newDisjointSet(n)
	var forest []edge
	target := int(n) - 1
	for _, e := range edges {
		if len(forest) >= target {
			break
		}
		ra, rb := ds.find(e.src), ds.find(e.dst)
		if ra == rb {
			continue
		}
		ds.union(ra, rb)
		forest = append(forest, e)
	}

	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for _, e := range forest {
		forestID := ds.find(e.src)
		part.Append(
			core.NodeID{Table: table, Offset: e.src},
			core.NodeID{Table: table, Offset: e.dst},
			core.EdgeID{RelTable: rel.RelTable, Offset: e.relOffset},
			uint64(forestID),
		)
	}
	out.MergeLocalTables()
	return nil
}

// collectEdges scans every node's forward adjacency once in parallel via
// the morsel dispatcher, skipping self-loops, and merges each worker's
// local batch under a mutex.
func collectEdges(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, rel core.RelTableInfo, cfg gdsconfig.Config, n uint64) ([]edge, error) {
	numWorkers := ectx.MaxThreadsForExec()
	if numWorkers < 1 {
		numWorkers = 1
	}

	var properties []string
	if cfg.WeightProperty != "" {
		properties = []string{cfg.WeightProperty}
	}
	scanState, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, properties, false)
	if err != nil {
		return nil, err
	}

	dispatcher := frontier.NewDispatcher(n, numWorkers)
	var mu sync.Mutex
	var all []edge

	err = scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
		return func(m frontier.Morsel) error {
			var local []edge
			for off := m.Begin; off < m.End; off++ {
				bound := core.NodeID{Table: rel.FromTable, Offset: core.Offset(off)}
				it, scanErr := graph.ScanFwd(bound, scanState)
				if scanErr != nil {
					return scanErr
				}
				for {
					chunk, ok := it.Next()
					if !ok {
						break
					}
					chunk.ForEach(func(nbr core.NodeID, edgeID core.EdgeID, i int) {
						if nbr.Offset == bound.Offset {
							return
						}
						w, ok := chunk.Weight(i)
						if !ok {
							w = 1
						}
						local = append(local, edge{src: bound.Offset, dst: nbr.Offset, relOffset: edgeID.Offset, weight: w})
					})
				}
			}
			mu.Lock()
			all = append(all, local...)
			mu.Unlock()
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func ascending(a, b edge) bool {
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	if a.src != b.src {
		return a.src < b.src
	}
	if a.dst != b.dst {
		return a.dst < b.dst
	}
	return a.relOffset < b.relOffset
}

func descending(a, b edge) bool { return ascending(b, a) }
