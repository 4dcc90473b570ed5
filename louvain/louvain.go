package louvain

import (
	"context"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/gdsconfig"
)

// Run computes a Louvain community partition of graph and appends
// (nodeID, louvainID) rows to out. cfg.MaxPhases bounds the
// outer phase loop, cfg.MaxIterations bounds the per-phase iteration loop,
// cfg.Tolerance is consulted only insofar as a positive value is required —
// the per-iteration commit decision itself always uses the fixed
// Threshold constant rather than making it caller-tunable.
func Run(ctx context.Context, ectx core.ExecutionContext, graph core.Graph, cfg gdsconfig.Config, out core.TablePool) error {
	nodeTables := graph.NodeTableIDs()
	rels := graph.RelTableInfos()
	if len(nodeTables) != 1 || len(rels) != 1 {
		return ErrSingleSchemaRequired
	}
	table := nodeTables[0]
	rel := rels[0]
	origNumNodes := int(graph.MaxOffset(table))

	numWorkers := ectx.MaxThreadsForExec()
	if numWorkers < 1 {
		numWorkers = 1
	}

	weightProps := weightProperties(cfg)
	g, err := buildInitialGraph(graph, table, rel, weightProps)
	if err != nil {
		return err
	}

	finalResults := make([]uint64, origNumNodes)
	for i := range finalResults {
		finalResults[i] = uint64(i)
	}

	for phase := int64(0); phase < cfg.MaxPhases; phase++ {
		ps := newPhaseState(g)
		oldCommCount := g.numNodes

		if err := runPhaseIterations(ctx, ectx, ps, cfg, numWorkers); err != nil {
			return err
		}

		newCommCount := renumberCommunities(ps)
		saveCommAssignments(ps, finalResults, phase == 0)

		if newCommCount == oldCommCount {
			break
		}
		g = aggregateCommunities(ps, newCommCount)
		ectx.UpdateProgress("", float64(phase+1)/float64(cfg.MaxPhases))
	}

	return writeResults(table, finalResults, out)
}

// weightProperties returns the edge-property projection list a scan should
// request: the configured weight column, or nil for an implicitly uniform
// weight of 1 per edge.
func weightProperties(cfg gdsconfig.Config) []string {
	if cfg.WeightProperty == "" {
		return nil
	}
	return []string{cfg.WeightProperty}
}

// buildInitialGraph scans every forward edge of the single relationship
// table once and inserts it in both directions into a fresh inMemGraph.
// Single-threaded: the CSR's strict insertion-order invariant is easiest
// to keep correct sequentially, and this only runs once per invocation.
func buildInitialGraph(graph core.Graph, table core.TableID, rel core.RelTableInfo, weightProps []string) (*inMemGraph, error) {
	n := int(graph.MaxOffset(table))
	adj := make([][]edgeTuple, n)

	scanState, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, weightProps, false)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		bound := core.NodeID{Table: table, Offset: core.Offset(i)}
		it, err := graph.ScanFwd(bound, scanState)
		if err != nil {
			return nil, err
		}
		for {
			chunk, ok := it.Next()
			if !ok {
				break
			}
			chunk.ForEach(func(nbr core.NodeID, _ core.EdgeID, idx int) {
				w, ok := chunk.Weight(idx)
				if !ok {
					w = 1
				}
				j := int(nbr.Offset)
				adj[i] = append(adj[i], edgeTuple{j, w})
				if j != i {
					adj[j] = append(adj[j], edgeTuple{i, w})
				}
			})
		}
	}

	b := newInMemGraphBuilder(n, 0)
	for i := 0; i < n; i++ {
		b.initNextNode()
		for _, e := range adj[i] {
			b.insertNbr(e.nbr, e.w)
		}
	}
	return b.build(), nil
}

// runPhaseIterations runs up to cfg.MaxIterations modularity-gain rounds
// within one phase, discarding and stopping at the first round whose
// modularity improvement falls below Threshold.
func runPhaseIterations(ctx context.Context, ectx core.ExecutionContext, ps *phaseState, cfg gdsconfig.Config, numWorkers int) error {
	// -1 is a guaranteed-low sentinel: the ×2m-form modularity of even the
	// singleton partition computed on the first iteration must clear it, so
	// the first round's moves are never discarded for starting "below" a
	// zero baseline that doesn't actually bound the real (often negative on
	// iteration one) value.
	oldMod := -1.0
	for iter := int64(0); iter < cfg.MaxIterations; iter++ {
		ps.startNewIter()
		if err := runIteration(ctx, ectx, ps, numWorkers); err != nil {
			return err
		}
		currMod := computeModularity(ps)
		if currMod-oldMod < Threshold {
			break
		}
		ps.commit()
		oldMod = currMod
	}
	return nil
}

// renumberCommunities walks nodes in offset order assigning consecutive ids
// to the communities actually in use, writing the renumbered id into
// acceptedComm. Returns the number of
// distinct communities found.
func renumberCommunities(ps *phaseState) int {
	n := ps.graph.numNodes
	remap := make(map[uint64]uint64, n)
	next := uint64(0)
	for i := 0; i < n; i++ {
		c := ps.currComm.Load(core.Offset(i))
		if c == UnassignedComm {
			continue
		}
		id, ok := remap[c]
		if !ok {
			id = next
			next++
			remap[c] = id
		}
		ps.acceptedComm.Store(core.Offset(i), id)
	}
	return int(next)
}

// saveCommAssignments folds this phase's renumbered communities into
// finalResults, indexed by original node id. Phase 0 copies directly; later phases re-map
// through the previous phase's saved assignment, since finalResults[i]
// already names a node in the current (pre-aggregation) graph.
func saveCommAssignments(ps *phaseState, finalResults []uint64, isPhaseZero bool) {
	if isPhaseZero {
		for i := range finalResults {
			finalResults[i] = ps.acceptedComm.Load(core.Offset(i))
		}
		return
	}
	for i := range finalResults {
		finalResults[i] = ps.acceptedComm.Load(core.Offset(finalResults[i]))
	}
}

// aggregateCommunities builds the next phase's in-memory graph: one
// supernode per community, edges the weighted sum across every pair of
// communities with an inter- or intra-community edge in ps.graph.
// Undirected edges are inserted into the new CSR in both directions;
// self-loops (edges whose endpoints share one community) get a
// single row entry whose weight is already the doubled sum the ×2m
// modularity form expects, since it was accumulated from both stored
// directions of the previous CSR.
func aggregateCommunities(ps *phaseState, newCommCount int) *inMemGraph {
	type pairKey struct{ a, b int }
	pairWeight := make(map[pairKey]float64)

	n := ps.graph.numNodes
	for i := 0; i < n; i++ {
		ci := int(ps.acceptedComm.Load(core.Offset(i)))
		ps.graph.forEachNbr(i, func(nbr int, w float64) {
			cj := int(ps.acceptedComm.Load(core.Offset(nbr)))
			a, b := ci, cj
			if a > b {
				a, b = b, a
			}
			pairWeight[pairKey{a, b}] += w
		})
	}

	adj := make(map[int][]edgeTuple, newCommCount)
	for k, total := range pairWeight {
		if k.a == k.b {
			adj[k.a] = append(adj[k.a], edgeTuple{k.a, total})
			continue
		}
		half := total / 2
		adj[k.a] = append(adj[k.a], edgeTuple{k.b, half})
		adj[k.b] = append(adj[k.b], edgeTuple{k.a, half})
	}

	b := newInMemGraphBuilder(newCommCount, len(pairWeight)*2)
	for c := 0; c < newCommCount; c++ {
		b.initNextNode()
		for _, e := range adj[c] {
			b.insertNbr(e.nbr, e.w)
		}
	}
	return b.build()
}

func writeResults(table core.TableID, finalResults []uint64, out core.TablePool) error {
	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for i, comm := range finalResults {
		part.Append(core.NodeID{Table: table, Offset: core.Offset(i)}, int64(comm))
	}
	out.MergeLocalTables()
	return nil
}
