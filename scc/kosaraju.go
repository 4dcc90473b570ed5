package scc

import (
	"errors"

	"github.com/kuzudb/gds-core/core"
)

// ErrSingleSchemaRequired is returned when graph exposes more than one node
// table or more than one relationship table — Kosaraju's sequential DFS
// walks a single flat offset space.
var ErrSingleSchemaRequired = errors.New("scc: kosaraju requires exactly one node table and one relationship table")

// RunKosaraju computes strongly connected components with the classical
// two-pass sequential algorithm: an iterative forward DFS recording finish
// order, then a reverse-order backward DFS assigning component ids.
// Appends (nodeID, groupID) rows to out, same contract as RunColoring.
func RunKosaraju(graph core.Graph, out core.TablePool) error {
	nodeTables := graph.NodeTableIDs()
	rels := graph.RelTableInfos()
	if len(nodeTables) != 1 || len(rels) != 1 {
		return ErrSingleSchemaRequired
	}
	table := nodeTables[0]
	rel := rels[0]
	n := graph.MaxOffset(table)

	scanState, err := graph.PrepareRelScan(rel.FromTable, rel.RelTable, rel.ToTable, nil, false)
	if err != nil {
		return err
	}

	order, err := forwardFinishOrder(graph, table, n, scanState)
	if err != nil {
		return err
	}

	comp := make([]uint64, n)
	for i := range comp {
		comp[i] = Unassigned
	}
	var nextID uint64
	for i := len(order) - 1; i >= 0; i-- {
		root := order[i]
		if comp[root] != Unassigned {
			continue
		}
		id := nextID
		nextID++
		if err := backwardAssign(graph, table, root, id, comp, scanState); err != nil {
			return err
		}
	}

	part := out.ClaimLocalTable()
	defer out.ReturnLocalTable(part)
	for i := uint64(0); i < n; i++ {
		part.Append(core.NodeID{Table: table, Offset: core.Offset(i)}, int64(comp[i]))
	}
	out.MergeLocalTables()
	return nil
}

type dfsFrame struct {
	node core.Offset
	nbrs []core.Offset
	idx  int
}

// forwardFinishOrder performs an iterative post-order forward DFS from
// every unvisited offset in ascending order, using an explicit stack so no
// recursion limit is hit.
func forwardFinishOrder(graph core.Graph, table core.TableID, n uint64, scanState core.ScanState) ([]core.Offset, error) {
	visited := make([]bool, n)
	order := make([]core.Offset, 0, n)

	for start := core.Offset(0); uint64(start) < n; start++ {
		if visited[start] {
			continue
		}
		nbrs, err := neighborsOf(graph, table, start, scanState, true)
		if err != nil {
			return nil, err
		}
		visited[start] = true
		stack := []*dfsFrame{{node: start, nbrs: nbrs}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.idx >= len(top.nbrs) {
				order = append(order, top.node)
				stack = stack[:len(stack)-1]
				continue
			}
			nbr := top.nbrs[top.idx]
			top.idx++
			if visited[nbr] {
				continue
			}
			visited[nbr] = true
			nextNbrs, err := neighborsOf(graph, table, nbr, scanState, true)
			if err != nil {
				return nil, err
			}
			stack = append(stack, &dfsFrame{node: nbr, nbrs: nextNbrs})
		}
	}
	return order, nil
}

// backwardAssign iteratively walks the reverse-edge reachability set of
// root (explicit stack, no recursion), assigning every reached offset to
// component id.
func backwardAssign(graph core.Graph, table core.TableID, root core.Offset, id uint64, comp []uint64, scanState core.ScanState) error {
	comp[root] = id
	stack := []core.Offset{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nbrs, err := neighborsOf(graph, table, cur, scanState, false)
		if err != nil {
			return err
		}
		for _, nbr := range nbrs {
			if comp[nbr] == Unassigned {
				comp[nbr] = id
				stack = append(stack, nbr)
			}
		}
	}
	return nil
}

func neighborsOf(graph core.Graph, table core.TableID, offset core.Offset, state core.ScanState, forward bool) ([]core.Offset, error) {
	node := core.NodeID{Table: table, Offset: offset}
	var it core.ChunkIterator
	var err error
	if forward {
		it, err = graph.ScanFwd(node, state)
	} else {
		it, err = graph.ScanBwd(node, state)
	}
	if err != nil {
		return nil, err
	}
	var out []core.Offset
	for {
		chunk, ok := it.Next()
		if !ok {
			break
		}
		chunk.ForEach(func(nbr core.NodeID, _ core.EdgeID, _ int) { out = append(out, nbr.Offset) })
	}
	return out, nil
}
