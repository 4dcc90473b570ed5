package gdsgraph

import (
	"errors"
	"sort"

	"github.com/kuzudb/gds-core/core"
)

// Sentinel errors returned by Builder.Build.
var (
	ErrUnknownNodeTable = errors.New("gdsgraph: edge references an unregistered node table")
	ErrDuplicateTable   = errors.New("gdsgraph: node table registered twice")
)

type edgeSpec struct {
	from, to core.Offset
	weight   float64
}

type relSpec struct {
	info  core.RelTableInfo
	edges []edgeSpec
}

// Builder accumulates node tables, relationship tables, and edges before
// compressing them into a read-only Graph.
type Builder struct {
	maxOffset map[core.TableID]uint64
	order     []core.TableID
	rels      []*relSpec
	relIndex  map[core.TableID]int
	err       error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		maxOffset: make(map[core.TableID]uint64),
		relIndex:  make(map[core.TableID]int),
	}
}

// AddNodeTable registers a node table with n rows (offsets [0, n)).
func (b *Builder) AddNodeTable(id core.TableID, n uint64) *Builder {
	if _, exists := b.maxOffset[id]; exists {
		b.err = ErrDuplicateTable
		return b
	}
	b.maxOffset[id] = n
	b.order = append(b.order, id)
	return b
}

// AddRelTable registers a relationship table's (fromTable, relTable,
// toTable) triple. Must be called before any AddEdge referencing relTable.
func (b *Builder) AddRelTable(info core.RelTableInfo) *Builder {
	b.relIndex[info.RelTable] = len(b.rels)
	b.rels = append(b.rels, &relSpec{info: info})
	return b
}

// AddEdge appends one edge to relTable, from offset `from` in the rel's
// from-table to offset `to` in its to-table. weight is ignored by
// unweighted algorithms and read back via Chunk.Weight by weighted ones.
func (b *Builder) AddEdge(relTable core.TableID, from, to core.Offset, weight float64) *Builder {
	idx, ok := b.relIndex[relTable]
	if !ok {
		b.err = ErrUnknownNodeTable
		return b
	}
	b.rels[idx].edges = append(b.rels[idx].edges, edgeSpec{from: from, to: to, weight: weight})
	return b
}

// Build compresses every registered relationship table into forward and
// backward CSR arrays and returns the finished, read-only Graph.
func (b *Builder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, r := range b.rels {
		if _, ok := b.maxOffset[r.info.FromTable]; !ok {
			return nil, ErrUnknownNodeTable
		}
		if _, ok := b.maxOffset[r.info.ToTable]; !ok {
			return nil, ErrUnknownNodeTable
		}
	}

	g := &Graph{
		maxOffset: make(map[core.TableID]uint64, len(b.maxOffset)),
		nodeOrder: append([]core.TableID(nil), b.order...),
		relInfos:  make([]core.RelTableInfo, 0, len(b.rels)),
		fwd:       make(map[core.TableID]*csr, len(b.rels)),
		bwd:       make(map[core.TableID]*csr, len(b.rels)),
	}
	for t, n := range b.maxOffset {
		g.maxOffset[t] = n
	}

	for _, r := range b.rels {
		g.relInfos = append(g.relInfos, r.info)
		g.fwd[r.info.RelTable] = buildCSR(r.info.RelTable, r.info.ToTable, r.edges, b.maxOffset[r.info.FromTable], func(e edgeSpec) core.Offset { return e.from }, func(e edgeSpec) core.Offset { return e.to })
		g.bwd[r.info.RelTable] = buildCSR(r.info.RelTable, r.info.FromTable, r.edges, b.maxOffset[r.info.ToTable], func(e edgeSpec) core.Offset { return e.to }, func(e edgeSpec) core.Offset { return e.from })
	}
	return g, nil
}

// csr is a compressed sparse row adjacency: offsets[i]..offsets[i+1] indexes
// into nbrs/edgeOffsets/weights for bound-node offset i. nbrTable names the
// node table the nbrs offsets are relative to (the opposite side of the
// relationship from the row index).
type csr struct {
	relTable    core.TableID
	nbrTable    core.TableID
	rowOffsets  []uint64
	nbrs        []core.Offset
	edgeOffsets []uint64 // original insertion index within the rel table, used as EdgeID.Offset
	weights     []float64
}

func buildCSR(relTable, nbrTable core.TableID, edges []edgeSpec, rows uint64, rowOf, colOf func(edgeSpec) core.Offset) *csr {
	type indexed struct {
		edgeSpec
		origIdx uint64
	}
	tagged := make([]indexed, len(edges))
	for i, e := range edges {
		tagged[i] = indexed{edgeSpec: e, origIdx: uint64(i)}
	}
	sort.SliceStable(tagged, func(i, j int) bool { return rowOf(tagged[i].edgeSpec) < rowOf(tagged[j].edgeSpec) })

	c := &csr{
		relTable:    relTable,
		nbrTable:    nbrTable,
		rowOffsets:  make([]uint64, rows+1),
		nbrs:        make([]core.Offset, len(tagged)),
		edgeOffsets: make([]uint64, len(tagged)),
		weights:     make([]float64, len(tagged)),
	}
	counts := make([]uint64, rows)
	for _, e := range tagged {
		counts[rowOf(e.edgeSpec)]++
	}
	var running uint64
	for i := uint64(0); i < rows; i++ {
		c.rowOffsets[i] = running
		running += counts[i]
	}
	c.rowOffsets[rows] = running

	cursor := append([]uint64(nil), c.rowOffsets[:rows]...)
	for _, e := range tagged {
		row := rowOf(e.edgeSpec)
		pos := cursor[row]
		cursor[row]++
		c.nbrs[pos] = colOf(e.edgeSpec)
		c.edgeOffsets[pos] = e.origIdx
		c.weights[pos] = e.weight
	}
	return c
}
