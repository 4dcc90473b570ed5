// Package kruskal_test provides a runnable example demonstrating minimum
// spanning forest construction.
package kruskal_test

import (
	"context"
	"fmt"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/gdsgraph"
	"github.com/kuzudb/gds-core/kruskal"
	"github.com/kuzudb/gds-core/result"
)

// ExampleRun builds the forest over a weighted triangle {0,1,2} plus a
// detached edge (3,4): the heaviest triangle edge (0,2) is left out and the
// result splits into two trees.
func ExampleRun() {
	// 1) One node table, one relationship table, each edge inserted once —
	//    the forest scan reads forward adjacency only.
	b := gdsgraph.NewBuilder().
		AddNodeTable(1, 5).
		AddRelTable(core.RelTableInfo{FromTable: 1, RelTable: 2, ToTable: 1})
	b.AddEdge(2, 0, 1, 1)
	b.AddEdge(2, 1, 2, 2)
	b.AddEdge(2, 0, 2, 3)
	b.AddEdge(2, 3, 4, 1)
	g, err := b.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// 2) Run the MIN variant reading weights from the "weight" property.
	ectx := gdsgraph.NewExecutionContext(context.Background(), 1)
	out := result.New("src", "dst", "rel", "forest_id")
	cfg := gdsconfig.New(gdsconfig.WithVariant(gdsconfig.VariantMin), gdsconfig.WithWeightProperty("weight"))
	if err := kruskal.Run(context.Background(), ectx, g, cfg, out); err != nil {
		fmt.Println("error:", err)
		return
	}

	// 3) Rows arrive in edge-acceptance order; forest_id is the union-find
	//    root of each edge's source.
	for _, row := range out.Rows() {
		fmt.Printf("%d-%d forest %d\n",
			row[0].(core.NodeID).Offset, row[1].(core.NodeID).Offset, row[3].(uint64))
	}
	// Output:
	// 0-1 forest 0
	// 3-4 forest 3
	// 1-2 forest 0
}
