// Package wcc_test provides a runnable example demonstrating weakly
// connected components over an in-memory graph.
package wcc_test

import (
	"context"
	"fmt"

	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/gdsconfig"
	"github.com/kuzudb/gds-core/gdsgraph"
	"github.com/kuzudb/gds-core/result"
	"github.com/kuzudb/gds-core/wcc"
)

// ExampleRun labels two disjoint undirected edges: nodes {0,1} form one
// component and {2,3} another, each labeled with its smallest member.
func ExampleRun() {
	// 1) Build a 4-node graph with one relationship table holding the two
	//    disjoint edges, inserted in both directions.
	b := gdsgraph.NewBuilder().
		AddNodeTable(1, 4).
		AddRelTable(core.RelTableInfo{FromTable: 1, RelTable: 2, ToTable: 1})
	b.AddEdge(2, 0, 1, 1)
	b.AddEdge(2, 1, 0, 1)
	b.AddEdge(2, 2, 3, 1)
	b.AddEdge(2, 3, 2, 1)
	g, err := b.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// 2) Run label propagation with the default iteration budget.
	ectx := gdsgraph.NewExecutionContext(context.Background(), 1)
	out := result.New("nodeID", "group_id")
	if err := wcc.Run(context.Background(), ectx, g, gdsconfig.New(), out); err != nil {
		fmt.Println("error:", err)
		return
	}

	// 3) Rows come back in offset order, one per node.
	for _, row := range out.Rows() {
		fmt.Printf("node %d -> group %d\n", row[0].(core.NodeID).Offset, row[1].(int64))
	}
	// Output:
	// node 0 -> group 0
	// node 1 -> group 0
	// node 2 -> group 2
	// node 3 -> group 2
}
