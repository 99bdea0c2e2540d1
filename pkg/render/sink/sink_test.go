package sink

import (
	"testing"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/layout"
)

// testGraph builds two sources feeding a sink, then a split into two
// outputs. Edge values 60, 20, 50, 30 give a distinct depth order.
func testGraph(t *testing.T) *flow.Graph {
	t.Helper()
	g := flow.New()
	a := g.AddNode(flow.Node{Value: flow.Fixed(60), Label: "Wages"})
	b := g.AddNode(flow.Node{Value: flow.Fixed(20), Label: "Tips & <bonus>", Color: "#f00"})
	mid := g.AddNode(flow.Node{Label: "Income"})
	x := g.AddNode(flow.Node{Label: "Spent"})
	y := g.AddNode(flow.Node{})

	edges := []flow.Edge{
		{From: a, To: mid, Value: 60},
		{From: b, To: mid, Value: 20, Color: "#00ff0080"},
		{From: mid, To: x, Value: 50, Label: "rent"},
		{From: mid, To: y, Value: 30},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	l, err := layout.Build(testGraph(t), 400, 200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return l
}
