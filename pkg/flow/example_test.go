package flow_test

import (
	"fmt"

	"github.com/matzehuels/sankey/pkg/flow"
)

func ExampleGraph_remaining() {
	// Income is fed by salary and bonus, then split into pension and the rest.
	g := flow.New()
	salary := g.AddNode(flow.Node{Value: flow.Fixed(50000), Label: "Salary"})
	bonus := g.AddNode(flow.Node{Value: flow.Fixed(5000), Label: "Bonus"})
	income := g.AddNode(flow.Node{Label: "Income"})
	_ = g.AddEdge(flow.Edge{From: salary, To: income, Value: g.RemainingOutput(salary)})
	_ = g.AddEdge(flow.Edge{From: bonus, To: income, Value: g.RemainingOutput(bonus)})

	pension := g.AddNode(flow.Node{Label: "Pension"})
	_ = g.AddEdge(flow.Edge{From: income, To: pension, Value: g.RequiredOutput(income) * 0.1})

	taxable := g.AddNode(flow.Node{Label: "Taxable"})
	_ = g.AddEdge(flow.Edge{From: income, To: taxable, Value: g.RemainingOutput(income)})

	fmt.Println("Income:", g.Flow(income))
	fmt.Println("Pension:", g.Flow(pension))
	fmt.Println("Taxable:", g.Flow(taxable))
	fmt.Println("Income remaining:", g.RemainingOutput(income))
	// Output:
	// Income: 55000
	// Pension: 5500
	// Taxable: 49500
	// Income remaining: 0
}

func ExampleFindCycles() {
	g := flow.New()
	a := g.AddNode(flow.Node{Label: "a"})
	b := g.AddNode(flow.Node{Label: "b"})
	_ = g.AddEdge(flow.Edge{From: a, To: b, Value: 1})
	_ = g.AddEdge(flow.Edge{From: b, To: a, Value: 1})

	fmt.Println(flow.FindCycles(g))
	// Output:
	// [[0 1]]
}
