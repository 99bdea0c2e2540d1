package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/sankey/pkg/flow"
	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/layout"
)

func readGraph(t *testing.T, doc string) *graphio.Graph {
	t.Helper()
	g, err := graphio.ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestLayerRows(t *testing.T) {
	g := readGraph(t, budgetJSON)
	rows, err := layerRows(g, layout.FormatPlain)
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"0", "salary", "Salary", "60", "0", "60", "60"},
		{"0", "bonus", "Bonus", "20", "0", "20", "20"},
		{"1", "income", "Income", "—", "80", "80", "80"},
		{"2", "spent", "Spent", "—", "50", "0", "50"},
		{"2", "saved", "Saved", "—", "30", "0", "30"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestLayerRowsFormat(t *testing.T) {
	g := readGraph(t, budgetJSON)
	rows, err := layerRows(g, func(v float64) string { return fmt.Sprintf("£%.2f", v) })
	if err != nil {
		t.Fatal(err)
	}
	if rows[2][6] != "£80.00" {
		t.Errorf("income flow = %q, want £80.00", rows[2][6])
	}
}

func TestLayerRowsCycle(t *testing.T) {
	g := readGraph(t, `{"nodes":[{"id":"a","value":1},{"id":"b"}],"edges":[{"from":"a","to":"b"},{"from":"b","to":"a","value":1}]}`)
	_, err := layerRows(g, layout.FormatPlain)
	if !errors.Is(err, flow.ErrCycle) {
		t.Errorf("err = %v, want a cycle error", err)
	}
}

func TestPrintLayers(t *testing.T) {
	var buf bytes.Buffer
	if err := printLayers(&buf, readGraph(t, budgetJSON), layout.FormatPlain); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Layer", "Flow", "income", "Saved"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestLayersCommand(t *testing.T) {
	path := writeFile(t, "budget.json", budgetJSON)
	out, err := execute(t, "layers", path, "--number-format", "%.1f")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "80.0") {
		t.Errorf("--number-format not applied:\n%s", out)
	}
}
