package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/layout"
)

func TestRenderJSON(t *testing.T) {
	l := testLayout(t)
	data, err := RenderJSON(l)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 400 || out.Height != 200 {
		t.Errorf("size = %vx%v, want 400x200", out.Width, out.Height)
	}
	if out.Scale != l.Scale {
		t.Errorf("Scale = %v, want %v", out.Scale, l.Scale)
	}
	if out.Style.FontSize != 4 {
		t.Errorf("FontSize = %v, want 4", out.Style.FontSize)
	}
	if len(out.Layers) != 3 {
		t.Errorf("Layers = %v, want 3 layers", out.Layers)
	}
	if len(out.Nodes) != 5 || len(out.Ribbons) != 4 {
		t.Fatalf("counts = %d nodes, %d ribbons", len(out.Nodes), len(out.Ribbons))
	}
	if n := out.Nodes[2]; n.Label != "Income" || n.Flow != 80 || n.Text != "80" {
		t.Errorf("node 2 = %+v", n)
	}
	r := out.Ribbons[2]
	if r.From != 2 || r.To != 3 || r.Label != "rent" || r.Source.Top != l.Ribbons[2].FromTop {
		t.Errorf("ribbon 2 = %+v", r)
	}
	if r.Path != "" {
		t.Error("path should be omitted by default")
	}
}

func TestRenderJSONWithOptions(t *testing.T) {
	data, err := RenderJSON(testLayout(t), WithJSONIndent(), WithJSONPaths())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"height\"") {
		t.Error("expected indented output")
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if !strings.HasPrefix(out.Ribbons[0].Path, "M") || !strings.HasSuffix(out.Ribbons[0].Path, "Z") {
		t.Errorf("Path = %q", out.Ribbons[0].Path)
	}
}

func TestRenderJSON_Empty(t *testing.T) {
	l, err := layout.Build(flow.New(), 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderJSON(l)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	for _, want := range []string{`"layers":[]`, `"nodes":[]`, `"ribbons":[]`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output %s missing %s", data, want)
		}
	}
}
