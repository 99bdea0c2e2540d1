package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sankey/pkg/flow"
)

type document struct {
	Nodes []node `json:"nodes" yaml:"nodes"`
	Edges []edge `json:"edges" yaml:"edges"`
}

type node struct {
	ID    string   `json:"id" yaml:"id"`
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
	Color string   `json:"color,omitempty" yaml:"color,omitempty"`
}

type edge struct {
	From  string   `json:"from" yaml:"from"`
	To    string   `json:"to" yaml:"to"`
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
	Color string   `json:"color,omitempty" yaml:"color,omitempty"`
}

// Graph is a flow graph together with the string ids its nodes had in the
// source document.
type Graph struct {
	*flow.Graph

	// IDs is indexed by flow.NodeID.
	IDs []string

	index map[string]flow.NodeID
}

// FromFlow wraps a graph built in code, naming node i "n<i>".
func FromFlow(fg *flow.Graph) *Graph {
	g := &Graph{
		Graph: fg,
		IDs:   make([]string, fg.NodeCount()),
		index: make(map[string]flow.NodeID, fg.NodeCount()),
	}
	for i := range g.IDs {
		id := fmt.Sprintf("n%d", i)
		g.IDs[i] = id
		g.index[id] = flow.NodeID(i)
	}
	return g
}

// Lookup returns the handle of the node with the given document id.
func (g *Graph) Lookup(id string) (flow.NodeID, bool) {
	h, ok := g.index[id]
	return h, ok
}

// Name returns a display name for a node: its label, or its document id
// when the label is empty.
func (g *Graph) Name(id flow.NodeID) string {
	if n, ok := g.Node(id); ok && n.Label != "" {
		return n.Label
	}
	if int(id) >= 0 && int(id) < len(g.IDs) {
		return g.IDs[id]
	}
	return fmt.Sprintf("#%d", id)
}

func (g *Graph) document() document {
	doc := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nd := node{ID: g.IDs[n.ID], Label: n.Label, Color: n.Color}
		if n.Value != nil {
			v := *n.Value
			nd.Value = &v
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.Edges() {
		v := e.Value
		doc.Edges = append(doc.Edges, edge{
			From: g.IDs[e.From], To: g.IDs[e.To], Value: &v, Label: e.Label, Color: e.Color,
		})
	}
	return doc
}

// Write encodes g in the given format. Edge values are always written, so
// the output re-imports to the same graph regardless of edge order.
func Write(g *Graph, w io.Writer, format Format) error {
	doc := g.document()
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported graph format %q", format)
}

// WriteJSON encodes g as indented JSON. See [Write].
func WriteJSON(g *Graph, w io.Writer) error { return Write(g, w, FormatJSON) }

// Export writes g to a file at path, choosing the format from its extension.
func Export(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(g, f, DetectFormat(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
