package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sankey/pkg/flow"
)

var (
	// ErrEmptyID is returned when a node has no id.
	ErrEmptyID = errors.New("empty node id")

	// ErrDuplicateID is returned when two nodes share an id.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrUnknownNode is returned when an edge references an id that no node declares.
	ErrUnknownNode = errors.New("unknown node id")

	// ErrMalformed is returned when a document cannot be decoded.
	ErrMalformed = errors.New("malformed graph document")
)

// Format is a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the encoding from a file extension. Anything other than
// .yaml or .yml is treated as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Read decodes a graph document in the given format from r.
//
// Nodes are added in file order, so the i-th node gets handle i. Edges are
// added in file order. An edge without a value takes "the rest": the
// source's remaining output if positive, otherwise the target's remaining
// input if positive, otherwise 0.
//
// Read returns an error if:
//   - The document is malformed
//   - A node id is empty or duplicated
//   - An edge references an unknown node id
//   - An edge value is negative or not finite
//
// Errors are wrapped with context describing which node or edge caused the
// problem. Read does not close r.
func Read(r io.Reader, format Format) (*Graph, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", ErrMalformed, err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: json: %w", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("unsupported graph format %q", format)
	}
	return doc.build()
}

// ReadJSON decodes a JSON graph document from r. See [Read].
func ReadJSON(r io.Reader) (*Graph, error) { return Read(r, FormatJSON) }

// ReadYAML decodes a YAML graph document from r. See [Read].
func ReadYAML(r io.Reader) (*Graph, error) { return Read(r, FormatYAML) }

// Import reads the graph file at path, choosing the format from its
// extension with [DetectFormat].
func Import(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func (doc document) build() (*Graph, error) {
	g := &Graph{
		Graph: flow.New(),
		IDs:   make([]string, 0, len(doc.Nodes)),
		index: make(map[string]flow.NodeID, len(doc.Nodes)),
	}

	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: %w", i, ErrEmptyID)
		}
		if _, dup := g.index[n.ID]; dup {
			return nil, fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
		}
		var value *float64
		if n.Value != nil {
			value = flow.Fixed(*n.Value)
		}
		id := g.AddNode(flow.Node{Value: value, Label: n.Label, Color: n.Color})
		g.index[n.ID] = id
		g.IDs = append(g.IDs, n.ID)
	}

	for _, e := range doc.Edges {
		from, ok := g.index[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: source %w", e.From, e.To, ErrUnknownNode)
		}
		to, ok := g.index[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: target %w", e.From, e.To, ErrUnknownNode)
		}

		value := rest(g.Graph, from, to)
		if e.Value != nil {
			value = *e.Value
		}
		if err := g.AddEdge(flow.Edge{From: from, To: to, Value: value, Label: e.Label, Color: e.Color}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	return g, nil
}

// rest is the value an edge takes when the document leaves it out.
func rest(g *flow.Graph, from, to flow.NodeID) float64 {
	if v := g.RemainingOutput(from); v > 0 {
		return v
	}
	if v := g.RemainingInput(to); v > 0 {
		return v
	}
	return 0
}
