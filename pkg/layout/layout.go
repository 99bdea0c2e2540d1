package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/sankey/pkg/flow"
)

// Colors used when a node or edge does not set its own.
const (
	DefaultNodeColor = "#000F"
	DefaultEdgeColor = "#0004"
)

// Layout is the computed geometry of a Sankey diagram.
type Layout struct {
	Width  float64
	Height float64
	Style  Style

	// Scale converts flow units to canvas units.
	Scale float64

	// Layers lists node handles left to right, top to bottom.
	Layers [][]flow.NodeID

	// Nodes is indexed by flow.NodeID.
	Nodes []NodeBox

	// Ribbons is in edge creation order. Use RibbonsByDepth to draw.
	Ribbons []Ribbon
}

// NodeBox is the rectangle drawn for one node.
type NodeBox struct {
	ID        flow.NodeID
	Layer     int
	Index     int
	X, Y      float64
	Width     float64
	Height    float64
	Flow      float64
	Color     string
	Label     string
	ValueText string
}

// Right returns the x coordinate of the box's output side.
func (b NodeBox) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the box's lower edge.
func (b NodeBox) Bottom() float64 { return b.Y + b.Height }

// CenterX returns the horizontal center of the box.
func (b NodeBox) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the box.
func (b NodeBox) CenterY() float64 { return b.Y + b.Height/2 }

// Ribbon is the band drawn for one edge.
type Ribbon struct {
	Edge      int
	From      flow.NodeID
	To        flow.NodeID
	Value     float64
	Thickness float64

	FromX, FromTop, FromBottom float64
	ToX, ToTop, ToBottom       float64

	Path      Path
	Color     string
	Label     string
	ValueText string
}

// Mid returns the point where a ribbon's label is anchored: halfway across,
// between the top of its source span and the bottom of its target span.
func (r Ribbon) Mid() Point {
	return Point{X: (r.FromX + r.ToX) / 2, Y: (r.FromTop + r.ToBottom) / 2}
}

// RibbonsByDepth returns the ribbons in drawing order: descending value,
// ties kept in edge creation order. Wide flows go underneath narrow ones.
func (l Layout) RibbonsByDepth() []Ribbon {
	ribbons := slices.Clone(l.Ribbons)
	slices.SortStableFunc(ribbons, func(a, b Ribbon) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return ribbons
}

// Build computes the layout of g on a width x height canvas.
//
// The graph is only read. Build fails with a *[flow.CycleError] when g has a
// directed cycle, and, under [WithStrict], with a *[flow.ImbalanceError]
// when a fixed-value node is overdrawn.
func Build(g *flow.Graph, width, height float64, opts ...Option) (Layout, error) {
	cfg := newConfig(opts)
	style := cfg.resolve(width, height)

	if cfg.strict {
		if err := g.Validate(); err != nil {
			return Layout{}, err
		}
	}

	layers, err := AssignLayers(g)
	if err != nil {
		return Layout{}, err
	}
	scale := ComputeScale(g, layers, height, style.Border, style.NodeSeparation)

	l := Layout{
		Width:  width,
		Height: height,
		Style:  style,
		Scale:  scale,
		Layers: layers,
	}
	l.Nodes = placeNodes(g, layers, width, height, style, scale, cfg.numberFormat)
	l.Ribbons = placeRibbons(g, l.Nodes, scale, cfg.numberFormat)
	return l, nil
}

func placeNodes(g *flow.Graph, layers [][]flow.NodeID, width, height float64, style Style, scale float64, format NumberFormat) []NodeBox {
	boxes := make([]NodeBox, g.NodeCount())
	for i, layer := range layers {
		x := layerX(i, len(layers), width, style.Border, style.NodeWidth)

		total := style.NodeSeparation * float64(len(layer)-1)
		for _, id := range layer {
			total += g.Flow(id) * scale
		}
		y := style.Border + (height-2*style.Border-total)/2

		for j, id := range layer {
			n, _ := g.Node(id)
			f := n.Flow()
			boxes[id] = NodeBox{
				ID:        id,
				Layer:     i,
				Index:     j,
				X:         x,
				Y:         y,
				Width:     style.NodeWidth,
				Height:    f * scale,
				Flow:      f,
				Color:     cmp.Or(n.Color, DefaultNodeColor),
				Label:     n.Label,
				ValueText: format(f),
			}
			y += f*scale + style.NodeSeparation
		}
	}
	return boxes
}

// layerX returns the left edge of layer i out of count. Layers are spread
// evenly between the borders; a lone layer is centered.
func layerX(i, count int, width, border, nodeWidth float64) float64 {
	if count == 1 {
		return (width - nodeWidth) / 2
	}
	gap := (width - 2*border - float64(count)*nodeWidth) / float64(count-1)
	return border + float64(i)*(nodeWidth+gap)
}

// placeRibbons stacks each edge's span onto its endpoints. Output and input
// cursors start at the box top and advance in edge creation order.
func placeRibbons(g *flow.Graph, boxes []NodeBox, scale float64, format NumberFormat) []Ribbon {
	outCursor := make([]float64, len(boxes))
	inCursor := make([]float64, len(boxes))
	for i, b := range boxes {
		outCursor[i] = b.Y
		inCursor[i] = b.Y
	}

	edges := g.Edges()
	ribbons := make([]Ribbon, 0, len(edges))
	for i, e := range edges {
		src, dst := boxes[e.From], boxes[e.To]
		thickness := e.Value * scale

		fromTop := outCursor[e.From]
		fromBottom := fromTop + thickness
		outCursor[e.From] = fromBottom

		toTop := inCursor[e.To]
		toBottom := toTop + thickness
		inCursor[e.To] = toBottom

		fromX, toX := src.Right(), dst.X
		ribbons = append(ribbons, Ribbon{
			Edge:       i,
			From:       e.From,
			To:         e.To,
			Value:      e.Value,
			Thickness:  thickness,
			FromX:      fromX,
			FromTop:    fromTop,
			FromBottom: fromBottom,
			ToX:        toX,
			ToTop:      toTop,
			ToBottom:   toBottom,
			Path:       RibbonPath(fromX, fromTop, fromBottom, toX, toTop, toBottom),
			Color:      cmp.Or(e.Color, DefaultEdgeColor),
			Label:      e.Label,
			ValueText:  format(e.Value),
		})
	}
	return ribbons
}
