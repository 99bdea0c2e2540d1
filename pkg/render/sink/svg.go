package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/sankey/pkg/layout"
)

const diagramCSS = `
rect.node { fill: %[1]s; }
text.node { fill: #000F; text-anchor: middle; dominant-baseline: middle; font-size: %[3]spx; }
.edge > path { fill: %[2]s; }
.edge > text { display: none; fill: #000F; text-anchor: middle; dominant-baseline: middle; font-size: %[3]spx; }
.edge:hover > text { display: inline; }
`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title      string
	background string
}

// WithTitle adds a <title> element, shown as a tooltip by most viewers.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithBackground fills the canvas with a color before drawing.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// RenderSVG renders the layout as a standalone SVG document.
//
// Node boxes are drawn first, then one <g class="edge"> per ribbon in
// [layout.Layout.RibbonsByDepth] order, then node labels on top. Each ribbon
// group carries a hidden label that the stylesheet reveals on hover.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(l.Width), int(l.Height),
		fmt.Sprintf(`viewBox="0 0 %s %s"`, num(l.Width), num(l.Height)))
	if r.title != "" {
		canvas.Title(r.title)
	}
	canvas.Style("text/css", fmt.Sprintf(diagramCSS,
		layout.DefaultNodeColor, layout.DefaultEdgeColor, num(l.Style.FontSize)))

	if r.background != "" {
		fmt.Fprintf(canvas.Writer, `<rect x="0" y="0" width="%s" height="%s" style="fill:%s"/>`+"\n",
			num(l.Width), num(l.Height), attr(r.background))
	}

	for _, n := range l.Nodes {
		renderNodeBox(canvas, n)
	}
	for _, rb := range l.RibbonsByDepth() {
		renderRibbon(canvas, rb, l.Style.FontSize)
	}
	for _, n := range l.Nodes {
		renderNodeLabel(canvas, n, l.Style.FontSize)
	}

	canvas.End()
	return buf.Bytes()
}

// renderNodeBox writes the rect by hand: svgo's Rect takes integer
// coordinates.
func renderNodeBox(canvas *svg.SVG, n layout.NodeBox) {
	fmt.Fprintf(canvas.Writer, `<rect id="node-%d" class="node" x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
		n.ID, num(n.X), num(n.Y), num(n.Width), num(n.Height), fillStyle(n.Color, layout.DefaultNodeColor))
}

func renderRibbon(canvas *svg.SVG, rb layout.Ribbon, fontSize float64) {
	canvas.Group(fmt.Sprintf(`id="edge-%d"`, rb.Edge), `class="edge"`)
	if fill := fillStyle(rb.Color, layout.DefaultEdgeColor); fill != "" {
		canvas.Path(rb.Path.String(), strings.TrimSpace(fill))
	} else {
		canvas.Path(rb.Path.String())
	}

	mid := rb.Mid()
	x, y := num(mid.X), num(mid.Y)
	fmt.Fprintf(canvas.Writer, `<text x="%s" y="%s">`, x, y)
	if rb.Label != "" {
		writeTspan(canvas.Writer, x, -fontSize, rb.Label)
		writeTspan(canvas.Writer, x, fontSize, rb.ValueText)
	} else {
		escape(canvas.Writer, rb.ValueText)
	}
	io.WriteString(canvas.Writer, "</text>\n")
	canvas.Gend()
}

func renderNodeLabel(canvas *svg.SVG, n layout.NodeBox, fontSize float64) {
	x, y := num(n.CenterX()), num(n.CenterY())
	fmt.Fprintf(canvas.Writer, `<text class="node" x="%s" y="%s">`, x, y)
	if n.Label != "" {
		writeTspan(canvas.Writer, x, 0, n.Label)
		writeTspan(canvas.Writer, x, fontSize, n.ValueText)
	} else {
		escape(canvas.Writer, n.ValueText)
	}
	io.WriteString(canvas.Writer, "</text>\n")
}

func writeTspan(w io.Writer, x string, dy float64, text string) {
	fmt.Fprintf(w, `<tspan x="%s" dy="%s">`, x, num(dy))
	escape(w, text)
	io.WriteString(w, "</tspan>")
}

// fillStyle returns a style attribute overriding the stylesheet fill, or
// nothing when the color is the stylesheet default.
func fillStyle(color, def string) string {
	if color == "" || color == def {
		return ""
	}
	return fmt.Sprintf(` style="fill:%s"`, attr(color))
}

func escape(w io.Writer, s string) { _ = xml.EscapeText(w, []byte(s)) }

func attr(s string) string {
	var b bytes.Buffer
	escape(&b, s)
	return b.String()
}

// num prints a coordinate with at most three decimals.
func num(v float64) string {
	return strconv.FormatFloat(roundTo(v, 3), 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
