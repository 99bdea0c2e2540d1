package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/layout"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background string
	labels     bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground fills the image with a color before drawing. The default
// background is white.
func WithPNGBackground(c string) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// WithoutLabels skips node labels, leaving boxes and ribbons only.
func WithoutLabels() PNGOption {
	return func(r *pngRenderer) { r.labels = false }
}

var (
	goRegularOnce sync.Once
	goRegular     *sfnt.Font
	goRegularErr  error
)

func labelFace(size float64) (font.Face, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	if goRegularErr != nil {
		return nil, goRegularErr
	}
	return opentype.NewFace(goRegular, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RenderPNG rasterizes the layout. Drawing order matches [RenderSVG]: node
// boxes, ribbons widest first, then node labels. Ribbon labels are omitted
// since a raster image has no hover state. The scaled image may be at most
// [errors.MaxDimension] pixels on each side.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: "#FFFF", labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	if err := errors.ValidateRaster(l.Width, l.Height, r.scale); err != nil {
		return nil, err
	}

	w, h := int(l.Width*r.scale), int(l.Height*r.scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("png canvas %dx%d is empty", w, h)
	}
	dc := gg.NewContext(w, h)
	s := r.scale

	bg, err := ParseColor(r.background)
	if err != nil {
		return nil, err
	}
	dc.SetColor(bg)
	dc.Clear()

	for _, n := range l.Nodes {
		c, err := colorOr(n.Color, layout.DefaultNodeColor)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		dc.SetColor(c)
		dc.DrawRectangle(n.X*s, n.Y*s, n.Width*s, n.Height*s)
		dc.Fill()
	}

	for _, rb := range l.RibbonsByDepth() {
		c, err := colorOr(rb.Color, layout.DefaultEdgeColor)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", rb.Edge, err)
		}
		dc.SetColor(c)
		tracePath(dc, rb.Path, s)
		dc.Fill()
	}

	if r.labels && l.Style.FontSize > 0 {
		face, err := labelFace(l.Style.FontSize * s)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		defer face.Close()
		dc.SetFontFace(face)
		dc.SetColor(color.Black)

		for _, n := range l.Nodes {
			x, y := n.CenterX()*s, n.CenterY()*s
			if n.Label != "" {
				dc.DrawStringAnchored(n.Label, x, y, 0.5, 0.5)
				dc.DrawStringAnchored(n.ValueText, x, y+l.Style.FontSize*s, 0.5, 0.5)
			} else {
				dc.DrawStringAnchored(n.ValueText, x, y, 0.5, 0.5)
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func tracePath(dc *gg.Context, p layout.Path, s float64) {
	for _, seg := range p {
		pts := seg.Points
		switch seg.Op {
		case layout.MoveTo:
			dc.MoveTo(pts[0].X*s, pts[0].Y*s)
		case layout.LineTo:
			dc.LineTo(pts[0].X*s, pts[0].Y*s)
		case layout.CubicTo:
			dc.CubicTo(pts[0].X*s, pts[0].Y*s, pts[1].X*s, pts[1].Y*s, pts[2].X*s, pts[2].Y*s)
		case layout.Close:
			dc.ClosePath()
		}
	}
}

func colorOr(c, def string) (color.NRGBA, error) {
	if c == "" {
		c = def
	}
	return ParseColor(c)
}
