package layout

import "strconv"

// Style holds the resolved sizing parameters of a layout, in canvas units.
type Style struct {
	NodeSeparation float64
	NodeWidth      float64
	FontSize       float64
	Border         float64
}

// NumberFormat renders a flow quantity for display.
type NumberFormat func(float64) string

// FormatPlain renders v as the shortest decimal that round-trips, e.g.
// "50000" or "0.25".
func FormatPlain(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Option configures [Build].
type Option func(*config)

type config struct {
	numberFormat   NumberFormat
	nodeSeparation *float64
	nodeWidth      *float64
	fontSize       *float64
	border         *float64
	strict         bool
}

// WithNumberFormat sets the formatter used for node and ribbon value text.
// A nil formatter keeps the default [FormatPlain].
func WithNumberFormat(f NumberFormat) Option { return func(c *config) { c.numberFormat = f } }

// WithNodeSeparation sets the vertical gap between boxes of the same layer.
func WithNodeSeparation(v float64) Option { return func(c *config) { c.nodeSeparation = &v } }

// WithNodeWidth sets the width of every node box.
func WithNodeWidth(v float64) Option { return func(c *config) { c.nodeWidth = &v } }

// WithFontSize sets the label font size recorded in the layout's [Style].
func WithFontSize(v float64) Option { return func(c *config) { c.fontSize = &v } }

// WithBorder sets the margin kept free on every side of the canvas.
func WithBorder(v float64) Option { return func(c *config) { c.border = &v } }

// WithStrict makes [Build] validate the graph first and fail with a
// [flow.ImbalanceError] when a fixed-value node is overdrawn.
func WithStrict() Option { return func(c *config) { c.strict = true } }

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.numberFormat == nil {
		c.numberFormat = FormatPlain
	}
	return c
}

// resolve applies the size defaults that depend on the canvas.
func (c config) resolve(width, height float64) Style {
	return Style{
		NodeSeparation: orDefault(c.nodeSeparation, height/50),
		NodeWidth:      orDefault(c.nodeWidth, width/100),
		FontSize:       orDefault(c.fontSize, height/50),
		Border:         orDefault(c.border, height/10),
	}
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}
