// Package config loads diagram style settings from TOML files.
//
// A style file sets canvas size, layout spacing and output formats:
//
//	width = 1920
//	height = 1080
//	number_format = "£%.2f"
//	border = 60
//	strict = true
//	formats = ["svg", "png"]
//
// Fields left out keep their defaults: a 1024x768 canvas, layout defaults
// derived from the canvas size, and SVG output.
package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/layout"
)

// Canvas defaults.
const (
	DefaultWidth    = 1024.0
	DefaultHeight   = 768.0
	DefaultPNGScale = 2.0
)

// Formats lists the output formats a config may request. "graphviz" and
// "graphviz-png" are a node-link view of the graph rendered by Graphviz.
var Formats = []string{"svg", "png", "json", "dot", "graphviz", "graphviz-png"}

// Config is a diagram style.
type Config struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`

	// NumberFormat is a printf template for one float, e.g. "%.0f kWh".
	NumberFormat string `toml:"number_format" json:"number_format,omitempty"`

	NodeSeparation *float64 `toml:"node_separation" json:"node_separation,omitempty"`
	NodeWidth      *float64 `toml:"node_width" json:"node_width,omitempty"`
	FontSize       *float64 `toml:"font_size" json:"font_size,omitempty"`
	Border         *float64 `toml:"border" json:"border,omitempty"`
	Strict         bool     `toml:"strict" json:"strict,omitempty"`

	Formats    []string `toml:"formats" json:"formats,omitempty"`
	Title      string   `toml:"title" json:"title,omitempty"`
	Background string   `toml:"background" json:"background,omitempty"`
	PNGScale   float64  `toml:"png_scale" json:"png_scale,omitempty"`

	// NoLabels leaves node labels out of PNG output.
	NoLabels bool `toml:"no_labels" json:"no_labels,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Formats:  []string{"svg"},
		PNGScale: DefaultPNGScale,
	}
}

// Decode reads a TOML style from r on top of [Default]. Unknown keys are an
// error so that typos do not pass silently.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads a TOML style file.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks sizes, formats, the number template and, when PNG output
// is requested, the scaled raster size.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return err
	}
	if err := errors.ValidateNumberFormat(c.NumberFormat); err != nil {
		return err
	}
	for _, f := range c.Formats {
		if err := errors.ValidateFormat(f, Formats); err != nil {
			return err
		}
	}
	for name, v := range map[string]*float64{
		"node_separation": c.NodeSeparation,
		"node_width":      c.NodeWidth,
		"font_size":       c.FontSize,
		"border":          c.Border,
	} {
		if v != nil && *v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %v", name, *v)
		}
	}
	if c.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "png_scale must not be negative, got %v", c.PNGScale)
	}
	if slices.Contains(c.Formats, "png") {
		scale := c.PNGScale
		if scale == 0 {
			scale = DefaultPNGScale
		}
		if err := errors.ValidateRaster(c.Width, c.Height, scale); err != nil {
			return err
		}
	}
	return nil
}

// Formatter returns the value formatter for labels.
func (c Config) Formatter() layout.NumberFormat {
	if c.NumberFormat == "" {
		return layout.FormatPlain
	}
	tmpl := c.NumberFormat
	return func(v float64) string { return fmt.Sprintf(tmpl, v) }
}

// LayoutOptions converts the style into [layout.Build] options. Unset
// spacing fields are left to the layout defaults.
func (c Config) LayoutOptions() []layout.Option {
	opts := []layout.Option{layout.WithNumberFormat(c.Formatter())}
	if c.NodeSeparation != nil {
		opts = append(opts, layout.WithNodeSeparation(*c.NodeSeparation))
	}
	if c.NodeWidth != nil {
		opts = append(opts, layout.WithNodeWidth(*c.NodeWidth))
	}
	if c.FontSize != nil {
		opts = append(opts, layout.WithFontSize(*c.FontSize))
	}
	if c.Border != nil {
		opts = append(opts, layout.WithBorder(*c.Border))
	}
	if c.Strict {
		opts = append(opts, layout.WithStrict())
	}
	return opts
}
