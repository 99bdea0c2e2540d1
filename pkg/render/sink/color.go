package sink

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned for colors that are neither CSS hex notation
// nor a CSS color name.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor parses CSS hex notation (#RGB, #RGBA, #RRGGBB or #RRGGBBAA) and
// the SVG 1.1 color names, case-insensitively. "transparent" and "none" yield
// a fully transparent color.
func ParseColor(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "transparent", "none":
		return color.NRGBA{}, nil
	}

	hex, ok := strings.CutPrefix(name, "#")
	if !ok {
		c, found := colornames.Map[name]
		if !found {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	var digits []string
	switch len(hex) {
	case 3, 4:
		for _, c := range hex {
			digits = append(digits, strings.Repeat(string(c), 2))
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			digits = append(digits, hex[i:i+2])
		}
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	channels := [4]uint8{0, 0, 0, 0xff}
	for i, d := range digits {
		v, err := strconv.ParseUint(d, 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		channels[i] = uint8(v)
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}
