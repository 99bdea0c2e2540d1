package layout

import (
	"math"
	"strconv"
	"strings"
)

// Op is a path drawing command.
type Op int

const (
	MoveTo Op = iota
	LineTo
	CubicTo
	Close
)

// Letter returns the SVG path command letter for the op.
func (o Op) Letter() string {
	switch o {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case CubicTo:
		return "C"
	case Close:
		return "Z"
	}
	return "?"
}

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Segment is one drawing command and its points. MoveTo and LineTo carry one
// point, CubicTo carries two control points and the end point, Close none.
type Segment struct {
	Op     Op
	Points []Point
}

// Path is a sequence of drawing commands forming an outline.
type Path []Segment

// String renders the path as SVG path data, e.g. "M10,20 C15,20 15,40 20,40 Z".
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Op.Letter())
		for j, pt := range s.Points {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatCoord(pt.X))
			b.WriteByte(',')
			b.WriteString(formatCoord(pt.Y))
		}
	}
	return b.String()
}

// formatCoord prints a coordinate with at most three decimals.
func formatCoord(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // normalizes -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RibbonPath builds the closed outline of a ribbon between a source span
// (fromX, fromTop..fromBottom) and a target span (toX, toTop..toBottom).
//
// The top and bottom edges are cubic beziers whose control points sit at the
// horizontal midpoint, giving horizontal tangents at both ends:
//
//	M from.top  C mid,from.top  mid,to.top  to.top
//	L to.bottom C mid,to.bottom mid,from.bottom from.bottom  Z
func RibbonPath(fromX, fromTop, fromBottom, toX, toTop, toBottom float64) Path {
	mid := (fromX + toX) / 2
	return Path{
		{Op: MoveTo, Points: []Point{{fromX, fromTop}}},
		{Op: CubicTo, Points: []Point{{mid, fromTop}, {mid, toTop}, {toX, toTop}}},
		{Op: LineTo, Points: []Point{{toX, toBottom}}},
		{Op: CubicTo, Points: []Point{{mid, toBottom}, {mid, fromBottom}, {fromX, fromBottom}}},
		{Op: Close},
	}
}
