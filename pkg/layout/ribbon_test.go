package layout

import (
	"reflect"
	"testing"
)

func TestRibbonPath(t *testing.T) {
	p := RibbonPath(0, 10, 20, 100, 50, 60)

	ops := make([]Op, len(p))
	for i, s := range p {
		ops[i] = s.Op
	}
	if want := []Op{MoveTo, CubicTo, LineTo, CubicTo, Close}; !reflect.DeepEqual(ops, want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}

	top := p[1].Points
	if top[0] != (Point{50, 10}) || top[1] != (Point{50, 50}) || top[2] != (Point{100, 50}) {
		t.Errorf("top curve = %v", top)
	}
	bottom := p[3].Points
	if bottom[0] != (Point{50, 60}) || bottom[1] != (Point{50, 20}) || bottom[2] != (Point{0, 20}) {
		t.Errorf("bottom curve = %v", bottom)
	}
}

func TestPath_String(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"empty", nil, ""},
		{
			"ribbon",
			RibbonPath(10, 0, 5, 30, 2, 7),
			"M10,0 C20,0 20,2 30,2 L30,7 C20,7 20,5 10,5 Z",
		},
		{
			"rounds to three decimals",
			Path{{Op: MoveTo, Points: []Point{{1.0 / 3, 2.0 / 3}}}},
			"M0.333,0.667",
		},
		{
			"negative zero",
			Path{{Op: LineTo, Points: []Point{{-0.0001, 4}}}},
			"L0,4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
