package sink

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/sankey/pkg/errors"
)

func TestRenderPNG(t *testing.T) {
	l := testLayout(t)
	data, err := RenderPNG(l, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}

	white := color.NRGBAModel.Convert(color.White)
	if got := color.NRGBAModel.Convert(img.At(1, 1)); got != white {
		t.Errorf("corner = %v, want white background", got)
	}

	// Sample just inside the top-left corner of the red box, away from its label.
	box := l.Nodes[1]
	got := color.NRGBAModel.Convert(img.At(int(box.X)+1, int(box.Y)+1)).(color.NRGBA)
	if got.R < 200 || got.G > 50 || got.B > 50 {
		t.Errorf("node 1 pixel = %v, want red", got)
	}
}

func TestRenderPNG_Scale(t *testing.T) {
	data, err := RenderPNG(testLayout(t), WithScale(2), WithoutLabels())
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 400 {
		t.Errorf("size = %dx%d, want 800x400", cfg.Width, cfg.Height)
	}
}

func TestRenderPNG_Errors(t *testing.T) {
	l := testLayout(t)

	tests := []struct {
		name string
		opts []PNGOption
	}{
		{"zero scale", []PNGOption{WithScale(0)}},
		{"negative scale", []PNGOption{WithScale(-1)}},
		{"huge scale", []PNGOption{WithScale(1e7)}},
		{"scaled past max", []PNGOption{WithScale(errors.MaxDimension/l.Width + 1)}},
		{"bad background", []PNGOption{WithPNGBackground("reddish")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderPNG(l, tt.opts...); err == nil {
				t.Error("expected error")
			}
		})
	}

	l.Nodes[0].Color = "reddish"
	if _, err := RenderPNG(l); err == nil {
		t.Error("expected error for unknown node color")
	}
}

func TestRenderPNG_NamedColors(t *testing.T) {
	l := testLayout(t)
	for i := range l.Nodes {
		l.Nodes[i].Color = "red"
	}
	for i := range l.Ribbons {
		l.Ribbons[i].Color = "SteelBlue"
	}

	data, err := RenderPNG(l, WithScale(1), WithPNGBackground("white"), WithoutLabels())
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	box := l.Nodes[0]
	got := color.NRGBAModel.Convert(img.At(int(box.X)+1, int(box.Y)+1)).(color.NRGBA)
	if got.R < 200 || got.G > 50 || got.B > 50 {
		t.Errorf("node pixel = %v, want red", got)
	}
}
