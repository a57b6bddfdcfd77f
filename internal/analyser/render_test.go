package analyser

import (
	"image/color"
	"testing"

	"seed-analyser/pkg/geometry"
)

func TestRenderOverlay(t *testing.T) {
	img, set := newTestImage(t, 16, 16)
	fillRect(set, geometry.NewRectInt(3, 3, 6, 6), ironColor)
	a := mustAnalyser(t, img, testPalette())

	ironOverlay := color.RGBA{R: 255, A: 255}
	opts := OverlayOptions{
		Background: color.RGBA{A: 255},
		Colors:     map[string]color.RGBA{"iron": ironOverlay},
	}
	out := RenderOverlay(a, opts)

	if b := out.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("overlay bounds = %v, want 16x16", b)
	}
	if got := out.RGBAAt(3, 3); got != ironOverlay {
		t.Errorf("corner contour pixel = %v, want %v", got, ironOverlay)
	}
	if got := out.RGBAAt(4, 4); got != opts.Background {
		t.Errorf("interior pixel = %v, want background", got)
	}
	if got := out.RGBAAt(0, 0); got != opts.Background {
		t.Errorf("empty pixel = %v, want background", got)
	}
}

func TestRenderOverlayCorridor(t *testing.T) {
	img, set := newTestImage(t, 16, 16)
	fillRect(set, geometry.NewRectInt(2, 2, 10, 5), ironColor)
	a := mustAnalyser(t, img, testPalette())

	corridor := geometry.NewRectInt(2, 2, 10, 5)
	opts := DefaultOverlayOptions()
	opts.Corridor = &corridor
	out := RenderOverlay(a, opts)

	// outline pixels sit on the covered rows and columns of the half-open rect
	for _, p := range []geometry.PointInt{
		{X: 2, Y: 2}, {X: 9, Y: 2}, {X: 2, Y: 4}, {X: 9, Y: 4}, {X: 5, Y: 2},
	} {
		if got := out.RGBAAt(p.X, p.Y); got != opts.CorridorColor {
			t.Errorf("outline pixel (%d,%d) = %v, want corridor color", p.X, p.Y, got)
		}
	}
	if got := out.RGBAAt(10, 2); got == opts.CorridorColor {
		t.Error("pixel outside the half-open rectangle carries the corridor color")
	}
}
