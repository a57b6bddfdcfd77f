package analyser

import (
	"image"
	"image/color"

	"seed-analyser/pkg/geometry"
)

// overlayPalette cycles through these colors for resource types that have no
// explicit entry in OverlayOptions.Colors.
var overlayPalette = []color.RGBA{
	{R: 0, G: 255, B: 255, A: 255},
	{R: 255, G: 0, B: 255, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 0, G: 255, B: 0, A: 255},
	{R: 255, G: 128, B: 0, A: 255},
	{R: 128, G: 128, B: 255, A: 255},
}

// OverlayOptions configures debug overlay rendering.
type OverlayOptions struct {
	Background    color.RGBA
	Colors        map[string]color.RGBA // per resource type; missing types cycle a default palette
	Corridor      *geometry.RectInt     // optional corridor region to outline
	CorridorColor color.RGBA
}

// DefaultOverlayOptions returns default overlay rendering options.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		Background:    color.RGBA{R: 32, G: 32, B: 32, A: 255},
		CorridorColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// RenderOverlay draws every patch contour in its resource color, plus an
// optional corridor rectangle, onto a fresh RGBA image with the analyser's
// dimensions. Intended for writing debug PNGs of an analysed map.
func RenderOverlay(a *MapAnalyser, opts OverlayOptions) *image.RGBA {
	w, h := a.Dimensions()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, opts.Background)
		}
	}

	for i, resource := range a.ResourceTypes() {
		c, ok := opts.Colors[resource]
		if !ok {
			c = overlayPalette[i%len(overlayPalette)]
		}
		for _, patch := range a.Patches[resource] {
			for _, p := range patch.Contour() {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}

	if opts.Corridor != nil {
		r := *opts.Corridor
		// the rectangle is half-open, outline its covered pixels
		drawRectOutline(img, r.X0, r.Y0, r.X1-1, r.Y1-1, opts.CorridorColor)
	}
	return img
}

// drawRectOutline draws the outline of the rectangle with inclusive corners.
func drawRectOutline(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()

	for x := x1; x <= x2; x++ {
		if x >= bounds.Min.X && x < bounds.Max.X {
			if y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
				img.SetRGBA(x, y1, c)
			}
			if y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
				img.SetRGBA(x, y2, c)
			}
		}
	}
	for y := y1; y <= y2; y++ {
		if y >= bounds.Min.Y && y < bounds.Max.Y {
			if x1 >= bounds.Min.X && x1 < bounds.Max.X {
				img.SetRGBA(x1, y, c)
			}
			if x2 >= bounds.Min.X && x2 < bounds.Max.X {
				img.SetRGBA(x2, y, c)
			}
		}
	}
}
