package tiles

import (
	"errors"
	"math"
	"testing"

	"seed-analyser/internal/analyser"
	"seed-analyser/pkg/geometry"

	"gocv.io/x/gocv"
)

var (
	ironColor   = analyser.RGB{R: 104, G: 132, B: 146}
	copperColor = analyser.RGB{R: 203, G: 97, B: 53}
)

func testPalette() []analyser.ResourceColor {
	return []analyser.ResourceColor{
		{Name: "iron", Color: ironColor},
		{Name: "copper", Color: copperColor},
	}
}

// newTestView segments a black image with the given blocks painted in and
// wraps it at the given scale.
func newTestView(t *testing.T, w, h, tilesPerPixel int, paint func(set func(x, y int, c analyser.RGB))) *Analyser {
	t.Helper()
	img := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { img.Close() })
	set := func(x, y int, c analyser.RGB) {
		img.SetUCharAt(y, x*3+0, c.B)
		img.SetUCharAt(y, x*3+1, c.G)
		img.SetUCharAt(y, x*3+2, c.R)
	}
	if paint != nil {
		paint(set)
	}
	px, err := analyser.NewMapAnalyser(img, "1021", testPalette())
	if err != nil {
		t.Fatalf("NewMapAnalyser: %v", err)
	}
	t.Cleanup(px.Close)
	a, err := NewAnalyser(px, tilesPerPixel)
	if err != nil {
		t.Fatalf("NewAnalyser: %v", err)
	}
	return a
}

func fillRect(set func(x, y int, c analyser.RGB), r geometry.RectInt, c analyser.RGB) {
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			set(x, y, c)
		}
	}
}

func TestAnalyserTileMeasures(t *testing.T) {
	// 96x96 pixels at 8 tiles per pixel spans -384..384
	a := newTestView(t, 96, 96, 8, func(set func(x, y int, c analyser.RGB)) {
		fillRect(set, geometry.NewRectInt(10, 20, 74, 72), ironColor) // 64x52 = 3328 px
	})

	if a.MapSeed() != "1021" {
		t.Errorf("MapSeed = %q, want 1021", a.MapSeed())
	}
	if a.MinX() != -384 || a.MaxX() != 384 || a.MinY() != -384 || a.MaxY() != 384 {
		t.Errorf("bounds = (%d,%d)-(%d,%d), want (-384,-384)-(384,384)",
			a.MinX(), a.MinY(), a.MaxX(), a.MaxY())
	}

	patches := a.Patches()
	if n := len(patches["iron"]); n != 1 {
		t.Fatalf("iron patches = %d, want 1", n)
	}
	p := patches["iron"][0]
	if got, want := p.Size(), 3328*64; got != want {
		t.Errorf("Size = %d, want %d", got, want)
	}
	if p.ResourceType() != "iron" {
		t.Errorf("ResourceType = %q, want iron", p.ResourceType())
	}

	center, err := p.CenterPoint()
	if err != nil {
		t.Fatalf("CenterPoint: %v", err)
	}
	// pixel centroid (41.5, 45.5) shifted by -48 pixels, times 8
	if center.X != -52 || center.Y != -20 {
		t.Errorf("CenterPoint = %+v, want (-52, -20)", center)
	}

	if got := a.Combined()["iron"].Size(); got != 3328*64 {
		t.Errorf("combined iron size = %d, want %d", got, 3328*64)
	}
}

func TestCountResourcesInRegionTiles(t *testing.T) {
	a := newTestView(t, 96, 96, 8, func(set func(x, y int, c analyser.RGB)) {
		fillRect(set, geometry.NewRectInt(10, 20, 74, 72), ironColor)
	})

	full, err := a.CountResourcesInRegion("iron", -384, -384, 384, 384)
	if err != nil {
		t.Fatalf("CountResourcesInRegion: %v", err)
	}
	if want := 3328 * 64; full != want {
		t.Errorf("full-map count = %d, want %d", full, want)
	}

	// nested regions count monotonically
	prev := 0
	for _, half := range []int{64, 128, 256, 384} {
		n, err := a.CountResourcesInRegion("iron", -half, -half, half, half)
		if err != nil {
			t.Fatalf("CountResourcesInRegion(±%d): %v", half, err)
		}
		if n < prev {
			t.Errorf("count shrank from %d to %d while the region grew", prev, n)
		}
		prev = n
	}
	if prev != full {
		t.Errorf("largest nested count = %d, want full-map count %d", prev, full)
	}

	if _, err := a.CountResourcesInRegion("iron", -385, 0, 10, 10); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("out-of-bounds error = %v, want ErrOutOfBounds", err)
	}
	if _, err := a.CountResourcesInRegion("iron", 10, -10, -10, 10); !errors.Is(err, ErrBadRegion) {
		t.Errorf("inverted-region error = %v, want ErrBadRegion", err)
	}
}

func TestPatchesPartiallyInRegionSharesViews(t *testing.T) {
	a := newTestView(t, 20, 20, 2, func(set func(x, y int, c analyser.RGB)) {
		fillRect(set, geometry.NewRectInt(2, 2, 4, 4), ironColor)
		fillRect(set, geometry.NewRectInt(14, 14, 18, 18), ironColor)
	})

	found, err := a.PatchesPartiallyInRegion(a.MinX(), a.MinY(), 0, 0)
	if err != nil {
		t.Fatalf("PatchesPartiallyInRegion: %v", err)
	}
	if n := len(found["iron"]); n != 1 {
		t.Fatalf("iron patches in region = %d, want 1", n)
	}

	all := a.Patches()["iron"]
	if found["iron"][0] != all[0] && found["iron"][0] != all[1] {
		t.Error("region query returned a fresh view instead of the canonical one")
	}
}

func TestMinDistanceBetweenPatchesTiles(t *testing.T) {
	a := newTestView(t, 20, 20, 8, func(set func(x, y int, c analyser.RGB)) {
		fillRect(set, geometry.NewRectInt(2, 2, 4, 4), ironColor)
		fillRect(set, geometry.NewRectInt(7, 2, 9, 4), copperColor)
	})

	iron := a.Combined()["iron"]
	copper := a.Combined()["copper"]

	// 3 free pixels between the blocks, 8 tiles each
	if got := a.MinDistanceBetweenPatches(iron, copper); got != 24 {
		t.Errorf("MinDistanceBetweenPatches = %v, want 24", got)
	}

	d, err := a.MinDistanceBetweenPatchesWithinRegion(iron, copper, a.MinX(), a.MinY(), a.MaxX(), a.MaxY())
	if err != nil {
		t.Fatalf("MinDistanceBetweenPatchesWithinRegion: %v", err)
	}
	if d != 24 {
		t.Errorf("full-region distance = %v, want 24", d)
	}

	// region left of both blocks holds no contour points
	d, err = a.MinDistanceBetweenPatchesWithinRegion(iron, copper, a.MinX(), a.MinY(), a.MinX()+8, a.MinY()+8)
	if err != nil {
		t.Fatalf("MinDistanceBetweenPatchesWithinRegion: %v", err)
	}
	if !math.IsInf(d, 1) {
		t.Errorf("restricted distance = %v, want +Inf", d)
	}

	if _, err := a.MinDistanceBetweenPatchesWithinRegion(iron, copper, 0, 0, 0, 0); !errors.Is(err, ErrBadRegion) {
		t.Errorf("degenerate-region error = %v, want ErrBadRegion", err)
	}
}

func TestLongestCorridorTiles(t *testing.T) {
	a := newTestView(t, 20, 20, 2, func(set func(x, y int, c analyser.RGB)) {
		fillRect(set, geometry.NewRectInt(3, 2, 7, 12), ironColor) // 4x10 px block
	})

	// 8 tiles of thickness are 4 pixels at scale 2
	length, region, ok, err := a.LongestCorridor("iron", 8, 0)
	if err != nil {
		t.Fatalf("LongestCorridor: %v", err)
	}
	if !ok {
		t.Fatal("no corridor found")
	}
	if length != 20 {
		t.Errorf("length = %d, want 20", length)
	}
	want := Region{StartX: -14, StartY: -16, EndX: -6, EndY: 4}
	if region != want {
		t.Errorf("region = %+v, want %+v", region, want)
	}
}

func TestLongestCorridorTileErrors(t *testing.T) {
	a := newTestView(t, 20, 20, 2, nil)

	if _, _, _, err := a.LongestCorridor("iron", 0, 0); err == nil {
		t.Error("zero thickness accepted")
	}
	if _, _, _, err := a.LongestCorridor("iron", 2, -1); err == nil {
		t.Error("negative tolerance accepted")
	}
	if _, _, _, err := a.LongestCorridorInRegion("iron", 2, 0, -100, 0, 100, 10); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("out-of-bounds error = %v, want ErrOutOfBounds", err)
	}

	// an empty map yields no corridor but also no error
	length, _, ok, err := a.LongestCorridor("iron", 2, 0)
	if err != nil {
		t.Fatalf("LongestCorridor: %v", err)
	}
	if ok || length != 0 {
		t.Errorf("LongestCorridor = (%d, ok=%v), want (0, false)", length, ok)
	}
}

func TestTilePatchOrdering(t *testing.T) {
	a := newTestView(t, 24, 24, 4, func(set func(x, y int, c analyser.RGB)) {
		fillRect(set, geometry.NewRectInt(1, 1, 4, 4), ironColor)     // 9 px
		fillRect(set, geometry.NewRectInt(10, 1, 12, 2), ironColor)   // 2 px
		fillRect(set, geometry.NewRectInt(1, 10, 6, 14), copperColor) // 20 px
	})

	patches := a.Patches()[analyser.AllResources]
	SortBySize(patches)
	want := []int{2 * 16, 9 * 16, 20 * 16}
	for i, p := range patches {
		if p.Size() != want[i] {
			t.Errorf("sorted[%d].Size() = %d, want %d", i, p.Size(), want[i])
		}
	}
	if largest := LargestBySize(patches); largest == nil || largest.ResourceType() != "copper" {
		t.Errorf("LargestBySize = %+v, want the copper patch", largest)
	}
	if LargestBySize(nil) != nil {
		t.Error("LargestBySize(nil) != nil")
	}
}
