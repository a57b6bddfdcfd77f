package tiles

import (
	"fmt"
	"sort"

	"seed-analyser/internal/analyser"
	"seed-analyser/pkg/geometry"
)

// Patch is the tile-space view of an ore patch. It owns no data; all
// measures are rescaled on the way out.
type Patch struct {
	patch *analyser.OrePatch
	t     Transform
}

// Size returns the patch size in tiles (pixel count times the square of the
// scale factor).
func (p *Patch) Size() int {
	return p.patch.Size() * p.t.TilesPerPixel * p.t.TilesPerPixel
}

// ResourceType returns the resource type of the patch.
func (p *Patch) ResourceType() string {
	return p.patch.ResourceType
}

// CenterPoint returns the weighted center of the patch in tile coordinates.
// Returns analyser.ErrEmptyPatch for a patch with no pixels.
func (p *Patch) CenterPoint() (geometry.Point2D, error) {
	c, err := p.patch.CenterPoint()
	if err != nil {
		return geometry.Point2D{}, err
	}
	s := float64(p.t.TilesPerPixel)
	return geometry.Point2D{
		X: (c.X + float64(p.t.minXPx())) * s,
		Y: (c.Y + float64(p.t.minYPx())) * s,
	}, nil
}

// SortBySize sorts tile patch views ascending by size. As in pixel space,
// ordering is by size alone.
func SortBySize(patches []*Patch) {
	sort.SliceStable(patches, func(i, j int) bool {
		return patches[i].patch.Size() < patches[j].patch.Size()
	})
}

// LargestBySize returns the largest patch view, or nil for an empty list.
func LargestBySize(patches []*Patch) *Patch {
	var best *Patch
	for _, p := range patches {
		if best == nil || p.patch.Size() > best.patch.Size() {
			best = p
		}
	}
	return best
}

// Region is a tile-space rectangle given as start and end corners; like the
// pixel rectangles, the end corner is exclusive.
type Region struct {
	StartX, StartY, EndX, EndY int
}

// Analyser re-expresses every MapAnalyser query in tile units. It is a
// stateless view: it owns a Transform and a reference to the pixel-space
// analyser, nothing else.
type Analyser struct {
	px *analyser.MapAnalyser
	t  Transform

	combined map[string]*Patch
	patches  map[string][]*Patch
	wrapped  map[*analyser.OrePatch]*Patch
}

// NewAnalyser wraps a pixel-space analyser at the given scale.
func NewAnalyser(px *analyser.MapAnalyser, tilesPerPixel int) (*Analyser, error) {
	w, h := px.Dimensions()
	t, err := NewTransform(tilesPerPixel, w, h)
	if err != nil {
		return nil, err
	}

	a := &Analyser{
		px:       px,
		t:        t,
		combined: make(map[string]*Patch, len(px.Combined)),
		patches:  make(map[string][]*Patch, len(px.Patches)),
		wrapped:  make(map[*analyser.OrePatch]*Patch),
	}
	for key, p := range px.Combined {
		a.combined[key] = a.wrap(p)
	}
	for key, list := range px.Patches {
		views := make([]*Patch, len(list))
		for i, p := range list {
			views[i] = a.wrap(p)
		}
		a.patches[key] = views
	}
	return a, nil
}

// wrap returns the canonical view of p, so a pixel patch always maps to the
// same *Patch.
func (a *Analyser) wrap(p *analyser.OrePatch) *Patch {
	if v, ok := a.wrapped[p]; ok {
		return v
	}
	v := &Patch{patch: p, t: a.t}
	a.wrapped[p] = v
	return v
}

// MapSeed returns the name of the analysed image, usually the map seed.
func (a *Analyser) MapSeed() string { return a.px.Name }

// ResourceTypes returns the analysable resource types, not including "all".
func (a *Analyser) ResourceTypes() []string { return a.px.ResourceTypes() }

// Pixel exposes the wrapped pixel-space analyser, for callers that need the
// raw raster surface (debug rendering mostly).
func (a *Analyser) Pixel() *analyser.MapAnalyser { return a.px }

// Transform returns the coordinate transform of this view.
func (a *Analyser) Transform() Transform { return a.t }

// MinX returns the minimum x value of the map in tile coordinates.
func (a *Analyser) MinX() int { return a.t.MinX() }

// MinY returns the minimum y value of the map in tile coordinates.
func (a *Analyser) MinY() int { return a.t.MinY() }

// MaxX returns the maximum x value of the map in tile coordinates.
func (a *Analyser) MaxX() int { return a.t.MaxX() }

// MaxY returns the maximum y value of the map in tile coordinates.
func (a *Analyser) MaxY() int { return a.t.MaxY() }

// Patches returns the patch views per resource type, including the "all"
// aggregation.
func (a *Analyser) Patches() map[string][]*Patch {
	out := make(map[string][]*Patch, len(a.patches))
	for key, list := range a.patches {
		views := make([]*Patch, len(list))
		copy(views, list)
		out[key] = views
	}
	return out
}

// Combined returns each resource type as a single combined patch view,
// including "all".
func (a *Analyser) Combined() map[string]*Patch {
	out := make(map[string]*Patch, len(a.combined))
	for key, p := range a.combined {
		out[key] = p
	}
	return out
}

// CountResourcesInRegion returns the amount of the given resource inside the
// tile region. The region expands to full pixels before counting, and the
// pixel count is rescaled to tiles.
func (a *Analyser) CountResourcesInRegion(resource string, startX, startY, endX, endY int) (int, error) {
	if err := a.t.CheckRegion(startX, startY, endX, endY); err != nil {
		return 0, err
	}
	areaPx := a.px.CountResourcesInRegion(resource, a.t.PixelRegion(startX, startY, endX, endY))
	return areaPx * a.t.TilesPerPixel * a.t.TilesPerPixel, nil
}

// PatchesPartiallyInRegion returns, per resource type, the patches with at
// least one pixel inside the tile region.
func (a *Analyser) PatchesPartiallyInRegion(startX, startY, endX, endY int) (map[string][]*Patch, error) {
	if err := a.t.CheckRegion(startX, startY, endX, endY); err != nil {
		return nil, err
	}
	found := a.px.PatchesPartiallyInRegion(a.t.PixelRegion(startX, startY, endX, endY))
	out := make(map[string][]*Patch, len(found))
	for key, list := range found {
		views := make([]*Patch, len(list))
		for i, p := range list {
			views[i] = a.wrap(p)
		}
		out[key] = views
	}
	return out, nil
}

// MinDistanceBetweenPatches returns the minimum separation of two patches in
// tiles.
func (a *Analyser) MinDistanceBetweenPatches(p, q *Patch) float64 {
	return analyser.MinDistance(p.patch, q.patch) * float64(a.t.TilesPerPixel)
}

// MinDistanceBetweenPatchesWithinRegion returns the minimum separation of
// two patches in tiles, considering only boundary points inside the tile
// region. +Inf means no qualifying point pair exists; see
// analyser.MinDistanceWithinRegion for the clipped-contour caveat.
func (a *Analyser) MinDistanceBetweenPatchesWithinRegion(p, q *Patch, startX, startY, endX, endY int) (float64, error) {
	if err := a.t.CheckRegion(startX, startY, endX, endY); err != nil {
		return 0, err
	}
	d := analyser.MinDistanceWithinRegion(p.patch, q.patch, a.t.PixelRegion(startX, startY, endX, endY))
	return d * float64(a.t.TilesPerPixel), nil
}

// LongestCorridor searches the whole map; see LongestCorridorInRegion.
func (a *Analyser) LongestCorridor(resource string, thickness, tolerance int) (int, Region, bool, error) {
	return a.LongestCorridorInRegion(resource, thickness, tolerance,
		a.MinX(), a.MinY(), a.MaxX(), a.MaxY())
}

// LongestCorridorInRegion finds the longest straight corridor of the
// resource within the tile region. Thickness and tolerance are given in
// tiles and converted to pixels rounding up (a corridor 1 tile thick still
// occupies a full pixel row). The result length is in tiles and the region
// in tile coordinates; ok is false when no corridor qualifies.
func (a *Analyser) LongestCorridorInRegion(resource string, thickness, tolerance int, startX, startY, endX, endY int) (int, Region, bool, error) {
	if thickness <= 0 {
		return 0, Region{}, false, fmt.Errorf("thickness must be positive, got %d", thickness)
	}
	if tolerance < 0 {
		return 0, Region{}, false, fmt.Errorf("tolerance must not be negative, got %d", tolerance)
	}
	if err := a.t.CheckRegion(startX, startY, endX, endY); err != nil {
		return 0, Region{}, false, err
	}

	s := a.t.TilesPerPixel
	lengthPx, regionPx, ok := a.px.LongestCorridor(resource,
		ceilDiv(thickness, s), ceilDiv(tolerance, s*s),
		a.t.PixelRegion(startX, startY, endX, endY))
	if !ok {
		return 0, Region{}, false, nil
	}
	rx0, ry0, rx1, ry1 := a.t.TileRegion(regionPx)
	return lengthPx * s, Region{StartX: rx0, StartY: ry0, EndX: rx1, EndY: ry1}, true, nil
}
