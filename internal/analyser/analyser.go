// Package analyser extracts ore patches from decoded map preview rasters and
// answers geometric queries about them in pixel space.
package analyser

import (
	"fmt"

	"seed-analyser/pkg/geometry"

	"gocv.io/x/gocv"
)

// MapAnalyser holds the patch catalogue of one analysed preview image. It is
// built once per image and immutable afterwards; Close releases every mask.
//
// Combined maps each resource type to a single patch merging all pixels of
// that type; Patches maps each type to its connected components. Both carry
// the reserved "all" key aggregating across types.
type MapAnalyser struct {
	Name string

	width, height int
	resourceTypes []string

	Combined map[string]*OrePatch
	Patches  map[string][]*OrePatch
}

// NewMapAnalyser segments a decoded BGR image (as produced by gocv.IMRead or
// MatFromImage) into ore patches. The palette colors must be pairwise
// distinct: two types sharing a color would double-count in the "all" mask.
// The image is only read, never retained.
func NewMapAnalyser(img gocv.Mat, name string, palette []ResourceColor) (*MapAnalyser, error) {
	if img.Empty() {
		return nil, fmt.Errorf("analyse %s: empty image", name)
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("analyse %s: empty resource palette", name)
	}
	seenColors := make(map[RGB]string, len(palette))
	seenNames := make(map[string]bool, len(palette))
	types := make([]string, 0, len(palette))
	for _, rc := range palette {
		if rc.Name == AllResources {
			return nil, fmt.Errorf("analyse %s: resource name %q is reserved", name, AllResources)
		}
		if seenNames[rc.Name] {
			return nil, fmt.Errorf("analyse %s: duplicate resource name %q", name, rc.Name)
		}
		if prev, ok := seenColors[rc.Color]; ok {
			return nil, fmt.Errorf("analyse %s: resources %q and %q share color #%02x%02x%02x",
				name, prev, rc.Name, rc.Color.R, rc.Color.G, rc.Color.B)
		}
		seenNames[rc.Name] = true
		seenColors[rc.Color] = rc.Name
		types = append(types, rc.Name)
	}

	combined := buildCombinedPatches(img, palette)
	return &MapAnalyser{
		Name:          name,
		width:         img.Cols(),
		height:        img.Rows(),
		resourceTypes: types,
		Combined:      combined,
		Patches:       splitPatches(combined, palette),
	}, nil
}

// Dimensions returns the image width and height in pixels.
func (a *MapAnalyser) Dimensions() (width, height int) {
	return a.width, a.height
}

// ResourceTypes returns the analysable resource types in palette order,
// not including "all".
func (a *MapAnalyser) ResourceTypes() []string {
	out := make([]string, len(a.resourceTypes))
	copy(out, a.resourceTypes)
	return out
}

// bounds returns the full image as a pixel rectangle.
func (a *MapAnalyser) bounds() geometry.RectInt {
	return geometry.NewRectInt(0, 0, a.width, a.height)
}

// CountResourcesInRegion returns the number of pixels of the given resource
// inside r. The region is clamped to the image like a slice; unknown
// resource types count zero.
func (a *MapAnalyser) CountResourcesInRegion(resource string, r geometry.RectInt) int {
	patch, ok := a.Combined[resource]
	if !ok {
		return 0
	}
	r = r.Intersect(a.bounds())
	if r.Empty() {
		return 0
	}
	region := patch.mask.Region(r.ToImageRect())
	defer region.Close()
	return gocv.CountNonZero(region)
}

// PatchesPartiallyInRegion returns, per resource type, the patches that have
// at least one pixel inside r, with the usual "all" aggregation.
func (a *MapAnalyser) PatchesPartiallyInRegion(r geometry.RectInt) map[string][]*OrePatch {
	out := make(map[string][]*OrePatch, len(a.resourceTypes)+1)
	out[AllResources] = []*OrePatch{}
	clamped := r.Intersect(a.bounds())
	for _, resource := range a.resourceTypes {
		list := []*OrePatch{}
		if !clamped.Empty() {
			for _, patch := range a.Patches[resource] {
				region := patch.mask.Region(clamped.ToImageRect())
				inside := gocv.CountNonZero(region) > 0
				region.Close()
				if inside {
					list = append(list, patch)
				}
			}
		}
		out[resource] = list
		out[AllResources] = append(out[AllResources], list...)
	}
	return out
}

// CombinePatches merges patches into a single virtual patch that need not be
// connected. The caller owns the returned patch and must Close it; the
// inputs are left untouched. An empty list yields an empty patch.
func (a *MapAnalyser) CombinePatches(patches []*OrePatch, resourceType string) *OrePatch {
	mask := gocv.NewMatWithSize(a.height, a.width, gocv.MatTypeCV8U)
	for _, p := range patches {
		gocv.Add(mask, p.mask, &mask)
	}
	return newOrePatch(mask, resourceType)
}

// Close releases every patch mask owned by the analyser.
func (a *MapAnalyser) Close() {
	for _, patch := range a.Combined {
		patch.Close()
	}
	// the "all" list shares patches with the per-type lists
	for _, resource := range a.resourceTypes {
		for _, patch := range a.Patches[resource] {
			patch.Close()
		}
	}
}
