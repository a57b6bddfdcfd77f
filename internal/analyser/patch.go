package analyser

import (
	"errors"
	"sort"

	"seed-analyser/pkg/geometry"

	"gocv.io/x/gocv"
)

// ErrEmptyPatch is returned when a geometric property is undefined for a
// patch with no pixels.
var ErrEmptyPatch = errors.New("ore patch has no pixels")

// OrePatch is a binary raster mask of one resource region. The mask has the
// full dimensions of the source image with value 1 where the resource is
// present. A patch owns its mask exclusively and never mutates it after
// construction; Close releases it.
type OrePatch struct {
	ResourceType string

	mask gocv.Mat // CV8U, values 0/1
	size int

	contour     []geometry.PointInt
	contourDone bool
	center      geometry.Point2D
	centerDone  bool
}

// newOrePatch takes ownership of mask.
func newOrePatch(mask gocv.Mat, resourceType string) *OrePatch {
	return &OrePatch{
		ResourceType: resourceType,
		mask:         mask,
		size:         gocv.CountNonZero(mask),
	}
}

// Size returns the number of set pixels in the patch mask.
func (p *OrePatch) Size() int {
	return p.size
}

// Contour returns the external boundary points of the patch, computed on
// first access and cached. Holes inside the patch are not reported. For a
// combined patch the contours of every component are concatenated.
func (p *OrePatch) Contour() []geometry.PointInt {
	if !p.contourDone {
		contours := gocv.FindContours(p.mask, gocv.RetrievalExternal, gocv.ChainApproxNone)
		points := make([]geometry.PointInt, 0, 64)
		for i := 0; i < contours.Size(); i++ {
			for _, pt := range contours.At(i).ToPoints() {
				points = append(points, geometry.PointInt{X: pt.X, Y: pt.Y})
			}
		}
		contours.Close()
		p.contour = points
		p.contourDone = true
	}
	return p.contour
}

// CenterPoint returns the raster centroid of the patch in pixel coordinates,
// computed on first access and cached. Returns ErrEmptyPatch for a patch of
// size 0, whose centroid is undefined.
func (p *OrePatch) CenterPoint() (geometry.Point2D, error) {
	if p.size == 0 {
		return geometry.Point2D{}, ErrEmptyPatch
	}
	if !p.centerDone {
		m := gocv.Moments(p.mask, false)
		p.center = geometry.Point2D{
			X: m["m10"] / m["m00"],
			Y: m["m01"] / m["m00"],
		}
		p.centerDone = true
	}
	return p.center, nil
}

// Close releases the patch mask.
func (p *OrePatch) Close() {
	p.mask.Close()
}

// SortBySize sorts patches ascending by pixel count. Ordering is defined by
// size alone; the resource type deliberately never participates.
func SortBySize(patches []*OrePatch) {
	sort.SliceStable(patches, func(i, j int) bool {
		return patches[i].size < patches[j].size
	})
}

// LargestBySize returns the patch with the most pixels, or nil for an empty
// list. Ties keep the earliest patch.
func LargestBySize(patches []*OrePatch) *OrePatch {
	var best *OrePatch
	for _, p := range patches {
		if best == nil || p.size > best.size {
			best = p
		}
	}
	return best
}
