package analyser

import (
	"seed-analyser/pkg/geometry"

	"gocv.io/x/gocv"
)

// LongestCorridor finds the longest straight rectangular strip of the given
// resource inside r. The strip is axis-aligned, horizontal or vertical, has
// the given thickness in pixels and must contain at least
// thickness*length-tolerance resource pixels.
//
// The search shrinks adaptively: starting from the longest feasible window,
// the best window count of each orientation is computed from an integral
// image; when even the best window misses the target, the candidate length
// drops to (best+tolerance)/thickness and the scan repeats. A drop never
// passes over lengths at which an orientation is feasible but was not yet
// scanned. When the best horizontal and vertical counts tie, horizontal wins.
//
// The returned region is anchored at the winning window's top-left corner in
// absolute pixel coordinates. ok is false when no window qualifies at
// length 1, or when thickness exceeds both region dimensions.
func (a *MapAnalyser) LongestCorridor(resource string, thickness, tolerance int, r geometry.RectInt) (length int, region geometry.RectInt, ok bool) {
	if thickness <= 0 || tolerance < 0 {
		return 0, geometry.RectInt{}, false
	}
	patch, found := a.Combined[resource]
	if !found {
		return 0, geometry.RectInt{}, false
	}
	r = r.Intersect(a.bounds())
	if r.Empty() {
		return 0, geometry.RectInt{}, false
	}

	sums := newIntegral(patch.mask, r)
	regionW, regionH := r.Dx(), r.Dy()

	maxLenH, maxLenV := 0, 0
	if thickness <= regionH {
		maxLenH = regionW
	}
	if thickness <= regionW {
		maxLenV = regionH
	}

	for length = max(maxLenH, maxLenV); length >= 1; {
		best := -1
		var bestRect geometry.RectInt
		if length <= maxLenH {
			count, x, y := sums.bestWindow(length, thickness)
			best = count
			bestRect = geometry.NewRectInt(r.X0+x, r.Y0+y, r.X0+x+length, r.Y0+y+thickness)
		}
		if length <= maxLenV {
			if count, x, y := sums.bestWindow(thickness, length); count > best {
				best = count
				bestRect = geometry.NewRectInt(r.X0+x, r.Y0+y, r.X0+x+thickness, r.Y0+y+length)
			}
		}
		if best < 0 {
			break
		}
		if best+tolerance >= thickness*length {
			return length, bestRect, true
		}
		next := (best + tolerance) / thickness
		if next >= length {
			next = length - 1
		}
		// a bound derived while one orientation was infeasible must not jump
		// past lengths that orientation has never been scanned at
		if length > maxLenH && next < maxLenH {
			next = maxLenH
		}
		if length > maxLenV && next < maxLenV {
			next = maxLenV
		}
		length = next
	}
	return 0, geometry.RectInt{}, false
}

// integralImage holds 2-D prefix sums over a mask region, so any window sum
// costs four lookups.
type integralImage struct {
	w, h int
	sum  []int // (h+1)x(w+1); sum[y*(w+1)+x] covers [0,x) x [0,y)
}

func newIntegral(mask gocv.Mat, r geometry.RectInt) *integralImage {
	w, h := r.Dx(), r.Dy()
	sum := make([]int, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		prev := y * (w + 1)
		row := (y + 1) * (w + 1)
		line := 0
		for x := 0; x < w; x++ {
			if mask.GetUCharAt(r.Y0+y, r.X0+x) != 0 {
				line++
			}
			sum[row+x+1] = sum[prev+x+1] + line
		}
	}
	return &integralImage{w: w, h: h, sum: sum}
}

func (ii *integralImage) window(x, y, ww, wh int) int {
	stride := ii.w + 1
	return ii.sum[(y+wh)*stride+x+ww] - ii.sum[y*stride+x+ww] -
		ii.sum[(y+wh)*stride+x] + ii.sum[y*stride+x]
}

// bestWindow returns the maximum ww x wh window sum and its top-left
// position relative to the region. The window must fit the region.
func (ii *integralImage) bestWindow(ww, wh int) (best, bestX, bestY int) {
	best = -1
	for y := 0; y+wh <= ii.h; y++ {
		for x := 0; x+ww <= ii.w; x++ {
			if s := ii.window(x, y, ww, wh); s > best {
				best, bestX, bestY = s, x, y
			}
		}
	}
	return best, bestX, bestY
}
