package analyser

import (
	"math"

	"seed-analyser/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// MinDistance returns the minimum free separation between two patches in
// pixels. Directly or diagonally touching pixels measure 0, not 1.
func MinDistance(a, b *OrePatch) float64 {
	return minContourDistance(a.Contour(), b.Contour())
}

// MinDistanceWithinRegion restricts both contours to r before measuring.
// It returns +Inf when either contour has no points inside r. Note that a
// region may clip away every boundary point of a patch while still covering
// patch interior; that case also yields +Inf rather than 0.
func MinDistanceWithinRegion(a, b *OrePatch, r geometry.RectInt) float64 {
	contourA := filterContour(a.Contour(), r)
	if len(contourA) == 0 {
		return math.Inf(1)
	}
	contourB := filterContour(b.Contour(), r)
	if len(contourB) == 0 {
		return math.Inf(1)
	}
	return minContourDistance(contourA, contourB)
}

func filterContour(points []geometry.PointInt, r geometry.RectInt) []geometry.PointInt {
	var out []geometry.PointInt
	for _, p := range points {
		if r.ContainsPoint(p) {
			out = append(out, p)
		}
	}
	return out
}

// minContourDistance computes the minimum separation between two point sets
// as a dense all-pairs matrix computation. For every pair the coordinate
// deltas are decremented by one before combining, because adjacent pixels
// have a delta of 1 but a free separation of 0. The square root is taken
// once, on the final minimum.
func minContourDistance(contour, other []geometry.PointInt) float64 {
	m, n := len(contour), len(other)
	if m == 0 || n == 0 {
		return math.Inf(1)
	}

	ax := make([]float64, m)
	ay := make([]float64, m)
	for i, p := range contour {
		ax[i] = float64(p.X)
		ay[i] = float64(p.Y)
	}
	bx := make([]float64, n)
	by := make([]float64, n)
	for i, p := range other {
		bx[i] = float64(p.X)
		by[i] = float64(p.Y)
	}

	onesM := onesVec(m)
	onesN := onesVec(n)

	// dx[i][j] = a[i].x - b[j].x via two rank-one matrices, same for dy
	var dx, dy, tmp mat.Dense
	dx.Outer(1, mat.NewVecDense(m, ax), onesN)
	tmp.Outer(1, onesM, mat.NewVecDense(n, bx))
	dx.Sub(&dx, &tmp)

	dy.Outer(1, mat.NewVecDense(m, ay), onesN)
	tmp.Outer(1, onesM, mat.NewVecDense(n, by))
	dy.Sub(&dy, &tmp)

	shrink := func(_, _ int, v float64) float64 {
		v = math.Abs(v)
		if v > 0 {
			v--
		}
		return v
	}
	dx.Apply(shrink, &dx)
	dy.Apply(shrink, &dy)

	dx.MulElem(&dx, &dx)
	dy.MulElem(&dy, &dy)
	dx.Add(&dx, &dy)

	minSq := math.Inf(1)
	for _, v := range dx.RawMatrix().Data {
		if v < minSq {
			minSq = v
		}
	}
	return math.Sqrt(minSq)
}

// minContourDistanceNaive is the scalar reference implementation used to
// validate the matrix version in tests.
func minContourDistanceNaive(contour, other []geometry.PointInt) float64 {
	if len(contour) == 0 || len(other) == 0 {
		return math.Inf(1)
	}
	minSq := math.MaxInt
	for _, p := range contour {
		for _, q := range other {
			dx := p.X - q.X
			if dx < 0 {
				dx = -dx
			}
			if dx > 0 {
				dx--
			}
			dy := p.Y - q.Y
			if dy < 0 {
				dy = -dy
			}
			if dy > 0 {
				dy--
			}
			if sq := dx*dx + dy*dy; sq < minSq {
				minSq = sq
			}
		}
	}
	return math.Sqrt(float64(minSq))
}

func onesVec(n int) *mat.VecDense {
	data := make([]float64, n)
	for i := range data {
		data[i] = 1
	}
	return mat.NewVecDense(n, data)
}
