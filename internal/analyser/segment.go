package analyser

import (
	"image"

	"gocv.io/x/gocv"
)

// AllResources is the reserved catalogue key that aggregates every resource type.
const AllResources = "all"

// RGB is an exact color in the preview palette.
type RGB struct {
	R, G, B uint8
}

// ResourceColor binds a resource name to the palette color its pixels carry
// in the preview image.
type ResourceColor struct {
	Name  string
	Color RGB
}

// buildCombinedPatches segments the BGR image into one combined patch per
// resource type plus the "all" union. The color match is exact: the lower and
// upper range bounds are identical, so an anti-aliased pixel that is off by
// one channel value is not counted.
func buildCombinedPatches(img gocv.Mat, palette []ResourceColor) map[string]*OrePatch {
	combined := make(map[string]*OrePatch, len(palette)+1)
	all := gocv.NewMatWithSize(img.Rows(), img.Cols(), gocv.MatTypeCV8U)
	for _, rc := range palette {
		bgr := gocv.NewScalar(float64(rc.Color.B), float64(rc.Color.G), float64(rc.Color.R), 0)
		mask := gocv.NewMat()
		gocv.InRangeWithScalar(img, bgr, bgr, &mask)
		mask.DivideUChar(255) // InRange marks hits with 255, the masks carry 0/1
		gocv.Add(all, mask, &all)
		combined[rc.Name] = newOrePatch(mask, rc.Name)
	}
	combined[AllResources] = newOrePatch(all, AllResources)
	return combined
}

// splitPatches separates each combined mask into its connected components,
// one OrePatch per component. Label 0 is background; labels 1..N become
// patches. The "all" list concatenates every type's patches in palette order
// and never merges components across types, even when they touch.
func splitPatches(combined map[string]*OrePatch, palette []ResourceColor) map[string][]*OrePatch {
	patches := make(map[string][]*OrePatch, len(palette)+1)
	patches[AllResources] = []*OrePatch{}
	for _, rc := range palette {
		src := combined[rc.Name]
		labels := gocv.NewMat()
		numLabels := gocv.ConnectedComponents(src.mask, &labels)

		masks := make([]gocv.Mat, numLabels)
		for label := 1; label < numLabels; label++ {
			masks[label] = gocv.NewMatWithSize(labels.Rows(), labels.Cols(), gocv.MatTypeCV8U)
		}
		for y := 0; y < labels.Rows(); y++ {
			for x := 0; x < labels.Cols(); x++ {
				if label := labels.GetIntAt(y, x); label > 0 {
					masks[label].SetUCharAt(y, x, 1)
				}
			}
		}
		labels.Close()

		list := make([]*OrePatch, 0, numLabels-1)
		for label := 1; label < numLabels; label++ {
			list = append(list, newOrePatch(masks[label], rc.Name))
		}
		patches[rc.Name] = list
		patches[AllResources] = append(patches[AllResources], list...)
	}
	return patches
}

// MatFromImage converts a decoded image.Image to a BGR gocv.Mat suitable for
// NewMapAnalyser.
func MatFromImage(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat
}
