// Package tiles re-expresses pixel-space analysis results in the game's
// native coordinate system: tile units centered on the map, so coordinates
// can be negative. One image pixel covers TilesPerPixel x TilesPerPixel tiles.
package tiles

import (
	"errors"
	"fmt"

	"seed-analyser/pkg/geometry"
)

var (
	// ErrOutOfBounds marks a tile coordinate outside the analysed map.
	ErrOutOfBounds = errors.New("tile coordinate out of map bounds")
	// ErrBadRegion marks a region whose start is not lower than its end.
	ErrBadRegion = errors.New("region start must be lower than region end")
)

// Transform maps between pixel indices and centered tile coordinates. It is
// a pure value; all analyser views share one Transform so no conversion
// logic is duplicated between coordinate systems.
type Transform struct {
	TilesPerPixel int

	widthPx, heightPx int
}

// NewTransform creates a Transform for an image of the given pixel
// dimensions.
func NewTransform(tilesPerPixel, widthPx, heightPx int) (Transform, error) {
	if tilesPerPixel <= 0 {
		return Transform{}, fmt.Errorf("tiles per pixel must be positive, got %d", tilesPerPixel)
	}
	if widthPx <= 0 || heightPx <= 0 {
		return Transform{}, fmt.Errorf("invalid image dimensions %dx%d", widthPx, heightPx)
	}
	return Transform{TilesPerPixel: tilesPerPixel, widthPx: widthPx, heightPx: heightPx}, nil
}

// minXPx is the tile-space origin offset of pixel column 0, in pixels.
func (t Transform) minXPx() int { return floorDiv(-t.widthPx, 2) }

func (t Transform) minYPx() int { return floorDiv(-t.heightPx, 2) }

// MinX returns the minimum x value of the map in tile coordinates.
func (t Transform) MinX() int { return t.minXPx() * t.TilesPerPixel }

// MinY returns the minimum y value of the map in tile coordinates.
func (t Transform) MinY() int { return t.minYPx() * t.TilesPerPixel }

// MaxX returns the maximum x value of the map in tile coordinates.
func (t Transform) MaxX() int { return floorDiv(t.widthPx, 2) * t.TilesPerPixel }

// MaxY returns the maximum y value of the map in tile coordinates.
func (t Transform) MaxY() int { return floorDiv(t.heightPx, 2) * t.TilesPerPixel }

// InBoundsX checks whether a tile x value lies within the map, bounds
// included.
func (t Transform) InBoundsX(x int) bool { return t.MinX() <= x && x <= t.MaxX() }

// InBoundsY checks whether a tile y value lies within the map, bounds
// included.
func (t Transform) InBoundsY(y int) bool { return t.MinY() <= y && y <= t.MaxY() }

// InBoundsPoint checks whether a tile coordinate lies within the map.
func (t Transform) InBoundsPoint(x, y int) bool { return t.InBoundsX(x) && t.InBoundsY(y) }

// CheckRegion validates a tile region before conversion: both corners must
// be in bounds and the start must be strictly lower than the end on both
// axes. Violations are reported, never clamped.
func (t Transform) CheckRegion(startX, startY, endX, endY int) error {
	if !t.InBoundsPoint(startX, startY) || !t.InBoundsPoint(endX, endY) {
		return fmt.Errorf("%w: region (%d,%d)-(%d,%d) exceeds (%d,%d)-(%d,%d)",
			ErrOutOfBounds, startX, startY, endX, endY, t.MinX(), t.MinY(), t.MaxX(), t.MaxY())
	}
	if startX >= endX || startY >= endY {
		return fmt.Errorf("%w: got (%d,%d)-(%d,%d)", ErrBadRegion, startX, startY, endX, endY)
	}
	return nil
}

// PixelRegion converts a tile region to the pixel region fully covering it.
// The start corner rounds down and the end corner rounds up, so a region
// that does not align with pixel boundaries grows, never shrinks.
func (t Transform) PixelRegion(startX, startY, endX, endY int) geometry.RectInt {
	s := t.TilesPerPixel
	return geometry.RectInt{
		X0: floorDiv(startX-t.MinX(), s),
		Y0: floorDiv(startY-t.MinY(), s),
		X1: -floorDiv(t.MinX()-endX, s),
		Y1: -floorDiv(t.MinY()-endY, s),
	}
}

// TileRegion converts a pixel region back to tile coordinates. Pixel
// boundaries map exactly, so no rounding is involved.
func (t Transform) TileRegion(r geometry.RectInt) (startX, startY, endX, endY int) {
	s := t.TilesPerPixel
	return r.X0*s + t.MinX(), r.Y0*s + t.MinY(), r.X1*s + t.MinX(), r.Y1*s + t.MinY()
}

// floorDiv divides rounding toward negative infinity; b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ceilDiv divides rounding toward positive infinity; b must be positive.
func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
