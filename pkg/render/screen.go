package render

import (
	"math"

	"github.com/taigrr/solids/pkg/math3d"
)

// FitFraction is the share of the target size the projected bounding box occupies.
const FitFraction = 0.8

// PixelVertex is a projected vertex snapped to the pixel grid.
type PixelVertex struct {
	X, Y  int
	Depth float64
}

// ScreenFit maps projection-plane coordinates to pixels with a uniform scale
// and a centering translation.
type ScreenFit struct {
	Scale  float64
	TX, TY float64
	Height int
}

// FitScreen chooses the scale and offset that center the bounding box of
// points in a width x height grid using FitFraction of the tighter axis.
// An axis with zero extent contributes a ratio of 1.
func FitScreen(points []ProjectedVertex, width, height int) ScreenFit {
	if len(points) == 0 {
		return ScreenFit{Scale: 1, TX: float64(width) / 2, TY: float64(height) / 2, Height: height}
	}
	lo := math3d.V2(points[0].X, points[0].Y)
	hi := lo
	for _, p := range points[1:] {
		q := math3d.V2(p.X, p.Y)
		lo, hi = lo.Min(q), hi.Max(q)
	}
	extent := hi.Sub(lo)
	rx, ry := 1.0, 1.0
	if extent.X != 0 {
		rx = float64(width) / extent.X
	}
	if extent.Y != 0 {
		ry = float64(height) / extent.Y
	}
	scale := FitFraction * math.Min(rx, ry)
	sum := hi.Add(lo).Scale(scale)
	return ScreenFit{
		Scale:  scale,
		TX:     (float64(width) - sum.X) / 2,
		TY:     (float64(height) - sum.Y) / 2,
		Height: height,
	}
}

// ToPixel converts a projected vertex to pixel coordinates, flipping Y so the
// origin is the top-left corner.
func (s ScreenFit) ToPixel(p ProjectedVertex) PixelVertex {
	return PixelVertex{
		X:     int(math.Round(s.Scale*p.X + s.TX)),
		Y:     s.Height - int(math.Round(s.Scale*p.Y+s.TY)),
		Depth: p.Depth,
	}
}

// ToPixels converts a slice of projected vertices.
func (s ScreenFit) ToPixels(ps []ProjectedVertex) []PixelVertex {
	out := make([]PixelVertex, len(ps))
	for i, p := range ps {
		out[i] = s.ToPixel(p)
	}
	return out
}
