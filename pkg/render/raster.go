package render

import (
	"math"

	"github.com/taigrr/solids/pkg/math3d"
)

// DefaultEdgeTolerance is the depth window within which a wireframe edge is
// considered to lie on the visible surface.
const DefaultEdgeTolerance = 0.1

// signedArea2 returns twice the signed area of triangle abc in pixel space,
// the denominator of the barycentric weights.
func signedArea2(a, b, c PixelVertex) int {
	return (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
}

// barycentric returns the weights of pixel (x, y) against a, b, c.
// den must be signedArea2(a, b, c) and non-zero. The numerators are exact
// integers, so a pixel on an edge gets a weight of exactly zero.
func barycentric(a, b, c PixelVertex, x, y, den int) math3d.Vec3 {
	nu := (b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)
	nv := (c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)
	nw := den - nu - nv
	d := float64(den)
	return math3d.V3(float64(nu)/d, float64(nv)/d, float64(nw)/d)
}

// FillTriangle scan-converts triangle abc with a per-pixel depth test.
//
// Pixels with all three weights >= 0 are inside, so pixels on an edge shared
// by two triangles are visited by both; the strict nearer-wins test keeps the
// first writer when the interpolated depths tie. Zero-area triangles are
// skipped.
func (fb *Framebuffer) FillTriangle(a, b, c PixelVertex, col Color) {
	den := signedArea2(a, b, c)
	if den == 0 {
		return
	}

	minX := max(0, min(a.X, b.X, c.X))
	maxX := min(fb.Width-1, max(a.X, b.X, c.X))
	minY := max(0, min(a.Y, b.Y, c.Y))
	maxY := min(fb.Height-1, max(a.Y, b.Y, c.Y))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := barycentric(a, b, c, x, y, den)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			z := bc.X*a.Depth + bc.Y*b.Depth + bc.Z*c.Depth
			fb.plot(x, y, z, col)
		}
	}
}

// stepLine walks from a to b in max(|dx|, |dy|) equal steps, calling fn with
// each pixel and the linearly interpolated depth. Zero-length segments are
// skipped.
func stepLine(a, b PixelVertex, fn func(x, y int, z float64)) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.X + int(math.Round(float64(dx)*t))
		y := a.Y + int(math.Round(float64(dy)*t))
		fn(x, y, a.Depth+(b.Depth-a.Depth)*t)
	}
}

// DrawVisibleEdge draws segment ab only where the resolved surface depth is
// within tol of the edge's own depth, so edges hidden behind other surfaces
// stay hidden. Run it after every fill pass of the frame.
func (fb *Framebuffer) DrawVisibleEdge(a, b PixelVertex, col Color, tol float64) {
	stepLine(a, b, func(x, y int, z float64) {
		if !fb.inBounds(x, y) {
			return
		}
		i := y*fb.Width + x
		if math.Abs(fb.Depth[i]-z) >= tol {
			return
		}
		fb.Pixels[i] = col
		if z < fb.Depth[i] {
			fb.Depth[i] = z
		}
	})
}

// DrawLine draws segment ab with a plain nearer-wins depth test.
func (fb *Framebuffer) DrawLine(a, b PixelVertex, col Color) {
	stepLine(a, b, func(x, y int, z float64) {
		if !fb.inBounds(x, y) {
			return
		}
		fb.plot(x, y, z, col)
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
