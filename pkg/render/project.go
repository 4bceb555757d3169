package render

import "github.com/taigrr/solids/pkg/math3d"

// DepthEpsilon replaces a zero camera-space Z during the perspective divide.
const DepthEpsilon = 1e-5

// ProjectedVertex is a point on the projection plane plus its depth, the
// camera forward distance used for z-buffering.
type ProjectedVertex struct {
	X, Y  float64
	Depth float64
}

// Project perspective-divides a camera-space point onto the plane at distance d.
func Project(v math3d.Vec3, d float64) math3d.Vec2 {
	z := v.Z
	if z == 0 {
		z = DepthEpsilon
	}
	return math3d.V2(-d*v.X/z, -d*v.Y/z)
}

// ProjectVertex projects v and attaches its forward distance -v.Z as depth.
func ProjectVertex(v math3d.Vec3, d float64) ProjectedVertex {
	p := Project(v, d)
	return ProjectedVertex{X: p.X, Y: p.Y, Depth: -v.Z}
}

// ProjectVertices projects a list of camera-space vertices.
func ProjectVertices(vs []math3d.Vec3, d float64) []ProjectedVertex {
	out := make([]ProjectedVertex, len(vs))
	for i, v := range vs {
		out[i] = ProjectVertex(v, d)
	}
	return out
}
