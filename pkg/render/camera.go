package render

import "github.com/taigrr/solids/pkg/math3d"

// Camera is a pinhole camera defined by an eye point, a look-at target and an
// approximate up direction.
type Camera struct {
	Eye    math3d.Vec3
	LookAt math3d.Vec3
	Up     math3d.Vec3
}

// NewCamera creates a camera.
func NewCamera(eye, lookAt, up math3d.Vec3) Camera {
	return Camera{Eye: eye, LookAt: lookAt, Up: up}
}

// Basis is the orthonormal camera frame.
type Basis struct {
	Eye     math3d.Vec3
	Right   math3d.Vec3 // u
	Up      math3d.Vec3 // v, corrected to be perpendicular to Forward
	Forward math3d.Vec3 // n, from eye toward the target
}

// Basis derives the camera frame from the current parameters. It is not
// cached; callers compute it once per render.
func (c Camera) Basis() Basis {
	n := c.LookAt.Sub(c.Eye).Normalize()
	u := n.Cross(c.Up).Normalize()
	v := u.Cross(n)
	return Basis{Eye: c.Eye, Right: u, Up: v, Forward: n}
}

// ToCamera maps a world point into camera space. The camera looks down -Z,
// so points in front of it have negative Z.
func (b Basis) ToCamera(w math3d.Vec3) math3d.Vec3 {
	d := w.Sub(b.Eye)
	return math3d.V3(b.Right.Dot(d), b.Up.Dot(d), -b.Forward.Dot(d))
}

// TransformVertices maps every vertex into camera space, returning a new slice.
func (b Basis) TransformVertices(vs []math3d.Vec3) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(vs))
	for i, v := range vs {
		out[i] = b.ToCamera(v)
	}
	return out
}

// ToCamera is shorthand for c.Basis().ToCamera(w).
func (c Camera) ToCamera(w math3d.Vec3) math3d.Vec3 {
	return c.Basis().ToCamera(w)
}
