package models

import (
	"fmt"
	"math"

	"github.com/taigrr/solids/pkg/math3d"
)

// Default torus tessellation (major x minor angular steps).
const (
	DefaultTorusMajorSegments = 40
	DefaultTorusMinorSegments = 20
)

func cubeVertices(side float64) []math3d.Vec3 {
	return []math3d.Vec3{
		{X: 0, Y: 0, Z: 0},          // 0
		{X: side, Y: 0, Z: 0},       // 1
		{X: side, Y: side, Z: 0},    // 2
		{X: 0, Y: side, Z: 0},       // 3
		{X: 0, Y: 0, Z: side},       // 4
		{X: side, Y: 0, Z: side},    // 5
		{X: side, Y: side, Z: side}, // 6
		{X: 0, Y: side, Z: side},    // 7
	}
}

// Cube returns an axis-aligned cube of edge side with one corner at the origin.
// Triangles are wound outward, two per face.
func Cube(side float64) *Mesh {
	return &Mesh{
		Name:     "cube",
		Vertices: cubeVertices(side),
		Faces: [][3]int{
			{0, 2, 1}, {0, 3, 2}, // bottom
			{4, 5, 6}, {4, 6, 7}, // top
			{0, 1, 5}, {0, 5, 4}, // front
			{3, 7, 6}, {3, 6, 2}, // back
			{0, 4, 7}, {0, 7, 3}, // left
			{1, 2, 6}, {1, 6, 5}, // right
		},
	}
}

// CubeEdges returns the 12-edge skeleton of Cube(side).
func CubeEdges(side float64) *Mesh {
	return &Mesh{
		Name:     "cube-edges",
		Vertices: cubeVertices(side),
		Faces:    [][3]int{},
		Edges: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{4, 5}, {5, 6}, {6, 7}, {7, 4},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		},
	}
}

// Torus samples a torus of major radius R and tube radius r on a nu x nv grid
// centred at the origin around the Z axis. Both grid directions wrap, so the
// mesh is closed with no poles.
func Torus(R, r float64, nu, nv int) (*Mesh, error) {
	if nu < 1 || nv < 1 {
		return nil, fmt.Errorf("torus needs positive segment counts, got %dx%d: %w", nu, nv, ErrInvalidParams)
	}
	m := &Mesh{
		Name:     "torus",
		Vertices: make([]math3d.Vec3, 0, nu*nv),
		Faces:    make([][3]int, 0, 2*nu*nv),
	}
	for i := range nu {
		u := 2 * math.Pi * float64(i) / float64(nu)
		cu, su := math.Cos(u), math.Sin(u)
		for j := range nv {
			v := 2 * math.Pi * float64(j) / float64(nv)
			cv, sv := math.Cos(v), math.Sin(v)
			m.Vertices = append(m.Vertices, math3d.V3(
				(R+r*cv)*cu,
				(R+r*cv)*su,
				r*sv,
			))
		}
	}
	for i := range nu {
		iNext := (i + 1) % nu
		for j := range nv {
			jNext := (j + 1) % nv
			a := i*nv + j
			b := iNext*nv + j
			c := iNext*nv + jNext
			d := i*nv + jNext
			m.Faces = append(m.Faces, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	return m, nil
}

// Cone returns a cone with its base circle of the given radius on z=0 and its
// apex at (0, 0, height). Vertex 0 is the apex, vertex 1 the base centre.
func Cone(radius, height float64, n int) (*Mesh, error) {
	if n < 3 {
		return nil, fmt.Errorf("cone needs at least 3 segments, got %d: %w", n, ErrInvalidParams)
	}
	m := &Mesh{
		Name:     "cone",
		Vertices: make([]math3d.Vec3, 0, n+2),
		Faces:    make([][3]int, 0, 2*n),
	}
	m.Vertices = append(m.Vertices, math3d.V3(0, 0, height), math3d.Zero3())
	m.Vertices = append(m.Vertices, ring(radius, 0, n)...)
	for i := range n {
		next := (i + 1) % n
		m.Faces = append(m.Faces, [3]int{1, i + 2, next + 2})
	}
	for i := range n {
		next := (i + 1) % n
		m.Faces = append(m.Faces, [3]int{0, i + 2, next + 2})
	}
	return m, nil
}

// TruncatedCone returns a frustum with a top circle of radius r1 at z=h and a
// bottom circle of radius r2 at z=0, both capped.
func TruncatedCone(r1, r2, h float64, n int) (*Mesh, error) {
	if n < 3 {
		return nil, fmt.Errorf("truncated cone needs at least 3 segments, got %d: %w", n, ErrInvalidParams)
	}
	m := &Mesh{
		Name:     "truncated-cone",
		Vertices: make([]math3d.Vec3, 0, 2*n+2),
		Faces:    make([][3]int, 0, 4*n),
	}
	m.Vertices = append(m.Vertices, math3d.V3(0, 0, h), math3d.Zero3())
	m.Vertices = append(m.Vertices, ring(r1, h, n)...)
	m.Vertices = append(m.Vertices, ring(r2, 0, n)...)
	for i := range n {
		next := (i + 1) % n
		m.Faces = append(m.Faces,
			[3]int{0, 2 + i, 2 + next},
			[3]int{1, n + 2 + i, n + 2 + next},
		)
	}
	for i := range n {
		next := (i + 1) % n
		top, topNext := 2+i, 2+next
		base, baseNext := n+2+i, n+2+next
		m.Faces = append(m.Faces,
			[3]int{top, base, baseNext},
			[3]int{top, baseNext, topNext},
		)
	}
	return m, nil
}

func ring(radius, z float64, n int) []math3d.Vec3 {
	out := make([]math3d.Vec3, n)
	for i := range n {
		theta := 2 * math.Pi * float64(i) / float64(n)
		out[i] = math3d.V3(radius*math.Cos(theta), radius*math.Sin(theta), z)
	}
	return out
}

// HollowBox returns an open-topped box of footprint side x side and the given
// height whose inner walls sit thickness inside the outer ones. density
// subdivision passes are applied to the result.
func HollowBox(side, height, thickness float64, density int) (*Mesh, error) {
	if thickness <= 0 || 2*thickness >= side {
		return nil, fmt.Errorf("box wall thickness %g does not fit side %g: %w", thickness, side, ErrInvalidParams)
	}
	if density < 0 {
		return nil, fmt.Errorf("negative density %d: %w", density, ErrInvalidParams)
	}
	s, h, e := side, height, thickness
	m := &Mesh{
		Name: "box",
		Vertices: []math3d.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: s, Y: 0, Z: 0}, {X: s, Y: s, Z: 0}, {X: 0, Y: s, Z: 0},
			{X: 0, Y: 0, Z: h}, {X: s, Y: 0, Z: h}, {X: s, Y: s, Z: h}, {X: 0, Y: s, Z: h},
			{X: e, Y: e, Z: e}, {X: s - e, Y: e, Z: e}, {X: s - e, Y: s - e, Z: e}, {X: e, Y: s - e, Z: e},
			{X: e, Y: e, Z: h}, {X: s - e, Y: e, Z: h}, {X: s - e, Y: s - e, Z: h}, {X: e, Y: s - e, Z: h},
		},
		Faces: [][3]int{
			// outer shell
			{0, 2, 1}, {0, 3, 2},
			{0, 5, 1}, {0, 4, 5},
			{1, 6, 2}, {1, 5, 6},
			{2, 7, 3}, {2, 6, 7},
			{3, 4, 0}, {3, 7, 4},
			// inner shell
			{8, 10, 9}, {8, 11, 10},
			{8, 13, 9}, {8, 12, 13},
			{9, 14, 10}, {9, 13, 14},
			{10, 15, 11}, {10, 14, 15},
			{11, 12, 8}, {11, 15, 12},
			// rim
			{4, 13, 5}, {4, 12, 13},
			{5, 14, 6}, {5, 13, 14},
			{6, 15, 7}, {6, 14, 15},
			{7, 12, 4}, {7, 15, 12},
		},
	}
	return SubdivideN(m, density), nil
}

// Line returns a single edge of the given length along +Z from the origin.
func Line(length float64) *Mesh {
	return &Mesh{
		Name:     "line",
		Vertices: []math3d.Vec3{math3d.Zero3(), math3d.V3(0, 0, length)},
		Faces:    [][3]int{},
		Edges:    [][2]int{{0, 1}},
	}
}
