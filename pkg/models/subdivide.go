package models

import "github.com/taigrr/solids/pkg/math3d"

// Subdivide splits every triangle of m into four using its edge midpoints.
// Midpoints of edges shared between triangles are created once. The result
// has 4*TriangleCount() faces and one new vertex per unique edge; m is not
// modified. Standalone edges are carried over unchanged.
func Subdivide(m *Mesh) *Mesh {
	out := &Mesh{
		Name:     m.Name,
		Vertices: make([]math3d.Vec3, len(m.Vertices), len(m.Vertices)+len(m.Faces)*3/2+1),
		Faces:    make([][3]int, 0, 4*len(m.Faces)),
	}
	copy(out.Vertices, m.Vertices)
	if m.Edges != nil {
		out.Edges = make([][2]int, len(m.Edges))
		copy(out.Edges, m.Edges)
	}

	midpoints := make(map[[2]int]int, len(m.Faces)*3/2)
	midpoint := func(a, b int) int {
		key := edgeKey(a, b)
		if idx, ok := midpoints[key]; ok {
			return idx
		}
		idx := len(out.Vertices)
		out.Vertices = append(out.Vertices, out.Vertices[a].Lerp(out.Vertices[b], 0.5))
		midpoints[key] = idx
		return idx
	}

	for _, f := range m.Faces {
		a, b, c := f[0], f[1], f[2]
		ab := midpoint(a, b)
		bc := midpoint(b, c)
		ca := midpoint(c, a)
		out.Faces = append(out.Faces,
			[3]int{a, ab, ca},
			[3]int{ab, b, bc},
			[3]int{ca, bc, c},
			[3]int{ab, bc, ca},
		)
	}
	return out
}

// SubdivideN applies n Subdivide passes, each consuming the previous output.
// With n <= 0 it returns m itself.
func SubdivideN(m *Mesh, n int) *Mesh {
	for range n {
		m = Subdivide(m)
	}
	return m
}
