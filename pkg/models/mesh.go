// Package models provides procedurally generated solid meshes for the scene.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/solids/pkg/math3d"
)

var (
	// ErrInvalidParams is returned when generator parameters cannot produce a mesh.
	ErrInvalidParams = errors.New("invalid mesh parameters")
	// ErrIndexOutOfRange is returned by Validate when topology references a missing vertex.
	ErrIndexOutOfRange = errors.New("mesh index out of range")
)

// Mesh is an indexed vertex list with triangle faces and/or standalone edges.
// Solids carry Faces; wireframe-only primitives carry Edges.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    [][3]int
	Edges    [][2]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([][3]int, 0),
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// EdgeCount returns the number of standalone edges.
func (m *Mesh) EdgeCount() int {
	return len(m.Edges)
}

// IsWireframe reports whether the mesh only carries edges.
func (m *Mesh) IsWireframe() bool {
	return len(m.Faces) == 0 && len(m.Edges) > 0
}

// Bounds returns the axis-aligned bounding box. An empty mesh reports zero bounds.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// Clone creates a deep copy of the mesh. The clone shares no storage with m.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:     m.Name,
		Vertices: make([]math3d.Vec3, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	if m.Edges != nil {
		clone.Edges = make([][2]int, len(m.Edges))
		copy(clone.Edges, m.Edges)
	}
	return clone
}

// Validate checks that every face and edge index refers to an existing vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%s: face %d index %d (have %d vertices): %w", m.Name, i, idx, n, ErrIndexOutOfRange)
			}
		}
	}
	for i, e := range m.Edges {
		for _, idx := range e {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%s: edge %d index %d (have %d vertices): %w", m.Name, i, idx, n, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// edgeKey returns the canonical, order-independent key of an edge.
func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// UniqueEdges returns every distinct triangle edge once, in order of first
// appearance, followed by the standalone edges not already listed.
func (m *Mesh) UniqueEdges() [][2]int {
	seen := make(map[[2]int]bool, len(m.Faces)*3/2+len(m.Edges))
	out := make([][2]int, 0, len(m.Faces)*3/2+len(m.Edges))
	add := func(a, b int) {
		k := edgeKey(a, b)
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, [2]int{a, b})
	}
	for _, f := range m.Faces {
		add(f[0], f[1])
		add(f[1], f[2])
		add(f[2], f[0])
	}
	for _, e := range m.Edges {
		add(e[0], e[1])
	}
	return out
}
