package models

import (
	"testing"

	"github.com/taigrr/solids/pkg/math3d"
)

func sharedEdgeQuad() *Mesh {
	m := NewMesh("quad")
	m.Vertices = []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(2, 0, 0),
		math3d.V3(0, 2, 0),
		math3d.V3(2, 2, 0),
	}
	m.Faces = [][3]int{{0, 1, 2}, {2, 1, 3}}
	return m
}

func TestSubdivideSharedEdge(t *testing.T) {
	m := sharedEdgeQuad()
	out := Subdivide(m)

	if out.TriangleCount() != 8 {
		t.Errorf("TriangleCount = %d, want 8", out.TriangleCount())
	}
	// 4 original + 5 unique edges; the shared edge 1-2 contributes one vertex.
	if out.VertexCount() != 9 {
		t.Errorf("VertexCount = %d, want 9", out.VertexCount())
	}
	if err := out.Validate(); err != nil {
		t.Error(err)
	}

	count := 0
	for _, v := range out.Vertices {
		if v == math3d.V3(1, 1, 0) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared edge midpoint appears %d times, want 1", count)
	}
}

func TestSubdivideCornerTriangles(t *testing.T) {
	m := NewMesh("tri")
	m.Vertices = []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(2, 0, 0), math3d.V3(0, 2, 0)}
	m.Faces = [][3]int{{0, 1, 2}}
	out := Subdivide(m)

	// Midpoints are appended in ab, bc, ca order.
	ab, bc, ca := 3, 4, 5
	want := [][3]int{{0, ab, ca}, {ab, 1, bc}, {ca, bc, 2}, {ab, bc, ca}}
	for i, f := range want {
		if out.Faces[i] != f {
			t.Errorf("face %d = %v, want %v", i, out.Faces[i], f)
		}
	}
	if out.Vertices[bc] != math3d.V3(1, 1, 0) {
		t.Errorf("bc midpoint = %v", out.Vertices[bc])
	}
}

func TestSubdivideDoesNotMutateInput(t *testing.T) {
	m := sharedEdgeQuad()
	_ = Subdivide(m)
	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Errorf("input mutated: %d vertices, %d faces", m.VertexCount(), m.TriangleCount())
	}
}

func TestSubdivideN(t *testing.T) {
	m := Cube(2)
	for n := range 4 {
		out := SubdivideN(m, n)
		want := 12
		for range n {
			want *= 4
		}
		if out.TriangleCount() != want {
			t.Errorf("SubdivideN(%d) TriangleCount = %d, want %d", n, out.TriangleCount(), want)
		}
	}
	// Closed cube: 8 vertices + 18 edges after one pass.
	if got := Subdivide(m).VertexCount(); got != 26 {
		t.Errorf("subdivided cube VertexCount = %d, want 26", got)
	}
}

func BenchmarkSubdivideTube(b *testing.B) {
	m, err := HermiteTube(defaultTube())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SubdivideN(m, 2)
	}
}
