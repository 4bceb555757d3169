package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"fortio.org/log"
	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/models"
	"github.com/taigrr/solids/pkg/scene"
)

const (
	stlHeaderSize = 80
	stlFacetSize  = 50 // normal + 3 vertices (12 float32) + attribute count
)

// STLPresenter writes the triangles of every object into a single STL file.
// Edge-only objects have no STL representation and are skipped.
type STLPresenter struct {
	Path  string
	ASCII bool
}

// Present implements scene.Presenter.
func (p *STLPresenter) Present(ctx context.Context, objects []scene.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", p.Path, err)
	}
	if p.ASCII {
		err = WriteSTLASCII(f, "solids", objects)
	} else {
		err = WriteSTL(f, objects)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", p.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p.Path, err)
	}
	log.Infof("Wrote %s (%d triangles)", p.Path, countTriangles(objects))
	return nil
}

func countTriangles(objects []scene.Object) int {
	n := 0
	for _, o := range objects {
		n += o.Mesh.TriangleCount()
	}
	return n
}

// facetNormal returns the unit normal of a counter-clockwise triangle, or the
// zero vector for a degenerate one.
func facetNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// WriteSTL writes objects as one binary STL solid.
func WriteSTL(w io.Writer, objects []scene.Object) error {
	bw := bufio.NewWriter(w)
	header := make([]byte, stlHeaderSize)
	copy(header, "binary STL: solids")
	if _, err := bw.Write(header); err != nil {
		return err
	}
	total := countTriangles(objects)
	if uint64(total) > math.MaxUint32 {
		return fmt.Errorf("too many triangles for STL: %d", total)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(total)); err != nil {
		return err
	}

	var facet [12]float32
	for _, o := range objects {
		if o.Mesh.IsWireframe() {
			log.LogVf("STL: skipping edge-only object %s", o.Name)
		}
		vs := o.Mesh.Vertices
		for _, f := range o.Mesh.Faces {
			a, b, c := vs[f[0]], vs[f[1]], vs[f[2]]
			for i, v := range []math3d.Vec3{facetNormal(a, b, c), a, b, c} {
				facet[3*i] = float32(v.X)
				facet[3*i+1] = float32(v.Y)
				facet[3*i+2] = float32(v.Z)
			}
			if err := binary.Write(bw, binary.LittleEndian, facet); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteSTLASCII writes objects as one ASCII STL solid called name.
func WriteSTLASCII(w io.Writer, name string, objects []scene.Object) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, o := range objects {
		vs := o.Mesh.Vertices
		for _, f := range o.Mesh.Faces {
			a, b, c := vs[f[0]], vs[f[1]], vs[f[2]]
			n := facetNormal(a, b, c)
			fmt.Fprintf(bw, "  facet normal %g %g %g\n    outer loop\n", n.X, n.Y, n.Z)
			for _, v := range [3]math3d.Vec3{a, b, c} {
				fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
			}
			fmt.Fprintf(bw, "    endloop\n  endfacet\n")
		}
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

// ReadSTL parses a binary or ASCII STL file into a mesh, merging vertices
// with identical coordinates.
func ReadSTL(path string) (*models.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read STL: %w", err)
	}
	if isBinarySTL(data) {
		return parseBinarySTL(data, path)
	}
	return parseASCIISTL(data, path)
}

// isBinarySTL reports whether data looks like binary STL. ASCII files start
// with "solid", but so do some binary headers, so the facet count decides.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return true
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(n)*stlFacetSize
}

type vertexIndex struct {
	mesh *models.Mesh
	seen map[math3d.Vec3]int
}

func newVertexIndex(name string) *vertexIndex {
	return &vertexIndex{mesh: models.NewMesh(name), seen: make(map[math3d.Vec3]int)}
}

func (vi *vertexIndex) add(v math3d.Vec3) int {
	if idx, ok := vi.seen[v]; ok {
		return idx
	}
	idx := len(vi.mesh.Vertices)
	vi.mesh.Vertices = append(vi.mesh.Vertices, v)
	vi.seen[v] = idx
	return idx
}

func readVec3LE(data []byte) math3d.Vec3 {
	return math3d.V3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(data))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(data[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(data[8:]))),
	)
}

func parseBinarySTL(data []byte, name string) (*models.Mesh, error) {
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	want := stlHeaderSize + 4 + uint64(n)*stlFacetSize
	if uint64(len(data)) < want {
		return nil, fmt.Errorf("binary STL truncated: expected %d bytes, got %d", want, len(data))
	}
	vi := newVertexIndex(name)
	off := stlHeaderSize + 4
	for range n {
		off += 12 // stored normal, recomputed from winding when needed
		var face [3]int
		for k := range face {
			face[k] = vi.add(readVec3LE(data[off:]))
			off += 12
		}
		off += 2
		vi.mesh.Faces = append(vi.mesh.Faces, face)
	}
	return vi.mesh, nil
}

func parseASCIISTL(data []byte, name string) (*models.Mesh, error) {
	vi := newVertexIndex(name)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	var face []int
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				vi.mesh.Name = fields[1]
			}
		case "facet":
			face = face[:0]
		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			var xyz [3]float64
			for k := range xyz {
				v, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
				}
				xyz[k] = v
			}
			face = append(face, vi.add(math3d.V3(xyz[0], xyz[1], xyz[2])))
		case "endfacet":
			if len(face) >= 3 {
				vi.mesh.Faces = append(vi.mesh.Faces, [3]int{face[0], face[1], face[2]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ASCII STL: %w", err)
	}
	return vi.mesh, nil
}
