package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fortio.org/log"
	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/models"
	"github.com/taigrr/solids/pkg/scene"
)

// OBJPresenter writes the scene as a Wavefront OBJ file with one "o" block
// per object. Edges are written as "l" elements.
type OBJPresenter struct {
	Path string
}

// Present implements scene.Presenter.
func (p *OBJPresenter) Present(ctx context.Context, objects []scene.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", p.Path, err)
	}
	if err := WriteOBJ(f, objects); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", p.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p.Path, err)
	}
	log.Infof("Wrote %s (%d objects)", p.Path, len(objects))
	return nil
}

// WriteOBJ writes objects in OBJ text form. Indices are global and 1-based.
func WriteOBJ(w io.Writer, objects []scene.Object) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# solids scene")
	base := 1
	for _, o := range objects {
		m := o.Mesh
		fmt.Fprintf(bw, "o %s\n", o.Name)
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
		}
		for _, f := range m.Faces {
			fmt.Fprintf(bw, "f %d %d %d\n", f[0]+base, f[1]+base, f[2]+base)
		}
		for _, e := range m.Edges {
			fmt.Fprintf(bw, "l %d %d\n", e[0]+base, e[1]+base)
		}
		base += len(m.Vertices)
	}
	return bw.Flush()
}

// ReadOBJ parses an OBJ file into one mesh per "o"/"g" block. Polygons are
// fan-triangulated keeping their winding; polylines become consecutive edges.
// Texture coordinates and normals are ignored.
func ReadOBJ(path string) ([]*models.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open OBJ: %w", err)
	}
	defer f.Close()
	return parseOBJ(f, path)
}

func parseOBJ(r io.Reader, name string) ([]*models.Mesh, error) {
	var positions []math3d.Vec3
	var meshes []*models.Mesh
	var cur *models.Mesh
	var remap map[int]int // global position index -> index in cur

	start := func(n string) {
		cur = models.NewMesh(n)
		meshes = append(meshes, cur)
		remap = make(map[int]int)
	}
	vertex := func(field string) (int, error) {
		pos, _, _ := strings.Cut(field, "/")
		idx, err := strconv.Atoi(pos)
		if err != nil {
			return 0, fmt.Errorf("invalid vertex index: %s", pos)
		}
		idx = resolveIndex(idx, len(positions))
		if idx < 0 || idx >= len(positions) {
			return 0, fmt.Errorf("position index %s out of range", pos)
		}
		if local, ok := remap[idx]; ok {
			return local, nil
		}
		local := len(cur.Vertices)
		cur.Vertices = append(cur.Vertices, positions[idx])
		remap[idx] = local
		return local, nil
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			var xyz [3]float64
			for k := range xyz {
				v, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate: %w", lineNum, err)
				}
				xyz[k] = v
			}
			positions = append(positions, math3d.V3(xyz[0], xyz[1], xyz[2]))
		case "o", "g":
			n := name
			if len(fields) > 1 {
				n = fields[1]
			}
			start(n)
		case "f", "l":
			need := 3
			if fields[0] == "l" {
				need = 2
			}
			if len(fields) < need+1 {
				return nil, fmt.Errorf("line %d: %s needs at least %d vertices", lineNum, fields[0], need)
			}
			if cur == nil {
				start(name)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, fv := range fields[1:] {
				i, err := vertex(fv)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				idx = append(idx, i)
			}
			if fields[0] == "l" {
				for i := 0; i+1 < len(idx); i++ {
					cur.Edges = append(cur.Edges, [2]int{idx[i], idx[i+1]})
				}
				continue
			}
			for i := 1; i+1 < len(idx); i++ {
				cur.Faces = append(cur.Faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read OBJ: %w", err)
	}
	return meshes, nil
}

// resolveIndex converts a 1-based (or negative, end-relative) OBJ index to
// a 0-based one. Zero is invalid and maps to -1.
func resolveIndex(idx, count int) int {
	switch {
	case idx > 0:
		return idx - 1
	case idx < 0:
		return count + idx
	default:
		return -1
	}
}
