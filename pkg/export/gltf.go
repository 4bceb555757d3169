package export

import (
	"context"
	"fmt"

	"fortio.org/log"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/models"
	"github.com/taigrr/solids/pkg/render"
	"github.com/taigrr/solids/pkg/scene"
)

// GLTFPresenter writes the scene as a binary glTF (.glb) file: one node and
// mesh per object, triangle primitives for solids and line primitives for
// edge-only meshes, each with an unlit base color material.
type GLTFPresenter struct {
	Path string
}

// Present implements scene.Presenter.
func (p *GLTFPresenter) Present(ctx context.Context, objects []scene.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := BuildGLTF(objects)
	if err := gltf.SaveBinary(doc, p.Path); err != nil {
		return fmt.Errorf("save %s: %w", p.Path, err)
	}
	log.Infof("Wrote %s (%d meshes)", p.Path, len(doc.Meshes))
	return nil
}

// BuildGLTF converts placed objects into a glTF document.
func BuildGLTF(objects []scene.Object) *gltf.Document {
	doc := gltf.NewDocument()
	for _, o := range objects {
		m := o.Mesh
		if m.TriangleCount() == 0 && m.EdgeCount() == 0 {
			continue
		}
		positions := make([][3]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}

		var prims []*gltf.Primitive
		mat := addMaterial(doc, o.Name, o.Color)
		pos := modeler.WritePosition(doc, positions)
		if len(m.Faces) > 0 {
			indices := make([]uint32, 0, 3*len(m.Faces))
			for _, f := range m.Faces {
				indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
			}
			prims = append(prims, &gltf.Primitive{
				Mode:       gltf.PrimitiveTriangles,
				Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: map[string]int{gltf.POSITION: pos},
				Material:   gltf.Index(mat),
			})
		}
		if len(m.Edges) > 0 {
			indices := make([]uint32, 0, 2*len(m.Edges))
			for _, e := range m.Edges {
				indices = append(indices, uint32(e[0]), uint32(e[1]))
			}
			prims = append(prims, &gltf.Primitive{
				Mode:       gltf.PrimitiveLines,
				Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: map[string]int{gltf.POSITION: pos},
				Material:   gltf.Index(mat),
			})
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: o.Name, Primitives: prims})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: o.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc
}

// addMaterial appends a material whose base color is c converted to the
// linear space glTF expects, and returns its index.
func addMaterial(doc *gltf.Document, name string, c render.Color) int {
	r, g, b := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.LinearRgb()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        name,
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{r, g, b, 1},
			MetallicFactor:  gltf.Float(0),
		},
	})
	return len(doc.Materials) - 1
}

// ReadGLTF loads every mesh of a glTF or GLB file. Triangle primitives become
// faces and line primitives become edges; node transforms are not applied.
func ReadGLTF(path string) ([]*models.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	out := make([]*models.Mesh, 0, len(doc.Meshes))
	for _, gm := range doc.Meshes {
		m := models.NewMesh(gm.Name)
		offsets := make(map[int]int)
		for _, prim := range gm.Primitives {
			if err := readPrimitive(doc, prim, m, offsets); err != nil {
				return nil, fmt.Errorf("mesh %s: %w", gm.Name, err)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// readPrimitive appends prim's geometry to m. offsets maps a POSITION
// accessor to the index of its first vertex in m, so primitives sharing an
// accessor share vertices.
func readPrimitive(doc *gltf.Document, prim *gltf.Primitive, m *models.Mesh, offsets map[int]int) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("primitive has no POSITION attribute")
	}
	acr := doc.Accessors[posIdx]
	base, seen := offsets[posIdx]
	if !seen {
		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		base = len(m.Vertices)
		offsets[posIdx] = base
		for _, p := range positions {
			m.Vertices = append(m.Vertices, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}
	}
	var err error
	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, acr.Count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	switch prim.Mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(indices); i += 3 {
			m.Faces = append(m.Faces, [3]int{base + int(indices[i]), base + int(indices[i+1]), base + int(indices[i+2])})
		}
	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(indices); i += 2 {
			m.Edges = append(m.Edges, [2]int{base + int(indices[i]), base + int(indices[i+1])})
		}
	default:
		log.LogVf("Skipping glTF primitive mode %v", prim.Mode)
	}
	return nil
}
