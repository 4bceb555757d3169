package scene

import (
	"context"
	"fmt"

	"github.com/taigrr/solids/pkg/models"
	"github.com/taigrr/solids/pkg/render"
)

// Object is a placed solid. Its Mesh is owned by the object and shares no
// storage with the base mesh it was derived from.
type Object struct {
	Name  string
	Kind  Kind
	Mesh  *models.Mesh
	Color render.Color
}

// Presenter shows or persists the polygon and line geometry of a scene.
type Presenter interface {
	Present(ctx context.Context, objects []Object) error
}

// Scene is a built configuration: base meshes in their model frames and the
// objects placed from them, in the same order.
type Scene struct {
	Config  Config
	Palette Palette
	Base    []*models.Mesh
	Objects []Object
}

// Build generates every solid of cfg and places it in the world.
func Build(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	palette, err := cfg.Palette.Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s := &Scene{Config: cfg, Palette: palette}

	torus, err := models.Torus(cfg.Torus.Major, cfg.Torus.Minor, cfg.Torus.MajorSegments, cfg.Torus.MinorSegments)
	if err != nil {
		return nil, fmt.Errorf("torus: %w", err)
	}
	tube, err := models.HermiteTube(cfg.Tube.Params())
	if err != nil {
		return nil, fmt.Errorf("tube: %w", err)
	}
	s.add("cube", KindCube, models.Cube(cfg.Cube.Side), cfg.Cube.Placement, palette.Cube)
	s.add("torus", KindTorus, torus, cfg.Torus.Placement, palette.Torus)
	s.add("tube", KindTube, tube, cfg.Tube.Placement, palette.Tube)

	for i, e := range cfg.Extras {
		mesh, err := e.Mesh()
		if err != nil {
			return nil, fmt.Errorf("extra %d (%s): %w", i, e.Kind, err)
		}
		hex := e.Color
		if hex == "" {
			hex = cfg.ExtraColor
		}
		col, err := render.ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("extra %d: %w: %w", i, ErrInvalidConfig, err)
		}
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", e.Kind, i)
		}
		s.add(name, e.Kind, mesh, e.Placement.orIdentityScale(), col)
	}
	return s, nil
}

func (s *Scene) add(name string, kind Kind, base *models.Mesh, p Placement, col render.Color) {
	base.Name = name
	s.Base = append(s.Base, base)
	s.Objects = append(s.Objects, Object{
		Name:  name,
		Kind:  kind,
		Mesh:  p.Apply(base),
		Color: col,
	})
}

// RenderObjects returns the objects in the form the rasterizer consumes.
func (s *Scene) RenderObjects() []render.Object {
	return RenderObjects(s.Objects)
}

// RenderObjects converts placed objects for the rasterizer.
func RenderObjects(objs []Object) []render.Object {
	out := make([]render.Object, len(objs))
	for i, o := range objs {
		out[i] = render.Object{Name: o.Name, Mesh: o.Mesh, Color: o.Color}
	}
	return out
}

// Renderer returns a renderer configured from the scene's camera and
// projection settings.
func (s *Scene) Renderer() (*render.Renderer, error) {
	bg, err := render.ParseHex(s.Config.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w: %w", ErrInvalidConfig, err)
	}
	r := render.NewRenderer(s.Config.Camera.Camera())
	r.Distance = s.Config.Distance
	r.EdgeTolerance = s.Config.EdgeTolerance
	r.EdgeDarken = s.Config.EdgeDarken
	r.Background = bg
	return r, nil
}

// Stats summarizes the size of a scene.
type Stats struct {
	Objects   int
	Vertices  int
	Triangles int
	Edges     int
}

// Stats totals the placed geometry.
func (s *Scene) Stats() Stats {
	st := Stats{Objects: len(s.Objects)}
	for _, o := range s.Objects {
		st.Vertices += o.Mesh.VertexCount()
		st.Triangles += o.Mesh.TriangleCount()
		st.Edges += o.Mesh.EdgeCount()
	}
	return st
}
