package render

import (
	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/models"
)

// Object is one placed mesh to rasterize with its fill color.
type Object struct {
	Name  string
	Mesh  *models.Mesh
	Color Color
}

// Renderer holds the fixed parameters of a render. It carries no per-frame
// state and may be shared by concurrent Render calls.
type Renderer struct {
	Camera        Camera
	Distance      float64 // projection plane distance d
	EdgeTolerance float64 // depth window of the wireframe overlay
	EdgeDarken    float64 // edge color = fill color * EdgeDarken
	Background    Color
}

// NewRenderer creates a renderer with the default projection distance,
// edge tolerance and a white background.
func NewRenderer(camera Camera) *Renderer {
	return &Renderer{
		Camera:        camera,
		Distance:      1,
		EdgeTolerance: DefaultEdgeTolerance,
		EdgeDarken:    0.5,
		Background:    ColorWhite,
	}
}

// Projection is an object's geometry after the camera transform and the
// perspective projection.
type Projection struct {
	Object    Object
	Camera    []math3d.Vec3
	Projected []ProjectedVertex
}

// Project runs the camera transform and perspective projection for every
// object. The camera basis is derived once for the whole call.
func (r *Renderer) Project(objs []Object) []Projection {
	basis := r.Camera.Basis()
	out := make([]Projection, len(objs))
	for i, o := range objs {
		cam := basis.TransformVertices(o.Mesh.Vertices)
		out[i] = Projection{
			Object:    o,
			Camera:    cam,
			Projected: ProjectVertices(cam, r.Distance),
		}
	}
	return out
}

// Fit returns the screen fit covering every projected vertex of projs.
func Fit(projs []Projection, width, height int) ScreenFit {
	n := 0
	for _, p := range projs {
		n += len(p.Projected)
	}
	all := make([]ProjectedVertex, 0, n)
	for _, p := range projs {
		all = append(all, p.Projected...)
	}
	return FitScreen(all, width, height)
}

// Render rasterizes objs into a fresh width x height framebuffer: every
// triangle of every object is filled first, then the visible-edge overlay
// is drawn for every triangle, then edge-only meshes are drawn as plain lines.
func (r *Renderer) Render(objs []Object, width, height int) *Framebuffer {
	fb := NewFramebuffer(width, height, r.Background)
	projs := r.Project(objs)
	fit := Fit(projs, width, height)

	pixels := make([][]PixelVertex, len(projs))
	for i, p := range projs {
		pixels[i] = fit.ToPixels(p.Projected)
	}

	for i, p := range projs {
		px := pixels[i]
		for _, f := range p.Object.Mesh.Faces {
			fb.FillTriangle(px[f[0]], px[f[1]], px[f[2]], p.Object.Color)
		}
	}

	for i, p := range projs {
		px := pixels[i]
		edge := Darker(p.Object.Color, r.EdgeDarken)
		for _, f := range p.Object.Mesh.Faces {
			fb.DrawVisibleEdge(px[f[0]], px[f[1]], edge, r.EdgeTolerance)
			fb.DrawVisibleEdge(px[f[1]], px[f[2]], edge, r.EdgeTolerance)
			fb.DrawVisibleEdge(px[f[2]], px[f[0]], edge, r.EdgeTolerance)
		}
	}

	for i, p := range projs {
		px := pixels[i]
		for _, e := range p.Object.Mesh.Edges {
			fb.DrawLine(px[e[0]], px[e[1]], p.Object.Color)
		}
	}
	return fb
}
