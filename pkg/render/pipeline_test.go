package render

import (
	"context"
	"errors"
	"image"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/models"
)

// recordingEncoder implements ImageEncoder for testing.
type recordingEncoder struct {
	mu    sync.Mutex
	names []string
	sizes map[string]image.Rectangle
	fail  string
}

func (e *recordingEncoder) Encode(_ context.Context, name string, img image.Image) error {
	if name == e.fail {
		return errors.New("disk full")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sizes == nil {
		e.sizes = make(map[string]image.Rectangle)
	}
	e.names = append(e.names, name)
	e.sizes[name] = img.Bounds()
	return nil
}

func countColor(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestRenderCube(t *testing.T) {
	r := NewRenderer(sceneCamera())
	red := RGB(214, 39, 40)
	objs := []Object{{Name: "cube", Mesh: models.Cube(2), Color: red}}

	fb := r.Render(objs, 64, 64)
	if fb.Width != 64 || fb.Height != 64 {
		t.Fatalf("framebuffer %dx%d", fb.Width, fb.Height)
	}
	if countColor(fb, red) == 0 {
		t.Error("no fill pixels rendered")
	}
	if countColor(fb, Darker(red, 0.5)) == 0 {
		t.Error("no wireframe pixels rendered")
	}
	if countColor(fb, ColorWhite) == 0 {
		t.Error("fit should leave a white margin")
	}
	// Nothing is drawn behind the camera, every written depth is positive.
	for i, d := range fb.Depth {
		if d <= 0 {
			t.Fatalf("depth %d = %v", i, d)
		}
	}
}

func TestRenderOcclusion(t *testing.T) {
	// Camera on +Z looking at the origin; a near cube hides part of a far one.
	cam := NewCamera(math3d.V3(0, 0, 20), math3d.Zero3(), math3d.V3(0, 1, 0))
	r := NewRenderer(cam)
	r.EdgeDarken = 1 // edges use fill colors so only two colors appear

	near := models.Cube(2)
	far := models.Cube(2)
	for i := range far.Vertices {
		far.Vertices[i] = far.Vertices[i].Add(math3d.V3(1, 1, -6))
	}
	objs := []Object{
		{Name: "near", Mesh: near, Color: ColorRed},
		{Name: "far", Mesh: far, Color: ColorBlue},
	}
	swapped := []Object{objs[1], objs[0]}

	a := r.Render(objs, 80, 80)
	b := r.Render(swapped, 80, 80)
	if countColor(a, ColorRed) == 0 || countColor(a, ColorBlue) == 0 {
		t.Fatal("both cubes should be partly visible")
	}
	for i := range a.Pixels {
		if a.Depth[i] != b.Depth[i] {
			t.Fatalf("depth %d differs with submission order: %v vs %v", i, a.Depth[i], b.Depth[i])
		}
	}
	// The pixel under the near cube's projected centre is red.
	fit := Fit(r.Project(objs), 80, 80)
	center := fit.ToPixel(ProjectVertex(cam.ToCamera(math3d.V3(1, 1, 2)), 1))
	if got := a.GetPixel(center.X, center.Y); got != ColorRed {
		t.Errorf("near cube centre pixel = %v, want red", got)
	}
}

func TestRenderEdgeOnlyMesh(t *testing.T) {
	cam := NewCamera(math3d.V3(10, 0, 1.5), math3d.V3(0, 0, 1.5), math3d.V3(0, 0, 1))
	r := NewRenderer(cam)
	objs := []Object{
		{Name: "line", Mesh: models.Line(3), Color: ColorBlue},
		{Name: "cube", Mesh: models.Cube(0.5), Color: ColorRed},
	}
	fb := r.Render(objs, 40, 40)
	if countColor(fb, ColorBlue) == 0 {
		t.Error("edge-only mesh not drawn")
	}
}

func TestRenderDoesNotMutateMeshes(t *testing.T) {
	m := models.Cube(2)
	before := m.Clone()
	NewRenderer(sceneCamera()).Render([]Object{{Mesh: m, Color: ColorRed}}, 16, 16)
	for i := range m.Vertices {
		if m.Vertices[i] != before.Vertices[i] {
			t.Fatalf("vertex %d changed by Render", i)
		}
	}
}

func TestRenderResolutions(t *testing.T) {
	r := NewRenderer(sceneCamera())
	objs := []Object{{Name: "cube", Mesh: models.Cube(2), Color: ColorRed}}
	res := []Resolution{{16, 16}, {32, 24}, {48, 48}}
	enc := &recordingEncoder{}

	if err := r.RenderResolutions(context.Background(), objs, res, enc); err != nil {
		t.Fatal(err)
	}
	sort.Strings(enc.names)
	want := []string{"raster_perspective_16x16", "raster_perspective_32x24", "raster_perspective_48x48"}
	if len(enc.names) != len(want) {
		t.Fatalf("encoded %v, want %v", enc.names, want)
	}
	for i := range want {
		if enc.names[i] != want[i] {
			t.Errorf("artifact %d = %q, want %q", i, enc.names[i], want[i])
		}
	}
	if b := enc.sizes["raster_perspective_32x24"]; b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("32x24 artifact has bounds %v", b)
	}
}

func TestRenderResolutionsReportsEncoderError(t *testing.T) {
	r := NewRenderer(sceneCamera())
	objs := []Object{{Name: "cube", Mesh: models.Cube(2), Color: ColorRed}}
	enc := &recordingEncoder{fail: "raster_perspective_20x20"}
	err := r.RenderResolutions(context.Background(), objs, []Resolution{{10, 10}, {20, 20}}, enc)
	if err == nil {
		t.Fatal("expected an error from the failing artifact")
	}
	if !strings.Contains(err.Error(), "raster_perspective_20x20") {
		t.Errorf("error %q does not name the failing artifact", err)
	}
	if len(enc.names) != 1 || enc.names[0] != "raster_perspective_10x10" {
		t.Errorf("encoded %v, want only the healthy 10x10 image", enc.names)
	}
}

func TestRenderResolutionsKeepsSiblingsAfterFailure(t *testing.T) {
	r := NewRenderer(sceneCamera())
	objs := []Object{{Name: "cube", Mesh: models.Cube(2), Color: ColorRed}}
	res := []Resolution{{8, 8}, {40, 40}, {300, 300}}
	enc := &recordingEncoder{fail: "raster_perspective_8x8"}
	if err := r.RenderResolutions(context.Background(), objs, res, enc); err == nil {
		t.Fatal("expected an error from the failing artifact")
	}
	sort.Strings(enc.names)
	want := []string{"raster_perspective_300x300", "raster_perspective_40x40"}
	if len(enc.names) != len(want) || enc.names[0] != want[0] || enc.names[1] != want[1] {
		t.Errorf("encoded %v, want %v", enc.names, want)
	}
}
