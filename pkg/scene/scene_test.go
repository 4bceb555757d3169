package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/models"
	"github.com/taigrr/solids/pkg/render"
)

func TestPlaceScalesThenTranslates(t *testing.T) {
	m := models.Cube(2)
	placed := Place(m, math3d.V3(0.5, 1, 2), math3d.V3(3, 3, 1))

	for i, v := range m.Vertices {
		want := math3d.V3(v.X*0.5+3, v.Y+3, v.Z*2+1)
		if got := placed.Vertices[i]; !got.ApproxEqual(want, 1e-12) {
			t.Errorf("vertex %d = %v, want %v", i, got, want)
		}
	}
	if len(placed.Faces) != len(m.Faces) {
		t.Errorf("placed has %d faces, want %d", len(placed.Faces), len(m.Faces))
	}
}

func TestPlaceIsIndependent(t *testing.T) {
	base := models.Line(3)
	a := Place(base, math3d.V3(1, 1, 1), math3d.V3(1, 0, 0))
	b := Place(base, math3d.V3(1, 1, 1), math3d.V3(0, 1, 0))

	a.Vertices[0] = math3d.V3(100, 100, 100)
	a.Edges[0] = [2]int{1, 1}

	if base.Vertices[0] != math3d.Zero3() {
		t.Errorf("base vertex changed to %v", base.Vertices[0])
	}
	if b.Vertices[0] != math3d.V3(0, 1, 0) {
		t.Errorf("sibling placement vertex changed to %v", b.Vertices[0])
	}
	if base.Edges[0] != [2]int{0, 1} || b.Edges[0] != [2]int{0, 1} {
		t.Error("edge edit leaked out of placement")
	}
}

func TestKindRoundTrip(t *testing.T) {
	for k := KindCube; k <= KindCubeFrame; k++ {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if _, err := ParseKind("dodecahedron"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseKind(unknown) error = %v, want ErrInvalidConfig", err)
	}
	if s := Kind(42).String(); s != "Kind(42)" {
		t.Errorf("Kind(42).String() = %q", s)
	}
}

func TestDefaultPalette(t *testing.T) {
	p, err := DefaultPaletteConfig().Parse()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		kind Kind
		want render.Color
	}{
		{KindCube, render.RGB(0xd6, 0x27, 0x28)},
		{KindTorus, render.RGB(0x2c, 0xa0, 0x2c)},
		{KindTube, render.RGB(0xff, 0x7f, 0x0e)},
	}
	for _, tt := range tests {
		got, ok := p.For(tt.kind)
		if !ok || got != tt.want {
			t.Errorf("For(%v) = %v, %v; want %v", tt.kind, got, ok, tt.want)
		}
	}
	if _, ok := p.For(KindLine); ok {
		t.Error("palette should have no line color")
	}
	if p.Tube == p.Torus {
		t.Error("tube and torus share a color")
	}
}

func TestPaletteParseError(t *testing.T) {
	pc := DefaultPaletteConfig()
	pc.Torus = "green-ish"
	if _, err := pc.Parse(); err == nil {
		t.Error("expected error for bad hex")
	}
}

func TestBuildDefaultScene(t *testing.T) {
	s, err := Build(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		kind             Kind
		verts, triangles int
	}{
		{KindCube, 8, 12},
		{KindTorus, 40 * 20, 2 * 40 * 20},
		{KindTube, 2 * 20 * 10, 8 * 19 * 10},
	}
	if len(s.Objects) != len(tests) || len(s.Base) != len(tests) {
		t.Fatalf("got %d objects / %d bases, want %d", len(s.Objects), len(s.Base), len(tests))
	}
	for i, tt := range tests {
		o := s.Objects[i]
		if o.Kind != tt.kind {
			t.Errorf("object %d kind = %v, want %v", i, o.Kind, tt.kind)
		}
		if o.Mesh.VertexCount() != tt.verts || o.Mesh.TriangleCount() != tt.triangles {
			t.Errorf("%v: %d verts %d tris, want %d %d", tt.kind,
				o.Mesh.VertexCount(), o.Mesh.TriangleCount(), tt.verts, tt.triangles)
		}
		if err := o.Mesh.Validate(); err != nil {
			t.Errorf("%v: %v", tt.kind, err)
		}
		want, _ := s.Palette.For(tt.kind)
		if o.Color != want {
			t.Errorf("%v color = %v, want %v", tt.kind, o.Color, want)
		}
	}

	lo, hi := s.Objects[0].Mesh.Bounds()
	if !lo.ApproxEqual(math3d.V3(0, 6, 0), 1e-12) || !hi.ApproxEqual(math3d.V3(2, 8, 2), 1e-12) {
		t.Errorf("placed cube bounds = %v..%v", lo, hi)
	}

	st := s.Stats()
	if st.Objects != 3 || st.Triangles != 12+1600+1520 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestBuildKeepsBaseIndependent(t *testing.T) {
	s, err := Build(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	before := s.Base[0].Vertices[0]
	s.Objects[0].Mesh.Vertices[0] = math3d.V3(-1, -1, -1)
	if s.Base[0].Vertices[0] != before {
		t.Errorf("base cube vertex changed to %v", s.Base[0].Vertices[0])
	}
	if before != math3d.Zero3() {
		t.Errorf("base cube should stay in model frame, got %v", before)
	}
}

func TestBuildExtras(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extras = []ExtraConfig{
		{Kind: KindCone, Radius: 1, Height: 2, Segments: 8, Placement: Identity},
		{Kind: KindTruncatedCone, Radius: 2, TopRadius: 1, Height: 1, Placement: Identity, Color: "#000000"},
		{Kind: KindBox, Side: 2, Height: 1, Thickness: 0.2, Placement: Identity},
		{Name: "axis", Kind: KindLine, Length: 5, Placement: Identity},
		{Kind: KindCubeFrame, Side: 1, Placement: Uniform(2, Triple{0, 0, 0})},
	}
	s, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Objects) != 8 {
		t.Fatalf("got %d objects, want 8", len(s.Objects))
	}
	if s.Objects[3].Name != "cone-0" {
		t.Errorf("unnamed extra got name %q", s.Objects[3].Name)
	}
	if s.Objects[4].Color != render.ColorBlack {
		t.Errorf("explicit extra color = %v", s.Objects[4].Color)
	}
	extra, _ := render.ParseHex(cfg.ExtraColor)
	if s.Objects[3].Color != extra {
		t.Errorf("default extra color = %v, want %v", s.Objects[3].Color, extra)
	}
	line := s.Objects[6]
	if line.Name != "axis" || !line.Mesh.IsWireframe() {
		t.Errorf("line object = %q wireframe=%v", line.Name, line.Mesh.IsWireframe())
	}
	frame := s.Objects[7]
	if frame.Name != "cube-frame-4" || frame.Mesh.EdgeCount() != 12 || !frame.Mesh.IsWireframe() {
		t.Errorf("cube frame = %q with %d edges", frame.Name, frame.Mesh.EdgeCount())
	}
	if lo, hi := bounds(frame.Mesh); lo != math3d.Zero3() || hi != math3d.V3(2, 2, 2) {
		t.Errorf("cube frame bounds %v..%v", lo, hi)
	}
	if got := len(s.RenderObjects()); got != 8 {
		t.Errorf("RenderObjects returned %d", got)
	}
}

func TestBuildRejectsBadExtra(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extras = []ExtraConfig{{Kind: KindTorus}}
	if _, err := Build(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Build error = %v, want ErrInvalidConfig", err)
	}

	cfg.Extras = []ExtraConfig{{Kind: KindCone, Radius: 1, Height: 1, Segments: 2}}
	if _, err := Build(cfg); !errors.Is(err, models.ErrInvalidParams) {
		t.Errorf("Build error = %v, want ErrInvalidParams", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no resolutions", func(c *Config) { c.Resolutions = nil }},
		{"zero width", func(c *Config) { c.Resolutions = []render.Resolution{{Width: 0, Height: 10}} }},
		{"negative tolerance", func(c *Config) { c.EdgeTolerance = -0.1 }},
		{"negative darken", func(c *Config) { c.EdgeDarken = -1 }},
		{"zero distance", func(c *Config) { c.Distance = 0 }},
		{"eye at target", func(c *Config) { c.Camera.Eye = c.Camera.LookAt }},
		{"up along view", func(c *Config) { c.Camera.Up = Triple{0, 2, -2} }},
		{"zero up", func(c *Config) { c.Camera.Up = Triple{} }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := `
edge_tolerance: 0.25
resolutions:
  - {width: 64, height: 32}
camera:
  eye: [1, 2, 3]
torus:
  major_segments: 12
extras:
  - kind: line
    length: 4
    scale: [1, 1, 1]
    translate: [0, 0, 1]
  - kind: cone
    radius: 1
    height: 6
    translate: [8, 2, 0]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.EdgeTolerance != 0.25 {
		t.Errorf("EdgeTolerance = %g", cfg.EdgeTolerance)
	}
	if len(cfg.Resolutions) != 1 || cfg.Resolutions[0] != (render.Resolution{Width: 64, Height: 32}) {
		t.Errorf("Resolutions = %v", cfg.Resolutions)
	}
	if cfg.Camera.Eye != (Triple{1, 2, 3}) || cfg.Camera.LookAt != def.Camera.LookAt {
		t.Errorf("Camera = %+v", cfg.Camera)
	}
	if cfg.Torus.MajorSegments != 12 || cfg.Torus.MinorSegments != def.Torus.MinorSegments || cfg.Torus.Major != 4 {
		t.Errorf("Torus = %+v", cfg.Torus)
	}
	if cfg.Torus.Scale != def.Torus.Scale {
		t.Errorf("torus placement lost: %+v", cfg.Torus.Placement)
	}
	if len(cfg.Extras) != 2 || cfg.Extras[0].Kind != KindLine || cfg.Extras[0].Translate != (Triple{0, 0, 1}) {
		t.Fatalf("Extras = %+v", cfg.Extras)
	}
	if cone := cfg.Extras[1]; cone.Kind != KindCone || cone.Scale != Identity.Scale || cone.Translate != (Triple{8, 2, 0}) {
		t.Errorf("extra without scale = %+v, want identity scale", cone.Placement)
	}
	sc, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := bounds(sc.Objects[len(sc.Objects)-1].Mesh)
	if hi.Z-lo.Z < 6-1e-9 || hi.X-lo.X < 1.9 {
		t.Errorf("cone bounds %v..%v, want a 2-wide, 6-tall solid", lo, hi)
	}
}

func TestBuildDefaultsZeroExtraScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extras = []ExtraConfig{{Kind: KindLine, Length: 3, Placement: Placement{Translate: Triple{1, 0, 0}}}}
	sc, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := bounds(sc.Objects[3].Mesh)
	if hi.Sub(lo).Len() < 3-1e-9 {
		t.Errorf("line collapsed: %v..%v", lo, hi)
	}
}

func bounds(m *models.Mesh) (lo, hi math3d.Vec3) {
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo, hi = lo.Min(v), hi.Max(v)
	}
	return lo, hi
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("extras:\n  - kind: sphere\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for unknown kind")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("distance: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig error = %v, want ErrInvalidConfig", err)
	}
}

func TestConfigMarshalRoundTrip(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tube.P1 != (Triple{6, 6, 4}) || cfg.Tube.Scale != (Triple{0.5, 0.5, 0.5}) {
		t.Errorf("tube config = %+v", cfg.Tube)
	}
}

func TestSceneRenderer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Background = "#000000"
	cfg.EdgeDarken = 0.25
	s, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	r, err := s.Renderer()
	if err != nil {
		t.Fatal(err)
	}
	if r.Background != render.ColorBlack || r.EdgeDarken != 0.25 || r.Distance != 1 {
		t.Errorf("renderer = %+v", r)
	}
	if r.Camera.Eye != math3d.V3(5, -5, 10) {
		t.Errorf("camera eye = %v", r.Camera.Eye)
	}

	s.Config.Background = "nope"
	if _, err := s.Renderer(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Renderer error = %v, want ErrInvalidConfig", err)
	}
}
