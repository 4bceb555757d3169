package scene

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/models"
	"github.com/taigrr/solids/pkg/render"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned (wrapped) for configurations that cannot be rendered.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultSegments is the ring resolution of cones when a config leaves it unset.
const DefaultSegments = 32

// parallelEpsilon bounds |forward x up| relative to |forward||up| below which
// the camera cannot build a basis.
const parallelEpsilon = 1e-9

// Triple is a 3-vector written as a YAML flow sequence: [x, y, z].
type Triple [3]float64

// Vec returns t as a math3d.Vec3.
func (t Triple) Vec() math3d.Vec3 {
	return math3d.V3(t[0], t[1], t[2])
}

// Placement is the world transform of one object: per-axis scale, then translation.
type Placement struct {
	Scale     Triple `yaml:"scale"`
	Translate Triple `yaml:"translate"`
}

// Identity is the placement that leaves a mesh where it is.
var Identity = Placement{Scale: Triple{1, 1, 1}}

// Uniform returns a placement with the same scale on every axis.
func Uniform(s float64, translate Triple) Placement {
	return Placement{Scale: Triple{s, s, s}, Translate: translate}
}

// orIdentityScale returns p with an all-zero scale replaced by Identity's.
func (p Placement) orIdentityScale() Placement {
	if p.Scale == (Triple{}) {
		p.Scale = Identity.Scale
	}
	return p
}

// Apply places mesh in the world.
func (p Placement) Apply(mesh *models.Mesh) *models.Mesh {
	return Place(mesh, p.Scale.Vec(), p.Translate.Vec())
}

// CameraConfig places the viewer.
type CameraConfig struct {
	Eye    Triple `yaml:"eye"`
	LookAt Triple `yaml:"look_at"`
	Up     Triple `yaml:"up"`
}

// Camera converts the config into a render.Camera.
func (c CameraConfig) Camera() render.Camera {
	return render.NewCamera(c.Eye.Vec(), c.LookAt.Vec(), c.Up.Vec())
}

// CubeConfig sizes and places the cube.
type CubeConfig struct {
	Side      float64 `yaml:"side"`
	Placement `yaml:",inline"`
}

// TorusConfig sizes, samples and places the torus.
type TorusConfig struct {
	Major         float64 `yaml:"major"`
	Minor         float64 `yaml:"minor"`
	MajorSegments int     `yaml:"major_segments"`
	MinorSegments int     `yaml:"minor_segments"`
	Placement     `yaml:",inline"`
}

// TubeConfig describes the Hermite tube sweep and its placement.
type TubeConfig struct {
	P0             Triple  `yaml:"p0"`
	P1             Triple  `yaml:"p1"`
	T0             Triple  `yaml:"t0"`
	T1             Triple  `yaml:"t1"`
	Radius         float64 `yaml:"radius"`
	Thickness      float64 `yaml:"thickness"`
	CurveSamples   int     `yaml:"curve_samples"`
	SectionSamples int     `yaml:"section_samples"`
	Density        int     `yaml:"density"`
	Placement      `yaml:",inline"`
}

// Params converts the config into generator parameters.
func (t TubeConfig) Params() models.TubeParams {
	return models.TubeParams{
		P0:             t.P0.Vec(),
		P1:             t.P1.Vec(),
		T0:             t.T0.Vec(),
		T1:             t.T1.Vec(),
		Radius:         t.Radius,
		Thickness:      t.Thickness,
		CurveSamples:   t.CurveSamples,
		SectionSamples: t.SectionSamples,
		Density:        t.Density,
	}
}

// ExtraConfig adds one of the secondary solids to the scene. Only the fields
// used by Kind are read:
//
//	cone            radius, height, segments
//	truncated-cone  radius, top_radius, height, segments
//	box             side, height, thickness, density
//	line            length
//	cube-frame      side
type ExtraConfig struct {
	Name      string  `yaml:"name"`
	Kind      Kind    `yaml:"kind"`
	Color     string  `yaml:"color"`
	Radius    float64 `yaml:"radius"`
	TopRadius float64 `yaml:"top_radius"`
	Height    float64 `yaml:"height"`
	Side      float64 `yaml:"side"`
	Thickness float64 `yaml:"thickness"`
	Length    float64 `yaml:"length"`
	Segments  int     `yaml:"segments"`
	Density   int     `yaml:"density"`
	Placement `yaml:",inline"`
}

// UnmarshalYAML decodes an extra, defaulting its scale to Identity when the
// entry leaves it out.
func (e *ExtraConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain ExtraConfig
	p := plain{Placement: Identity}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = ExtraConfig(p)
	return nil
}

// Mesh generates the base mesh of the extra solid.
func (e ExtraConfig) Mesh() (*models.Mesh, error) {
	n := e.Segments
	if n == 0 {
		n = DefaultSegments
	}
	switch e.Kind {
	case KindCone:
		return models.Cone(e.Radius, e.Height, n)
	case KindTruncatedCone:
		return models.TruncatedCone(e.Radius, e.TopRadius, e.Height, n)
	case KindBox:
		return models.HollowBox(e.Side, e.Height, e.Thickness, e.Density)
	case KindLine:
		return models.Line(e.Length), nil
	case KindCubeFrame:
		return models.CubeEdges(e.Side), nil
	default:
		return nil, fmt.Errorf("%s is not an extra solid: %w", e.Kind, ErrInvalidConfig)
	}
}

// OutputConfig says where rendered images go and in which format.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// Config describes a complete scene and how to render it.
type Config struct {
	Camera        CameraConfig        `yaml:"camera"`
	Distance      float64             `yaml:"distance"`
	EdgeTolerance float64             `yaml:"edge_tolerance"`
	EdgeDarken    float64             `yaml:"edge_darken"`
	Background    string              `yaml:"background"`
	Palette       PaletteConfig       `yaml:"palette"`
	ExtraColor    string              `yaml:"extra_color"`
	Resolutions   []render.Resolution `yaml:"resolutions"`
	Output        OutputConfig        `yaml:"output"`
	Cube          CubeConfig          `yaml:"cube"`
	Torus         TorusConfig         `yaml:"torus"`
	Tube          TubeConfig          `yaml:"tube"`
	Extras        []ExtraConfig       `yaml:"extras"`
}

// DefaultConfig returns the stock three-solid scene.
func DefaultConfig() Config {
	return Config{
		Camera: CameraConfig{
			Eye:    Triple{5, -5, 10},
			LookAt: Triple{5, 5, 0},
			Up:     Triple{0, 0, 1},
		},
		Distance:      1,
		EdgeTolerance: render.DefaultEdgeTolerance,
		EdgeDarken:    0.5,
		Background:    "#ffffff",
		Palette:       DefaultPaletteConfig(),
		ExtraColor:    "#1f77b4",
		Resolutions: []render.Resolution{
			{Width: 144, Height: 144},
			{Width: 360, Height: 360},
			{Width: 720, Height: 720},
			{Width: 1080, Height: 1080},
		},
		Output: OutputConfig{Dir: ".", Format: "png"},
		Cube: CubeConfig{
			Side:      2,
			Placement: Placement{Scale: Triple{1, 1, 1}, Translate: Triple{0, 6, 0}},
		},
		Torus: TorusConfig{
			Major:         4,
			Minor:         2,
			MajorSegments: models.DefaultTorusMajorSegments,
			MinorSegments: models.DefaultTorusMinorSegments,
			Placement:     Uniform(0.3, Triple{3, 3, 1}),
		},
		Tube: TubeConfig{
			P0:             Triple{0, 0, 0},
			P1:             Triple{6, 6, 4},
			T0:             Triple{6, 0, 4},
			T1:             Triple{0, 6, 4},
			Radius:         1,
			Thickness:      0.3,
			CurveSamples:   20,
			SectionSamples: 10,
			Density:        0,
			Placement:      Uniform(0.5, Triple{6, 0, 1}),
		},
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig. Keys absent
// from the file keep their default values; a resolutions list replaces the
// default list as a whole.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Marshal returns the YAML form of c.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports settings that cannot produce an image.
func (c Config) Validate() error {
	if len(c.Resolutions) == 0 {
		return fmt.Errorf("no resolutions: %w", ErrInvalidConfig)
	}
	for _, r := range c.Resolutions {
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("resolution %s must be positive: %w", r, ErrInvalidConfig)
		}
	}
	if math.IsNaN(c.EdgeTolerance) || c.EdgeTolerance < 0 {
		return fmt.Errorf("edge tolerance %g must not be negative: %w", c.EdgeTolerance, ErrInvalidConfig)
	}
	if math.IsNaN(c.EdgeDarken) || c.EdgeDarken < 0 {
		return fmt.Errorf("edge darkening %g must not be negative: %w", c.EdgeDarken, ErrInvalidConfig)
	}
	if !(c.Distance > 0) {
		return fmt.Errorf("projection distance %g must be positive: %w", c.Distance, ErrInvalidConfig)
	}
	if c.Camera.Eye == c.Camera.LookAt {
		return fmt.Errorf("camera eye and look_at coincide: %w", ErrInvalidConfig)
	}
	forward := c.Camera.LookAt.Vec().Sub(c.Camera.Eye.Vec())
	up := c.Camera.Up.Vec()
	if forward.Cross(up).Len() <= parallelEpsilon*forward.Len()*up.Len() {
		return fmt.Errorf("camera up %v is zero or parallel to the view direction: %w", c.Camera.Up, ErrInvalidConfig)
	}
	return nil
}
