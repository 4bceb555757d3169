package scene

import (
	"fmt"

	"github.com/taigrr/solids/pkg/render"
)

// Palette holds the fill color of each rendered solid.
type Palette struct {
	Cube  render.Color
	Torus render.Color
	Tube  render.Color
}

// PaletteConfig is the hex-string form of Palette used in config files.
type PaletteConfig struct {
	Cube  string `yaml:"cube"`
	Torus string `yaml:"torus"`
	Tube  string `yaml:"tube"`
}

// DefaultPaletteConfig returns the stock solid colors.
func DefaultPaletteConfig() PaletteConfig {
	return PaletteConfig{
		Cube:  "#d62728",
		Torus: "#2ca02c",
		Tube:  "#ff7f0e",
	}
}

// Parse converts the hex strings into a Palette.
func (pc PaletteConfig) Parse() (Palette, error) {
	var p Palette
	var err error
	if p.Cube, err = render.ParseHex(pc.Cube); err != nil {
		return Palette{}, fmt.Errorf("palette cube: %w", err)
	}
	if p.Torus, err = render.ParseHex(pc.Torus); err != nil {
		return Palette{}, fmt.Errorf("palette torus: %w", err)
	}
	if p.Tube, err = render.ParseHex(pc.Tube); err != nil {
		return Palette{}, fmt.Errorf("palette tube: %w", err)
	}
	return p, nil
}

// For returns the palette color of k and whether the palette has one.
func (p Palette) For(k Kind) (render.Color, bool) {
	switch k {
	case KindCube:
		return p.Cube, true
	case KindTorus:
		return p.Torus, true
	case KindTube:
		return p.Tube, true
	default:
		return render.Color{}, false
	}
}
