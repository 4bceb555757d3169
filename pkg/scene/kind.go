package scene

import (
	"fmt"
	"strings"
)

// Kind identifies a solid generator.
type Kind int

const (
	KindCube Kind = iota
	KindTorus
	KindTube
	KindCone
	KindTruncatedCone
	KindBox
	KindLine
	KindCubeFrame
)

var kindNames = [...]string{
	KindCube:          "cube",
	KindTorus:         "torus",
	KindTube:          "tube",
	KindCone:          "cone",
	KindTruncatedCone: "truncated-cone",
	KindBox:           "box",
	KindLine:          "line",
	KindCubeFrame:     "cube-frame",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name as written in config files.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown solid kind %q: %w", s, ErrInvalidConfig)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
