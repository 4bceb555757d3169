// Package scene builds the world scene: base solids, their placements and the
// configuration that drives a render.
package scene

import (
	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/models"
)

// Place returns a copy of mesh with every vertex scaled per axis and then
// translated. The result owns all of its storage, so editing it never shows
// through mesh or through another placement of mesh.
func Place(mesh *models.Mesh, scale, translate math3d.Vec3) *models.Mesh {
	out := mesh.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = v.Mul(scale).Add(translate)
	}
	return out
}
