package models

import (
	"fmt"
	"math"

	"github.com/taigrr/solids/pkg/math3d"
)

// frameSwitchDot is the |tangent·reference| above which the Z reference axis
// is replaced by Y to keep the cross product well conditioned.
const frameSwitchDot = 0.9

// Hermite evaluates the cubic Hermite curve through p0 (t=0) and p1 (t=1)
// with end tangents t0 and t1.
func Hermite(p0, p1, t0, t1 math3d.Vec3, t float64) math3d.Vec3 {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return p0.Scale(h00).
		Add(t0.Scale(h10)).
		Add(p1.Scale(h01)).
		Add(t1.Scale(h11))
}

// HermiteTangent returns the (unnormalized) derivative of Hermite at t.
func HermiteTangent(p0, p1, t0, t1 math3d.Vec3, t float64) math3d.Vec3 {
	t2 := t * t
	dh00 := 6*t2 - 6*t
	dh10 := 3*t2 - 4*t + 1
	dh01 := -6*t2 + 6*t
	dh11 := 3*t2 - 2*t
	return p0.Scale(dh00).
		Add(t0.Scale(dh10)).
		Add(p1.Scale(dh01)).
		Add(t1.Scale(dh11))
}

// Frame returns the normal and binormal of the sweep frame for a unit tangent.
func Frame(tangent math3d.Vec3) (normal, binormal math3d.Vec3) {
	ref := math3d.V3(0, 0, 1)
	if math.Abs(tangent.Dot(ref)) > frameSwitchDot {
		ref = math3d.V3(0, 1, 0)
	}
	normal = tangent.Cross(ref).Normalize()
	binormal = tangent.Cross(normal)
	return normal, binormal
}

// TubeParams describes a hollow tube swept along a Hermite centerline.
type TubeParams struct {
	P0, P1 math3d.Vec3 // centerline endpoints
	T0, T1 math3d.Vec3 // end tangents

	Radius    float64 // inner wall radius
	Thickness float64 // wall thickness; outer radius is Radius+Thickness

	CurveSamples   int // rings along the centerline, >= 2
	SectionSamples int // vertices per ring and wall, >= 3
	Density        int // subdivision passes applied to the result
}

// Validate reports parameters that cannot produce a closed tube.
func (p TubeParams) Validate() error {
	switch {
	case p.CurveSamples < 2:
		return fmt.Errorf("tube needs at least 2 curve samples, got %d: %w", p.CurveSamples, ErrInvalidParams)
	case p.SectionSamples < 3:
		return fmt.Errorf("tube needs at least 3 section samples, got %d: %w", p.SectionSamples, ErrInvalidParams)
	case p.Radius < 0 || p.Thickness < 0:
		return fmt.Errorf("tube radius %g and thickness %g must not be negative: %w", p.Radius, p.Thickness, ErrInvalidParams)
	case p.Density < 0:
		return fmt.Errorf("negative density %d: %w", p.Density, ErrInvalidParams)
	}
	return nil
}

// HermiteTube sweeps an annular cross-section along the Hermite curve of p.
//
// Vertices come in (outer, inner) pairs: ring i, angular step j lives at
// indices 2*(i*SectionSamples+j) and 2*(i*SectionSamples+j)+1.
func HermiteTube(p TubeParams) (*Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	nc, ns := p.CurveSamples, p.SectionSamples
	rOuter := p.Radius + p.Thickness
	rInner := p.Radius

	m := &Mesh{
		Name:     "tube",
		Vertices: make([]math3d.Vec3, 0, 2*nc*ns),
		Faces:    make([][3]int, 0, 8*(nc-1)*ns),
	}

	for i := range nc {
		t := float64(i) / float64(nc-1)
		center := Hermite(p.P0, p.P1, p.T0, p.T1, t)
		tangent := HermiteTangent(p.P0, p.P1, p.T0, p.T1, t).Normalize()
		normal, binormal := Frame(tangent)

		for j := range ns {
			ang := 2 * math.Pi * float64(j) / float64(ns)
			dir := normal.Scale(math.Cos(ang)).Add(binormal.Scale(math.Sin(ang)))
			m.Vertices = append(m.Vertices,
				center.Add(dir.Scale(rOuter)),
				center.Add(dir.Scale(rInner)),
			)
		}
	}

	for i := range nc - 1 {
		for j := range ns {
			j2 := (j + 1) % ns
			e0, e1 := 2*(i*ns+j), 2*(i*ns+j2)
			e2, e3 := 2*((i+1)*ns+j), 2*((i+1)*ns+j2)
			i0, i1, i2, i3 := e0+1, e1+1, e2+1, e3+1

			m.Faces = append(m.Faces,
				// outer wall
				[3]int{e0, e2, e1}, [3]int{e1, e2, e3},
				// inner wall, reversed so it faces the bore
				[3]int{i0, i1, i2}, [3]int{i1, i3, i2},
				// wall thickness between the rings
				[3]int{e0, i0, e1}, [3]int{e1, i0, i1},
				[3]int{e2, e3, i2}, [3]int{e3, i3, i2},
			)
		}
	}

	return SubdivideN(m, p.Density), nil
}
