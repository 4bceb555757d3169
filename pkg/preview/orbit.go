// Package preview shows a scene in the terminal with an orbiting camera.
package preview

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/solids/pkg/math3d"
	"github.com/taigrr/solids/pkg/render"
)

// Orbit keys change these amounts per press.
const (
	AzimuthStep   = math.Pi / 16
	ElevationStep = math.Pi / 32
	ZoomFactor    = 1.15
	maxElevation  = math.Pi/2 - 0.05
)

// axis is one eased orbit coordinate: Position chases Target through a
// critically damped spring.
type axis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

func newAxis(fps int, v float64) axis {
	return axis{
		Position: v,
		Target:   v,
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (a *axis) update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// Orbit moves a camera on a sphere around its look-at point. Azimuth turns
// about the camera's up vector, elevation tilts toward it.
type Orbit struct {
	Center    math3d.Vec3
	Up        math3d.Vec3
	Azimuth   axis
	Elevation axis
	Radius    axis

	right, forward math3d.Vec3 // horizontal frame at azimuth 0
	fps            int
	initial        [3]float64
}

// NewOrbit starts an orbit at cam's position, easing at fps frames per second.
func NewOrbit(cam render.Camera, fps int) *Orbit {
	up := cam.Up.Normalize()
	offset := cam.Eye.Sub(cam.LookAt)
	r := offset.Len()
	h := offset.Sub(up.Scale(offset.Dot(up)))
	if h.Len() < 1e-9 {
		h = perpendicular(up)
	}
	fwd := h.Normalize()
	el := 0.0
	if r > 0 {
		el = math.Asin(math.Max(-1, math.Min(1, offset.Dot(up)/r)))
	}
	o := &Orbit{
		Center:  cam.LookAt,
		Up:      up,
		forward: fwd,
		right:   up.Cross(fwd),
		fps:     fps,
		initial: [3]float64{0, clampElevation(el), r},
	}
	o.Reset()
	return o
}

func perpendicular(v math3d.Vec3) math3d.Vec3 {
	if math.Abs(v.X) < 0.9 {
		return math3d.V3(1, 0, 0).Sub(v.Scale(v.X))
	}
	return math3d.V3(0, 1, 0).Sub(v.Scale(v.Y))
}

func clampElevation(el float64) float64 {
	return math.Max(-maxElevation, math.Min(maxElevation, el))
}

// Reset snaps back to the starting view.
func (o *Orbit) Reset() {
	o.Azimuth = newAxis(o.fps, o.initial[0])
	o.Elevation = newAxis(o.fps, o.initial[1])
	o.Radius = newAxis(o.fps, o.initial[2])
}

// Turn moves the azimuth and elevation targets.
func (o *Orbit) Turn(dAzimuth, dElevation float64) {
	o.Azimuth.Target += dAzimuth
	o.Elevation.Target = clampElevation(o.Elevation.Target + dElevation)
}

// Zoom scales the target distance to the center.
func (o *Orbit) Zoom(factor float64) {
	o.Radius.Target = math.Max(1e-3, o.Radius.Target*factor)
}

// Step advances every coordinate by one frame.
func (o *Orbit) Step() {
	o.Azimuth.update()
	o.Elevation.update()
	o.Radius.update()
}

// Camera returns the camera at the current eased position.
func (o *Orbit) Camera() render.Camera {
	az, el, r := o.Azimuth.Position, o.Elevation.Position, o.Radius.Position
	dir := o.forward.Scale(math.Cos(el) * math.Cos(az)).
		Add(o.right.Scale(math.Cos(el) * math.Sin(az))).
		Add(o.Up.Scale(math.Sin(el)))
	return render.NewCamera(o.Center.Add(dir.Scale(r)), o.Center, o.Up)
}
