package preview

import (
	"context"
	"fmt"
	"time"

	"fortio.org/log"
	"fortio.org/terminal/ansipixels"
	"github.com/taigrr/solids/pkg/models"
	"github.com/taigrr/solids/pkg/render"
	"github.com/taigrr/solids/pkg/scene"
)

// Terminal presents a scene in the terminal using half-block pixels.
//
// Controls:
//
//	A/D, arrows  - orbit left/right
//	W/S          - orbit up/down
//	+/-          - zoom
//	X            - toggle wireframe
//	Space        - toggle auto spin
//	R            - reset view
//	?            - toggle HUD
//	Q, Esc, ^C   - quit
type Terminal struct {
	Renderer *render.Renderer // projection settings; its camera seeds the orbit. The terminal background replaces its Background.
	FPS      float64
}

// View is the interactive state of a preview, independent of the terminal.
type View struct {
	Orbit     *Orbit
	Wireframe bool
	Spin      bool
	ShowHUD   bool
}

// NewView creates a view orbiting cam.
func NewView(cam render.Camera, fps int) *View {
	return &View{Orbit: NewOrbit(cam, fps), ShowHUD: true}
}

// HandleKeys applies a batch of key presses and reports whether the preview
// should keep running.
func (v *View) HandleKeys(data []byte) bool {
	for i := 0; i < len(data); i++ {
		switch b := data[i]; b {
		case 'q', 'Q', 3, 4: // Ctrl-C, Ctrl-D
			return false
		case 27: // Escape, or the start of an arrow key sequence
			if i+2 < len(data) && data[i+1] == '[' {
				switch data[i+2] {
				case 'C':
					v.Orbit.Turn(AzimuthStep, 0)
				case 'D':
					v.Orbit.Turn(-AzimuthStep, 0)
				case 'A':
					v.Orbit.Turn(0, ElevationStep)
				case 'B':
					v.Orbit.Turn(0, -ElevationStep)
				}
				i += 2
				continue
			}
			return false
		case 'a', 'A':
			v.Orbit.Turn(-AzimuthStep, 0)
		case 'd', 'D':
			v.Orbit.Turn(AzimuthStep, 0)
		case 'w', 'W':
			v.Orbit.Turn(0, ElevationStep)
		case 's', 'S':
			v.Orbit.Turn(0, -ElevationStep)
		case '+', '=':
			v.Orbit.Zoom(1 / ZoomFactor)
		case '-', '_':
			v.Orbit.Zoom(ZoomFactor)
		case 'x', 'X':
			v.Wireframe = !v.Wireframe
		case ' ':
			v.Spin = !v.Spin
		case 'r', 'R':
			v.Orbit.Reset()
			v.Spin = false
		case '?':
			v.ShowHUD = !v.ShowHUD
		}
	}
	return true
}

// Tick advances the view by one frame.
func (v *View) Tick() {
	if v.Spin {
		v.Orbit.Turn(AzimuthStep/8, 0)
	}
	v.Orbit.Step()
}

// Wireframe converts objects into edge-only copies drawn along their unique
// triangle and standalone edges. Vertices are shared with the input.
func Wireframe(objs []render.Object) []render.Object {
	out := make([]render.Object, len(objs))
	for i, o := range objs {
		m := &models.Mesh{
			Name:     o.Mesh.Name,
			Vertices: o.Mesh.Vertices,
			Edges:    o.Mesh.UniqueEdges(),
		}
		out[i] = render.Object{Name: o.Name, Mesh: m, Color: o.Color}
	}
	return out
}

type fpsCounter struct {
	fps    float64
	frames int
	since  time.Time
}

func (c *fpsCounter) tick() {
	c.frames++
	if elapsed := time.Since(c.since); elapsed >= time.Second {
		c.fps = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.since = time.Now()
	}
}

// Present implements scene.Presenter. It blocks until the user quits or ctx
// is canceled.
func (t *Terminal) Present(ctx context.Context, objects []scene.Object) error {
	fps := t.FPS
	if fps <= 0 {
		fps = 30
	}
	solid := scene.RenderObjects(objects)
	wire := Wireframe(solid)
	triangles := 0
	for _, o := range objects {
		triangles += o.Mesh.TriangleCount()
	}

	ap := ansipixels.NewAnsiPixels(fps)
	if err := ap.Open(); err != nil {
		return fmt.Errorf("open ansipixels: %w", err)
	}
	defer func() {
		ap.ShowCursor()
		ap.Out.Flush()
		ap.Restore()
	}()
	ap.SyncBackgroundColor()
	ap.HideCursor()

	r := *t.Renderer
	r.Background = render.RGB(ap.Background.R, ap.Background.G, ap.Background.B)
	view := NewView(r.Camera, int(fps))
	counter := &fpsCounter{since: time.Now()}
	width, height := ap.W, ap.H*2
	ap.OnResize = func() error {
		width, height = ap.W, ap.H*2
		return nil
	}

	var drawErr error
	err := ap.FPSTicks(func() bool {
		if ctx.Err() != nil {
			return false
		}
		if len(ap.Data) > 0 && !view.HandleKeys(ap.Data) {
			return false
		}
		view.Tick()
		r.Camera = view.Orbit.Camera()
		objs := solid
		if view.Wireframe {
			objs = wire
		}
		fb := r.Render(objs, width, height)

		ap.ClearScreen()
		if drawErr = ap.ShowScaledImage(fb.ToImage()); drawErr != nil {
			return false
		}
		counter.tick()
		if view.ShowHUD {
			mode := "solid"
			if view.Wireframe {
				mode = "wireframe"
			}
			ap.WriteAt(0, 0, "%.0f FPS  %d triangles  %s", counter.fps, triangles, mode)
			ap.WriteAtStr(0, ap.H-1, "A/D W/S orbit  +/- zoom  X wireframe  Space spin  R reset  Q quit")
		}
		return true
	})
	if drawErr != nil {
		return fmt.Errorf("show image: %w", drawErr)
	}
	if err != nil {
		return fmt.Errorf("preview loop: %w", err)
	}
	log.LogVf("Preview closed")
	return ctx.Err()
}
