// Package render turns placed meshes into a z-buffered pixel grid: camera
// transform, perspective projection, screen fit, triangle fill and
// wireframe overlay.
package render

import (
	"image"
	"math"
)

// Framebuffer is a width x height color grid with a co-indexed depth buffer.
// Both are row-major with (0,0) at the top-left.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
	Depth         []float64
	BG            Color
}

// NewFramebuffer creates a framebuffer filled with bg and infinite depth.
func NewFramebuffer(width, height int, bg Color) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		Depth:  make([]float64, width*height),
		BG:     bg,
	}
	fb.Clear()
	return fb
}

// Clear resets every pixel to the background color and every depth to +Inf.
func (fb *Framebuffer) Clear() {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	// Copy-doubling fill.
	fb.Pixels[0] = fb.BG
	fb.Depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// GetPixel returns the color at (x, y), or the background when out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.inBounds(x, y) {
		return fb.BG
	}
	return fb.Pixels[y*fb.Width+x]
}

// SetPixel sets the color at (x, y) without touching depth.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// DepthAt returns the stored depth at (x, y), +Inf when out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if !fb.inBounds(x, y) {
		return math.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// plot writes c and z at (x, y) if z is strictly nearer than the stored depth.
func (fb *Framebuffer) plot(x, y int, z float64, c Color) bool {
	i := y*fb.Width + x
	if z >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = z
	fb.Pixels[i] = c
	return true
}

// ToImage converts the framebuffer to an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Pixels {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 255
	}
	return img
}
