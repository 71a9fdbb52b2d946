// Package camera provides the orthographic camera and viewport fitting for the wave plane.
package camera

import "github.com/go-gl/mathgl/mgl32"

// Viewport is an orthographic viewing volume in logical units.
// Right > Left and Top > Bottom.
type Viewport struct {
	Left, Right float32
	Top, Bottom float32
	Near, Far   float32
}

// Base returns the fixed logical rectangle the tilted plane is built to cover.
func Base() Viewport {
	return Viewport{Left: -1, Right: 1, Top: 1, Bottom: -1, Near: -10, Far: 10}
}

// Width returns the horizontal extent.
func (v Viewport) Width() float32 { return v.Right - v.Left }

// Height returns the vertical extent.
func (v Viewport) Height() float32 { return v.Top - v.Bottom }

// Aspect returns width over height.
func (v Viewport) Aspect() float32 { return v.Width() / v.Height() }

// Center returns the midpoint of the rectangle.
func (v Viewport) Center() (x, y float32) {
	return (v.Left + v.Right) / 2, (v.Top + v.Bottom) / 2
}

// Projection returns the orthographic projection matrix for the viewport.
func (v Viewport) Projection() mgl32.Mat4 {
	return mgl32.Ortho(v.Left, v.Right, v.Bottom, v.Top, v.Near, v.Far)
}

// Fit returns a viewport with the same center as base whose aspect ratio matches
// width/height. The axis that is not shrunk keeps base's extent exactly.
// width and height must be positive; zero sizes propagate NaN or Inf.
func Fit(base Viewport, width, height int) Viewport {
	surfaceAspect := float32(width) / float32(height)
	cx, cy := base.Center()

	out := base
	if surfaceAspect < base.Aspect() {
		// Taller than base: keep vertical span, narrow horizontally.
		halfW := base.Height() * surfaceAspect / 2
		out.Left = cx - halfW
		out.Right = cx + halfW
	} else {
		halfH := base.Width() / surfaceAspect / 2
		out.Bottom = cy - halfH
		out.Top = cy + halfH
	}
	return out
}

// Camera is an orthographic camera whose viewport follows the surface size.
type Camera struct {
	// Base is the rectangle every fit starts from.
	Base Viewport

	// Viewport is the current fitted rectangle. Replaced on every resize.
	Viewport Viewport

	// Surface size in physical pixels.
	SurfaceW, SurfaceH int
}

// New creates a camera fitted to the given surface size.
func New(base Viewport, surfaceW, surfaceH int) *Camera {
	c := &Camera{Base: base}
	c.Resize(surfaceW, surfaceH)
	return c
}

// Resize refits the viewport to a new surface size.
func (c *Camera) Resize(surfaceW, surfaceH int) {
	c.SurfaceW = surfaceW
	c.SurfaceH = surfaceH
	c.Viewport = Fit(c.Base, surfaceW, surfaceH)
}

// Projection returns the projection matrix of the current viewport.
func (c *Camera) Projection() mgl32.Mat4 {
	return c.Viewport.Projection()
}
