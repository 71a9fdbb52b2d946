// Package wave renders the animated wave background: a tilted, subdivided
// plane deformed and lit by noise in the vertex stage.
//
// The Renderer is single-threaded. All methods must be called from the thread
// that drives the Surface's frame callbacks.
package wave

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wavecanvas/camera"
	"github.com/pthm-cable/wavecanvas/clock"
	"github.com/pthm-cable/wavecanvas/scene"
	"github.com/pthm-cable/wavecanvas/shader"
)

// MaxLights is the maximum number of colors the renderer keeps.
const MaxLights = shader.MaxLights

// PlaneTilt is the rotation about X applied to the plane.
const PlaneTilt = math.Pi / 2 * 0.75

// ErrAlreadyMounted is returned by Mount when the renderer is already mounted.
var ErrAlreadyMounted = errors.New("wave: renderer already mounted")

// DefaultColors is the palette used when no colors are set.
var DefaultColors = []color.RGBA{
	{R: 0x0b, G: 0x10, B: 0x26, A: 0xff},
	{R: 0x3a, G: 0x1c, B: 0x71, A: 0xff},
	{R: 0xd7, G: 0x6d, B: 0x77, A: 0xff},
	{R: 0xff, G: 0xaf, B: 0x7b, A: 0xff},
	{R: 0x1f, G: 0xa2, B: 0xff, A: 0xff},
}

// Options configures a Renderer.
type Options struct {
	// Logger receives lifecycle and error messages. Defaults to slog.Default().
	Logger *slog.Logger
	// Now returns a monotonic timestamp in milliseconds. Defaults to time since New.
	Now func() float64
	// Base is the logical rectangle the viewport is fitted from. Defaults to camera.Base().
	Base *camera.Viewport
}

// Renderer owns the mount lifecycle, geometry, material and frame loop.
type Renderer struct {
	log  *slog.Logger
	now  func() float64
	base camera.Viewport

	params      params
	colors      []color.RGBA
	fallback    *color.RGBA
	subdivision Vec2
	extra       map[string]Uniform

	startPaused bool
	startAtTime float64

	onLoad   func()
	onRender func()

	material *material

	// state is nil while unmounted.
	state *mountedState
}

// mountedState holds everything that exists only between Mount and Unmount.
type mountedState struct {
	surface      Surface
	camera       *camera.Camera
	device       Device
	scene        *scene.Scene
	plane        ecs.Entity
	removeResize func()
	clock        *clock.Clock

	// rendering gates the self-rescheduling frame loop.
	rendering bool
}

// New creates an unmounted renderer with default parameters.
func New(opts Options) *Renderer {
	r := &Renderer{
		log:         opts.Logger,
		now:         opts.Now,
		base:        camera.Base(),
		params:      defaultParams(),
		subdivision: DefaultSubdivision,
	}
	if r.log == nil {
		r.log = slog.Default().With("subsystem", "wave")
	}
	if r.now == nil {
		start := time.Now()
		r.now = func() float64 {
			return float64(time.Since(start).Nanoseconds()) / 1e6
		}
	}
	if opts.Base != nil {
		r.base = *opts.Base
	}

	noise, _ := shader.Noise(shader.DefaultNoise)
	blend, _ := shader.Blend(shader.DefaultBlend)
	r.material = newMaterial(noise, blend)

	// Seed the uniform map so the first program receives every value.
	for p := range numScalarParams {
		if scalarSpecs[p].uniform != "" {
			r.material.set(scalarSpecs[p].uniform, p.uniform(r.params.scalars[p]))
		}
	}
	for p := range numVectorParams {
		r.material.set(vectorSpecs[p].uniform, p.uniform(r.params.vectors[p]))
	}
	r.material.set(shader.UniformTime, Float32(0))
	r.storeColors(DefaultColors)

	return r
}

// Mount binds the renderer to surface, builds GPU resources and starts the frame loop.
// A shader compilation failure is logged and leaves the renderer mounted but not drawing.
func (r *Renderer) Mount(surface Surface) error {
	if r.state != nil {
		r.log.Error("mount called while already mounted")
		return ErrAlreadyMounted
	}

	w, h := surface.ClientSize()
	device, err := surface.CreateDevice(DeviceOptions{Antialias: true})
	if err != nil {
		return fmt.Errorf("creating device: %w", err)
	}

	m := &mountedState{
		surface: surface,
		camera:  camera.New(r.base, w, h),
		device:  device,
		scene:   scene.New(),
	}

	device.SetClearColor(r.fallbackColor())
	device.SetSize(w, h)

	mesh, err := device.UploadGeometry(CreatePlaneGeometry(r.subdivision))
	if err != nil {
		device.Dispose()
		return fmt.Errorf("uploading plane geometry: %w", err)
	}
	m.plane = m.scene.Add("plane", mgl32.HomogRotate3DX(PlaneTilt), mesh)

	// Logged inside; a broken shader degrades to the clear color.
	_ = r.material.compile(device, r.log)

	m.removeResize = surface.OnResize(func() { r.resize(m) })
	m.clock = clock.New(r.startPaused, r.startAtTime, r.now())

	r.state = m
	m.rendering = true
	surface.RequestFrame(r.frameLoop(m))

	r.log.Info("mounted",
		"width", w,
		"height", h,
		"paused", r.startPaused,
		"start_at", r.startAtTime,
	)

	if r.onLoad != nil {
		r.onLoad()
	}
	return nil
}

// Unmount stops the frame loop and releases every GPU resource. Calling it
// while unmounted logs an error. It is safe to call from the load and render callbacks.
func (r *Renderer) Unmount() {
	m := r.state
	if m == nil {
		r.log.Error("unmount called while not mounted")
		return
	}

	m.rendering = false
	r.state = nil

	if m.removeResize != nil {
		m.removeResize()
	}
	r.material.unload()
	m.scene.Dispose()
	m.device.Dispose()

	r.log.Info("unmounted")
}

// Mounted reports whether the renderer holds GPU resources.
func (r *Renderer) Mounted() bool {
	return r.state != nil
}

func (r *Renderer) frameLoop(m *mountedState) FrameFunc {
	var tick FrameFunc
	tick = func(ts float64) {
		if !m.rendering {
			return
		}
		r.Render(ts)
		if m.rendering {
			m.surface.RequestFrame(tick)
		}
	}
	return tick
}

// Render advances the clock one frame and draws when the frame is not skipped.
// Playing renders every odd frame; paused renders once per invalidation.
// No-op while unmounted.
func (r *Renderer) Render(timestamp float64) {
	m := r.state
	if m == nil {
		return
	}

	t, draw := m.clock.Tick(timestamp)
	if !draw {
		return
	}
	if !r.draw(m, t) {
		return
	}
	if r.onRender != nil {
		r.onRender()
	}
}

// draw issues the draw calls at animation time t. Reports false when no
// program is available.
func (r *Renderer) draw(m *mountedState, t float64) bool {
	if r.material.dirty {
		_ = r.material.compile(m.device, r.log)
	}
	prog := r.material.program
	if prog == nil {
		return false
	}

	r.material.set(shader.UniformTime, Float32(float32(t+r.params.scalars[paramTimeOffset])))

	projection := m.camera.Projection()
	m.device.BeginFrame()
	m.scene.Each(func(model mgl32.Mat4, mesh scene.Resource) {
		m.device.DrawMesh(mesh, prog, projection, model)
	})
	m.device.EndFrame()
	return true
}

func (r *Renderer) resize(m *mountedState) {
	if r.state != m {
		return
	}
	w, h := m.surface.ClientSize()
	m.camera.Resize(w, h)
	m.device.SetSize(w, h)
	m.clock.Invalidate()

	r.log.Debug("resized", "width", w, "height", h, "aspect", m.camera.Viewport.Aspect())
}

// invalidate makes a paused animation redraw its still frame.
func (r *Renderer) invalidate() {
	if r.state != nil {
		r.state.clock.Invalidate()
	}
}

// Viewport returns the current fitted viewport.
func (r *Renderer) Viewport() (camera.Viewport, bool) {
	if r.state == nil {
		return camera.Viewport{}, false
	}
	return r.state.camera.Viewport, true
}

// Uniform returns the value stored for a shader uniform.
func (r *Renderer) Uniform(name string) (Uniform, bool) {
	u, ok := r.material.uniforms[name]
	if !ok {
		return Uniform{}, false
	}
	return u.clone(), true
}

// Colors returns a copy of the current light colors.
func (r *Renderer) Colors() []color.RGBA {
	return slices.Clone(r.colors)
}

// VertexSource returns the vertex shader the next compilation would use.
func (r *Renderer) VertexSource() string {
	return r.material.vertexSource()
}

func (r *Renderer) fallbackColor() color.RGBA {
	if r.fallback != nil {
		return *r.fallback
	}
	return r.colors[0]
}
