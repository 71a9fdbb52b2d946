package wave

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type fakeProgram struct {
	vertex   string
	uniforms map[string]Uniform
	disposed bool
}

func (p *fakeProgram) SetUniform(name string, u Uniform) {
	p.uniforms[name] = u.clone()
}

func (p *fakeProgram) Dispose() { p.disposed = true }

type fakeMesh struct {
	vertices  int
	triangles int
	disposed  bool
}

func (m *fakeMesh) Dispose() { m.disposed = true }

type fakeDevice struct {
	opts       DeviceOptions
	clear      color.RGBA
	w, h       int
	compileErr error
	uploadErr  error

	programs []*fakeProgram
	meshes   []*fakeMesh

	frames      int
	draws       int
	lastProgram Program
	lastModel   mgl32.Mat4
	lastProj    mgl32.Mat4
	disposed    bool
}

func (d *fakeDevice) SetClearColor(c color.RGBA) { d.clear = c }

func (d *fakeDevice) SetSize(w, h int) { d.w, d.h = w, h }

func (d *fakeDevice) CompileProgram(vertex, fragment string) (Program, error) {
	if d.compileErr != nil {
		d.programs = append(d.programs, nil)
		return nil, d.compileErr
	}
	p := &fakeProgram{vertex: vertex, uniforms: make(map[string]Uniform)}
	d.programs = append(d.programs, p)
	return p, nil
}

func (d *fakeDevice) UploadGeometry(g *Geometry) (Mesh, error) {
	if d.uploadErr != nil {
		return nil, d.uploadErr
	}
	m := &fakeMesh{vertices: g.VertexCount(), triangles: g.TriangleCount()}
	d.meshes = append(d.meshes, m)
	return m, nil
}

func (d *fakeDevice) BeginFrame() { d.frames++ }

func (d *fakeDevice) DrawMesh(mesh Mesh, program Program, projection, model mgl32.Mat4) {
	d.draws++
	d.lastProgram = program
	d.lastModel = model
	d.lastProj = projection
}

func (d *fakeDevice) EndFrame() {}

func (d *fakeDevice) ReadPixels() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, d.w, d.h))
	for y := 0; y < d.h; y++ {
		for x := 0; x < d.w; x++ {
			img.SetRGBA(x, y, d.clear)
		}
	}
	return img, nil
}

func (d *fakeDevice) Dispose() { d.disposed = true }

// compiles counts compilation attempts.
func (d *fakeDevice) compiles() int { return len(d.programs) }

// program returns the most recent successfully compiled program.
func (d *fakeDevice) program() *fakeProgram {
	for i := len(d.programs) - 1; i >= 0; i-- {
		if d.programs[i] != nil {
			return d.programs[i]
		}
	}
	return nil
}

type fakeSurface struct {
	w, h      int
	createErr error
	device    *fakeDevice

	// Set on the device right after creation.
	compileErr error
	uploadErr  error

	frames    []FrameFunc
	listeners map[int]func()
	nextID    int
	removed   int
}

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{w: w, h: h, listeners: make(map[int]func())}
}

func (s *fakeSurface) ClientSize() (int, int) { return s.w, s.h }

func (s *fakeSurface) CreateDevice(opts DeviceOptions) (Device, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.device = &fakeDevice{opts: opts, compileErr: s.compileErr, uploadErr: s.uploadErr}
	return s.device, nil
}

func (s *fakeSurface) OnResize(fn func()) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		delete(s.listeners, id)
		s.removed++
	}
}

func (s *fakeSurface) RequestFrame(fn FrameFunc) {
	s.frames = append(s.frames, fn)
}

// step runs the callbacks requested before this call, like one display frame.
func (s *fakeSurface) step(ts float64) {
	frames := s.frames
	s.frames = nil
	for _, fn := range frames {
		fn(ts)
	}
}

func (s *fakeSurface) resize(w, h int) {
	s.w, s.h = w, h
	for _, fn := range s.listeners {
		fn()
	}
}

// recordHandler keeps every log record for assertions.
type recordHandler struct {
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) count(level slog.Level) int {
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

func (h *recordHandler) find(level slog.Level, substr string) (slog.Record, bool) {
	for _, r := range h.records {
		if r.Level == level && strings.Contains(r.Message, substr) {
			return r, true
		}
	}
	return slog.Record{}, false
}

// fakeTime is a controllable millisecond clock.
type fakeTime struct {
	ms float64
}

func (f *fakeTime) now() float64 { return f.ms }

func newTestRenderer(t *testing.T) (*Renderer, *recordHandler, *fakeTime) {
	t.Helper()
	h := &recordHandler{}
	ft := &fakeTime{}
	r := New(Options{Logger: slog.New(h), Now: ft.now})
	return r, h, ft
}

func mustMount(t *testing.T, r *Renderer, s *fakeSurface) {
	t.Helper()
	if err := r.Mount(s); err != nil {
		t.Fatalf("Mount: %v", err)
	}
}

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-5
}

func uniformValue(t *testing.T, r *Renderer, name string) []float32 {
	t.Helper()
	u, ok := r.Uniform(name)
	if !ok {
		t.Fatalf("uniform %s not set", name)
	}
	return u.Values
}
