package renderer

import (
	"image/color"
	"log/slog"
	"slices"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wavecanvas/wave"
)

// FrameObserver is told when each display frame starts and ends.
type FrameObserver interface {
	StartFrame()
	EndFrame()
}

type idleTask struct {
	fn       func()
	budget   time.Duration
	deadline time.Time
}

// Host drives a raylib window and implements wave.Surface for it. Frame
// callbacks requested during a frame run on the next one.
type Host struct {
	log      *slog.Logger
	start    time.Time
	fallback *Fallback

	frames    []wave.FrameFunc
	listeners map[int]func()
	nextID    int

	idle     []idleTask
	lastWork time.Duration

	devices  []*Device
	observer FrameObserver
	overlay  func()
}

// NewHost creates a host for the current window. fallback may be nil.
func NewHost(log *slog.Logger, fallback *Fallback) *Host {
	return &Host{
		log:       log,
		start:     time.Now(),
		fallback:  fallback,
		listeners: make(map[int]func()),
	}
}

// Now returns milliseconds since the host was created.
func (h *Host) Now() float64 {
	return float64(time.Since(h.start)) / float64(time.Millisecond)
}

// ClientSize returns the framebuffer size in physical pixels.
func (h *Host) ClientSize() (int, int) {
	return rl.GetRenderWidth(), rl.GetRenderHeight()
}

// CreateDevice creates a device drawing into an offscreen target.
func (h *Host) CreateDevice(opts wave.DeviceOptions) (wave.Device, error) {
	if !rl.IsWindowReady() {
		return nil, ErrNoWindow
	}
	d := NewDevice(opts, h.log)
	h.devices = append(h.devices, d)
	return d, nil
}

// OnResize registers fn for window size changes.
func (h *Host) OnResize(fn func()) func() {
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() { delete(h.listeners, id) }
}

// RequestFrame schedules fn for the next frame.
func (h *Host) RequestFrame(fn wave.FrameFunc) {
	h.frames = append(h.frames, fn)
}

// RequestIdle runs fn after the first frame whose work took less than budget,
// or once timeout has passed.
func (h *Host) RequestIdle(fn func(), budget, timeout time.Duration) {
	h.idle = append(h.idle, idleTask{fn: fn, budget: budget, deadline: time.Now().Add(timeout)})
}

// SetObserver sets the frame observer. nil clears it.
func (h *Host) SetObserver(o FrameObserver) { h.observer = o }

// SetOverlay sets a function drawn on top of the canvas each frame.
func (h *Host) SetOverlay(fn func()) { h.overlay = fn }

// SetFallbackColor updates the color drawn under the canvas.
func (h *Host) SetFallbackColor(c color.RGBA) {
	if h.fallback != nil {
		h.fallback.SetColor(c)
	}
}

// Step runs one display frame.
func (h *Host) Step() {
	if h.observer != nil {
		h.observer.StartFrame()
	}
	workStart := time.Now()

	if rl.IsWindowResized() {
		for _, fn := range h.resizeListeners() {
			fn()
		}
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	sw, sh := rl.GetScreenWidth(), rl.GetScreenHeight()
	if h.fallback != nil {
		h.fallback.Draw(sw, sh)
	}

	frames := h.frames
	h.frames = nil
	ts := h.Now()
	for _, fn := range frames {
		fn(ts)
	}

	h.devices = slices.DeleteFunc(h.devices, func(d *Device) bool { return d.disposed })
	for _, d := range h.devices {
		d.Present(sw, sh)
	}

	if h.overlay != nil {
		h.overlay()
	}

	h.lastWork = time.Since(workStart)
	rl.EndDrawing()

	h.runIdle(time.Now())

	if h.observer != nil {
		h.observer.EndFrame()
	}
}

// Run steps frames until the window is closed. update runs before each frame.
func (h *Host) Run(update func()) {
	for !rl.WindowShouldClose() {
		if update != nil {
			update()
		}
		h.Step()
	}
}

func (h *Host) resizeListeners() []func() {
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	return fns
}

func (h *Host) runIdle(now time.Time) {
	if len(h.idle) == 0 {
		return
	}
	var ready []idleTask
	h.idle = slices.DeleteFunc(h.idle, func(t idleTask) bool {
		if h.lastWork < t.budget || !now.Before(t.deadline) {
			ready = append(ready, t)
			return true
		}
		return false
	})
	for _, t := range ready {
		t.fn()
	}
}
