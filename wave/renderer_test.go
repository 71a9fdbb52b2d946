package wave

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/wavecanvas/shader"
)

func TestMountUnmountCycle(t *testing.T) {
	r, logs, ft := newTestRenderer(t)
	s := newFakeSurface(800, 600)

	loads := 0
	r.SetOnLoad(func() { loads++ })
	mustMount(t, r, s)

	vp, ok := r.Viewport()
	if !ok {
		t.Fatal("Viewport should be available while mounted")
	}
	if !approx(vp.Aspect(), 800.0/600.0) {
		t.Errorf("viewport aspect = %f, want %f", vp.Aspect(), 800.0/600.0)
	}

	d := s.device
	if !d.opts.Antialias {
		t.Error("device should be created with antialiasing")
	}
	if d.w != 800 || d.h != 600 {
		t.Errorf("device size = %dx%d, want 800x600", d.w, d.h)
	}
	if d.clear != DefaultColors[0] {
		t.Errorf("clear color = %v, want first light color", d.clear)
	}
	if len(d.meshes) != 1 {
		t.Fatalf("meshes uploaded = %d, want 1", len(d.meshes))
	}
	if d.compiles() != 1 || d.program() == nil {
		t.Fatalf("compiles = %d, want 1 successful", d.compiles())
	}
	if loads != 1 {
		t.Errorf("onLoad called %d times, want 1", loads)
	}
	if len(s.listeners) != 1 {
		t.Errorf("resize listeners = %d, want 1", len(s.listeners))
	}

	prog := d.program()
	mesh := d.meshes[0]
	r.Unmount()

	if r.Mounted() {
		t.Error("still mounted")
	}
	if len(s.listeners) != 0 || s.removed != 1 {
		t.Errorf("resize listener not removed: listeners=%d removed=%d", len(s.listeners), s.removed)
	}
	if !prog.disposed || !mesh.disposed || !d.disposed {
		t.Errorf("resources not released: program=%v mesh=%v device=%v", prog.disposed, mesh.disposed, d.disposed)
	}

	draws := d.draws
	ft.ms = 1000
	r.Render(1000)
	r.Render(1016)
	s.step(1032)
	if d.draws != draws {
		t.Errorf("draws after unmount = %d, want %d", d.draws, draws)
	}

	errorsBefore := logs.count(slog.LevelError)
	r.Unmount()
	if logs.count(slog.LevelError) != errorsBefore+1 {
		t.Error("second unmount should log an error")
	}
	if _, ok := logs.find(slog.LevelError, "not mounted"); !ok {
		t.Error("expected a not-mounted error message")
	}
}

func TestMountTwice(t *testing.T) {
	r, logs, _ := newTestRenderer(t)
	mustMount(t, r, newFakeSurface(100, 100))

	err := r.Mount(newFakeSurface(100, 100))
	if !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("second mount error = %v, want ErrAlreadyMounted", err)
	}
	if logs.count(slog.LevelError) != 1 {
		t.Errorf("errors logged = %d, want 1", logs.count(slog.LevelError))
	}
}

func TestMountDeviceFailure(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	s := newFakeSurface(100, 100)
	s.createErr = errors.New("no context")

	err := r.Mount(s)
	if err == nil || !strings.Contains(err.Error(), "no context") {
		t.Fatalf("Mount error = %v", err)
	}
	if r.Mounted() {
		t.Error("failed mount left renderer mounted")
	}
}

func TestMountUploadFailureReleasesDevice(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	s := newFakeSurface(100, 100)
	s.uploadErr = errors.New("too big")

	if err := r.Mount(s); err == nil {
		t.Fatal("expected error")
	}
	if !s.device.disposed {
		t.Error("device should be disposed after failed mount")
	}
	if r.Mounted() {
		t.Error("failed mount left renderer mounted")
	}
}

func TestFrameLoopSkipParity(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	s := newFakeSurface(640, 480)
	rendered := 0
	r.SetOnRender(func() { rendered++ })
	mustMount(t, r, s)

	for i := 1; i <= 10; i++ {
		ft.ms = float64(i) * 16
		s.step(ft.ms)
		wantDraws := (i + 1) / 2
		if s.device.draws != wantDraws {
			t.Fatalf("after frame %d: draws = %d, want %d", i, s.device.draws, wantDraws)
		}
	}
	if rendered != 5 {
		t.Errorf("onRender called %d times, want 5", rendered)
	}
	if len(s.frames) != 1 {
		t.Errorf("pending frames = %d, want 1", len(s.frames))
	}
}

func TestTimeUniformIncludesOffset(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	s := newFakeSurface(640, 480)
	r.SetTimeOffset(Float(100))
	mustMount(t, r, s)

	ft.ms = 2500
	s.step(ft.ms)

	got := s.device.program().uniforms[shader.UniformTime].Values[0]
	if !approx(got, 102.5) {
		t.Errorf("u_time = %f, want 102.5", got)
	}
}

func TestPausedRendersOncePerInvalidate(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	s := newFakeSurface(640, 480)
	mustMount(t, r, s)

	s.step(0) // draws: frame 1
	r.SetIsPaused(Bool(true))
	base := s.device.draws

	for i := 1; i <= 4; i++ {
		ft.ms = float64(i) * 16
		s.step(ft.ms)
	}
	if got := s.device.draws - base; got != 1 {
		t.Fatalf("draws after pause = %d, want 1", got)
	}

	r.SetDeformNoiseSpeed(Float(12))
	for i := 5; i <= 8; i++ {
		ft.ms = float64(i) * 16
		s.step(ft.ms)
	}
	if got := s.device.draws - base; got != 2 {
		t.Errorf("draws after invalidate = %d, want 2", got)
	}
	if !r.Paused() {
		t.Error("should still be paused")
	}
}

func TestUnmountFromRenderCallback(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	s := newFakeSurface(640, 480)
	r.SetOnRender(func() { r.Unmount() })
	mustMount(t, r, s)

	ft.ms = 16
	s.step(ft.ms)

	if r.Mounted() {
		t.Fatal("unmount inside callback did not take effect")
	}
	if len(s.frames) != 0 {
		t.Errorf("frame loop rescheduled after unmount: %d pending", len(s.frames))
	}
	if s.device.draws != 1 {
		t.Errorf("draws = %d, want 1", s.device.draws)
	}
}

func TestUnmountFromLoadCallback(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	s := newFakeSurface(640, 480)
	r.SetOnLoad(func() { r.Unmount() })

	if err := r.Mount(s); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	s.step(16)
	if s.device.draws != 0 {
		t.Errorf("draws = %d, want 0", s.device.draws)
	}
	if !s.device.disposed {
		t.Error("device not disposed")
	}
}

func TestStaleFrameAfterRemount(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	first := newFakeSurface(640, 480)
	mustMount(t, r, first)
	r.Unmount()

	second := newFakeSurface(320, 240)
	mustMount(t, r, second)

	// The first surface still holds the old loop's callback.
	first.step(16)
	if second.device.draws != 0 || first.device.draws != 0 {
		t.Errorf("stale loop drew: first=%d second=%d", first.device.draws, second.device.draws)
	}
	if len(first.frames) != 0 {
		t.Error("stale loop rescheduled itself")
	}

	second.step(16)
	if second.device.draws != 1 {
		t.Errorf("new loop draws = %d, want 1", second.device.draws)
	}
}

func TestResize(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	s := newFakeSurface(800, 600)
	mustMount(t, r, s)
	s.step(0)
	r.SetIsPaused(Bool(true))
	s.step(16)
	base := s.device.draws

	s.resize(600, 800)

	vp, _ := r.Viewport()
	if !approx(vp.Aspect(), 0.75) {
		t.Errorf("aspect after resize = %f, want 0.75", vp.Aspect())
	}
	if s.device.w != 600 || s.device.h != 800 {
		t.Errorf("device size = %dx%d, want 600x800", s.device.w, s.device.h)
	}

	ft.ms = 32
	s.step(ft.ms)
	if s.device.draws != base+1 {
		t.Errorf("paused frame not redrawn after resize: draws=%d base=%d", s.device.draws, base)
	}
	if s.device.lastProj != vp.Projection() {
		t.Error("draw did not use the refitted projection")
	}
}

func TestPlaneIsTilted(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	s := newFakeSurface(800, 600)
	mustMount(t, r, s)
	s.step(0)

	want := mgl32.HomogRotate3DX(float32(math.Pi / 2 * 0.75))
	if !s.device.lastModel.ApproxEqual(want) {
		t.Errorf("model = %v, want %v", s.device.lastModel, want)
	}
}

func TestSeekAndTime(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	s := newFakeSurface(800, 600)
	mustMount(t, r, s)

	ft.ms = 3000
	if got := r.Time(); math.Abs(got-3) > 1e-9 {
		t.Errorf("Time = %v, want 3", got)
	}

	r.SeekToTime(42)
	if got := r.Time(); math.Abs(got-42) > 1e-9 {
		t.Errorf("Time after seek = %v, want 42", got)
	}
	if got := r.TimeAt(4000); math.Abs(got-43) > 1e-9 {
		t.Errorf("TimeAt(+1s) = %v, want 43", got)
	}

	r.SetIsPaused(Bool(true))
	r.SeekToTime(7)
	ft.ms = 9000
	if got := r.Time(); got != 7 {
		t.Errorf("paused Time after seek = %v, want 7", got)
	}
}

func TestRestartMidPlayback(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	s := newFakeSurface(800, 600)
	mustMount(t, r, s)

	for ft.ms = 0; ft.ms <= 5000; ft.ms += 16 {
		s.step(ft.ms)
	}
	if r.Time() < 4.9 {
		t.Fatalf("Time = %v, expected about 5s", r.Time())
	}

	r.RestartAnimation()
	if got := r.Time(); math.Abs(got) > 1e-9 {
		t.Errorf("Time after restart = %v, want 0", got)
	}

	draws := s.device.draws
	s.step(ft.ms)
	if s.device.draws != draws+1 {
		t.Error("first frame after restart should draw")
	}
}

func TestUnmountedTimeWarns(t *testing.T) {
	r, logs, _ := newTestRenderer(t)
	r.SeekToTime(12)

	if got := r.Time(); got != 12 {
		t.Errorf("Time = %v, want stored start time 12", got)
	}
	if logs.count(slog.LevelWarn) != 1 {
		t.Errorf("warnings = %d, want 1", logs.count(slog.LevelWarn))
	}

	// Stored start time and pause flag are honored by a late mount.
	r.SetIsPaused(Bool(true))
	s := newFakeSurface(100, 100)
	mustMount(t, r, s)
	if got := r.Time(); got != 12 {
		t.Errorf("Time after mount = %v, want 12", got)
	}
	if !r.Paused() {
		t.Error("mount should honor paused flag")
	}
	s.step(0)
	if s.device.draws != 1 {
		t.Errorf("initial paused frame draws = %d, want 1", s.device.draws)
	}
}

func TestCompileFailureDegrades(t *testing.T) {
	r, logs, ft := newTestRenderer(t)
	s := newFakeSurface(640, 480)
	s.compileErr = errors.New("0(12) : error C0000: syntax error")
	rendered := 0
	r.SetOnRender(func() { rendered++ })

	mustMount(t, r, s)

	rec, ok := logs.find(slog.LevelError, "shader compilation failed")
	if !ok {
		t.Fatal("compile failure not logged")
	}
	hasSource := false
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == "source" && strings.Contains(a.Value.String(), "void main()") {
			hasSource = true
		}
		return true
	})
	if !hasSource {
		t.Error("compile failure log should carry the shader source")
	}

	for i := 1; i <= 4; i++ {
		ft.ms = float64(i) * 16
		s.step(ft.ms)
	}
	if s.device.draws != 0 || rendered != 0 {
		t.Errorf("degraded renderer drew: draws=%d rendered=%d", s.device.draws, rendered)
	}
	if s.device.compiles() != 1 {
		t.Errorf("compile retried without a source change: %d attempts", s.device.compiles())
	}
	if len(s.frames) != 1 {
		t.Error("frame loop should keep running while degraded")
	}

	// A new source triggers another attempt.
	s.device.compileErr = nil
	r.SetNoiseSource("value")
	for i := 5; i <= 6; i++ {
		ft.ms = float64(i) * 16
		s.step(ft.ms)
	}
	if s.device.draws != 1 || rendered != 1 {
		t.Errorf("after fix: draws=%d rendered=%d, want 1", s.device.draws, rendered)
	}
}

func TestMountAppliesStoredParameters(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	r.SetDeformNoiseSpeed(Float(25))
	r.SetLightNoiseFrequency(Scalar(3))
	ft.ms = 1e9 // mount arbitrarily late

	s := newFakeSurface(320, 240)
	mustMount(t, r, s)

	p := s.device.program()
	if got := p.uniforms[shader.UniformDeformNoiseSpeed].Values[0]; !approx(got, 0.25) {
		t.Errorf("u_deformNoiseSpeed = %f, want 0.25", got)
	}
	freq := p.uniforms[shader.UniformLightNoiseFrequency].Values
	if !approx(freq[0], 3) || !approx(freq[1], 3) {
		t.Errorf("u_lightNoiseFrequency = %v, want (3, 3)", freq)
	}
	if got := r.Time(); got != 0 {
		t.Errorf("Time right after late mount = %v, want 0", got)
	}
}
