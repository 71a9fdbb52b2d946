package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wavecanvas/config"
	"github.com/pthm-cable/wavecanvas/hooks"
	"github.com/pthm-cable/wavecanvas/logging"
	"github.com/pthm-cable/wavecanvas/palette"
	"github.com/pthm-cable/wavecanvas/renderer"
	"github.com/pthm-cable/wavecanvas/shader"
	"github.com/pthm-cable/wavecanvas/telemetry"
	"github.com/pthm-cable/wavecanvas/ui"
	"github.com/pthm-cable/wavecanvas/wave"
)

const controlsText = "Space: pause | R: restart | M: mode | N: noise | B: blend | E: export | H: HUD"

// app wires the wave renderer to the window, palettes and telemetry.
type app struct {
	cfg *config.Config
	log *slog.Logger

	host     *renderer.Host
	fallback *renderer.Fallback
	wave     *wave.Renderer
	hooks    *hooks.Registry

	palettes   *palette.Set
	mode       string
	current    palette.Palette
	transition *palette.Transition

	frames    *telemetry.FrameCollector
	output    *telemetry.OutputManager
	lastStats time.Time

	hud *ui.HUD
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	palettes, err := palette.FromConfig(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("loading palettes: %w", err)
	}
	current, _ := palettes.Get(cfg.Palette.Mode)

	output, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       logger,
		hooks:     hooks.New(),
		palettes:  palettes,
		mode:      cfg.Palette.Mode,
		current:   current,
		frames:    telemetry.NewFrameCollector(cfg.Telemetry.Window),
		output:    output,
		lastStats: time.Now(),
		hud:       ui.NewHUD(10, 10, 280),
	}

	a.fallback = renderer.NewFallback(logging.Subsystem(logger, "fallback"), cfg.Palette.FallbackImage, fallbackOf(current))
	a.host = renderer.NewHost(logging.Subsystem(logger, "host"), a.fallback)
	a.host.SetObserver(a.frames)
	a.host.SetOverlay(a.drawHUD)

	a.wave = wave.New(wave.Options{
		Logger: logging.Subsystem(logger, "wave"),
		Now:    a.host.Now,
	})
	if err := a.wave.Apply(cfg.Wave); err != nil {
		a.log.Warn("wave config partially applied", "error", err)
	}
	a.applyPalette(current)

	a.wave.SetOnLoad(func() {
		w, h := a.host.ClientSize()
		a.log.Info("wave canvas mounted", "width", w, "height", h, "mode", a.mode)
	})
	a.wave.SetOnRender(func() {
		a.frames.MarkRendered()
		a.hooks.Run(hooks.AfterRender)
	})

	var first hooks.Handle
	first = a.hooks.Add(hooks.AfterRender, func() {
		a.log.Info("first frame rendered", "time", a.wave.Time())
		a.hooks.Remove(first)
	})

	// Mount once the window settles so startup frames stay smooth.
	a.host.RequestIdle(func() {
		if err := a.wave.Mount(a.host); err != nil {
			a.log.Error("mount failed", "error", err)
		}
	}, cfg.Derived.IdleBudget, cfg.Derived.StartupTimeout)

	return a, nil
}

func (a *app) update() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		paused := !a.wave.Paused()
		a.wave.SetIsPaused(wave.Bool(paused))
		a.log.Info("pause toggled", "paused", paused, "time", a.wave.Time())
	case rl.IsKeyPressed(rl.KeyR):
		a.wave.RestartAnimation()
	case rl.IsKeyPressed(rl.KeyM):
		a.nextMode()
	case rl.IsKeyPressed(rl.KeyE):
		a.export()
	case rl.IsKeyPressed(rl.KeyN):
		next := cycle(shader.NoiseNames(), a.cfg.Wave.Noise, shader.DefaultNoise)
		a.cfg.Wave.Noise = next
		a.wave.SetNoiseSource(next)
		a.log.Info("noise preset", "name", next)
	case rl.IsKeyPressed(rl.KeyH):
		a.hud.Toggle()
	case rl.IsKeyPressed(rl.KeyB):
		next := cycle(shader.BlendNames(), a.cfg.Wave.Blend, shader.DefaultBlend)
		a.cfg.Wave.Blend = next
		a.wave.SetBlendSource(next)
		a.log.Info("blend preset", "name", next)
	}

	if a.transition != nil {
		p := a.transition.Update(rl.GetFrameTime())
		a.applyPalette(p)
		if a.transition.Done {
			a.transition = nil
		}
	}

	if time.Since(a.lastStats) >= a.cfg.Derived.LogInterval && a.frames.Total() > 0 {
		a.lastStats = time.Now()
		stats := a.frames.Stats()
		stats.LogStats(a.log)
		if err := a.output.WriteFrames(stats, a.frames.Total()); err != nil {
			a.log.Error("writing frame stats", "error", err)
		}
	}
}

func (a *app) drawHUD() {
	if !a.hud.IsVisible() {
		return
	}
	data := ui.HUDData{
		Title:  a.cfg.Screen.Title,
		Mode:   a.mode,
		Noise:  a.cfg.Wave.Noise,
		Blend:  a.cfg.Wave.Blend,
		FPS:    rl.GetFPS(),
		Colors: a.wave.Colors(),
		Stats:  a.frames.Stats(),
	}
	if a.wave.Mounted() {
		data.Time = a.wave.Time()
		data.Paused = a.wave.Paused()
	}
	a.hud.Draw(data)
	a.hud.DrawControls(int32(rl.GetScreenHeight()), controlsText)
}

func (a *app) nextMode() {
	next := a.palettes.Next(a.mode)
	target, ok := a.palettes.Get(next)
	if !ok {
		return
	}
	from := palette.Palette{Colors: a.wave.Colors(), Fallback: a.current.Fallback}
	a.transition = palette.NewTransition(from, target, a.cfg.Derived.TransitionDuration)
	a.mode = next
	a.current = target
	a.log.Info("color mode", "mode", next)
}

func (a *app) applyPalette(p palette.Palette) {
	a.wave.SetColors(p.Colors)
	a.wave.SetFallbackColor(p.Fallback)
	a.host.SetFallbackColor(fallbackOf(p))
}

func (a *app) export() {
	a.hooks.Run(hooks.BeforeCapture)
	defer a.hooks.Run(hooks.AfterCapture)

	uri := a.wave.ExportImage(a.cfg.Export.MimeType)
	if uri == "" {
		return
	}
	mime, data, err := wave.DecodeDataURI(uri)
	if err != nil {
		a.log.Error("export decode failed", "error", err)
		return
	}
	if err := os.MkdirAll(a.cfg.Export.Dir, 0755); err != nil {
		a.log.Error("creating export directory", "error", err)
		return
	}
	name := fmt.Sprintf("wave-%s%s", time.Now().Format("20060102-150405.000"), wave.Extension(mime))
	path := filepath.Join(a.cfg.Export.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		a.log.Error("writing export", "error", err)
		return
	}
	a.log.Info("frame exported", "path", path, "bytes", len(data))
}

func (a *app) close() {
	if a.wave.Mounted() {
		a.wave.Unmount()
	}
	a.fallback.Unload()
	if err := a.output.Close(); err != nil {
		a.log.Error("closing output", "error", err)
	}
}

// cycle returns the name after current in names. Inline sources that match
// no preset move to the first name.
func cycle(names []string, current, def string) string {
	if current == "" {
		current = def
	}
	i := slices.Index(names, current)
	return names[(i+1)%len(names)]
}

func fallbackOf(p palette.Palette) color.RGBA {
	if p.Fallback != nil {
		return *p.Fallback
	}
	if len(p.Colors) > 0 {
		return p.Colors[0]
	}
	return wave.DefaultColors[0]
}
