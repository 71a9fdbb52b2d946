// Wave preview tool - interactive parameter tuning with sliders.
//
// Usage: go run ./cmd/wavepreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/wavecanvas/config"
	"github.com/pthm-cable/wavecanvas/logging"
	"github.com/pthm-cable/wavecanvas/palette"
	"github.com/pthm-cable/wavecanvas/renderer"
	"github.com/pthm-cable/wavecanvas/shader"
	"github.com/pthm-cable/wavecanvas/wave"
)

const (
	windowWidth  = 1280
	windowHeight = 800
	panelWidth   = 340
)

// slider binds one config value to a raygui slider.
type slider struct {
	label    string
	value    *float64
	min, max float32
	format   string
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	renderer.BridgeTraceLog(logger, rl.LogWarning)

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(windowWidth, windowHeight, "Wave Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	palettes, err := palette.FromConfig(cfg.Palette)
	if err != nil {
		logger.Error("failed to load palettes", "error", err)
		os.Exit(1)
	}
	mode := cfg.Palette.Mode

	host := renderer.NewHost(logging.Subsystem(logger, "host"), nil)
	r := wave.New(wave.Options{Logger: logging.Subsystem(logger, "wave"), Now: host.Now})
	if err := r.Apply(cfg.Wave); err != nil {
		logger.Warn("wave config partially applied", "error", err)
	}
	setPalette := func(name string) {
		p, _ := palettes.Get(name)
		r.SetColors(p.Colors)
		r.SetFallbackColor(p.Fallback)
	}
	setPalette(mode)

	if err := r.Mount(host); err != nil {
		logger.Error("mount failed", "error", err)
		os.Exit(1)
	}
	defer r.Unmount()

	w := &cfg.Wave
	sliders := []slider{
		{"Deform frequency X", &w.Deform.Frequency.X, 0, 10, "%.2f"},
		{"Deform frequency Y", &w.Deform.Frequency.Y, 0, 10, "%.2f"},
		{"Deform speed", &w.Deform.Speed, 0, 50, "%.1f"},
		{"Deform strength", &w.Deform.Strength, 0, 20, "%.2f"},
		{"Deform scroll X", &w.Deform.ScrollSpeed.X, -20, 20, "%.1f"},
		{"Deform scroll Y", &w.Deform.ScrollSpeed.Y, -20, 20, "%.1f"},
		{"Deform clamp low", &w.Deform.ClampLow, -1, 1, "%.2f"},
		{"Deform clamp high", &w.Deform.ClampHigh, -1, 1, "%.2f"},
		{"Light frequency X", &w.Light.Frequency.X, 0, 10, "%.2f"},
		{"Light frequency Y", &w.Light.Frequency.Y, 0, 10, "%.2f"},
		{"Light speed", &w.Light.Speed, 0, 50, "%.1f"},
		{"Light strength", &w.Light.Strength, 0, 20, "%.2f"},
		{"Light scroll X", &w.Light.ScrollSpeed.X, -20, 20, "%.1f"},
		{"Light scroll Y", &w.Light.ScrollSpeed.Y, -20, 20, "%.1f"},
		{"Light clamp low", &w.Light.ClampLow, -1, 1, "%.2f"},
		{"Light clamp high", &w.Light.ClampHigh, -1, 1, "%.2f"},
		{"Per-light offset", &w.PerLightNoiseOffset, 0, 10, "%.2f"},
		{"Blend strength", &w.LightBlendStrength, 0, 2, "%.2f"},
		{"Time offset", &w.TimeOffset, 0, 100, "%.1f"},
		{"Subdivision X", &w.Subdivision.X, 1, 128, "%.0f"},
		{"Subdivision Y", &w.Subdivision.Y, 1, 128, "%.0f"},
	}

	host.SetOverlay(func() {
		changed := false
		panelX := float32(rl.GetScreenWidth() - panelWidth)
		panelY := float32(10)

		rl.DrawRectangle(int32(panelX)-10, 0, panelWidth+10, int32(rl.GetScreenHeight()), rl.Fade(rl.RayWhite, 0.85))
		rl.DrawText("Wave Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30

		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 12, rl.Gray)
			panelY += 14
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: 14},
				"", "",
				float32(*s.value), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+panelWidth-70), int32(panelY), 14, rl.DarkGray)
			if v != float32(*s.value) {
				*s.value = float64(v)
				changed = true
			}
			panelY += 20
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 100, Height: 26}, toggleText(r.Paused(), "Play", "Pause")) {
			r.SetIsPaused(wave.Bool(!r.Paused()))
		}
		if gui.Button(rl.Rectangle{X: panelX + 110, Y: panelY, Width: 100, Height: 26}, "Restart") {
			r.RestartAnimation()
		}
		if gui.Button(rl.Rectangle{X: panelX + 220, Y: panelY, Width: 100, Height: 26}, "Palette") {
			mode = palettes.Next(mode)
			setPalette(mode)
		}
		panelY += 32

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 155, Height: 26}, "Noise: "+w.Noise) {
			w.Noise = next(shader.NoiseNames(), w.Noise)
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 165, Y: panelY, Width: 155, Height: 26}, "Blend: "+w.Blend) {
			w.Blend = next(shader.BlendNames(), w.Blend)
			changed = true
		}
		panelY += 36

		if changed {
			if err := r.Apply(*w); err != nil {
				logger.Warn("apply failed", "error", err)
			}
		}

		rl.DrawText(fmt.Sprintf("Time: %.2fs  Mode: %s  FPS: %d", r.Time(), mode, rl.GetFPS()), int32(panelX), int32(panelY), 14, rl.DarkGray)

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(rl.GetScreenHeight()-24), 12, rl.Gray)
	})

	host.Run(func() {
		if rl.IsKeyPressed(rl.KeyC) {
			text, err := waveYAML(*w)
			if err != nil {
				logger.Error("marshaling wave config", "error", err)
				return
			}
			rl.SetClipboardText(text)
			logger.Info("wave config copied to clipboard")
		}
	})
}

// waveYAML renders the wave section as it appears in config.yaml.
func waveYAML(w config.WaveConfig) (string, error) {
	data, err := yaml.Marshal(map[string]config.WaveConfig{"wave": w})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func next(names []string, current string) string {
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
