// Wave capture tool - renders frames at fixed animation times to image files.
//
// Usage: go run ./cmd/wavecapture -times 0,1.5,10 -out captures -mime image/png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wavecanvas/config"
	"github.com/pthm-cable/wavecanvas/hooks"
	"github.com/pthm-cable/wavecanvas/logging"
	"github.com/pthm-cable/wavecanvas/palette"
	"github.com/pthm-cable/wavecanvas/renderer"
	"github.com/pthm-cable/wavecanvas/wave"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	timesFlag := flag.String("times", "0", "Comma-separated animation times in seconds")
	outDir := flag.String("out", "captures", "Output directory")
	mime := flag.String("mime", wave.MimePNG, "Image MIME type")
	mode := flag.String("mode", "", "Palette mode (empty = use config)")
	width := flag.Int("width", 1280, "Render width")
	height := flag.Int("height", 720, "Render height")
	flag.Parse()

	times, err := parseTimes(*timesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -times: %v\n", err)
		os.Exit(1)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *mode != "" {
		cfg.Palette.Mode = *mode
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	renderer.BridgeTraceLog(logger, rl.LogWarning)

	palettes, err := palette.FromConfig(cfg.Palette)
	if err != nil {
		logger.Error("failed to load palettes", "error", err)
		os.Exit(1)
	}
	p, ok := palettes.Get(cfg.Palette.Mode)
	if !ok {
		logger.Error("unknown palette mode", "mode", cfg.Palette.Mode, "available", palettes.Names())
		os.Exit(1)
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Wave Capture")
	defer rl.CloseWindow()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	host := renderer.NewHost(logging.Subsystem(logger, "host"), nil)
	r := wave.New(wave.Options{Logger: logging.Subsystem(logger, "wave"), Now: host.Now})
	if err := r.Apply(cfg.Wave); err != nil {
		logger.Warn("wave config partially applied", "error", err)
	}
	r.SetColors(p.Colors)
	r.SetFallbackColor(p.Fallback)
	r.SetIsPaused(wave.Bool(true))

	if err := r.Mount(host); err != nil {
		logger.Error("mount failed", "error", err)
		os.Exit(1)
	}
	defer r.Unmount()

	captures := hooks.New()
	captures.Add(hooks.BeforeCapture, func() {
		logger.Debug("capturing", "time", r.Time())
	})

	failed := 0
	for i, t := range times {
		r.SeekToTime(t)
		captures.Run(hooks.BeforeCapture)

		uri := r.ExportImage(*mime)
		if uri == "" {
			failed++
			continue
		}
		mimeType, data, err := wave.DecodeDataURI(uri)
		if err != nil {
			logger.Error("decoding capture", "error", err)
			failed++
			continue
		}
		path := filepath.Join(*outDir, fmt.Sprintf("wave-%03d-%gs%s", i, t, wave.Extension(mimeType)))
		if err := os.WriteFile(path, data, 0644); err != nil {
			logger.Error("writing capture", "error", err)
			failed++
			continue
		}
		captures.Run(hooks.AfterCapture)
		fmt.Printf("Wave rendered to: %s (%dx%d, t=%gs)\n", path, *width, *height, t)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d captures failed\n", failed, len(times))
		os.Exit(1)
	}
}

// parseTimes parses a comma-separated list of non-negative seconds.
func parseTimes(s string) ([]float64, error) {
	var times []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		t, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		if t < 0 {
			return nil, fmt.Errorf("negative time %g", t)
		}
		times = append(times, t)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("no times given")
	}
	return times, nil
}
