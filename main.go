package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wavecanvas/config"
	"github.com/pthm-cable/wavecanvas/logging"
	"github.com/pthm-cable/wavecanvas/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	writeConfig := flag.String("write-config", "", "Write the effective config to this path and exit")
	exportDir := flag.String("export-dir", "", "Directory for exported frames (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for frame stats CSV and config snapshot")
	logLevel := flag.String("log-level", "", "Log level override (debug, info, warn, error)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *exportDir != "" {
		cfg.Export.Dir = *exportDir
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if *writeConfig != "" {
		if err := cfg.WriteYAML(*writeConfig); err != nil {
			slog.Error("failed to write config", "error", err)
			os.Exit(1)
		}
		slog.Info("config written", "path", *writeConfig)
		return
	}

	renderer.BridgeTraceLog(logger, rl.LogWarning)

	var flags uint32
	if cfg.Screen.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	if cfg.Screen.Resizable {
		flags |= rl.FlagWindowResizable
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	a, err := newApp(cfg, logger)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.close()

	a.host.Run(a.update)
}
