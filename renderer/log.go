package renderer

import (
	"context"
	"log/slog"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// traceBridge forwards raylib trace output to slog. While capturing, warning
// and error lines are also kept so shader compile failures carry the driver log.
var traceBridge struct {
	log       *slog.Logger
	capturing bool
	captured  []string
}

// BridgeTraceLog routes raylib's trace log into l. Lines below level are
// dropped by raylib. Call before the window is created to see init messages.
func BridgeTraceLog(l *slog.Logger, level rl.TraceLogLevel) {
	traceBridge.log = l.With("subsystem", "raylib")
	rl.SetTraceLogLevel(level)
	rl.SetTraceLogCallback(handleTrace)
}

func handleTrace(level int, msg string) {
	msg = strings.TrimRight(msg, "\n")
	if traceBridge.capturing && level >= int(rl.LogWarning) {
		traceBridge.captured = append(traceBridge.captured, msg)
	}
	if traceBridge.log != nil {
		traceBridge.log.Log(context.Background(), slogLevel(level), msg)
	}
}

// slogLevel maps a raylib trace level to slog.
func slogLevel(level int) slog.Level {
	switch {
	case level <= int(rl.LogDebug):
		return slog.LevelDebug
	case level == int(rl.LogInfo):
		return slog.LevelInfo
	case level == int(rl.LogWarning):
		return slog.LevelWarn
	}
	return slog.LevelError
}

func startCapture() {
	traceBridge.capturing = true
	traceBridge.captured = nil
}

func stopCapture() []string {
	lines := traceBridge.captured
	traceBridge.capturing = false
	traceBridge.captured = nil
	return lines
}
