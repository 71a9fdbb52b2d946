// Package logging builds the slog logger used across the wave canvas.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pthm-cable/wavecanvas/config"
)

// Prefix is attached to every line.
const Prefix = "wavecanvas"

// New returns a slog.Logger backed by a charmbracelet/log handler writing to w.
// Format "json" selects structured output; anything else is human-readable text.
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		l, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	formatter := log.TextFormatter
	if strings.EqualFold(cfg.Format, "json") {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Formatter:       formatter,
	})
	return slog.New(handler), nil
}

// Subsystem returns a child logger tagged with the subsystem name.
func Subsystem(l *slog.Logger, name string) *slog.Logger {
	return l.With("subsystem", name)
}
