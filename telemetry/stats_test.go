package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/wavecanvas/config"
)

func TestComputeStatsQuantiles(t *testing.T) {
	samples := make([]FrameSample, 10)
	for i := range samples {
		samples[i] = FrameSample{Duration: time.Duration(10-i) * time.Millisecond}
	}

	s := computeStats(samples)
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"avg", s.Avg, 5500 * time.Microsecond},
		{"min", s.Min, time.Millisecond},
		{"max", s.Max, 10 * time.Millisecond},
		{"p50", s.P50, 5 * time.Millisecond},
		{"p95", s.P95, 10 * time.Millisecond},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	// Sample stddev of 1..10 ms is ~3.03ms.
	if s.StdDev < 3*time.Millisecond || s.StdDev > 3100*time.Microsecond {
		t.Errorf("stddev = %v", s.StdDev)
	}
}

func TestComputeStatsDoesNotReorderWindow(t *testing.T) {
	samples := []FrameSample{{Duration: 3}, {Duration: 1}, {Duration: 2}}
	computeStats(samples)
	if samples[0].Duration != 3 || samples[1].Duration != 1 {
		t.Error("computeStats sorted the caller's samples")
	}
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	stats := FrameStats{Frames: 10, Draws: 5, FPS: 60}
	for i := range 3 {
		if err := om.WriteFrames(stats, int64(i+1)*10); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "window_end"); n != 1 {
		t.Errorf("header written %d times", n)
	}

	var rows []FrameStatsCSV
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[2].WindowEnd != 30 || rows[0].Draws != 5 {
		t.Errorf("rows = %+v", rows)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not reload: %v", err)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// Methods on a nil manager are no-ops.
	if err := om.WriteFrames(FrameStats{}, 1); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
