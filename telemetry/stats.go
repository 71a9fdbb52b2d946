package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FrameStats holds aggregated statistics for a window of frames.
type FrameStats struct {
	Frames    int
	Draws     int
	DrawRatio float64

	Avg    time.Duration
	Min    time.Duration
	Max    time.Duration
	StdDev time.Duration
	P50    time.Duration
	P95    time.Duration

	FPS float64
}

func computeStats(samples []FrameSample) FrameStats {
	if len(samples) == 0 {
		return FrameStats{}
	}

	durations := make([]float64, len(samples))
	s := FrameStats{Frames: len(samples)}
	for i, sample := range samples {
		durations[i] = float64(sample.Duration)
		if sample.Drew {
			s.Draws++
		}
	}
	s.DrawRatio = float64(s.Draws) / float64(s.Frames)

	mean := stat.Mean(durations, nil)
	s.Avg = time.Duration(mean)
	if len(durations) > 1 {
		s.StdDev = time.Duration(stat.StdDev(durations, nil))
	}

	slices.Sort(durations)
	s.Min = time.Duration(durations[0])
	s.Max = time.Duration(durations[len(durations)-1])
	s.P50 = time.Duration(stat.Quantile(0.5, stat.Empirical, durations, nil))
	s.P95 = time.Duration(stat.Quantile(0.95, stat.Empirical, durations, nil))

	if mean > 0 {
		s.FPS = float64(time.Second) / mean
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Int("draws", s.Draws),
		slog.Float64("draw_ratio", s.DrawRatio),
		slog.Int64("avg_us", s.Avg.Microseconds()),
		slog.Int64("min_us", s.Min.Microseconds()),
		slog.Int64("max_us", s.Max.Microseconds()),
		slog.Int64("stddev_us", s.StdDev.Microseconds()),
		slog.Int64("p50_us", s.P50.Microseconds()),
		slog.Int64("p95_us", s.P95.Microseconds()),
		slog.Float64("fps", s.FPS),
	)
}

// LogStats logs the frame stats.
func (s FrameStats) LogStats(log *slog.Logger) {
	log.Info("frames",
		"fps", int(s.FPS),
		"draws", s.Draws,
		"frames", s.Frames,
		"avg_us", s.Avg.Microseconds(),
		"p95_us", s.P95.Microseconds(),
		"max_us", s.Max.Microseconds(),
	)
}

// FrameStatsCSV is a flat struct for CSV export of frame stats.
type FrameStatsCSV struct {
	WindowEnd int64   `csv:"window_end"`
	Frames    int     `csv:"frames"`
	Draws     int     `csv:"draws"`
	DrawRatio float64 `csv:"draw_ratio"`
	AvgUS     int64   `csv:"avg_us"`
	MinUS     int64   `csv:"min_us"`
	MaxUS     int64   `csv:"max_us"`
	StdDevUS  int64   `csv:"stddev_us"`
	P50US     int64   `csv:"p50_us"`
	P95US     int64   `csv:"p95_us"`
	FPS       float64 `csv:"fps"`
}

// ToCSV converts FrameStats to a flat CSV-friendly struct.
func (s FrameStats) ToCSV(windowEnd int64) FrameStatsCSV {
	return FrameStatsCSV{
		WindowEnd: windowEnd,
		Frames:    s.Frames,
		Draws:     s.Draws,
		DrawRatio: s.DrawRatio,
		AvgUS:     s.Avg.Microseconds(),
		MinUS:     s.Min.Microseconds(),
		MaxUS:     s.Max.Microseconds(),
		StdDevUS:  s.StdDev.Microseconds(),
		P50US:     s.P50.Microseconds(),
		P95US:     s.P95.Microseconds(),
		FPS:       s.FPS,
	}
}
