// Package telemetry tracks frame timing and writes it as CSV.
package telemetry

import (
	"time"
)

// FrameSample holds timing data for a single display frame.
type FrameSample struct {
	Duration time.Duration
	Drew     bool // whether the renderer drew on this frame
}

// FrameCollector tracks frame timing over a rolling window.
type FrameCollector struct {
	windowSize  int
	samples     []FrameSample
	writeIndex  int
	sampleCount int
	total       int64

	frameStart time.Time
	drew       bool
	now        func() time.Time
}

// NewFrameCollector creates a new frame collector.
// windowSize: number of frames to aggregate over (e.g., 120 for 2 seconds at 60fps).
func NewFrameCollector(windowSize int) *FrameCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &FrameCollector{
		windowSize: windowSize,
		samples:    make([]FrameSample, windowSize),
		now:        time.Now,
	}
}

// StartFrame begins timing a new frame.
func (c *FrameCollector) StartFrame() {
	c.frameStart = c.now()
	c.drew = false
}

// MarkRendered notes that the renderer drew during the current frame.
func (c *FrameCollector) MarkRendered() {
	c.drew = true
}

// EndFrame finishes timing the current frame and records the sample.
func (c *FrameCollector) EndFrame() {
	if c.frameStart.IsZero() {
		return
	}
	c.Record(c.now().Sub(c.frameStart), c.drew)
	c.frameStart = time.Time{}
}

// Record adds a sample directly.
func (c *FrameCollector) Record(d time.Duration, drew bool) {
	c.samples[c.writeIndex] = FrameSample{Duration: d, Drew: drew}
	c.writeIndex = (c.writeIndex + 1) % c.windowSize
	if c.sampleCount < c.windowSize {
		c.sampleCount++
	}
	c.total++
}

// Total returns the number of frames recorded since creation.
func (c *FrameCollector) Total() int64 {
	return c.total
}

// Stats computes aggregated statistics over the current window.
func (c *FrameCollector) Stats() FrameStats {
	return computeStats(c.samples[:c.sampleCount])
}
