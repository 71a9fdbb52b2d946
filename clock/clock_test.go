package clock

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestNewDefaultsToPlayingAtZero(t *testing.T) {
	c := New(false, 0, 1000)
	if c.Paused() {
		t.Fatal("expected playing")
	}
	if got := c.Time(1000); math.Abs(got) > tolerance {
		t.Errorf("Time = %v, want 0", got)
	}
	if got := c.Time(3500); math.Abs(got-2.5) > tolerance {
		t.Errorf("Time = %v, want 2.5", got)
	}
}

func TestNewStartPausedAtTime(t *testing.T) {
	c := New(true, 4, 1000)
	if !c.Paused() {
		t.Fatal("expected paused")
	}
	if got := c.Time(99999); got != 4 {
		t.Errorf("Time = %v, want 4", got)
	}
	// The initial still frame is drawn once.
	if _, draw := c.Tick(1000); !draw {
		t.Error("first paused tick should draw")
	}
	if _, draw := c.Tick(1016); draw {
		t.Error("second paused tick should not draw")
	}
}

func TestPauseResumeContinuity(t *testing.T) {
	c := New(false, 0, 0)

	now := 1234.5
	before := c.Time(now)
	c.SetPaused(true, now)
	c.SetPaused(false, now)
	after := c.Time(now)
	if math.Abs(after-before) > tolerance {
		t.Errorf("pause/resume jumped time: %v -> %v", before, after)
	}

	// Time spent paused does not advance the animation.
	c.SetPaused(true, 2000)
	paused := c.Time(5000)
	c.SetPaused(false, 5000)
	if got := c.Time(5000); math.Abs(got-paused) > tolerance {
		t.Errorf("resume time = %v, want %v", got, paused)
	}
	if got := c.Time(6000); math.Abs(got-(paused+1)) > tolerance {
		t.Errorf("time one second after resume = %v, want %v", got, paused+1)
	}
}

func TestSetPausedSameStateIsNoop(t *testing.T) {
	c := New(true, 2, 0)
	c.Tick(0) // consume the initial rerender
	c.SetPaused(true, 500)
	if _, draw := c.Tick(500); draw {
		t.Error("re-pausing should not force a rerender")
	}

	p := New(false, 0, 0)
	p.Tick(0)
	p.SetPaused(false, 100)
	if s := p.State().(*Playing); s.FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", s.FrameCount)
	}
}

func TestSeekDeterminism(t *testing.T) {
	tests := []struct {
		name   string
		paused bool
	}{
		{"playing", false},
		{"paused", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.paused, 3, 100)
			c.SeekTo(42.25, 7000)
			if got := c.Time(7000); math.Abs(got-42.25) > tolerance {
				t.Errorf("Time after seek = %v, want 42.25", got)
			}
		})
	}
}

func TestSeekWhilePausedForcesOneDraw(t *testing.T) {
	c := New(true, 0, 0)
	c.Tick(0)
	c.SeekTo(10, 100)
	if _, draw := c.Tick(116); !draw {
		t.Error("seek while paused should draw once")
	}
	if _, draw := c.Tick(132); draw {
		t.Error("seek while paused should draw only once")
	}
}

func TestFrameSkipParity(t *testing.T) {
	c := New(false, 0, 0)

	var drawn []int
	for i := 1; i <= 10; i++ {
		if _, draw := c.Tick(float64(i) * 16); draw {
			drawn = append(drawn, i)
		}
	}

	want := []int{1, 3, 5, 7, 9}
	if len(drawn) != len(want) {
		t.Fatalf("drawn frames = %v, want %v", drawn, want)
	}
	for i := range want {
		if drawn[i] != want[i] {
			t.Errorf("drawn frames = %v, want %v", drawn, want)
			break
		}
	}
}

func TestInvalidateWhilePausedDrawsOnceRegardlessOfParity(t *testing.T) {
	for _, ticksBefore := range []int{1, 2} {
		c := New(false, 0, 0)
		for i := 0; i < ticksBefore; i++ {
			c.Tick(float64(i) * 16)
		}
		c.SetPaused(true, 100)
		c.Tick(116) // pause itself forces one frame

		c.Invalidate()
		draws := 0
		for i := 0; i < 4; i++ {
			if _, draw := c.Tick(200 + float64(i)*16); draw {
				draws++
			}
		}
		if draws != 1 {
			t.Errorf("after %d ticks: draws = %d, want 1", ticksBefore, draws)
		}
	}
}

func TestInvalidateWhilePlayingIsNoop(t *testing.T) {
	c := New(false, 0, 0)
	c.Invalidate()
	if _, ok := c.State().(*Playing); !ok {
		t.Fatal("invalidate changed state")
	}
	if s := c.State().(*Playing); s.FrameCount != 0 {
		t.Errorf("FrameCount = %d, want 0", s.FrameCount)
	}
}

func TestRestartMidPlayback(t *testing.T) {
	c := New(false, 0, 0)
	for ts := 0.0; ts <= 5000; ts += 16 {
		c.Tick(ts)
	}

	c.Restart(5000)
	if got := c.Time(5000); math.Abs(got) > tolerance {
		t.Errorf("Time after restart = %v, want 0", got)
	}
	if _, draw := c.Tick(5016); !draw {
		t.Error("first tick after restart should draw")
	}
	if _, draw := c.Tick(5032); draw {
		t.Error("second tick after restart should skip")
	}
}

func TestRestartWhilePaused(t *testing.T) {
	c := New(true, 12, 0)
	c.Tick(0)
	c.Restart(100)
	if got := c.Time(100); got != 0 {
		t.Errorf("Time = %v, want 0", got)
	}
	if !c.Paused() {
		t.Error("restart should not resume playback")
	}
	if _, draw := c.Tick(116); !draw {
		t.Error("restart while paused should draw once")
	}
}

func TestBackwardsClockDoesNotPanic(t *testing.T) {
	c := New(false, 0, 1000)
	if got := c.Time(500); got >= 0 {
		t.Errorf("Time = %v, expected negative", got)
	}
	c.Tick(0)
	c.SetPaused(true, -100)
	c.SetPaused(false, -200)
}
