// Package clock implements the playback state machine driving the wave animation.
//
// Timestamps passed in are milliseconds from a monotonic source. Times returned are seconds.
package clock

// State is either Playing or Paused.
type State interface {
	isState()
}

// Playing advances with the wall clock.
type Playing struct {
	// StartTimestamp is the timestamp (ms) at which animation time was zero.
	StartTimestamp float64
	// FrameCount counts Tick calls since the clock started playing.
	FrameCount int
}

// Paused holds a frozen animation time.
type Paused struct {
	// PauseTime is the frozen animation time in seconds.
	PauseTime float64
	// ForceRerender requests one draw at the frozen time on the next tick.
	ForceRerender bool
}

func (*Playing) isState() {}
func (*Paused) isState()  {}

// Clock tracks elapsed animation time across pause, seek and restart.
type Clock struct {
	state State
}

// New creates a clock at startAt seconds, paused or playing.
func New(startPaused bool, startAt float64, now float64) *Clock {
	if startPaused {
		return &Clock{state: &Paused{PauseTime: startAt, ForceRerender: true}}
	}
	return &Clock{state: &Playing{StartTimestamp: now - startAt*1000}}
}

// State returns the current state. Callers must not mutate it.
func (c *Clock) State() State {
	return c.state
}

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool {
	_, ok := c.state.(*Paused)
	return ok
}

// Time returns the animation time in seconds at timestamp now.
func (c *Clock) Time(now float64) float64 {
	switch s := c.state.(type) {
	case *Playing:
		return (now - s.StartTimestamp) / 1000
	case *Paused:
		return s.PauseTime
	}
	return 0
}

// SetPaused switches between playing and paused without a jump in animation time.
func (c *Clock) SetPaused(paused bool, now float64) {
	switch s := c.state.(type) {
	case *Playing:
		if paused {
			c.state = &Paused{PauseTime: (now - s.StartTimestamp) / 1000, ForceRerender: true}
		}
	case *Paused:
		if !paused {
			c.state = &Playing{StartTimestamp: now - s.PauseTime*1000}
		}
	}
}

// SeekTo makes Time(now) return t.
func (c *Clock) SeekTo(t float64, now float64) {
	switch s := c.state.(type) {
	case *Playing:
		s.StartTimestamp = now - t*1000
	case *Paused:
		s.PauseTime = t
		s.ForceRerender = true
	}
}

// Restart seeks to zero. While playing the frame parity restarts as well,
// so the next tick draws.
func (c *Clock) Restart(now float64) {
	c.SeekTo(0, now)
	if s, ok := c.state.(*Playing); ok {
		s.FrameCount = 0
	}
}

// Invalidate requests a redraw of the frozen frame. No-op while playing.
func (c *Clock) Invalidate() {
	if s, ok := c.state.(*Paused); ok {
		s.ForceRerender = true
	}
}

// Tick advances one frame and reports the animation time and whether this frame draws.
// Playing draws on odd frames only (1-indexed); paused draws once per invalidation.
func (c *Clock) Tick(now float64) (t float64, draw bool) {
	t = c.Time(now)
	switch s := c.state.(type) {
	case *Playing:
		s.FrameCount++
		return t, s.FrameCount%2 == 1
	case *Paused:
		if s.ForceRerender {
			s.ForceRerender = false
			return t, true
		}
	}
	return t, false
}
