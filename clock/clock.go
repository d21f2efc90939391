// Package clock advances the logical playback cursor of a timeline.
//
// The clock does not own a timer. The caller samples a monotonic Source once
// per frame and hands the reading to Tick, which accumulates the true elapsed
// time since the previous tick.
package clock

import (
	"time"

	"github.com/reelcraft-cli/reelcraft/constant"
)

// State is either Stopped or Playing.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// TickResult reports what a single Tick did.
type TickResult struct {
	Time  float64
	Delta float64
	Ended bool
}

// Clock is the {stopped, playing} state machine over the current time.
type Clock struct {
	state    State
	current  float64
	duration float64
	last     time.Time
	jumped   bool
}

// New returns a stopped clock at zero.
func New(duration float64) *Clock {
	return &Clock{duration: max(duration, 0)}
}

func (c *Clock) State() State {
	return c.state
}

func (c *Clock) Playing() bool {
	return c.state == Playing
}

// Time returns the current position in seconds.
func (c *Clock) Time() float64 {
	return c.current
}

func (c *Clock) Duration() float64 {
	return c.duration
}

// Play starts playback at now. At or near the end it first rewinds to zero.
// Starting from stopped requests a resync.
func (c *Clock) Play(now time.Time) {
	if c.current >= c.duration-constant.ReplayEpsilon {
		c.Seek(0)
	}
	if c.state == Stopped {
		c.jumped = true
	}
	c.state = Playing
	c.last = now
}

// Pause stops playback keeping the current time.
func (c *Clock) Pause() {
	c.state = Stopped
}

// Toggle plays when stopped and pauses when playing.
func (c *Clock) Toggle(now time.Time) {
	if c.Playing() {
		c.Pause()
	} else {
		c.Play(now)
	}
}

// Seek jumps to t clamped to [0, duration] and raises the time-jumped signal.
func (c *Clock) Seek(t float64) {
	c.current = min(max(t, 0), c.duration)
	c.jumped = true
}

// Restart rewinds to zero and stops.
func (c *Clock) Restart() {
	c.Seek(0)
	c.Pause()
}

// SkipToEnd seeks to the duration.
func (c *Clock) SkipToEnd() {
	c.Seek(c.duration)
}

// SetDuration updates the bound after the timeline changed, pulling the cursor
// back inside it if needed.
func (c *Clock) SetDuration(d float64) {
	c.duration = max(d, 0)
	if c.current > c.duration {
		c.Seek(c.duration)
	}
}

// TakeJump reports and clears the time-jumped signal.
func (c *Clock) TakeJump() bool {
	jumped := c.jumped
	c.jumped = false
	return jumped
}

// Tick advances the cursor by the wall time elapsed since the previous tick.
// Reaching the duration stops the clock.
func (c *Clock) Tick(now time.Time) TickResult {
	if c.state != Playing {
		c.last = now
		return TickResult{Time: c.current}
	}

	delta := max(now.Sub(c.last).Seconds(), 0)
	c.last = now
	c.current = min(c.current+delta, c.duration)

	res := TickResult{Time: c.current, Delta: delta}
	if c.current >= c.duration {
		c.state = Stopped
		res.Ended = true
	}
	return res
}
