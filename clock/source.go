package clock

import (
	"sync"
	"time"
)

// Source yields monotonic timestamps.
type Source interface {
	Now() time.Time
}

// System reads the wall clock, which carries a monotonic reading in Go.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Manual is a Source moved by hand. The zero value starts at the Unix epoch.
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

// NewManual returns a Manual source at t.
func NewManual(t time.Time) *Manual {
	return &Manual{t: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.t.IsZero() {
		m.t = time.Unix(0, 0)
	}
	return m.t
}

// Advance moves the source forward by d and returns the new reading.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.t.IsZero() {
		m.t = time.Unix(0, 0)
	}
	m.t = m.t.Add(d)
	return m.t
}
