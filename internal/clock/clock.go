package clock

import (
	"sync"
	"time"
)

// Clock is the single source of "now" shared by every component, so tests can
// inject virtual time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// System returns a Clock backed by the wall clock, in UTC.
func System() Clock {
	return systemClock{}
}

// Manual is a settable clock for tests. It never advances on its own.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a Manual clock frozen at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.UTC()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
