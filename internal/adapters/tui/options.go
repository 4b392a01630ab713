package tui

import (
	"context"
	"time"
)

// Defaults for the surface. DefaultKeyRelease must exceed the terminal's
// autorepeat delay, which is commonly 500-660ms.
const (
	DefaultFrameRate  = 30
	DefaultKeyRelease = 700 * time.Millisecond
)

// Option configures the Model.
type Option func(*Model)

// WithFrameInterval sets the time between animation ticks.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.frameInterval = d
		}
	}
}

// WithKeyRelease sets how long after the last event for a held key the key
// counts as released. Terminals report presses only.
func WithKeyRelease(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.keyRelease = d
		}
	}
}

// WithClock overrides the time source used for input events.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithContext sets the context passed to metric requests.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}
