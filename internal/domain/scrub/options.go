package scrub

import (
	"time"

	"github.com/okian/runscope/internal/domain/anim"
)

// Default timings.
const (
	DefaultStepDuration   = 100 * time.Millisecond
	DefaultWiggleDuration = 300 * time.Millisecond
	DefaultRepeatInterval = 150 * time.Millisecond
)

// Option configures a Machine.
type Option func(*Machine)

// WithStepDuration sets the duration of a step and of a boundary bounce. The
// exit animation takes twice as long.
func WithStepDuration(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.stepDuration = d
		}
	}
}

// WithWiggleDuration sets the duration of the entry wiggle.
func WithWiggleDuration(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.wiggleDuration = d
		}
	}
}

// WithRepeatInterval sets the key-repeat period while a direction is held.
func WithRepeatInterval(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.repeatInterval = d
		}
	}
}

// WithObserver reports animation lifecycle events to o.
func WithObserver(o anim.Observer) Option {
	return func(m *Machine) {
		m.observer = o
	}
}
