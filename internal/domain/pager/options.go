package pager

import (
	"time"

	"github.com/okian/runscope/internal/domain/anim"
)

// Defaults for page transitions.
const (
	DefaultDuration      = 200 * time.Millisecond
	DefaultSlideDistance = 15
)

// Option configures a Controller.
type Option func(*Controller)

// WithDuration sets the full scroll transition duration. Each slide leg takes
// half of it and each bounce leg a third.
func WithDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithSlideDistance sets how far panels travel when sliding out.
func WithSlideDistance(px int) Option {
	return func(c *Controller) {
		if px > 0 {
			c.distance = px
		}
	}
}

// WithObserver reports animation lifecycle events to o.
func WithObserver(o anim.Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}
