package feed

import (
	"time"

	"github.com/okian/runscope/pkg/logger"
)

// Option applies a configuration option to the Host.
type Option func(*Host)

// WithRuns sets how many runs are generated when no fixture is given.
func WithRuns(n int) Option {
	return func(h *Host) {
		if n >= 0 {
			h.runs = n
		}
	}
}

// WithFixture serves a fixture instead of generated runs.
func WithFixture(fx Fixture) Option {
	return func(h *Host) {
		h.fixture = &fx
	}
}

// WithLatency delays every delivery by d.
func WithLatency(d time.Duration) Option {
	return func(h *Host) {
		if d >= 0 {
			h.latency = d
		}
	}
}

// WithSeed makes generated data deterministic. Zero picks a time-based seed.
func WithSeed(seed int64) Option {
	return func(h *Host) {
		h.seed = seed
	}
}

// WithLogger sets a custom logger for the host.
func WithLogger(l logger.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}
