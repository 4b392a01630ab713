// Package config defines viewer configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/runscope/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile receives log records; the terminal belongs to the UI.
	LogFile string `koanf:"log_file"`

	// Addr configures the diagnostics HTTP listener. Empty disables it.
	Addr string `koanf:"addr"`

	// InboxSize bounds the host message queue.
	InboxSize int `koanf:"inbox_size"`

	// Profile selects capacities: standard or compact.
	Profile string `koanf:"profile"`

	// FrameRate is the animation tick rate in frames per second.
	FrameRate int `koanf:"frame_rate"`

	// LoadTimeoutMS bounds how long a run or metric delivery may take.
	LoadTimeoutMS int `koanf:"load_timeout_ms"`

	// AnimDurationMS is the page transition duration.
	AnimDurationMS int `koanf:"anim_duration_ms"`

	// ScrubAnimDurationMS is the scrub step and bounce duration.
	ScrubAnimDurationMS int `koanf:"scrub_anim_duration_ms"`

	// ScrubRepeatIntervalMS is the key-repeat period while scrubbing.
	ScrubRepeatIntervalMS int `koanf:"scrub_repeat_interval_ms"`

	// WiggleDurationMS is the scrub entry feedback duration.
	WiggleDurationMS int `koanf:"wiggle_duration_ms"`

	// KeyReleaseMS is how long after the last key event a held direction is
	// considered released.
	KeyReleaseMS int `koanf:"key_release_ms"`

	// GraphMargin and GraphPadding shape the graph region.
	GraphMargin  int `koanf:"graph_margin"`
	GraphPadding int `koanf:"graph_padding"`

	// FeedRuns is how many runs the mock host generates.
	FeedRuns int `koanf:"feed_runs"`

	// FeedFixture points at a YAML fixture replacing generated runs.
	FeedFixture string `koanf:"feed_fixture"`

	// FeedLatencyMS delays every host delivery.
	FeedLatencyMS int `koanf:"feed_latency_ms"`

	// FeedSeed seeds generated data; zero uses the clock.
	FeedSeed int64 `koanf:"feed_seed"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		LogFile:               "runscope.log",
		Addr:                  "127.0.0.1:9080",
		InboxSize:             256,
		Profile:               string(model.ProfileStandard),
		FrameRate:             30,
		LoadTimeoutMS:         8000,
		AnimDurationMS:        200,
		ScrubAnimDurationMS:   100,
		ScrubRepeatIntervalMS: 150,
		WiggleDurationMS:      300,
		KeyReleaseMS:          700,
		GraphMargin:           2,
		GraphPadding:          4,
		FeedRuns:              6,
		FeedLatencyMS:         300,
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.InboxSize <= 0:
		return fmt.Errorf("%w: inbox_size must be positive", ErrInvalidConfig)
	case !model.Profile(c.Profile).Valid():
		return fmt.Errorf("%w: unknown profile %q", ErrInvalidConfig, c.Profile)
	case c.FrameRate <= 0 || c.FrameRate > 240:
		return fmt.Errorf("%w: frame_rate must be in [1, 240]", ErrInvalidConfig)
	case c.LoadTimeoutMS <= 0:
		return fmt.Errorf("%w: load_timeout_ms must be positive", ErrInvalidConfig)
	case c.AnimDurationMS <= 0 || c.ScrubAnimDurationMS <= 0 || c.WiggleDurationMS <= 0:
		return fmt.Errorf("%w: animation durations must be positive", ErrInvalidConfig)
	case c.ScrubRepeatIntervalMS <= 0 || c.KeyReleaseMS <= 0:
		return fmt.Errorf("%w: key timings must be positive", ErrInvalidConfig)
	case c.GraphMargin < 0 || c.GraphPadding < 0:
		return fmt.Errorf("%w: graph geometry must not be negative", ErrInvalidConfig)
	case c.FeedRuns < 0 || c.FeedLatencyMS < 0:
		return fmt.Errorf("%w: feed settings must not be negative", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	return nil
}

// FrameInterval is the duration between animation frames.
func (c *Config) FrameInterval() time.Duration { return time.Second / time.Duration(c.FrameRate) }

// LoadTimeout returns LoadTimeoutMS as a duration.
func (c *Config) LoadTimeout() time.Duration { return ms(c.LoadTimeoutMS) }

// AnimDuration returns AnimDurationMS as a duration.
func (c *Config) AnimDuration() time.Duration { return ms(c.AnimDurationMS) }

// ScrubAnimDuration returns ScrubAnimDurationMS as a duration.
func (c *Config) ScrubAnimDuration() time.Duration { return ms(c.ScrubAnimDurationMS) }

// ScrubRepeatInterval returns ScrubRepeatIntervalMS as a duration.
func (c *Config) ScrubRepeatInterval() time.Duration { return ms(c.ScrubRepeatIntervalMS) }

// WiggleDuration returns WiggleDurationMS as a duration.
func (c *Config) WiggleDuration() time.Duration { return ms(c.WiggleDurationMS) }

// KeyRelease returns KeyReleaseMS as a duration.
func (c *Config) KeyRelease() time.Duration { return ms(c.KeyReleaseMS) }

// FeedLatency returns FeedLatencyMS as a duration.
func (c *Config) FeedLatency() time.Duration { return ms(c.FeedLatencyMS) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
