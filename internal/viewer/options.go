package viewer

import (
	"time"

	"github.com/okian/runscope/internal/domain/pager"
	"github.com/okian/runscope/internal/domain/scrub"
	"github.com/okian/runscope/internal/domain/series"
	"github.com/okian/runscope/pkg/logger"
)

// DefaultLoadTimeout bounds both the runs and the metrics delivery.
const DefaultLoadTimeout = 8 * time.Second

// Option applies a configuration option to the Viewer.
type Option func(*Viewer)

// WithLoadTimeout sets how long a delivery may take before the view fails.
func WithLoadTimeout(d time.Duration) Option {
	return func(v *Viewer) {
		if d > 0 {
			v.loadTimeout = d
		}
	}
}

// WithPagerOptions passes options to the page scroll controller.
func WithPagerOptions(opts ...pager.Option) Option {
	return func(v *Viewer) {
		v.pagerOpts = append(v.pagerOpts, opts...)
	}
}

// WithScrubOptions passes options to the scrub state machine.
func WithScrubOptions(opts ...scrub.Option) Option {
	return func(v *Viewer) {
		v.scrubOpts = append(v.scrubOpts, opts...)
	}
}

// WithGraph sets the graph drawing region and its margins.
func WithGraph(bounds series.Rect, g series.Geometry) Option {
	return func(v *Viewer) {
		v.bounds = bounds
		v.geometry = g
	}
}

// WithLogger sets a custom logger for the viewer.
func WithLogger(l logger.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.logger = l
		}
	}
}
