package viewer

import (
	"github.com/okian/runscope/internal/domain/anim"
	"github.com/okian/runscope/pkg/metrics"
)

// metricsObserver counts animation lifecycle events.
type metricsObserver struct{}

func (metricsObserver) Scheduled(kind anim.Kind) { metrics.RecordAnimationScheduled(kind.String()) }
func (metricsObserver) Cancelled(kind anim.Kind) { metrics.RecordAnimationCancelled(kind.String()) }
func (metricsObserver) Finished(kind anim.Kind)  { metrics.RecordAnimationFinished(kind.String()) }
