// Package anim holds the integer animation primitives shared by the pager and
// the scrub machine: normalized progress, easing curves, single-occupancy
// animation slots and cancellable deadline timers.
//
// Nothing here owns a goroutine. Callers advance slots and timers from their
// own frame callbacks with the current time.
package anim

import (
	"time"

	"github.com/fogleman/ease"
)

// Progress is the elapsed fraction of an animation in [0, ProgressMax].
// Curves may briefly produce values outside that range.
type Progress int32

// ProgressMax is the normalized end of an animation.
const ProgressMax Progress = 65535

// Normalize converts elapsed time into linear progress, clamped to the
// normalized range. A non-positive duration completes immediately.
func Normalize(elapsed, duration time.Duration) Progress {
	if duration <= 0 || elapsed >= duration {
		return ProgressMax
	}
	if elapsed <= 0 {
		return 0
	}
	return Progress(int64(elapsed) * int64(ProgressMax) / int64(duration))
}

// Lerp returns from + (to-from)*p using integer arithmetic. The product is
// taken before the division so small deltas keep their precision.
func Lerp(from, to int64, p Progress) int64 {
	return from + (to-from)*int64(p)/int64(ProgressMax)
}

// Lerp32 is Lerp for 32-bit fixed-point positions.
func Lerp32(from, to int32, p Progress) int32 {
	return int32(Lerp(int64(from), int64(to), p))
}

// Split maps p onto the sub-range [start, end) of an animation and returns the
// local progress of that leg. Values before start map to 0 and after end to
// ProgressMax.
func Split(p, start, end Progress) Progress {
	if end <= start || p >= end {
		return ProgressMax
	}
	if p <= start {
		return 0
	}
	return Progress(int64(p-start) * int64(ProgressMax) / int64(end-start))
}

// Curve shapes linear progress.
type Curve uint8

// Supported curves.
const (
	CurveLinear Curve = iota
	CurveEaseIn
	CurveEaseOut
	CurveEaseInOut
)

// String returns the curve name.
func (c Curve) String() string {
	switch c {
	case CurveEaseIn:
		return "ease-in"
	case CurveEaseOut:
		return "ease-out"
	case CurveEaseInOut:
		return "ease-in-out"
	default:
		return "linear"
	}
}

// Apply maps linear progress through the curve. The end points are exact.
func (c Curve) Apply(p Progress) Progress {
	if p <= 0 {
		return 0
	}
	if p >= ProgressMax {
		return ProgressMax
	}
	var fn func(float64) float64
	switch c {
	case CurveEaseIn:
		fn = ease.InQuad
	case CurveEaseOut:
		fn = ease.OutQuad
	case CurveEaseInOut:
		fn = ease.InOutQuad
	default:
		return p
	}
	t := float64(p) / float64(ProgressMax)
	return Progress(fn(t)*float64(ProgressMax) + 0.5)
}
