// Package interp renders eased transitions between two decimal value texts.
package interp

import (
	"github.com/okian/runscope/internal/domain/anim"
	"github.com/okian/runscope/internal/domain/fixedpoint"
)

// Interpolator samples the value between two decimal texts. The display
// precision is the larger of the two endpoints' precisions.
type Interpolator struct {
	from     int64
	to       int64
	decimals int
	target   string
}

// New parses both endpoints. Malformed texts yield their best-effort prefix.
func New(fromText, toText string) Interpolator {
	from := fixedpoint.Parse(fromText)
	to := fixedpoint.Parse(toText)
	return Interpolator{
		from:     from.Scaled,
		to:       to.Scaled,
		decimals: fixedpoint.MaxDecimalsOf(from, to),
		target:   toText,
	}
}

// Decimals returns the precision every sample is rendered with.
func (i Interpolator) Decimals() int { return i.decimals }

// Scaled returns the scaled value at p.
func (i Interpolator) Scaled(p anim.Progress) int64 {
	return anim.Lerp(i.from, i.to, p)
}

// Sample formats the value at p. Completion returns the target text verbatim.
func (i Interpolator) Sample(p anim.Progress) string {
	if p >= anim.ProgressMax {
		return i.target
	}
	return fixedpoint.Format(i.Scaled(p), i.decimals)
}

// Final returns the exact target text.
func (i Interpolator) Final() string { return i.target }
