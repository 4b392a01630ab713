// Package pager drives the metric page transitions of the detail view.
//
// A scroll interpolates the value text from the outgoing to the incoming
// metric while the name and graph panels slide out in the scroll direction
// and back in from the other side. The displayed page is swapped when the
// slide-out leg ends. Scrolling past either end plays a short bounce instead.
// At most one transition is in flight; a new one replaces it at once.
package pager

import (
	"time"

	"github.com/okian/runscope/internal/domain/anim"
	"github.com/okian/runscope/internal/domain/interp"
)

// Pages is the ordered metric collection being paged through.
type Pages interface {
	Len() int
	Value(i int) string
}

// Direction is the scroll direction.
type Direction int

// Scroll directions. Previous moves panels down, Next moves them up.
const (
	Previous Direction = -1
	Next     Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	if d < 0 {
		return "previous"
	}
	return "next"
}

// Phase is the stage of the current transition.
type Phase uint8

// Transition phases.
const (
	Idle Phase = iota
	ExitingOut
	EnteringIn
	Bouncing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case ExitingOut:
		return "exiting_out"
	case EnteringIn:
		return "entering_in"
	case Bouncing:
		return "bouncing"
	default:
		return "idle"
	}
}

// Outcome reports what Scroll did.
type Outcome uint8

// Scroll outcomes.
const (
	Ignored Outcome = iota
	Scrolled
	Bounced
)

// Controller owns the page cursor and its transition animation.
type Controller struct {
	page        int
	displayPage int
	phase       Phase
	offset      int
	valueText   string
	target      string
	value       interp.Interpolator

	startOffset int
	delta       int

	slot     *anim.Slot
	duration time.Duration
	distance int
	observer anim.Observer
}

// New returns a controller on page 0.
func New(opts ...Option) *Controller {
	c := &Controller{
		duration: DefaultDuration,
		distance: DefaultSlideDistance,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.slot = anim.NewSlot(anim.WithObserver(c.observer))
	return c
}

// Reset cancels any transition and shows page 0 of pages.
func (c *Controller) Reset(pages Pages) {
	c.slot.Cancel()
	c.page = 0
	c.displayPage = 0
	c.phase = Idle
	c.offset = 0
	c.valueText = ""
	c.target = ""
	if pages != nil && pages.Len() > 0 {
		c.valueText = pages.Value(0)
		c.target = c.valueText
	}
}

// Cancel stops any transition and puts the panels home, showing the current
// page's content.
func (c *Controller) Cancel() {
	c.slot.Cancel()
	c.finish()
}

// Page returns the page the cursor is on.
func (c *Controller) Page() int { return c.page }

// DisplayPage returns the page whose name and graph are shown. It lags Page
// until the slide-out leg of a scroll ends.
func (c *Controller) DisplayPage() int { return c.displayPage }

// Phase returns the current transition phase.
func (c *Controller) Phase() Phase { return c.phase }

// Offset returns the vertical offset of the name and graph panels.
func (c *Controller) Offset() int { return c.offset }

// ValueText returns the value text to display.
func (c *Controller) ValueText() string { return c.valueText }

// Busy reports whether a transition is in flight.
func (c *Controller) Busy() bool { return c.slot.Busy() }

// Animation returns the in-flight animation or nil.
func (c *Controller) Animation() *anim.Animation { return c.slot.Active() }

// Scroll moves one page in dir, or bounces when no such page exists.
func (c *Controller) Scroll(now time.Time, pages Pages, dir Direction) Outcome {
	if pages == nil || dir == 0 {
		return Ignored
	}
	if dir > 0 {
		dir = Next
	} else {
		dir = Previous
	}

	next := c.page + int(dir)
	c.startOffset = c.offset
	if next < 0 || next >= pages.Len() {
		if c.slot.Busy() {
			c.finishContent()
		}
		c.delta = -int(dir) * c.distance / 3
		c.phase = Bouncing
		c.slot.Schedule(now, anim.KindBounce, 2*(c.duration/3), anim.CurveLinear)
		return Bounced
	}

	c.page = next
	c.target = pages.Value(next)
	c.value = interp.New(c.valueText, c.target)
	c.delta = -int(dir) * c.distance
	c.phase = ExitingOut
	c.slot.Schedule(now, anim.KindScroll, c.duration, anim.CurveLinear)
	return Scrolled
}

// Tick advances the transition and reports whether anything visible changed.
func (c *Controller) Tick(now time.Time) bool {
	step, ok := c.slot.Advance(now)
	if !ok {
		return false
	}
	half := anim.ProgressMax / 2
	p := step.Linear

	switch step.Anim.Kind {
	case anim.KindScroll:
		c.valueText = c.value.Sample(anim.CurveEaseInOut.Apply(p))
		if p < half {
			leg := anim.CurveEaseIn.Apply(anim.Split(p, 0, half))
			c.offset = int(anim.Lerp(int64(c.startOffset), int64(c.delta), leg))
			break
		}
		if c.phase == ExitingOut {
			c.phase = EnteringIn
			c.displayPage = c.page
		}
		leg := anim.CurveEaseOut.Apply(anim.Split(p, half, anim.ProgressMax))
		c.offset = int(anim.Lerp(int64(-c.delta), 0, leg))
	case anim.KindBounce:
		if p < half {
			leg := anim.CurveEaseOut.Apply(anim.Split(p, 0, half))
			c.offset = int(anim.Lerp(int64(c.startOffset), int64(c.delta), leg))
		} else {
			leg := anim.CurveEaseIn.Apply(anim.Split(p, half, anim.ProgressMax))
			c.offset = int(anim.Lerp(int64(c.delta), 0, leg))
		}
	}

	if step.Done {
		c.finish()
	}
	return true
}

func (c *Controller) finish() {
	c.finishContent()
	c.offset = 0
	c.phase = Idle
}

// finishContent shows the cursor page's authoritative content.
func (c *Controller) finishContent() {
	c.displayPage = c.page
	c.valueText = c.target
}
