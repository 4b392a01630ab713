package anim

import "time"

// Observer is notified about slot lifecycle events.
type Observer interface {
	Scheduled(kind Kind)
	Cancelled(kind Kind)
	Finished(kind Kind)
}

// Animation is one scheduled run of an animation of some Kind.
type Animation struct {
	Kind     Kind
	Duration time.Duration
	Curve    Curve

	startedAt time.Time
	reached   Progress
	done      bool
	cancelled bool
}

// Reached returns the last linear progress delivered by Advance. A cancelled
// animation keeps the value it had at cancellation time.
func (a *Animation) Reached() Progress { return a.reached }

// Cancelled reports whether the animation was unscheduled before finishing.
func (a *Animation) Cancelled() bool { return a.cancelled }

// Done reports whether the animation ran to completion.
func (a *Animation) Done() bool { return a.done }

// Step is the result of advancing a slot.
type Step struct {
	Anim   *Animation
	Linear Progress
	Eased  Progress
	Done   bool
}

// Slot holds at most one animation. Scheduling into an occupied slot cancels
// the previous animation synchronously; a cancelled animation is never
// advanced again.
type Slot struct {
	current  *Animation
	observer Observer
}

// SlotOption configures a Slot.
type SlotOption func(*Slot)

// WithObserver attaches an observer to the slot.
func WithObserver(o Observer) SlotOption {
	return func(s *Slot) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewSlot creates an empty slot.
func NewSlot(opts ...SlotOption) *Slot {
	s := &Slot{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule starts a new animation of kind at now and returns it together with
// the animation it displaced, if any.
func (s *Slot) Schedule(now time.Time, kind Kind, duration time.Duration, curve Curve) (started, displaced *Animation) {
	displaced = s.Cancel()
	started = &Animation{
		Kind:      kind,
		Duration:  duration,
		Curve:     curve,
		startedAt: now,
	}
	s.current = started
	if s.observer != nil {
		s.observer.Scheduled(kind)
	}
	return started, displaced
}

// Cancel unschedules the active animation, if any, and returns it.
func (s *Slot) Cancel() *Animation {
	a := s.current
	if a == nil {
		return nil
	}
	a.cancelled = true
	s.current = nil
	if s.observer != nil {
		s.observer.Cancelled(a.Kind)
	}
	return a
}

// Active returns the scheduled animation or nil.
func (s *Slot) Active() *Animation { return s.current }

// Busy reports whether an animation is scheduled.
func (s *Slot) Busy() bool { return s.current != nil }

// Advance computes progress for the active animation at now. When the
// animation reaches its end it is removed from the slot and Done is set.
// ok is false when the slot is empty.
func (s *Slot) Advance(now time.Time) (step Step, ok bool) {
	a := s.current
	if a == nil {
		return Step{}, false
	}
	linear := Normalize(now.Sub(a.startedAt), a.Duration)
	a.reached = linear
	step = Step{Anim: a, Linear: linear, Eased: a.Curve.Apply(linear)}
	if linear >= ProgressMax {
		a.done = true
		s.current = nil
		step.Done = true
		if s.observer != nil {
			s.observer.Finished(a.Kind)
		}
	}
	return step, true
}
