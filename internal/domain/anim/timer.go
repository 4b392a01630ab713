package anim

import "time"

// Timer is a single-shot deadline checked from frame callbacks. Re-arming it
// from the fire path makes it self-rescheduling.
type Timer struct {
	deadline time.Time
	armed    bool
}

// Start arms the timer to fire at now+d, replacing any earlier deadline.
func (t *Timer) Start(now time.Time, d time.Duration) {
	t.deadline = now.Add(d)
	t.armed = true
}

// Stop disarms the timer. It never fires afterwards unless started again.
func (t *Timer) Stop() {
	t.armed = false
	t.deadline = time.Time{}
}

// Armed reports whether the timer is pending.
func (t *Timer) Armed() bool { return t.armed }

// Fire reports true exactly once when now has reached the deadline, and
// disarms the timer.
func (t *Timer) Fire(now time.Time) bool {
	if !t.armed || now.Before(t.deadline) {
		return false
	}
	t.Stop()
	return true
}
