// Package scrub implements manual rewinding through a metric's history.
//
// The machine keeps a settled history index and a fixed-point displayed index
// (index*FixedScale) that animations move between samples. It owns a single
// animation slot and a key-repeat timer; both are advanced from Tick.
package scrub

import (
	"time"

	"github.com/okian/runscope/internal/domain/anim"
	"github.com/okian/runscope/internal/domain/fixedpoint"
	"github.com/okian/runscope/internal/domain/model"
	"github.com/okian/runscope/internal/domain/series"
)

// FixedScale is the fixed-point denominator of the displayed index.
const FixedScale = series.FixedScale

// HistoricalMarker is appended to the name while viewing an older sample.
const HistoricalMarker = " (-)"

const (
	bounceOvershoot = FixedScale / 3
	wiggleAmount    = FixedScale
)

// motion holds the parameters of the in-flight animation. to is always the
// position the animation settles on.
//
//	step, exit: from -> to
//	bounce:     from -> peak -> to
//	wiggle:     to-peak -> to+peak/2 -> to
type motion struct {
	from int32
	peak int32
	to   int32
}

// Machine is the scrub state machine for one metric.
type Machine struct {
	metric  *model.Metric
	state   State
	index   int
	current int32
	motion  motion

	slot      *anim.Slot
	repeat    anim.Timer
	repeatDir int

	stepDuration   time.Duration
	wiggleDuration time.Duration
	repeatInterval time.Duration
	observer       anim.Observer
}

// New returns an inactive machine.
func New(opts ...Option) *Machine {
	m := &Machine{
		stepDuration:   DefaultStepDuration,
		wiggleDuration: DefaultWiggleDuration,
		repeatInterval: DefaultRepeatInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.slot = anim.NewSlot(anim.WithObserver(m.observer))
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Active reports whether scrub mode is on, including while exiting.
func (m *Machine) Active() bool { return m.state != Inactive }

// Settled returns the settled history index.
func (m *Machine) Settled() int { return m.index }

// DisplayedIndex returns the animated fixed-point index. It may lie outside
// the history range during a bounce.
func (m *Machine) DisplayedIndex() int32 { return m.current }

// Repeating reports whether a held direction is being repeated.
func (m *Machine) Repeating() bool { return m.repeatDir != 0 }

// Busy reports whether an animation or repeat timer is pending.
func (m *Machine) Busy() bool { return m.slot.Busy() || m.repeat.Armed() }

// Animation returns the in-flight animation or nil.
func (m *Machine) Animation() *anim.Animation { return m.slot.Active() }

// Enter starts scrubbing metric at its newest sample and plays the entry
// wiggle. It does nothing unless the machine is inactive and the metric has
// at least one sample.
func (m *Machine) Enter(now time.Time, metric *model.Metric) bool {
	if m.state != Inactive || metric == nil || !metric.HasData() {
		return false
	}
	m.metric = metric
	m.index = metric.Newest()
	m.current = int32(m.index) * FixedScale
	m.motion = motion{from: m.current, peak: wiggleAmount, to: m.current}
	m.state = Wiggling
	m.slot.Schedule(now, anim.KindWiggle, m.wiggleDuration, anim.CurveLinear)
	return true
}

// Nudge moves the settled index by direction (its sign is used). An
// in-flight animation is first snapped to its target. Stepping past either
// end bounces without changing the settled index.
func (m *Machine) Nudge(now time.Time, direction int) bool {
	if !m.state.accepting() || direction == 0 {
		return false
	}
	if direction > 0 {
		direction = 1
	} else {
		direction = -1
	}
	if m.slot.Busy() {
		m.current = m.motion.to
	}

	last := m.metric.Newest()
	target := m.index + direction
	if target < 0 || target > last {
		m.motion = motion{from: m.current, peak: -bounceOvershoot, to: 0}
		if target > last {
			m.motion.peak = int32(last)*FixedScale + bounceOvershoot
			m.motion.to = int32(last) * FixedScale
		}
		m.state = Bouncing
		m.slot.Schedule(now, anim.KindScrubBounce, m.stepDuration, anim.CurveEaseOut)
		return true
	}

	m.motion = motion{from: m.current, to: int32(target) * FixedScale}
	m.index = target
	m.state = Transitioning
	m.slot.Schedule(now, anim.KindScrubStep, m.stepDuration, anim.CurveEaseInOut)
	return true
}

// Press nudges once and starts repeating in direction until Release.
func (m *Machine) Press(now time.Time, direction int) bool {
	if !m.Nudge(now, direction) {
		return false
	}
	m.repeatDir = sign(direction)
	m.repeat.Start(now, m.repeatInterval)
	return true
}

// Hold refreshes a held direction without an extra nudge. It returns false
// when direction is not the one being repeated.
func (m *Machine) Hold(direction int) bool {
	return m.repeatDir != 0 && sign(direction) == sign(m.repeatDir)
}

// Release stops key repeat. Animations in flight are unaffected.
func (m *Machine) Release() {
	m.repeat.Stop()
	m.repeatDir = 0
}

// Exit animates back to the newest sample and then leaves scrub mode.
func (m *Machine) Exit(now time.Time) bool {
	if !m.state.accepting() {
		return false
	}
	m.Release()
	m.motion = motion{from: m.current, to: int32(m.metric.Newest()) * FixedScale}
	m.state = Exiting
	m.slot.Schedule(now, anim.KindExitScrub, 2*m.stepDuration, anim.CurveEaseOut)
	return true
}

// Toggle enters scrub mode when inactive and exits it otherwise.
func (m *Machine) Toggle(now time.Time, metric *model.Metric) bool {
	if m.state == Inactive {
		return m.Enter(now, metric)
	}
	return m.Exit(now)
}

// Cancel tears the machine down immediately: the repeat timer and any
// animation are cancelled and the machine becomes inactive.
func (m *Machine) Cancel() {
	m.Release()
	m.slot.Cancel()
	m.state = Inactive
	m.metric = nil
	m.index = 0
	m.current = 0
	m.motion = motion{}
}

// Tick fires the repeat timer and advances the animation. It reports whether
// anything visible changed.
func (m *Machine) Tick(now time.Time) bool {
	changed := false
	if m.repeat.Fire(now) && m.repeatDir != 0 && m.state.accepting() {
		m.Nudge(now, m.repeatDir)
		m.repeat.Start(now, m.repeatInterval)
		changed = true
	}

	step, ok := m.slot.Advance(now)
	if !ok {
		return changed
	}
	m.current = m.position(step.Anim.Kind, step.Linear, step.Eased)
	if step.Done {
		m.settle(step.Anim.Kind)
	}
	return true
}

func (m *Machine) position(kind anim.Kind, linear, eased anim.Progress) int32 {
	mo := m.motion
	switch kind {
	case anim.KindScrubBounce:
		half := anim.ProgressMax / 2
		if eased < half {
			return anim.Lerp32(mo.from, mo.peak, anim.Split(eased, 0, half))
		}
		return anim.Lerp32(mo.peak, mo.to, anim.Split(eased, half, anim.ProgressMax))
	case anim.KindWiggle:
		third := anim.ProgressMax / 3
		amount := int64(mo.peak)
		var offset int64
		switch {
		case linear < third:
			p := int64(anim.Split(linear, 0, third))
			offset = -p * amount / int64(anim.ProgressMax)
		case linear < 2*third:
			p := int64(anim.Split(linear, third, 2*third))
			offset = -amount + p*amount*3/2/int64(anim.ProgressMax)
		default:
			p := int64(anim.Split(linear, 2*third, anim.ProgressMax))
			start := amount / 2
			offset = start - p*start/int64(anim.ProgressMax)
		}
		return mo.to + int32(offset)
	default:
		return anim.Lerp32(mo.from, mo.to, eased)
	}
}

func (m *Machine) settle(kind anim.Kind) {
	m.current = m.motion.to
	switch kind {
	case anim.KindScrubStep:
		m.current = m.clamp(m.current)
		m.index = int(m.current / FixedScale)
		m.state = Active
	case anim.KindExitScrub:
		m.index = m.metric.Newest()
		m.state = Inactive
	default:
		m.state = Active
	}
}

func (m *Machine) clamp(fixed int32) int32 {
	if fixed < 0 {
		return 0
	}
	if hi := int32(m.metric.Newest()) * FixedScale; fixed > hi {
		return hi
	}
	return fixed
}

// ValueText formats the history value at the displayed index, interpolating
// between the bracketing samples with the precision of the metric's own
// value. When inactive it returns the authoritative value text.
func (m *Machine) ValueText() string {
	if m.metric == nil {
		return ""
	}
	if m.state == Inactive {
		return m.metric.Value
	}
	samples := m.metric.Samples()
	if len(samples) == 0 {
		return m.metric.Value
	}
	fixed := m.clamp(m.current)
	idx := int(fixed / FixedScale)
	frac := int64(fixed % FixedScale)

	var v int64
	if idx >= len(samples)-1 {
		v = samples[len(samples)-1]
	} else {
		a, b := samples[idx], samples[idx+1]
		v = a + (b-a)*frac/FixedScale
	}
	return fixedpoint.Format(v, m.metric.Scaled().Decimals)
}

// NameLabel returns the upper-cased metric name, with HistoricalMarker while
// a sample older than the newest is settled.
func (m *Machine) NameLabel() string {
	if m.metric == nil {
		return ""
	}
	name := m.metric.DisplayName()
	if m.state.accepting() && m.index < m.metric.Newest() {
		name += HistoricalMarker
	}
	return name
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
