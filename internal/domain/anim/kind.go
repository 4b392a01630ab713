package anim

// Kind tags what an animation drives. Owners keep kind-specific parameters
// next to the slot and dispatch on Kind when advancing.
type Kind uint8

// Animation kinds.
const (
	KindNone Kind = iota
	KindScroll
	KindBounce
	KindScrubStep
	KindScrubBounce
	KindWiggle
	KindExitScrub
)

// String returns a stable label, also used as a metrics label value.
func (k Kind) String() string {
	switch k {
	case KindScroll:
		return "scroll"
	case KindBounce:
		return "bounce"
	case KindScrubStep:
		return "scrub_step"
	case KindScrubBounce:
		return "scrub_bounce"
	case KindWiggle:
		return "wiggle"
	case KindExitScrub:
		return "exit_scrub"
	default:
		return "none"
	}
}
