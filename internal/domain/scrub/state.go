package scrub

// State is the scrub machine's mode.
type State uint8

// Machine states.
const (
	Inactive State = iota
	Active
	Transitioning
	Bouncing
	Wiggling
	Exiting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Transitioning:
		return "transitioning"
	case Bouncing:
		return "bouncing"
	case Wiggling:
		return "wiggling"
	case Exiting:
		return "exiting"
	default:
		return "inactive"
	}
}

// accepting reports whether nudges and exit are honoured in s.
func (s State) accepting() bool {
	return s != Inactive && s != Exiting
}
