// Package card implements the interaction state machine of the business
// card: hover, lift, flip and return, with choreographed animations layered
// over the spring integrator.
package card

type State uint8

const (
	Idle State = iota
	Hovered
	Lifted
	Rotating
	Returning
)

var stateNames = [...]string{"idle", "hovered", "lifted", "rotating", "returning"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Resting reports whether the card sits on its stand.
func (s State) Resting() bool { return s == Idle || s == Hovered }

// Raised reports whether the card is held up in front of the viewer.
func (s State) Raised() bool { return s == Lifted || s == Rotating }
