package runner

import "fmt"

// State is a stage of a single run. A run starts Idle and ends in exactly
// one terminal state.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateProcessing
	StateWriting
	StateSucceeded
	StateFailedValidation
	StateFailedUnexpected
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateProcessing:
		return "processing"
	case StateWriting:
		return "writing"
	case StateSucceeded:
		return "succeeded"
	case StateFailedValidation:
		return "failed_validation"
	case StateFailedUnexpected:
		return "failed_unexpected"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailedValidation || s == StateFailedUnexpected
}

var transitions = map[State][]State{
	StateIdle:       {StateValidating, StateFailedUnexpected},
	StateValidating: {StateProcessing, StateFailedValidation, StateFailedUnexpected},
	StateProcessing: {StateWriting, StateFailedUnexpected},
	StateWriting:    {StateSucceeded, StateFailedUnexpected},
}

// CanTransition reports whether a run in state from may move to state to.
// Validation failures can only happen while validating.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// machine tracks the current state of one run.
type machine struct {
	state State
}

func (m *machine) to(next State) error {
	if !CanTransition(m.state, next) {
		return fmt.Errorf("invalid run state transition %s -> %s", m.state, next)
	}
	m.state = next
	return nil
}
