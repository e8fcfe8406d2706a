package editor

import "fmt"

// State is the lifecycle phase of a Session.
type State int

const (
	// StateLoading means the persisted recipe is still being fetched.
	StateLoading State = iota
	// StateReady means the draft can be edited and saved.
	StateReady
	// StateClosed is terminal.
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsTerminal reports whether no further transitions are possible from s.
func IsTerminal(s State) bool {
	return s == StateClosed
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateLoading:
		return to == StateReady || to == StateClosed
	case StateReady:
		return to == StateClosed
	default:
		return false
	}
}

// transition moves *cur from the expected state to the next one. The
// expected prior state makes lost races observable.
func transition(cur *State, from, to State) error {
	if *cur != from {
		return fmt.Errorf("invalid transition: expected %s, got %s", from, *cur)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}
	*cur = to
	return nil
}

// Mode says how a Session was opened.
type Mode int

const (
	// ModeAdd starts from the empty draft.
	ModeAdd Mode = iota
	// ModeEdit starts from a persisted recipe.
	ModeEdit
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// CloseDecision is the outcome of RequestClose.
type CloseDecision int

const (
	// CloseNow means the draft was clean and Back has been requested.
	CloseNow CloseDecision = iota
	// ConfirmDiscard means the draft has unsaved changes; the caller must
	// ask the user and then call Discard or keep editing.
	ConfirmDiscard
)

// String implements fmt.Stringer.
func (d CloseDecision) String() string {
	if d == ConfirmDiscard {
		return "confirm_discard"
	}
	return "close_now"
}
