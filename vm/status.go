package vm

import "fmt"

// State is the coarse execution state of a machine.
type State uint8

const (
	Running State = iota
	Halted        // executed STOP
	Failed        // stopped on an error, see Status.Err
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Status is a machine's state plus, when Failed, the reason.
// Err is non-nil exactly when State is Failed.
type Status struct {
	State State
	Err   error
}

// Terminal reports whether no further instructions will execute.
func (s Status) Terminal() bool {
	return s.State != Running
}

// Reason returns the failure text, or "" unless the status is Failed.
func (s Status) Reason() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func (s Status) String() string {
	if s.State == Failed {
		return fmt.Sprintf("failed: %s", s.Reason())
	}
	return s.State.String()
}
