package request

import "fmt"

// State is the lifecycle position of a collection request.
type State string

const (
	StatePending   State = "PENDING"
	StateScheduled State = "SCHEDULED"
	StateAssigned  State = "ASSIGNED"
	StateCompleted State = "COMPLETED"
	StateCancelled State = "CANCELLED"
)

var allowedTransitions = map[State][]State{
	StatePending:   {StateScheduled, StateCancelled},
	StateScheduled: {StateAssigned, StateCompleted, StateCancelled},
	StateAssigned:  {StateCompleted},
	StateCompleted: nil,
	StateCancelled: nil,
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ErrIllegalTransition marks a rejected state move with both endpoints.
type ErrIllegalTransition struct {
	From State
	To   State
}

func (e ErrIllegalTransition) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

// Transition mutates the request state after checking the table.
func (r *Request) Transition(to State) error {
	if !CanTransition(r.State, to) {
		return ErrIllegalTransition{From: r.State, To: to}
	}
	r.State = to
	return nil
}

// Terminal reports whether the request can no longer move.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}
