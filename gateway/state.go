package gateway

import (
	"fmt"

	"workspace-chat/errors"
)

// State is the lifecycle of a session.
type State int

const (
	StateConnecting State = iota
	StateAuthenticated
	StateSubscribed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateSubscribed:
		return "subscribed"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Every state may close; otherwise a session only moves forward.
var transitions = map[State][]State{
	StateConnecting:    {StateAuthenticated, StateClosed},
	StateAuthenticated: {StateSubscribed, StateClosed},
	StateSubscribed:    {StateClosed},
}

func checkTransition(from, to State) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, from, to)
}
