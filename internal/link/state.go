package link

import (
	"time"

	"github.com/rileyhilliard/hazmon/internal/telemetry"
)

// State is the connection state of the manager.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

// String returns a human-readable state.
func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Event is delivered on Manager.Events. It is either a StateEvent or a
// MessageEvent.
type Event interface {
	event()
}

// StateEvent reports a connection state transition.
type StateEvent struct {
	State State

	// Attempt is the 1-based dial attempt this transition belongs to.
	Attempt int

	// Err is why the connection went away (Disconnected only). Nil when the
	// manager was shut down.
	Err error

	// RetryIn is the delay before the next attempt (Disconnected only).
	// Zero when no retry is scheduled because the manager is stopping.
	RetryIn time.Duration

	Time time.Time
}

// MessageEvent carries the messages decoded from one frame.
type MessageEvent struct {
	Messages []telemetry.Message
	Time     time.Time
}

func (StateEvent) event()   {}
func (MessageEvent) event() {}
