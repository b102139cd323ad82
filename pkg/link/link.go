// Package link provides the host side of the LED controller line protocol.
//
// A Link owns the connection to the controller. Failures are never
// returned to the caller: Open and Send report success as a bool and
// the state machine moves between Closed, Open and Degraded, so the
// control loop keeps running the same way with or without hardware.
package link

// State indicates the state of a Link.
type State int

const (
	// StateClosed means the link was never opened, failed to open or was closed.
	StateClosed State = iota
	// StateOpen means the connection is usable.
	StateOpen
	// StateDegraded means a write failed and the connection was released.
	// Sends are no-ops until a reopen succeeds.
	StateDegraded
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateDegraded:
		return "degraded"
	}
	return "closed"
}

// IsOpen indicates sends are possible.
func (s State) IsOpen() bool {
	return s == StateOpen
}

// Link sends signal values to the controller.
type Link interface {
	// Open acquires the connection. It may block for Retries x Delay.
	Open() bool
	// Send sends a value as one frame. It returns false immediately
	// when the link is not open.
	Send(value int) bool
	// Close releases the connection. It's safe to call multiple times.
	Close()
	// State returns the current state.
	State() State
}
