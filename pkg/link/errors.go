package link

import (
	"errors"
	"fmt"
)

var (
	// ErrLinkUnavailable indicates no port could be opened after all retries.
	ErrLinkUnavailable = errors.New("link unavailable")
	// ErrNoPortDetected indicates auto-discovery found no candidate port.
	ErrNoPortDetected = errors.New("no port detected")
)

// WriteError wraps the cause of a failed frame write.
type WriteError struct {
	Addr string
	Err  error
}

// Error implements error.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Addr, e.Err)
}

// Unwrap returns the cause.
func (e *WriteError) Unwrap() error {
	return e.Err
}
