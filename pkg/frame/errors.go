package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLine indicates a line containing only whitespace.
	ErrEmptyLine = errors.New("empty line")
	// ErrUnknownReply indicates a device line which isn't a known reply.
	ErrUnknownReply = errors.New("unknown reply")
)

// SyntaxError indicates a line is not a valid integer command.
type SyntaxError struct {
	Line string
}

// Error implements error.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid command %q", e.Line)
}
