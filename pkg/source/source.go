// Package source provides signal sources feeding the control loop.
// The classifier producing the signal is an external process; sources
// only decode what it emits.
package source

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/robotalks/ledlink/pkg/frame"
	"github.com/robotalks/ledlink/pkg/signal"
)

// ErrNoSignal indicates there's no signal for the current tick.
var ErrNoSignal = errors.New("no signal")

// Source produces one raw signal per tick.
// It returns io.EOF when no more signals will be produced.
type Source interface {
	Sample(ctx context.Context) (int, error)
}

// Func is func form of Source.
type Func func(ctx context.Context) (int, error)

// Sample implements Source.
func (f Func) Sample(ctx context.Context) (int, error) {
	return f(ctx)
}

// ExpressionLabels maps facial expression labels to signals.
var ExpressionLabels = map[string]int{
	"frown":   1,
	"neutral": 2,
	"smile":   3,
}

// Decode converts a classifier output line to a signal. The line is
// either an integer or a label in labels, case insensitive.
func Decode(line string, labels map[string]int) (int, bool) {
	s := frame.Trim(line)
	if s == "" {
		return 0, false
	}
	if val, err := frame.ParseCommand(s); err == nil {
		return signal.Clamp(val), true
	}
	if val, ok := labels[strings.ToLower(s)]; ok {
		return signal.Clamp(val), true
	}
	return 0, false
}

// Sequence replays fixed values, then returns io.EOF.
type Sequence struct {
	Values []int
	pos    int
}

// NewSequence creates a Sequence.
func NewSequence(values ...int) *Sequence {
	return &Sequence{Values: values}
}

// Sample implements Source.
func (s *Sequence) Sample(ctx context.Context) (int, error) {
	if s.pos >= len(s.Values) {
		return 0, io.EOF
	}
	val := s.Values[s.pos]
	s.pos++
	return val, nil
}
