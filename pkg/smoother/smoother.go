// Package smoother stabilizes a noisy per-frame signal with a rolling mean.
//
// The mean of the window is rounded half to even, so a window of {2, 3}
// yields 2 and {3, 4} yields 4 regardless of platform, then clamped to
// the valid signal range.
package smoother

import (
	"math"

	"github.com/robotalks/ledlink/pkg/signal"
)

// DefaultSize is the default window size.
const DefaultSize = 5

// rawLimit bounds the magnitude of a stored raw value so the running
// sum can't wrap.
const rawLimit = 1 << 30

// Smoother keeps the last Size raw values.
type Smoother struct {
	window []int
	head   int
	count  int
	sum    int64
}

// New creates a Smoother with window size w. w < 1 is treated as 1.
func New(w int) *Smoother {
	if w < 1 {
		w = 1
	}
	return &Smoother{window: make([]int, w)}
}

// Size returns the window capacity.
func (s *Smoother) Size() int {
	return len(s.window)
}

// Len returns the number of values currently in the window.
func (s *Smoother) Len() int {
	return s.count
}

// Push appends a raw value, evicting the oldest one when the window
// is full, and returns the stabilized value. Raw values beyond 2^30
// saturate.
func (s *Smoother) Push(raw int) int {
	if raw > rawLimit {
		raw = rawLimit
	} else if raw < -rawLimit {
		raw = -rawLimit
	}
	if s.count == len(s.window) {
		s.sum -= int64(s.window[s.head])
	} else {
		s.count++
	}
	s.window[s.head] = raw
	s.sum += int64(raw)
	s.head = (s.head + 1) % len(s.window)
	return s.Value()
}

// Value computes the stabilized value from current window contents.
// An empty window yields 0.
func (s *Smoother) Value() int {
	if s.count == 0 {
		return 0
	}
	mean := math.RoundToEven(float64(s.sum) / float64(s.count))
	if mean > signal.Max {
		return signal.Max
	}
	return signal.Clamp(int(mean))
}

// Values returns window contents, oldest first.
func (s *Smoother) Values() []int {
	vals := make([]int, 0, s.count)
	start := s.head - s.count
	if start < 0 {
		start += len(s.window)
	}
	for i := 0; i < s.count; i++ {
		vals = append(vals, s.window[(start+i)%len(s.window)])
	}
	return vals
}

// Reset clears the window.
func (s *Smoother) Reset() {
	s.head, s.count, s.sum = 0, 0, 0
}
