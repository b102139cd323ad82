package source

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
)

// Scanner reads one classifier output line per sample, e.g. from stdin
// of a pipeline. Lines which don't decode yield ErrNoSignal.
type Scanner struct {
	Reader io.Reader
	Labels map[string]int

	once   sync.Once
	lineCh chan string
	err    error
}

// NewScanner creates a Scanner with ExpressionLabels.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{Reader: r, Labels: ExpressionLabels}
}

// Sample implements Source. It blocks until a line is available.
func (s *Scanner) Sample(ctx context.Context) (int, error) {
	s.once.Do(func() {
		s.lineCh = make(chan string)
		go s.scan()
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case line, ok := <-s.lineCh:
		if !ok {
			if s.err != nil {
				return 0, s.err
			}
			return 0, io.EOF
		}
		val, ok := Decode(line, s.Labels)
		if !ok {
			glog.V(1).Infof("Ignored classifier output %q", line)
			return 0, ErrNoSignal
		}
		return val, nil
	}
}

func (s *Scanner) scan() {
	defer close(s.lineCh)
	sc := bufio.NewScanner(s.Reader)
	for sc.Scan() {
		s.lineCh <- sc.Text()
	}
	s.err = sc.Err()
}
