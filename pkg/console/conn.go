package console

import (
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/ledlink/pkg/frame"
	"github.com/robotalks/ledlink/pkg/link"
)

// Conn is a raw line connection to a controller.
type Conn struct {
	Addr string

	port  link.Port
	lines chan string
}

const lineBacklog = 64

// OpenConn dials addr up to retries times.
func OpenConn(dialer link.Dialer, addr string, rate, retries int, delay time.Duration) (*Conn, error) {
	if retries < 1 {
		retries = 1
	}
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		var port link.Port
		if port, err = dialer.Dial(addr, rate); err == nil {
			c := &Conn{Addr: addr, port: port, lines: make(chan string, lineBacklog)}
			go c.readLines()
			return c, nil
		}
		glog.V(1).Infof("Attempt %d/%d: could not open %s: %v", attempt, retries, addr, err)
		if attempt < retries && delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", link.ErrLinkUnavailable, addr, err)
}

// WriteLine writes text terminated by the delimiter.
func (c *Conn) WriteLine(text string) error {
	_, err := c.port.Write(append([]byte(text), frame.Delimiter))
	return err
}

// Collect returns the lines received until d elapses or the connection
// is closed.
func (c *Conn) Collect(d time.Duration) (lines []string) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				return
			}
			lines = append(lines, line)
		case <-timer.C:
			return
		}
	}
}

// Close closes the port.
func (c *Conn) Close() error {
	return c.port.Close()
}

func (c *Conn) readLines() {
	defer close(c.lines)
	var parser frame.LineParser
	buf := make([]byte, 64)
	for {
		n, err := c.port.Read(buf)
		for _, b := range buf[:n] {
			pr := parser.Parse(b)
			if !pr.Complete {
				continue
			}
			select {
			case c.lines <- frame.Trim(string(pr.Line)):
			default:
				glog.Warningf("%s: line dropped", c.Addr)
			}
		}
		if err != nil {
			glog.V(2).Infof("%s: reader stopped: %v", c.Addr, err)
			return
		}
	}
}
