package link

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/ledlink/pkg/frame"
)

// Defaults of Serial.
const (
	DefaultRate    = frame.BaudRate
	DefaultRetries = 3
	DefaultDelay   = time.Second
	DefaultSettle  = 100 * time.Millisecond
)

// ReplyHandler is called when a reply line is received from the controller.
type ReplyHandler interface {
	HandleReply(frame.Reply)
}

// HandleReplyFunc is func type of ReplyHandler.
type HandleReplyFunc func(frame.Reply)

// HandleReply implements ReplyHandler.
func (f HandleReplyFunc) HandleReply(r frame.Reply) {
	f(r)
}

// Serial is the Link backend talking to a physical line.
type Serial struct {
	// Address of the port. Auto-discovery is used when empty.
	Address string
	// Rate is the baud rate.
	Rate int
	// Retries is the number of open attempts.
	Retries int
	// Delay between open attempts.
	Delay time.Duration
	// Settle is the pause after opening, as some boards reset on open.
	Settle time.Duration

	Dialer     Dialer
	Enumerator Enumerator
	Patterns   []string
	Handler    ReplyHandler

	state    State
	port     Port
	portAddr string
	lastErr  error
	lastAck  int
	acked    bool
	ready    bool
	lock     sync.Mutex
}

// NewSerial creates a Serial with defaults.
func NewSerial(addr string) *Serial {
	return &Serial{
		Address: addr,
		Rate:    DefaultRate,
		Retries: DefaultRetries,
		Delay:   DefaultDelay,
		Settle:  DefaultSettle,
	}
}

// State implements Link.
func (l *Serial) State() State {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.state
}

// Addr returns the address of the opened port.
func (l *Serial) Addr() string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.portAddr
}

// LastErr returns the last failure.
func (l *Serial) LastErr() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.lastErr
}

// LastAck returns the last value acknowledged by the controller.
func (l *Serial) LastAck() (int, bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.lastAck, l.acked
}

// DeviceReady indicates the controller announced readiness since open.
func (l *Serial) DeviceReady() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.ready
}

// Open implements Link.
func (l *Serial) Open() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.state == StateOpen {
		return true
	}

	retries := l.Retries
	if retries < 1 {
		retries = 1
	}
	for attempt := 1; attempt <= retries; attempt++ {
		candidates, err := l.candidates()
		if err != nil {
			l.lastErr = err
			glog.V(1).Infof("Attempt %d/%d: %v", attempt, retries, err)
		}
		for _, addr := range candidates {
			port, err := l.dialer().Dial(addr, l.rate())
			if err != nil {
				l.lastErr = err
				glog.V(1).Infof("Attempt %d/%d: could not open %s: %v", attempt, retries, addr, err)
				continue
			}
			if l.Settle > 0 {
				time.Sleep(l.Settle)
			}
			l.attach(port, addr)
			glog.Infof("Opened %s at %d", addr, l.rate())
			return true
		}
		if attempt < retries && l.Delay > 0 {
			time.Sleep(l.Delay)
		}
	}

	l.state = StateClosed
	l.lastErr = fmt.Errorf("%w after %d attempts: %v", ErrLinkUnavailable, retries, l.lastErr)
	glog.Warningf("Failed to open any port after %d attempts; continuing without serial output", retries)
	return false
}

// Send implements Link.
func (l *Serial) Send(value int) bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.state != StateOpen || l.port == nil {
		return false
	}
	if _, err := l.port.Write(frame.EncodeCommand(value)); err != nil {
		l.lastErr = &WriteError{Addr: l.portAddr, Err: err}
		glog.Warningf("Serial write failed: %v", l.lastErr)
		l.release()
		l.state = StateDegraded
		return false
	}
	glog.V(2).Infof("Sent to serial: %d", value)
	return true
}

// Close implements Link.
func (l *Serial) Close() {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.port != nil {
		glog.Infof("Closing %s", l.portAddr)
		l.release()
	}
	l.state = StateClosed
}

func (l *Serial) candidates() ([]string, error) {
	if l.Address != "" {
		return []string{l.Address}, nil
	}
	enumerate := l.Enumerator
	if enumerate == nil {
		enumerate = DefaultEnumerator
	}
	ports, err := enumerate()
	if err != nil {
		return nil, err
	}
	patterns := l.Patterns
	if patterns == nil {
		patterns = Patterns
	}
	found := Discover(ports, patterns)
	if len(found) == 0 {
		return nil, ErrNoPortDetected
	}
	glog.V(1).Infof("Detected ports: %v", found)
	return found, nil
}

func (l *Serial) dialer() Dialer {
	if l.Dialer != nil {
		return l.Dialer
	}
	return DefaultDialer
}

func (l *Serial) rate() int {
	if l.Rate > 0 {
		return l.Rate
	}
	return DefaultRate
}

func (l *Serial) attach(port Port, addr string) {
	l.port, l.portAddr, l.state = port, addr, StateOpen
	l.lastErr, l.ready = nil, false
	go l.readReplies(port)
}

func (l *Serial) release() {
	if l.port == nil {
		return
	}
	if err := l.port.Close(); err != nil {
		glog.V(1).Infof("Close %s error: %v", l.portAddr, err)
	}
	l.port = nil
}

func (l *Serial) readReplies(port Port) {
	var parser frame.LineParser
	buf := make([]byte, 64)
	for {
		n, err := port.Read(buf)
		for _, b := range buf[:n] {
			if pr := parser.Parse(b); pr.Complete {
				l.handleLine(port, string(pr.Line))
			}
		}
		if err != nil {
			glog.V(2).Infof("Reply reader stopped: %v", err)
			return
		}
	}
}

// handleLine ignores lines from a port released since they were read.
func (l *Serial) handleLine(port Port, line string) {
	reply, err := frame.ParseReply(line)
	if err == frame.ErrEmptyLine {
		return
	}
	if err != nil {
		glog.V(1).Infof("Unexpected line from controller: %q", line)
		return
	}
	l.lock.Lock()
	if l.port != port {
		l.lock.Unlock()
		glog.V(2).Infof("Dropped stale reply: %s", reply)
		return
	}
	switch reply.Kind {
	case frame.ReplyReady:
		l.ready = true
	case frame.ReplyAck:
		l.lastAck, l.acked = reply.Value, true
	}
	h := l.Handler
	l.lock.Unlock()

	switch reply.Kind {
	case frame.ReplyReady:
		glog.Info("Controller ready")
	case frame.ReplyErr:
		glog.Warningf("Controller rejected: %s", reply.Text)
	default:
		glog.V(2).Infof("Received: %s", reply)
	}
	if h != nil {
		h.HandleReply(reply)
	}
}
