package link

import (
	"io"
	"net/url"
	"strings"

	"go.bug.st/serial"
	"golang.org/x/net/websocket"
)

// Port is an opened connection to the controller, either a serial port
// or a bridge carrying the same byte stream.
type Port interface {
	io.ReadWriteCloser
}

// Dialer opens a Port.
type Dialer interface {
	Dial(addr string, rate int) (Port, error)
}

// DialFunc is func type of Dialer.
type DialFunc func(addr string, rate int) (Port, error)

// Dial implements Dialer.
func (f DialFunc) Dial(addr string, rate int) (Port, error) {
	return f(addr, rate)
}

// DefaultDialer dials websocket bridges for ws:// and wss:// addresses
// and opens serial ports for anything else.
var DefaultDialer Dialer = DialFunc(Dial)

// Dial opens addr with the default strategy.
func Dial(addr string, rate int) (Port, error) {
	if IsWebsocketAddr(addr) {
		return DialWebsocket(addr)
	}
	return DialSerial(addr, rate)
}

// DialSerial opens a serial port at rate baud, 8N1.
func DialSerial(addr string, rate int) (Port, error) {
	return serial.Open(addr, &serial.Mode{
		BaudRate: rate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
}

// DialWebsocket connects a websocket serial bridge, e.g. the controller
// simulator. The rate doesn't apply.
func DialWebsocket(addr string) (Port, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	origin := "http://" + u.Host + "/"
	if u.Scheme == "wss" {
		origin = "https://" + u.Host + "/"
	}
	return websocket.Dial(addr, "", origin)
}

// IsWebsocketAddr indicates addr is a websocket URL.
func IsWebsocketAddr(addr string) bool {
	return strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://")
}
