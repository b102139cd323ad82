package frame

import (
	"strconv"
	"strings"
)

// Reply prefixes and lines emitted by the device.
const (
	ReadyLine     = "ARDUINO READY"
	AckPrefix     = "ACK: "
	UnknownPrefix = "ERR: unknown command: "
)

// ReplyKind defines the kind of a device reply.
type ReplyKind int

// Reply kinds.
const (
	ReplyUnknown ReplyKind = iota
	ReplyReady
	ReplyAck
	ReplyErr
)

// String implements fmt.Stringer.
func (k ReplyKind) String() string {
	switch k {
	case ReplyReady:
		return "ready"
	case ReplyAck:
		return "ack"
	case ReplyErr:
		return "err"
	}
	return "unknown"
}

// Reply is a decoded device line.
type Reply struct {
	Kind  ReplyKind
	Value int
	Text  string
}

// Ready creates the boot reply.
func Ready() Reply {
	return Reply{Kind: ReplyReady}
}

// Ack creates an acknowledgement for an applied value.
func Ack(value int) Reply {
	return Reply{Kind: ReplyAck, Value: value}
}

// UnknownCommand creates the reply for a line that doesn't parse.
func UnknownCommand(line string) Reply {
	return Reply{Kind: ReplyErr, Text: line}
}

// String returns the reply line without delimiter.
func (r Reply) String() string {
	switch r.Kind {
	case ReplyReady:
		return ReadyLine
	case ReplyAck:
		return AckPrefix + strconv.Itoa(r.Value)
	case ReplyErr:
		return UnknownPrefix + r.Text
	}
	return r.Text
}

// Bytes returns the encoded reply line including delimiter.
func (r Reply) Bytes() []byte {
	return append([]byte(r.String()), Delimiter)
}

// ParseReply decodes a device line.
func ParseReply(line string) (Reply, error) {
	s := Trim(line)
	switch {
	case s == "":
		return Reply{}, ErrEmptyLine
	case s == ReadyLine:
		return Ready(), nil
	case strings.HasPrefix(s, Trim(UnknownPrefix)):
		return UnknownCommand(strings.TrimLeft(s[len(Trim(UnknownPrefix)):], " ")), nil
	case strings.HasPrefix(s, Trim(AckPrefix)):
		val, err := ParseCommand(s[len(Trim(AckPrefix)):])
		if err != nil {
			return Reply{Kind: ReplyUnknown, Text: s}, err
		}
		return Ack(val), nil
	}
	return Reply{Kind: ReplyUnknown, Text: s}, ErrUnknownReply
}
