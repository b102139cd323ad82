package frame

import (
	"strconv"
	"strings"
)

// Delimiter terminates every frame.
const Delimiter = '\n'

// BaudRate is the serial rate both sides default to.
const BaudRate = 9600

// whitespace insignificant around a frame.
const whitespace = " \t\r\n"

// saturation bound for parsed integers, far outside any valid signal.
const maxMagnitude = 1 << 30

// Trim removes leading/trailing space, tab, CR and LF.
func Trim(s string) string {
	return strings.Trim(s, whitespace)
}

// EncodeCommand encodes a value as a command frame.
func EncodeCommand(value int) []byte {
	return AppendCommand(make([]byte, 0, 8), value)
}

// AppendCommand appends the command frame of value to buf.
func AppendCommand(buf []byte, value int) []byte {
	buf = strconv.AppendInt(buf, int64(value), 10)
	return append(buf, Delimiter)
}

// ParseCommand parses a line in the grammar [+-]?digit+ after trimming
// whitespace. Magnitudes beyond 2^30 saturate, the receiver clamps
// anyway.
func ParseCommand(line string) (int, error) {
	s := Trim(line)
	if s == "" {
		return 0, ErrEmptyLine
	}
	neg, digits := false, s
	switch s[0] {
	case '-':
		neg, digits = true, s[1:]
	case '+':
		digits = s[1:]
	}
	if digits == "" {
		return 0, &SyntaxError{Line: s}
	}
	val := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, &SyntaxError{Line: s}
		}
		d := int(c - '0')
		if val > (maxMagnitude-d)/10 {
			val = maxMagnitude
		} else {
			val = val*10 + d
		}
	}
	if neg {
		val = -val
	}
	return val, nil
}
