package frame

// MaxLineLength limits bytes buffered for a single line. Extra bytes
// are dropped until the delimiter arrives.
const MaxLineLength = 256

// LineParser accumulates bytes until a delimiter completes a line.
type LineParser struct {
	buf      []byte
	overflow bool
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	// Line is set when a complete line is received, without delimiter.
	Line []byte
	// Complete indicates Line is valid (it may be empty).
	Complete bool
	// Overflow indicates the line exceeded MaxLineLength and was truncated.
	Overflow bool
}

// Parse consumes one byte.
func (p *LineParser) Parse(b byte) (pr ParseResult) {
	if b != Delimiter {
		if len(p.buf) < MaxLineLength {
			p.buf = append(p.buf, b)
		} else {
			p.overflow = true
		}
		return
	}
	pr.Line, pr.Complete, pr.Overflow = p.buf, true, p.overflow
	p.buf, p.overflow = nil, false
	return
}

// Buffered returns the number of bytes of the incomplete line.
func (p *LineParser) Buffered() int {
	return len(p.buf)
}

// Reset drops the incomplete line.
func (p *LineParser) Reset() {
	p.buf, p.overflow = nil, false
}
