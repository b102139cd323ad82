package device

// Pin is a binary output. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// Outputs is the output stage driven by the controller.
type Outputs interface {
	// SetActiveCount activates positions 0..n-1 and deactivates the rest.
	SetActiveCount(n int)
}

// Bank drives a row of pins as a bar.
type Bank struct {
	pins    []Pin
	pattern []bool
	active  int
}

// NewBank creates a Bank over pins, position 0 first.
func NewBank(pins ...Pin) *Bank {
	return &Bank{pins: pins, pattern: make([]bool, len(pins))}
}

// Len returns the number of pins.
func (b *Bank) Len() int {
	return len(b.pins)
}

// SetActiveCount implements Outputs. n is clamped to [0, Len()].
func (b *Bank) SetActiveCount(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(b.pins) {
		n = len(b.pins)
	}
	for i, pin := range b.pins {
		on := i < n
		if on {
			pin.High()
		} else {
			pin.Low()
		}
		b.pattern[i] = on
	}
	b.active = n
}

// Active returns the number of active positions.
func (b *Bank) Active() int {
	return b.active
}

// Pattern returns a copy of the applied pattern.
func (b *Bank) Pattern() []bool {
	return append([]bool(nil), b.pattern...)
}

// MemPin is an in-memory pin.
type MemPin struct {
	on      bool
	changes int
}

// High implements Pin.
func (p *MemPin) High() {
	if !p.on {
		p.changes++
	}
	p.on = true
}

// Low implements Pin.
func (p *MemPin) Low() {
	if p.on {
		p.changes++
	}
	p.on = false
}

// Get returns the pin level.
func (p *MemPin) Get() bool {
	return p.on
}

// Changes returns the number of level transitions.
func (p *MemPin) Changes() int {
	return p.changes
}

// NewMemBank creates a Bank of n MemPins and returns the pins too.
func NewMemBank(n int) (*Bank, []*MemPin) {
	mems := make([]*MemPin, n)
	pins := make([]Pin, n)
	for i := range mems {
		mems[i] = &MemPin{}
		pins[i] = mems[i]
	}
	return NewBank(pins...), mems
}
