//go:build tinygo

package device

import (
	"machine"

	"github.com/robotalks/ledlink/pkg/signal"
)

// LEDPins are the LED pins, position 0 first.
var LEDPins = [signal.NumOutputs]machine.Pin{
	machine.D2,
	machine.D3,
	machine.D4,
	machine.D5,
	machine.D6,
}

// NewMachineBank configures LEDPins as outputs and creates a Bank.
func NewMachineBank() *Bank {
	pins := make([]Pin, len(LEDPins))
	for i, pin := range LEDPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pins[i] = pin
	}
	return NewBank(pins...)
}
