// Package signal defines the valid signal range shared by the host
// and the LED controller firmware.
package signal

// Max is the largest valid signal value.
const Max = 5

// NumOutputs is the number of LEDs driven by the controller, one per
// signal step.
const NumOutputs = Max

// NoValue never equals a valid signal.
const NoValue = -1

// Clamp limits v to [0, Max].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > Max {
		return Max
	}
	return v
}

// IsValid indicates v is within [0, Max].
func IsValid(v int) bool {
	return v >= 0 && v <= Max
}
