// Package device implements the LED controller firmware logic.
//
// The controller waits for complete lines, applies each integer command
// to a bank of outputs and replies with an acknowledgement. It is
// hardware independent: TinyGo builds bind machine pins, host builds use
// MemPin for simulation and tests.
package device
