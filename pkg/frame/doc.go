// Package frame implements the line protocol between the host and the
// LED controller firmware.
package frame

// The protocol is ASCII text over a peer-to-peer channel (e.g. serial
// port), one frame per line terminated by '\n'.
//
// Host to device, a signed decimal integer:
//
//	3\n
//
// Device to host:
//
//	ARDUINO READY\n                  once at boot
//	ACK: 3\n                         after a command is applied
//	ERR: unknown command: abc\n      when a line doesn't parse
//
// The device clamps values to the valid signal range, so the integer
// range is unconstrained on the wire. There is no checksum or sequence;
// a lost frame is recovered by the next changed value.
