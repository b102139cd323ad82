package link

import (
	"path/filepath"
	"sort"

	"go.bug.st/serial"
)

// Enumerator lists the ports present on the system.
type Enumerator func() ([]string, error)

// DefaultEnumerator lists serial ports.
var DefaultEnumerator Enumerator = serial.GetPortsList

// Patterns are well-known controller port names in priority order.
var Patterns = []string{
	"/dev/ttyACM*",
	"/dev/ttyUSB*",
	"/dev/tty.usbmodem*",
	"/dev/cu.usbmodem*",
	"/dev/tty.usbserial*",
	"/dev/cu.usbserial*",
	"COM*",
}

// Discover filters ports by patterns and orders them by pattern priority,
// then by name.
func Discover(ports []string, patterns []string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		var matched []string
		for _, port := range ports {
			if seen[port] {
				continue
			}
			if ok, _ := filepath.Match(pattern, port); ok {
				matched = append(matched, port)
				seen[port] = true
			}
		}
		sort.Strings(matched)
		found = append(found, matched...)
	}
	return found
}
