package link

import (
	"flag"
	"time"
)

// Config defines the configurations for the link.
type Config struct {
	Address string
	Rate    int
	Retries int
	Delay   time.Duration
	// NoLink selects the Null backend.
	NoLink bool
}

var defaultConfig = Config{
	Rate:    DefaultRate,
	Retries: DefaultRetries,
	Delay:   DefaultDelay,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Address, "port", defaultConfig.Address, "Serial port (e.g. /dev/ttyACM0) or ws:// bridge URL, empty for auto detection.")
	flag.IntVar(&defaultConfig.Rate, "baud", defaultConfig.Rate, "Serial baud rate.")
	flag.IntVar(&defaultConfig.Retries, "retries", defaultConfig.Retries, "Open attempts.")
	flag.DurationVar(&defaultConfig.Delay, "retry-delay", defaultConfig.Delay, "Delay between open attempts.")
	flag.BoolVar(&defaultConfig.NoLink, "noserial", defaultConfig.NoLink, "Do not open serial port.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// New creates the Link backend selected by the config.
func (c *Config) New() Link {
	if c.NoLink {
		return NewNull()
	}
	return c.NewSerial()
}

// NewSerial creates the Serial backend regardless of NoLink.
func (c *Config) NewSerial() *Serial {
	l := NewSerial(c.Address)
	l.Rate, l.Retries, l.Delay = c.Rate, c.Retries, c.Delay
	return l
}
