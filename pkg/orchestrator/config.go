package orchestrator

import (
	"flag"
	"time"

	fx "github.com/robotalks/ledlink/pkg/framework"
	"github.com/robotalks/ledlink/pkg/link"
	"github.com/robotalks/ledlink/pkg/smoother"
	"github.com/robotalks/ledlink/pkg/source"
)

// Config defines the configurations for the orchestrator.
type Config struct {
	Smooth      int
	Interval    time.Duration
	ReopenTicks int
}

var defaultConfig = Config{
	Smooth:   smoother.DefaultSize,
	Interval: fx.DefaultInterval,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Smooth, "smooth", defaultConfig.Smooth, "Number of frames to smooth over.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Sampling interval.")
	flag.IntVar(&defaultConfig.ReopenTicks, "reopen-ticks", defaultConfig.ReopenTicks, "Ticks between reopen attempts of a lost link, 0 to disable.")
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

// New creates an Orchestrator using the config.
func (c *Config) New(src source.Source, ln link.Link) *Orchestrator {
	o := New(src, smoother.New(c.Smooth), ln)
	o.ReopenEvery = c.ReopenTicks
	return o
}

// NewLoop creates a Loop running the orchestrator at Interval.
func (c *Config) NewLoop(o *Orchestrator) *fx.Loop {
	loop := fx.NewLoop()
	loop.Interval = c.Interval
	return loop.Add(o)
}
