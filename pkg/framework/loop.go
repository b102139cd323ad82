package framework

import (
	"context"
	"log"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick interval when Loop.Interval is not set,
// about a camera frame.
const DefaultInterval = 33 * time.Millisecond

// Loop runs controllers sequentially on every tick, never concurrently
// with each other or themselves.
type Loop struct {
	Interval time.Duration

	controllers []Controller
	runners     []Runnable
	tick        uint64
}

type loopIteration struct {
	ctx  context.Context
	time time.Time
	tick uint64
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(ctls ...Controller) *Loop {
	l.controllers = append(l.controllers, ctls...)
	return l
}

// AddRunnable adds Runnable implementions started with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable. It returns nil when a controller returns
// ErrStop, otherwise ctx.Err() when ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)
	runner := NewRunnerWith(subCtx).Go(l.runners...)
	defer func() {
		cancel()
		if err := runner.Wait(); err != nil {
			glog.Errorf("runner error: %v", err)
		}
	}()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.RunOnce(ctx) {
				return nil
			}
		}
	}
}

// RunOrFail is intended to be used in main to run the loop until it
// stops or a signal is received.
func (l *Loop) RunOrFail() {
	if err := NewRunner().HandleSignals().Go(l).Wait(); err != nil {
		log.Fatalln(err)
	}
}

// RunOnce executes one tick immediately and reports whether a controller
// requested stop.
func (l *Loop) RunOnce(ctx context.Context) (stop bool) {
	l.tick++
	iter := &loopIteration{ctx: ctx, time: time.Now(), tick: l.tick}
	for _, ctl := range l.controllers {
		err := ctl.Control(iter)
		if err == ErrStop {
			glog.V(1).Infof("stop requested at tick %d", l.tick)
			stop = true
		} else if err != nil {
			glog.Errorf("controller error: %v", err)
		}
	}
	return
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) Tick() uint64 {
	return t.tick
}
