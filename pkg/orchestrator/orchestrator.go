// Package orchestrator runs the per-tick pipeline from a signal source
// through the smoother to the link.
package orchestrator

import (
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/ledlink/pkg/framework"
	"github.com/robotalks/ledlink/pkg/link"
	"github.com/robotalks/ledlink/pkg/signal"
	"github.com/robotalks/ledlink/pkg/smoother"
	"github.com/robotalks/ledlink/pkg/source"
)

// Report describes what happened in one tick.
type Report struct {
	Tick   uint64
	Raw    int
	Stable int
	// Skipped indicates the source had no signal for the tick.
	Skipped bool
	// Sent indicates Send was called.
	Sent bool
	// Delivered indicates Send succeeded.
	Delivered bool
	State     link.State
}

// Reporter receives tick reports.
type Reporter interface {
	Report(Report)
}

// ReportFunc is func form of Reporter.
type ReportFunc func(Report)

// Report implements Reporter.
func (f ReportFunc) Report(r Report) {
	f(r)
}

// Orchestrator sends the stabilized signal when it changes.
type Orchestrator struct {
	Source   source.Source
	Smoother *smoother.Smoother
	Link     link.Link
	Reporter Reporter
	// ReopenEvery attempts to reopen a link which isn't open every
	// N ticks. 0 disables reopening.
	ReopenEvery int

	lastSent  int
	tick      uint64
	downTicks int
}

// New creates an Orchestrator.
func New(src source.Source, sm *smoother.Smoother, ln link.Link) *Orchestrator {
	return &Orchestrator{
		Source:   src,
		Smoother: sm,
		Link:     ln,
		lastSent: signal.NoValue,
	}
}

// LastSent returns the last value delivered, or signal.NoValue.
func (o *Orchestrator) LastSent() int {
	return o.lastSent
}

// Reset forgets the last sent value and the smoothing history so the
// next stable value is always sent.
func (o *Orchestrator) Reset() {
	o.lastSent = signal.NoValue
	o.downTicks = 0
	o.Smoother.Reset()
}

// Tick executes one iteration: sample, smooth and at most one send.
func (o *Orchestrator) Tick(ctx context.Context) (r Report, err error) {
	o.tick++
	r.Tick = o.tick
	o.maybeReopen()

	r.Raw, err = o.Source.Sample(ctx)
	if err == source.ErrNoSignal {
		r.Skipped, r.Stable, err = true, o.Smoother.Value(), nil
		r.State = o.Link.State()
		o.report(r)
		return
	}
	if err != nil {
		return
	}

	r.Stable = o.Smoother.Push(r.Raw)
	r.State = o.Link.State()
	if r.Stable != o.lastSent && r.State.IsOpen() {
		r.Sent = true
		if r.Delivered = o.Link.Send(r.Stable); r.Delivered {
			o.lastSent = r.Stable
			glog.V(1).Infof("signal %d (raw %d)", r.Stable, r.Raw)
		}
		r.State = o.Link.State()
	}
	o.report(r)
	return
}

func (o *Orchestrator) maybeReopen() {
	if o.ReopenEvery <= 0 || o.Link.State().IsOpen() {
		o.downTicks = 0
		return
	}
	o.downTicks++
	if o.downTicks < o.ReopenEvery {
		return
	}
	o.downTicks = 0
	glog.V(1).Info("reopening link")
	if o.Link.Open() {
		// the controller may have reset, resend the current value.
		o.lastSent = signal.NoValue
	}
}

func (o *Orchestrator) report(r Report) {
	if o.Reporter != nil {
		o.Reporter.Report(r)
	}
}

// Control implements framework.Controller.
func (o *Orchestrator) Control(cc fx.ControlContext) error {
	_, err := o.Tick(cc.Context())
	switch {
	case err == io.EOF:
		glog.Info("signal source exhausted")
		return fx.ErrStop
	case err != nil && cc.Context().Err() != nil:
		return nil
	}
	return err
}

// AddToLoop implements framework.LoopAdder.
func (o *Orchestrator) AddToLoop(loop *fx.Loop) {
	loop.AddController(o)
}
