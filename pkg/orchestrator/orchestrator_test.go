package orchestrator

import (
	"context"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/ledlink/pkg/framework"
	"github.com/robotalks/ledlink/pkg/link"
	"github.com/robotalks/ledlink/pkg/signal"
	"github.com/robotalks/ledlink/pkg/smoother"
	"github.com/robotalks/ledlink/pkg/source"
)

type fakeLink struct {
	state   link.State
	sent    []int
	fail    bool
	opens   int
	canOpen bool
}

func (l *fakeLink) Open() bool {
	l.opens++
	if l.canOpen {
		l.state = link.StateOpen
	}
	return l.canOpen
}

func (l *fakeLink) Send(v int) bool {
	if l.state != link.StateOpen {
		return false
	}
	l.sent = append(l.sent, v)
	if l.fail {
		l.state = link.StateDegraded
		return false
	}
	return true
}

func (l *fakeLink) Close()            { l.state = link.StateClosed }
func (l *fakeLink) State() link.State { return l.state }

func runTicks(t *testing.T, o *Orchestrator, n int) []Report {
	var reports []Report
	for i := 0; i < n; i++ {
		r, err := o.Tick(context.Background())
		require.NoError(t, err)
		reports = append(reports, r)
	}
	return reports
}

func TestFirstValueAlwaysSent(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen}
	o := New(source.NewSequence(0), smoother.New(1), ln)
	require.Equal(t, signal.NoValue, o.LastSent())
	runTicks(t, o, 1)
	require.Equal(t, []int{0}, ln.sent)
	require.Equal(t, 0, o.LastSent())
}

func TestDebounceByChange(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen}
	o := New(source.NewSequence(3, 3, 3, 4, 4, 2, 2, 2, 3), smoother.New(1), ln)
	reports := runTicks(t, o, 9)
	require.Equal(t, []int{3, 4, 2, 3}, ln.sent)
	var sends int
	for _, r := range reports {
		if r.Sent {
			sends++
			require.True(t, r.Delivered)
		}
	}
	require.Equal(t, 4, sends)

	_, err := o.Tick(context.Background())
	require.Equal(t, io.EOF, err)
}

func TestNeverRepeatsSameValue(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	values := make([]int, 500)
	for i := range values {
		values[i] = rnd.Intn(signal.Max + 1)
	}
	ln := &fakeLink{state: link.StateOpen}
	o := New(source.NewSequence(values...), smoother.New(3), ln)
	for _, r := range runTicks(t, o, len(values)) {
		require.True(t, signal.IsValid(r.Stable))
	}
	for i := 1; i < len(ln.sent); i++ {
		require.NotEqual(t, ln.sent[i-1], ln.sent[i])
	}
}

func TestSmoothedValueSent(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen}
	o := New(source.NewSequence(5, 0, 0, 0, 0), smoother.New(3), ln)
	runTicks(t, o, 5)
	// 5, 2.5->2, 1.67->2, 0, 0
	require.Equal(t, []int{5, 2, 0}, ln.sent)
}

func TestSkipsTicksWithoutSignal(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen}
	samples := []error{nil, source.ErrNoSignal, nil}
	n := 0
	src := source.Func(func(ctx context.Context) (int, error) {
		err := samples[n]
		n++
		return 4, err
	})
	sm := smoother.New(5)
	o := New(src, sm, ln)
	reports := runTicks(t, o, 3)
	require.True(t, reports[1].Skipped)
	require.False(t, reports[1].Sent)
	require.Equal(t, 4, reports[1].Stable)
	require.Equal(t, 2, sm.Len())
	require.Equal(t, []int{4}, ln.sent)
}

func TestNoSendWhenLinkNotOpen(t *testing.T) {
	ln := &fakeLink{state: link.StateClosed}
	o := New(source.NewSequence(1, 2, 3), smoother.New(1), ln)
	for _, r := range runTicks(t, o, 3) {
		require.False(t, r.Sent)
		require.Equal(t, link.StateClosed, r.State)
	}
	require.Empty(t, ln.sent)
	require.Equal(t, 0, ln.opens)
	require.Equal(t, signal.NoValue, o.LastSent())
}

func TestWriteFailureThenReopen(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen, fail: true}
	o := New(source.NewSequence(2, 2, 2, 2, 2, 2), smoother.New(1), ln)
	o.ReopenEvery = 2

	r := runTicks(t, o, 1)[0]
	require.True(t, r.Sent)
	require.False(t, r.Delivered)
	require.Equal(t, link.StateDegraded, r.State)
	require.Equal(t, signal.NoValue, o.LastSent())

	runTicks(t, o, 1)
	require.Equal(t, 0, ln.opens)
	runTicks(t, o, 1)
	require.Equal(t, 1, ln.opens)
	require.Equal(t, link.StateDegraded, ln.state)

	ln.fail, ln.canOpen = false, true
	runTicks(t, o, 2)
	require.Equal(t, 2, ln.opens)
	require.Equal(t, []int{2, 2}, ln.sent)
	require.Equal(t, 2, o.LastSent())

	runTicks(t, o, 1)
	require.Equal(t, []int{2, 2}, ln.sent)
}

func TestReopenResendsCurrentValue(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen, canOpen: true}
	o := New(source.NewSequence(3, 3, 3, 3), smoother.New(1), ln)
	o.ReopenEvery = 1
	runTicks(t, o, 1)
	ln.Close()
	runTicks(t, o, 1)
	require.Equal(t, 1, ln.opens)
	require.Equal(t, []int{3, 3}, ln.sent)
	runTicks(t, o, 2)
	require.Equal(t, []int{3, 3}, ln.sent)
}

func TestNullLink(t *testing.T) {
	ln := link.NewNull()
	require.True(t, ln.Open())
	o := New(source.NewSequence(1, 1, 4), smoother.New(1), ln)
	reports := runTicks(t, o, 3)
	require.True(t, reports[0].Delivered)
	require.False(t, reports[1].Sent)
	require.True(t, reports[2].Delivered)
	require.Equal(t, 4, o.LastSent())
}

func TestReset(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen}
	o := New(source.NewSequence(2, 2), smoother.New(2), ln)
	runTicks(t, o, 1)
	o.Reset()
	require.Equal(t, signal.NoValue, o.LastSent())
	require.Equal(t, 0, o.Smoother.Len())
	runTicks(t, o, 1)
	require.Equal(t, []int{2, 2}, ln.sent)
}

func TestReporter(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen}
	o := New(source.NewSequence(1, 1), smoother.New(1), ln)
	var reports []Report
	o.Reporter = ReportFunc(func(r Report) { reports = append(reports, r) })
	runTicks(t, o, 2)
	require.Len(t, reports, 2)
	require.Equal(t, uint64(1), reports[0].Tick)
	require.True(t, reports[0].Sent)
	require.Equal(t, uint64(2), reports[1].Tick)
	require.False(t, reports[1].Sent)
}

func TestLoopStopsWhenSourceExhausted(t *testing.T) {
	ln := &fakeLink{state: link.StateOpen}
	conf := NewConfig()
	conf.Smooth, conf.Interval = 1, time.Millisecond
	o := conf.New(source.NewSequence(1, 2, 3), ln)
	loop := conf.NewLoop(o)
	require.NoError(t, loop.Run(context.Background()))
	require.Equal(t, []int{1, 2, 3}, ln.sent)
}

func TestControlIgnoresCanceledSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := New(source.Func(func(ctx context.Context) (int, error) {
		return 0, ctx.Err()
	}), smoother.New(1), &fakeLink{})
	loop := fx.NewLoop().Add(o)
	require.False(t, loop.RunOnce(ctx))
}
