package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopRunsControllersInOrder(t *testing.T) {
	var calls []string
	var ticks []uint64
	loop := NewLoop()
	loop.Interval = time.Millisecond
	loop.AddController(
		ControlFunc(func(cc ControlContext) error {
			calls = append(calls, "a")
			ticks = append(ticks, cc.Tick())
			return nil
		}),
		ControlFunc(func(cc ControlContext) error {
			calls = append(calls, "b")
			if cc.Tick() == 3 {
				return ErrStop
			}
			return errors.New("ignored")
		}),
	)
	require.NoError(t, loop.Run(context.Background()))
	require.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, calls)
	require.Equal(t, []uint64{1, 2, 3}, ticks)
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop()
	loop.Interval = time.Millisecond
	runnerStopped := make(chan struct{})
	loop.AddRunnable(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		close(runnerStopped)
		return ctx.Err()
	}))
	loop.AddController(ControlFunc(func(cc ControlContext) error {
		if cc.Tick() == 2 {
			cancel()
		}
		return nil
	}))
	require.Equal(t, context.Canceled, loop.Run(ctx))
	select {
	case <-runnerStopped:
	case <-time.After(time.Second):
		t.Fatal("runner not stopped")
	}
}

func TestRunnerAggregatesErrors(t *testing.T) {
	r := NewRunner().Go(
		NamedRun("ok", RunFunc(func(context.Context) error { return nil })),
		RunFunc(func(context.Context) error { return errors.New("e1") }),
		RunFunc(func(context.Context) error { return context.Canceled }),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.Len(t, agg.Errors, 1)
	require.Equal(t, "Multiple errors:\ne1", agg.Error())
	require.NoError(t, NewRunner().Wait())
}

func TestRunnerStopsOthers(t *testing.T) {
	errBroken := errors.New("broken")
	r := NewRunner().Go(
		RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
		RunFunc(func(context.Context) error { return errBroken }),
	)
	err := r.Wait()
	require.True(t, errors.Is(err, errBroken))

	r = NewRunner().Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	r.Stop()
	require.NoError(t, r.Wait())
}

func TestLoopRunOrFailReturnsOnStop(t *testing.T) {
	var ticks int
	loop := NewLoop()
	loop.Interval = time.Millisecond
	loop.AddController(ControlFunc(func(cc ControlContext) error {
		ticks++
		if ticks == 2 {
			return ErrStop
		}
		return nil
	}))
	loop.RunOrFail()
	require.Equal(t, 2, ticks)
}
