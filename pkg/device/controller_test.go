package device

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ledlink/pkg/signal"
)

type controllerTestEnv struct {
	out  bytes.Buffer
	bank *Bank
	pins []*MemPin
	ctl  *Controller
}

func newControllerTestEnv(t *testing.T) *controllerTestEnv {
	env := &controllerTestEnv{}
	env.bank, env.pins = NewMemBank(signal.NumOutputs)
	env.ctl = NewController(&env.out, env.bank)
	require.NoError(t, env.ctl.Start())
	require.Equal(t, "ARDUINO READY\n", env.out.String())
	env.out.Reset()
	return env
}

func (e *controllerTestEnv) feed(t *testing.T, in string) string {
	e.out.Reset()
	require.NoError(t, e.ctl.Feed([]byte(in)))
	return e.out.String()
}

func (e *controllerTestEnv) levels() []bool {
	levels := make([]bool, len(e.pins))
	for i, pin := range e.pins {
		levels[i] = pin.Get()
	}
	return levels
}

func TestControllerCommands(t *testing.T) {
	env := newControllerTestEnv(t)
	testCases := []struct {
		in      string
		reply   string
		pattern []bool
	}{
		{"3\n", "ACK: 3\n", []bool{true, true, true, false, false}},
		{"7\n", "ACK: 5\n", []bool{true, true, true, true, true}},
		{"-2\n", "ACK: 0\n", []bool{false, false, false, false, false}},
		{"2\n", "ACK: 2\n", []bool{true, true, false, false, false}},
		{"abc\n", "ERR: unknown command: abc\n", []bool{true, true, false, false, false}},
		{"  4  \n", "ACK: 4\n", []bool{true, true, true, true, false}},
		{"\r\n", "", []bool{true, true, true, true, false}},
		{"+1\r\n", "ACK: 1\n", []bool{true, false, false, false, false}},
		{"1.5\n", "ERR: unknown command: 1.5\n", []bool{true, false, false, false, false}},
		{"\tPING \n", "ERR: unknown command: PING\n", []bool{true, false, false, false, false}},
	}
	for _, tc := range testCases {
		t.Run(strings.TrimSpace(tc.in), func(t *testing.T) {
			require.Equal(t, tc.reply, env.feed(t, tc.in))
			require.Equal(t, tc.pattern, env.levels())
			require.Equal(t, tc.pattern, env.bank.Pattern())
		})
	}
}

func TestControllerRoundTrip(t *testing.T) {
	env := newControllerTestEnv(t)
	for n := 0; n <= signal.Max; n++ {
		env.feed(t, string(rune('0'+n))+"\n")
		require.Equal(t, n, env.bank.Active())
		active := 0
		for i, on := range env.levels() {
			if on {
				require.True(t, i < n, "position %d active", i)
				active++
			}
		}
		require.Equal(t, n, active)
	}
}

func TestControllerPartialLines(t *testing.T) {
	env := newControllerTestEnv(t)
	require.Equal(t, "", env.feed(t, "4"))
	require.Equal(t, 1, env.ctl.Buffered())
	require.Equal(t, 0, env.bank.Active())
	require.Equal(t, "ACK: 4\nACK: 1\n", env.feed(t, "\n1\n5"))
	require.Equal(t, 1, env.bank.Active())
	require.Equal(t, "ACK: 5\n", env.feed(t, "\n"))
}

func TestControllerOverflow(t *testing.T) {
	env := newControllerTestEnv(t)
	env.feed(t, "2\n")
	reply := env.feed(t, strings.Repeat("x", 300)+"\n")
	require.True(t, strings.HasPrefix(reply, "ERR: unknown command: xxx"))
	require.Equal(t, 2, env.bank.Active())
}

func TestControllerStartOnce(t *testing.T) {
	var out bytes.Buffer
	bank, pins := NewMemBank(signal.NumOutputs)
	pins[0].High()
	ctl := NewController(&out, bank)
	require.NoError(t, ctl.Start())
	require.False(t, pins[0].Get())
	require.NoError(t, ctl.Start())
	require.Equal(t, "ARDUINO READY\n", out.String())
}

func TestBank(t *testing.T) {
	bank, pins := NewMemBank(3)
	require.Equal(t, 3, bank.Len())
	bank.SetActiveCount(10)
	require.Equal(t, 3, bank.Active())
	bank.SetActiveCount(-1)
	require.Equal(t, 0, bank.Active())
	require.Equal(t, []bool{false, false, false}, bank.Pattern())
	require.Equal(t, 2, pins[0].Changes())

	bank, pins = NewMemBank(3)
	bank.SetActiveCount(2)
	bank.SetActiveCount(2)
	require.Equal(t, 1, pins[0].Changes())
	require.Equal(t, 1, pins[1].Changes())
	require.Equal(t, 0, pins[2].Changes())
}

type pipeReadWriter struct {
	io.Reader
	io.Writer
}

func TestControllerServe(t *testing.T) {
	hostR, devW := io.Pipe()
	devR, hostW := io.Pipe()
	bank, _ := NewMemBank(signal.NumOutputs)
	ctl := NewController(nil, bank)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- ctl.Serve(ctx, &pipeReadWriter{Reader: devR, Writer: devW})
	}()

	readLine := func() string {
		var line []byte
		buf := make([]byte, 1)
		for {
			_, err := hostR.Read(buf)
			require.NoError(t, err)
			if buf[0] == '\n' {
				return string(line)
			}
			line = append(line, buf[0])
		}
	}

	require.Equal(t, "ARDUINO READY", readLine())
	go hostW.Write([]byte("3\nab"))
	require.Equal(t, "ACK: 3", readLine())
	go hostW.Write([]byte("c\n"))
	require.Equal(t, "ERR: unknown command: abc", readLine())

	hostW.Close()
	select {
	case err := <-errCh:
		require.Equal(t, io.EOF, err)
	case <-time.After(time.Second):
		t.Fatal("serve didn't stop")
	}
	require.Equal(t, 3, bank.Active())
}
