package device

import (
	"context"
	"io"

	"github.com/robotalks/ledlink/pkg/frame"
	"github.com/robotalks/ledlink/pkg/signal"
)

// Controller parses command lines and drives the outputs.
type Controller struct {
	Out     io.Writer
	Outputs Outputs

	parser  frame.LineParser
	started bool
}

// NewController creates a Controller.
func NewController(out io.Writer, outputs Outputs) *Controller {
	return &Controller{Out: out, Outputs: outputs}
}

// Start deactivates all outputs and announces readiness. Only the first
// call has effect.
func (c *Controller) Start() error {
	if c.started {
		return nil
	}
	c.started = true
	c.Outputs.SetActiveCount(0)
	return c.reply(frame.Ready())
}

// Feed consumes received bytes. Complete lines are handled in order and
// an incomplete line stays buffered for the next call.
func (c *Controller) Feed(p []byte) error {
	for _, b := range p {
		pr := c.parser.Parse(b)
		if !pr.Complete {
			continue
		}
		line := string(pr.Line)
		if pr.Overflow {
			if err := c.reply(frame.UnknownCommand(frame.Trim(line))); err != nil {
				return err
			}
			continue
		}
		if reply, ok := c.Handle(line); ok {
			if err := c.reply(reply); err != nil {
				return err
			}
		}
	}
	return nil
}

// Handle processes one line and returns the reply, ok is false when
// there's nothing to reply.
func (c *Controller) Handle(line string) (reply frame.Reply, ok bool) {
	val, err := frame.ParseCommand(line)
	if err == frame.ErrEmptyLine {
		return
	}
	if err != nil {
		return frame.UnknownCommand(frame.Trim(line)), true
	}
	val = signal.Clamp(val)
	c.Outputs.SetActiveCount(val)
	return frame.Ack(val), true
}

// Buffered returns bytes of an incomplete line waiting for delimiter.
func (c *Controller) Buffered() int {
	return c.parser.Buffered()
}

// Serve starts the controller and processes rw until read fails or ctx
// is done.
func (c *Controller) Serve(ctx context.Context, rw io.ReadWriter) error {
	c.Out = rw
	if err := c.Start(); err != nil {
		return err
	}
	dataCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readLoop(subCtx, rw, dataCh, errCh)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case data := <-dataCh:
			if err := c.Feed(data); err != nil {
				return err
			}
		}
	}
}

func (c *Controller) reply(r frame.Reply) error {
	if c.Out == nil {
		return nil
	}
	_, err := c.Out.Write(r.Bytes())
	return err
}

func readLoop(ctx context.Context, r io.Reader, dataCh chan []byte, errCh chan error) {
	for {
		buf := make([]byte, 64)
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case dataCh <- buf[:n]:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
