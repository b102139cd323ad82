// Package console provides an interactive shell for testing a controller
// connection by hand.
package console

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/ledlink/pkg/link"
)

// DefaultReplyWait is how long send waits for replies.
const DefaultReplyWait = time.Second

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	ReplyWait   time.Duration

	Shell      *ishell.Shell
	Config     *link.Config
	Dialer     link.Dialer
	Enumerator link.Enumerator
	Conn       *Conn
}

const (
	shellKey         = "$shell"
	disconnectPrompt = "[closed] > "
)

var (
	evalOnly bool

	commands = []*ishell.Cmd{
		&ListCmd,
		&OpenCmd,
		&SendCmd,
		&EchoCmd,
		&CloseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// New creates a new shell.
func New(conf *link.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		ReplyWait:   DefaultReplyWait,
		Shell:       ishell.New(),
		Config:      conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(disconnectPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an open connection.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not open"))
			return
		}
		fn(c)
	}
}

func (s *Shell) enumerator() link.Enumerator {
	if s.Enumerator != nil {
		return s.Enumerator
	}
	return link.DefaultEnumerator
}

func (s *Shell) dialer() link.Dialer {
	if s.Dialer != nil {
		return s.Dialer
	}
	return link.DefaultDialer
}

// List returns all ports and the detected controller candidates.
func (s *Shell) List() (ports, detected []string, err error) {
	if ports, err = s.enumerator()(); err != nil {
		return
	}
	detected = link.Discover(ports, link.Patterns)
	return
}

// Open connects addr, or the first detected port when addr is empty.
// A rate of 0 uses the configured rate.
func (s *Shell) Open(addr string, rate int) error {
	if addr == "" {
		addr = s.Config.Address
	}
	if addr == "" {
		_, detected, err := s.List()
		if err != nil {
			return err
		}
		if len(detected) == 0 {
			return link.ErrNoPortDetected
		}
		addr = detected[0]
	}
	if rate <= 0 {
		rate = s.Config.Rate
	}
	conn, err := OpenConn(s.dialer(), addr, rate, s.Config.Retries, s.Config.Delay)
	if err != nil {
		return err
	}
	s.Close()
	s.Conn = conn
	s.setPrompt(addr + " > ")
	return nil
}

// Send writes text as a line and returns the replies within ReplyWait.
func (s *Shell) Send(text string) ([]string, error) {
	if s.Conn == nil {
		return nil, fmt.Errorf("not open")
	}
	if err := s.Conn.WriteLine(text); err != nil {
		return nil, err
	}
	return s.Conn.Collect(s.ReplyWait), nil
}

// Close closes the current connection.
func (s *Shell) Close() {
	if s.Conn != nil {
		s.Conn.Close()
		s.Conn = nil
		s.setPrompt(disconnectPrompt)
	}
}

func (s *Shell) setPrompt(prompt string) {
	if s.Shell != nil {
		s.Shell.SetPrompt(prompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func printLines(c *ishell.Context, lines []string) {
	if len(lines) == 0 {
		c.Println("(no reply)")
		return
	}
	for _, line := range lines {
		c.Println("< " + line)
	}
}

var (
	// ListCmd lists serial ports.
	ListCmd = ishell.Cmd{
		Name:    "list",
		Aliases: []string{"l"},
		Help:    "list serial ports, * marks detected controllers",
		Func: func(c *ishell.Context) {
			ports, detected, err := ShellFrom(c).List()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No ports found")
				return
			}
			marks := make(map[string]bool)
			for _, port := range detected {
				marks[port] = true
			}
			for _, port := range ports {
				if marks[port] {
					c.Println("* " + port)
				} else {
					c.Println("  " + port)
				}
			}
		},
	}

	// OpenCmd opens a port.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "[PORT [BAUD]]",
		Func: func(c *ishell.Context) {
			var addr string
			var rate int
			if len(c.Args) > 0 {
				addr = c.Args[0]
			}
			if len(c.Args) > 1 {
				val, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("invalid baud rate %q", c.Args[1]))
					return
				}
				rate = val
			}
			s := ShellFrom(c)
			if err := s.Open(addr, rate); err != nil {
				c.Err(err)
				return
			}
			c.Printf("Opened %s\n", s.Conn.Addr)
		},
	}

	// SendCmd sends a line and prints replies.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT...",
		Func: MustBeOpen(func(c *ishell.Context) {
			lines, err := ShellFrom(c).Send(strings.Join(c.Args, " "))
			if err != nil {
				c.Err(err)
				return
			}
			printLines(c, lines)
		}),
	}

	// EchoCmd prints lines received for a while.
	EchoCmd = ishell.Cmd{
		Name:    "echo",
		Aliases: []string{"e"},
		Help:    "SECONDS",
		Func: MustBeOpen(func(c *ishell.Context) {
			secs := 1.0
			if len(c.Args) > 0 {
				val, err := strconv.ParseFloat(c.Args[0], 64)
				if err != nil || val < 0 {
					c.Err(fmt.Errorf("invalid duration %q", c.Args[0]))
					return
				}
				secs = val
			}
			printLines(c, ShellFrom(c).Conn.Collect(time.Duration(secs*float64(time.Second))))
		}),
	}

	// CloseCmd closes current port.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"c"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(link.Default()).Run(flag.Args()...)
}
