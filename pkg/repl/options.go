package repl

import (
	"io"
	"os"
	"time"
)

// Options configures a REPL. The zero value is usable: it reads from
// os.Stdin, writes to os.Stdout, uses a default prompt, and never times
// out.
type Options struct {
	// Prompt is shown at the start of every fresh line.
	Prompt string
	// ContinuationPrompt replaces Prompt while a multiline buffer is open.
	ContinuationPrompt string
	// IdleTimeout closes the REPL when no input arrives for this long.
	// Zero disables the timeout.
	IdleTimeout time.Duration
	// Multiline enables the multiline aggregation mode of spec §4.7: a
	// blank submitted line flushes the buffer as one command.
	Multiline bool
	// NoColor disables fatih/color styling of the prompt and help output.
	NoColor bool

	In  io.Reader
	Out io.Writer
}

const (
	defaultPrompt             = "stega> "
	defaultContinuationPrompt = "...    "
)

func (o Options) withDefaults() Options {
	if o.Prompt == "" {
		o.Prompt = defaultPrompt
	}
	if o.ContinuationPrompt == "" {
		o.ContinuationPrompt = defaultContinuationPrompt
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	return o
}

// Callbacks are the observer hooks spec §4.7 calls "events the REPL
// emits for host observers": start, line, error, exit.
type Callbacks struct {
	OnStart func()
	OnLine  func(line string)
	OnError func(err error)
	OnExit  func()
}

func (c Callbacks) fireStart() {
	if c.OnStart != nil {
		c.OnStart()
	}
}

func (c Callbacks) fireLine(line string) {
	if c.OnLine != nil {
		c.OnLine(line)
	}
}

func (c Callbacks) fireError(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

func (c Callbacks) fireExit() {
	if c.OnExit != nil {
		c.OnExit()
	}
}
