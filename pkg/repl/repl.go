package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/stega-cli/stega/pkg/command"
	"github.com/stega-cli/stega/pkg/dispatch"
	"github.com/stega-cli/stega/pkg/history"
)

// REPL is the interactive shell of spec §4.7: a raw-mode line editor
// wrapping a command.Registry/dispatch.Dispatcher pair, with its own
// history.Store distinct from the one a non-interactive dispatch uses
// (spec §3 Ownership, spec §5).
type REPL struct {
	opts      Options
	callbacks Callbacks

	registry   *command.Registry
	dispatcher *dispatch.Dispatcher
	cliCtx     *command.Context
	history    *history.Store

	editor       *lineEditor
	historyIndex int // -1 == live line
	tempLine     string
	multilineBuf []string
	lines        []string // newest-first, this session's submitted lines
	debug        bool

	exitRequested bool
}

// New builds a REPL over registry/dispatcher/cliCtx, recording
// evaluated commands to store.
func New(registry *command.Registry, dispatcher *dispatch.Dispatcher, cliCtx *command.Context, store *history.Store, opts Options) *REPL {
	return &REPL{
		opts:         opts.withDefaults(),
		registry:     registry,
		dispatcher:   dispatcher,
		cliCtx:       cliCtx,
		history:      store,
		editor:       newLineEditor(),
		historyIndex: -1,
	}
}

// OnStart, OnLine, OnError, and OnExit register the four observer
// events spec §4.7 names.
func (r *REPL) OnStart(fn func())      { r.callbacks.OnStart = fn }
func (r *REPL) OnLine(fn func(string)) { r.callbacks.OnLine = fn }
func (r *REPL) OnError(fn func(error)) { r.callbacks.OnError = fn }
func (r *REPL) OnExit(fn func())       { r.callbacks.OnExit = fn }

// Run drives the REPL until exit, Ctrl-D on an empty line, an idle
// timeout, or ctx cancellation. It puts the input file descriptor into
// raw mode when it is a terminal, and always restores it on return.
func (r *REPL) Run(ctx context.Context) error {
	r.callbacks.fireStart()
	defer r.callbacks.fireExit()

	if f, ok := r.opts.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		oldState, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("repl: enter raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(f.Fd()), oldState) }()
	}

	bytesCh := make(chan byte)
	errCh := make(chan error, 1)
	go r.readLoop(bytesCh, errCh)

	r.printPrompt()

	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if r.opts.IdleTimeout > 0 {
		timer = time.NewTimer(r.opts.IdleTimeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeoutCh:
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return err
		case b := <-bytesCh:
			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.opts.IdleTimeout)
			}
			if err := r.handleByte(ctx, b, bytesCh); err != nil {
				return err
			}
			if r.exitRequested {
				return nil
			}
		}
	}
}

func (r *REPL) readLoop(bytesCh chan<- byte, errCh chan<- error) {
	buf := make([]byte, 1)
	for {
		n, err := r.opts.In.Read(buf)
		if n > 0 {
			bytesCh <- buf[0]
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

// handleByte decodes one input byte into a keyEvent — consuming
// further bytes off bytesCh for multi-byte escape sequences and UTF-8
// runes — and dispatches it.
func (r *REPL) handleByte(ctx context.Context, b byte, bytesCh <-chan byte) error {
	if b == keyEsc {
		b1, ok := recvByte(ctx, bytesCh)
		if !ok {
			return nil
		}
		b2, ok := recvByte(ctx, bytesCh)
		if !ok {
			return nil
		}
		return r.handleKey(ctx, decodeEscape(b1, b2))
	}

	rn, size := utf8.DecodeRune([]byte{b})
	if rn == utf8.RuneError && size == 1 && b >= 0x80 {
		buf := []byte{b}
		for len(buf) < 4 {
			nb, ok := recvByte(ctx, bytesCh)
			if !ok {
				break
			}
			buf = append(buf, nb)
			if decoded, sz := utf8.DecodeRune(buf); decoded != utf8.RuneError || sz > 1 {
				rn = decoded
				break
			}
		}
	}

	return r.handleKey(ctx, decodeByte(b, rn))
}

func recvByte(ctx context.Context, bytesCh <-chan byte) (byte, bool) {
	select {
	case b := <-bytesCh:
		return b, true
	case <-ctx.Done():
		return 0, false
	}
}

func (r *REPL) handleKey(ctx context.Context, ev keyEvent) error {
	switch ev.kind {
	case keyKindRune:
		r.editor.insert(ev.r)
		r.redrawLine()
	case keyKindBackspace:
		if r.editor.backspace() {
			r.redrawLine()
		}
	case keyKindLeft:
		r.editor.moveLeft()
		r.redrawLine()
	case keyKindRight:
		r.editor.moveRight()
		r.redrawLine()
	case keyKindUp:
		r.historyUp()
		r.redrawLine()
	case keyKindDown:
		r.historyDown()
		r.redrawLine()
	case keyKindTab:
		r.handleTab()
	case keyKindCtrlZ:
		r.editor.undo()
		r.redrawLine()
	case keyKindCtrlY:
		r.editor.redo()
		r.redrawLine()
	case keyKindCtrlC:
		if len(r.multilineBuf) > 0 {
			r.multilineBuf = nil
			r.editor.reset()
			fmt.Fprintln(r.opts.Out)
			r.printPrompt()
		} else {
			r.exitRequested = true
		}
	case keyKindCtrlD:
		if len(r.editor.currentLine) == 0 {
			r.exitRequested = true
		}
	case keyKindEnter:
		r.submit(ctx)
	}
	return nil
}

func (r *REPL) handleTab() {
	word, start := r.editor.currentWord()
	matches, replacement := r.complete(word)
	if len(matches) == 0 {
		return
	}
	r.editor.replaceWord(start, replacement)
	if len(matches) > 1 {
		fmt.Fprintln(r.opts.Out)
		fmt.Fprint(r.opts.Out, formatColumns(matches))
		r.printPrompt()
		return
	}
	r.redrawLine()
}

// submit flushes the current buffer: in multiline mode an empty line
// evaluates the aggregated buffer; otherwise every non-empty line
// evaluates immediately, per spec §4.7 "Multiline mode".
func (r *REPL) submit(ctx context.Context) {
	fmt.Fprintln(r.opts.Out)
	line := r.editor.String()
	r.editor.reset()
	r.historyIndex = -1
	r.tempLine = ""

	if r.opts.Multiline {
		empty := strings.TrimSpace(line) == ""
		switch {
		case empty && len(r.multilineBuf) > 0:
			full := strings.Join(r.multilineBuf, "\n")
			r.multilineBuf = nil
			r.evaluate(ctx, full)
		case empty:
			// nothing buffered, nothing to do
		default:
			r.multilineBuf = append(r.multilineBuf, line)
		}
		if !r.exitRequested {
			r.printPrompt()
		}
		return
	}

	if strings.TrimSpace(line) != "" {
		r.evaluate(ctx, line)
	}
	if !r.exitRequested {
		r.printPrompt()
	}
}
