package repl

import (
	"fmt"

	"github.com/fatih/color"
)

func (r *REPL) currentPrompt() string {
	if len(r.multilineBuf) > 0 {
		return r.opts.ContinuationPrompt
	}
	return r.opts.Prompt
}

// redrawLine clears the current terminal line and repaints the prompt
// plus the live buffer, leaving the cursor at cursorPos.
func (r *REPL) redrawLine() {
	fmt.Fprint(r.opts.Out, "\r\x1b[K")

	prompt := r.currentPrompt()
	if r.opts.NoColor {
		fmt.Fprint(r.opts.Out, prompt)
	} else {
		color.New(color.FgCyan, color.Bold).Fprint(r.opts.Out, prompt)
	}

	fmt.Fprint(r.opts.Out, r.editor.String())

	trailing := len(r.editor.currentLine) - r.editor.cursorPos
	if trailing > 0 {
		fmt.Fprintf(r.opts.Out, "\x1b[%dD", trailing)
	}
}

func (r *REPL) printPrompt() {
	r.redrawLine()
}
