package errors

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// Handler formats and displays CLIError values to a writer, per §7's
// "default logger formats each kind with a human-friendly single-line
// message" requirement. Debug mode additionally prints a stack trace.
type Handler struct {
	Writer  io.Writer
	Debug   bool
	NoColor bool
}

// DefaultHandler creates a handler reading DEBUG from the environment,
// writing to stderr.
func DefaultHandler() *Handler {
	return &Handler{
		Writer: os.Stderr,
		Debug:  debugEnabled(),
	}
}

func debugEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DEBUG")))
	return v != "" && v != "0" && v != "false" && v != "no"
}

// Handle formats err and returns the process exit code it implies.
func (h *Handler) Handle(err error) int {
	if err == nil {
		return 0
	}

	cliErr, ok := err.(*CLIError)
	if !ok {
		h.displayGeneric(err)
		return 1
	}

	h.displayError(cliErr)
	if cliErr.HasSuggestions() {
		h.displaySuggestions(cliErr.Suggestions)
	}
	if h.Debug {
		h.displayFields(cliErr.Fields)
		h.displayStack(cliErr)
	}

	if cliErr.Code > 0 {
		return cliErr.Code
	}
	return 1
}

func (h *Handler) displayError(err *CLIError) {
	label := kindLabel(err.Kind)
	if h.NoColor {
		fmt.Fprintf(h.Writer, "%s: %s\n", label, err.Message)
	} else {
		fmt.Fprintf(h.Writer, "%s: %s\n", color.RedString(label), err.Message)
	}
	if h.Debug && err.Err != nil {
		fmt.Fprintf(h.Writer, "  caused by: %v\n", err.Err)
	}
}

func (h *Handler) displayGeneric(err error) {
	if h.NoColor {
		fmt.Fprintf(h.Writer, "error: %v\n", err)
	} else {
		fmt.Fprintf(h.Writer, "%s: %v\n", color.RedString("error"), err)
	}
}

func (h *Handler) displaySuggestions(suggestions []string) {
	if h.NoColor {
		fmt.Fprintln(h.Writer, "suggestions:")
	} else {
		fmt.Fprintln(h.Writer, color.YellowString("suggestions:"))
	}
	for _, s := range suggestions {
		fmt.Fprintf(h.Writer, "  - %s\n", s)
	}
}

func (h *Handler) displayFields(fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	fmt.Fprintln(h.Writer, color.HiBlackString("fields:"))
	for k, v := range fields {
		fmt.Fprintf(h.Writer, "  %s=%v\n", k, v)
	}
}

func (h *Handler) displayStack(err *CLIError) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	fmt.Fprintln(h.Writer, color.HiBlackString("stack:"))
	for {
		frame, more := frames.Next()
		fmt.Fprintf(h.Writer, "  %s\n    %s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
}

func kindLabel(k Kind) string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// Print handles err with the default handler.
func Print(err error) int {
	return DefaultHandler().Handle(err)
}

// Exit handles err and terminates the process with the resulting code.
func Exit(err error) {
	os.Exit(Print(err))
}
