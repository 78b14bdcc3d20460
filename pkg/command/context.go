package command

import (
	"fmt"
	"io"
	"os"

	"github.com/stega-cli/stega/pkg/logging"
)

// Translator resolves a localization key (with optional template
// variables) to display text. The framework ships no catalog — a host
// supplies one, or Context falls back to printing the key.
type Translator func(key string, vars map[string]any) string

// Context is the framework-instance handle actions, middleware, and
// lifecycle hooks receive alongside Args — replacing the "cli" backref
// spec §3 attaches to Args, per Design Note §9, to avoid a cyclic
// Args<->owner reference.
//
// Writer and Input are the stdout/stdin an Action reads and writes
// through, rather than reaching for os.Stdout/os.Stdin directly. This is
// what lets the Dispatcher capture a dispatched command's output for the
// Pipeline Evaluator (spec §4.6): Dispatcher.RunCommandCapture hands an
// Action a Context pointed at an in-memory buffer instead of the real
// terminal.
type Context struct {
	registry     *Registry
	Logger       logging.ILogger
	Writer       io.Writer
	Input        io.Reader
	translate    Translator
	capabilities map[string]bool
}

// NewContext builds a Context over registry, with an optional logger and
// translator. Writer defaults to os.Stdout and Input to os.Stdin; a host
// may override them directly or via WithIO. Granted capabilities are set
// with Grant.
func NewContext(registry *Registry, logger logging.ILogger, translate Translator) *Context {
	if translate == nil {
		translate = defaultTranslate
	}
	return &Context{
		registry:     registry,
		Logger:       logger,
		Writer:       os.Stdout,
		Input:        os.Stdin,
		translate:    translate,
		capabilities: make(map[string]bool),
	}
}

// WithIO returns a shallow copy of c with Writer and Input replaced.
// The registry, logger, translator, and granted capabilities are shared
// with c — only where an Action's output/input go changes. Used by
// Dispatcher.RunCommandCapture to thread a pipeline stage's output into
// the next stage's input without affecting the caller's own Context.
func (c *Context) WithIO(w io.Writer, r io.Reader) *Context {
	cp := *c
	cp.Writer = w
	cp.Input = r
	return &cp
}

func defaultTranslate(key string, vars map[string]any) string {
	if len(vars) == 0 {
		return key
	}
	return fmt.Sprintf("%s %v", key, vars)
}

// Register adds cmd to the owning Registry.
func (c *Context) Register(cmd *Command) error {
	return c.registry.Register(cmd)
}

// Registry returns the framework's command registry.
func (c *Context) Registry() *Registry {
	return c.registry
}

// T resolves key via the configured Translator.
func (c *Context) T(key string, vars map[string]any) string {
	return c.translate(key, vars)
}

// Grant adds capability to the set the host environment has granted.
func (c *Context) Grant(capability string) {
	c.capabilities[capability] = true
}

// HasCapability reports whether capability was granted.
func (c *Context) HasCapability(capability string) bool {
	return c.capabilities[capability]
}
