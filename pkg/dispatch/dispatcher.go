package dispatch

import (
	"bytes"
	"strings"

	"github.com/stega-cli/stega/pkg/command"
	cliErrors "github.com/stega-cli/stega/pkg/errors"
	"github.com/stega-cli/stega/pkg/parser"
)

// Middleware is a framework-level interceptor running around every
// dispatch in registration order (spec §4.3 "Middleware model"). It
// either calls next (falling through to the rest of the chain) or
// returns without calling it, short-circuiting the dispatch.
type Middleware func(ctx *command.Context, args *command.Args, next func() error) error

// Dispatcher implements runCommand: parse -> resolve -> permission-check
// -> defaults -> required-check -> validators -> middleware -> lifecycle.
type Dispatcher struct {
	registry   *command.Registry
	middleware []Middleware
}

// New creates a Dispatcher over registry.
func New(registry *command.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Use appends mw to the middleware chain, which runs in registration order.
func (d *Dispatcher) Use(mw Middleware) {
	d.middleware = append(d.middleware, mw)
}

// RunCommand executes spec §4.3's algorithm against argv.
func (d *Dispatcher) RunCommand(ctx *command.Context, argv []string) error {
	args, err := parser.Parse(argv, d.registry)
	if err != nil {
		return err
	}

	resolved, resolvedPath, err := resolve(d.registry, args.Command)
	if err != nil {
		return err
	}
	args.Command = resolvedPath

	if err := checkPermissions(ctx, resolved); err != nil {
		return err
	}

	applyDefaults(resolved, args)

	if err := checkRequired(resolved, args); err != nil {
		return err
	}

	if err := runValidators(resolved, args); err != nil {
		return err
	}

	return d.runMiddlewareChain(ctx, args, func() error {
		return runLifecycle(ctx, resolved, args)
	})
}

// RunCommandCapture runs argv through the same algorithm as RunCommand,
// but points the resolved command's Context at an in-memory buffer
// instead of ctx's own Writer, with input available to the Action as
// its Context.Input. This is the stdout-capture surface the Pipeline
// Evaluator (spec §4.6) needs: a non-`.`-prefixed pipeline stage is run
// through RunCommandCapture, and its returned output becomes the next
// stage's input, exactly as a dispatched command's real stdout would.
func (d *Dispatcher) RunCommandCapture(ctx *command.Context, argv []string, input string) (string, error) {
	var buf bytes.Buffer
	captureCtx := ctx.WithIO(&buf, strings.NewReader(input))
	err := d.RunCommand(captureCtx, argv)
	return buf.String(), err
}

func (d *Dispatcher) runMiddlewareChain(ctx *command.Context, args *command.Args, final func() error) error {
	var invoke func(i int) error
	invoke = func(i int) error {
		if i >= len(d.middleware) {
			return final()
		}
		return d.middleware[i](ctx, args, func() error { return invoke(i + 1) })
	}
	return invoke(0)
}

func checkPermissions(ctx *command.Context, resolved *command.Command) error {
	for _, capability := range resolved.Permissions {
		if !ctx.HasCapability(capability) {
			return cliErrors.NewPermissionDenied(capability)
		}
	}
	return nil
}

func applyDefaults(resolved *command.Command, args *command.Args) {
	for _, opt := range resolved.Options {
		if !opt.HasDefault {
			continue
		}
		if _, present := flagPresent(args, opt); present {
			continue
		}
		args.SetFlag(opt.Name, opt.Default)
	}
}

func checkRequired(resolved *command.Command, args *command.Args) error {
	for _, opt := range resolved.Options {
		if !opt.Required {
			continue
		}
		if _, present := flagPresent(args, opt); !present {
			return cliErrors.NewMissingFlag(opt.Name, string(opt.Type))
		}
	}
	return nil
}

// flagPresent reports whether opt has a value in args.Flags, keyed by
// either its name or the alias the caller typed.
func flagPresent(args *command.Args, opt command.Option) (any, bool) {
	if v, ok := args.Flag(opt.Name); ok {
		return v, true
	}
	if opt.Alias != "" {
		if v, ok := args.Flag(opt.Alias); ok {
			return v, true
		}
	}
	return nil, false
}

func runValidators(resolved *command.Command, args *command.Args) error {
	for _, opt := range resolved.Options {
		if opt.Validate == nil {
			continue
		}
		value, present := flagPresent(args, opt)
		if !present {
			continue
		}
		if err := opt.Validate(value); err != nil {
			return cliErrors.NewValidationFailed(opt.Name, err.Error())
		}
	}

	for name, validate := range resolved.Validation.Flags {
		value, ok := args.Flag(name)
		if !ok {
			continue
		}
		if err := validate(value); err != nil {
			return cliErrors.NewValidationFailed(name, err.Error())
		}
	}

	if resolved.Validation.Positionals != nil {
		if err := resolved.Validation.Positionals(args.Command); err != nil {
			return cliErrors.NewValidationFailed("positionals", err.Error())
		}
	}

	for _, validate := range resolved.Validation.CrossCutting {
		if err := validate(args); err != nil {
			return cliErrors.NewValidationFailed("args", err.Error())
		}
	}

	return nil
}

// runLifecycle executes beforeExecute -> action -> afterExecute, per spec
// §4.3 step 9. cleanup always runs if declared; onError runs iff the
// action or a prior hook raised, and its own error (if any) replaces the
// original.
func runLifecycle(ctx *command.Context, resolved *command.Command, args *command.Args) error {
	runErr := func() error {
		if resolved.Lifecycle.BeforeExecute != nil {
			if err := resolved.Lifecycle.BeforeExecute(ctx, args); err != nil {
				return err
			}
		}
		if resolved.Action != nil {
			if err := resolved.Action(ctx, args); err != nil {
				return err
			}
		}
		if resolved.Lifecycle.AfterExecute != nil {
			if err := resolved.Lifecycle.AfterExecute(ctx, args); err != nil {
				return err
			}
		}
		return nil
	}()

	if runErr != nil && resolved.Lifecycle.OnError != nil {
		runErr = resolved.Lifecycle.OnError(ctx, args, runErr)
	}

	if resolved.Lifecycle.Cleanup != nil {
		if cleanupErr := resolved.Lifecycle.Cleanup(ctx, args); cleanupErr != nil && ctx.Logger != nil {
			ctx.Logger.Warn("cleanup hook failed", "command", resolved.Name, "error", cleanupErr)
		}
	}

	return runErr
}
