// Command stega is the thin host binary for the stega-cli framework: it
// wires the dependency container (pkg/container), registers the "plugin"
// meta-command (load, load-all, unload, list) on the command registry,
// and either runs a single dispatch against os.Args
// or, invoked bare (or with --interactive), starts the REPL.
package main

import (
	"context"
	"os"

	"go.uber.org/fx"

	"github.com/stega-cli/stega/pkg/command"
	"github.com/stega-cli/stega/pkg/dispatch"
	cliErrors "github.com/stega-cli/stega/pkg/errors"
	"github.com/stega-cli/stega/pkg/history"
	"github.com/stega-cli/stega/pkg/logging"
	"github.com/stega-cli/stega/pkg/plugin"
	"github.com/stega-cli/stega/pkg/repl"

	"github.com/stega-cli/stega/pkg/container"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	var (
		registry   *command.Registry
		cliCtx     *command.Context
		dispatcher *dispatch.Dispatcher
		hist       *history.Store
		mgr        *plugin.Manager
		logger     *logging.Logger
	)

	c, err := container.New(fx.Populate(
		&registry, &cliCtx, &dispatcher, &hist, &mgr, &logger,
	))
	if err != nil {
		cliErrors.Exit(err)
		return 1
	}

	if err := registry.Register(plugin.NewCommand(mgr)); err != nil {
		cliErrors.Exit(err)
		return 1
	}

	// Capabilities are granted wholesale for the host binary: the
	// framework's permission model (spec §4.3 step 4) exists for hosts
	// that embed stega with a narrower capability set of their own.
	for _, capability := range []string{"net", "read", "write"} {
		cliCtx.Grant(capability)
	}

	ctx := context.Background()
	code := 0
	err = c.Run(ctx, func() error {
		interactive := len(argv) == 0
		for _, a := range argv {
			if a == "--interactive" {
				interactive = true
			}
		}

		if interactive {
			return runREPL(ctx, registry, dispatcher, cliCtx, logger)
		}

		if err := dispatcher.RunCommand(cliCtx, argv); err != nil {
			code = cliErrors.Print(err)
			return nil
		}
		return nil
	})
	if err != nil {
		cliErrors.Exit(err)
		return 1
	}
	return code
}

func runREPL(ctx context.Context, registry *command.Registry, dispatcher *dispatch.Dispatcher, cliCtx *command.Context, logger *logging.Logger) error {
	replPath, err := history.DefaultPath()
	if err != nil {
		return err
	}
	replHistory, err := history.New(replPath, 1000, history.WithExclude("help", "exit", "clear", "history", "debug"))
	if err != nil {
		return err
	}

	r := repl.New(registry, dispatcher, cliCtx, replHistory, repl.Options{
		IdleTimeout: 0,
	})
	r.OnError(func(err error) {
		logger.Debug("repl error", "error", err)
	})
	return r.Run(ctx)
}
