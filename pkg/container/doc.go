// Package container provides dependency injection using uber-fx.
//
// The container wires together the framework's components — Logger,
// command.Registry, command.Context, dispatch.Dispatcher, history.Store,
// and plugin.Manager — the same way the teacher wires its Application.
//
// # Basic Usage
//
//	var (
//	    disp *dispatch.Dispatcher
//	    cctx *command.Context
//	)
//	c, err := container.New(fx.Populate(&disp, &cctx))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = c.Run(ctx, func() error {
//	    // Dependencies were extracted by fx.Populate
//	    return disp.RunCommand(cctx, os.Args[1:])
//	})
//
// # Default Providers
//
// The container automatically provides these dependencies:
//   - *logging.Logger - Structured logging
//   - io.Writer - Output writer (os.Stdout by default)
//   - *command.Registry - Command registration and resolution
//   - *command.Context - Translation, capabilities, registry access passed to actions
//   - *dispatch.Dispatcher - Parses argv and runs middleware + actions
//   - *history.Store - Persisted command history journal
//   - *plugin.Manager - Out-of-process plugin loading
//
// # Custom Providers
//
// Override default providers for testing or customization:
//
//	c, err := container.New(
//	    container.WithLogger(testLogger),
//	    container.WithHistoryStore(inMemoryStore),
//	)
//
// # Lifecycle Management
//
// The container manages startup and shutdown of all registered components:
//
//	c.Run(ctx, func() error {
//	    // All dependencies are started
//	    <-ctx.Done()
//	    // Graceful shutdown on context cancellation
//	    return nil
//	})
package container
