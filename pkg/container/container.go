// Package container provides dependency injection using uber-fx.
//
// The container manages application dependencies and their lifecycle.
//
// Example usage:
//
//	ctx := context.Background()
//	c, err := container.New()
//	if err != nil {
//	    return err
//	}
//
//	return c.Run(ctx, func() error {
//	    // Application logic
//	    return nil
//	})
package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
)

// Container wraps uber-fx and provides lifecycle management for the application.
type Container struct {
	app *fx.App
}

// New creates a new dependency injection container with the given options.
//
// The container automatically provides:
//   - Logger (from pkg/logging)
//   - Writer (os.Stdout by default)
//   - Registry and Context (from pkg/command)
//   - Dispatcher (from pkg/dispatch)
//   - History Store (from pkg/history)
//   - Plugin Manager (from pkg/plugin)
//
// Options can be used to override default providers for testing.
//
// Example:
//
//	c, err := container.New()
//	if err != nil {
//	    return err
//	}
func New(opts ...fx.Option) (*Container, error) {
	// Merge default options with user options
	allOpts := append(
		[]fx.Option{
			// Core providers - defined in providers.go
			fx.Provide(
				// Logging (no dependencies)
				provideLogger,

				// Writer (no dependencies)
				provideWriter,

				// Registry (no dependencies)
				provideRegistry,

				// Context (depends on registry, logger)
				provideContext,

				// Dispatcher (depends on registry)
				provideDispatcher,

				// History store (depends on logger)
				provideHistory,

				// Plugin manager (depends on registry, logger)
				providePluginManager,
			),

			// Lifecycle hooks - defined in lifecycle.go
			fx.Invoke(registerLifecycleHooks),

			// Records every non-interactive dispatch into the history
			// store, per spec §3 Ownership - defined in lifecycle.go
			fx.Invoke(registerHistoryMiddleware),

			// Use NopLogger to suppress fx debug output by default
			fx.NopLogger,
		},
		opts...,
	)

	app := fx.New(allOpts...)
	if app.Err() != nil {
		return nil, fmt.Errorf("failed to create container: %w", app.Err())
	}

	return &Container{app: app}, nil
}

// Start starts the container and all managed components.
//
// This executes all OnStart hooks registered in the lifecycle.
// Components are started in dependency order.
//
// The context can be used to set a startup timeout.
func (c *Container) Start(ctx context.Context) error {
	if err := c.app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the container.
//
// This executes all OnStop hooks registered in the lifecycle.
// Components are stopped in reverse dependency order.
//
// The context can be used to set a shutdown timeout.
func (c *Container) Stop(ctx context.Context) error {
	if err := c.app.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Run executes the application function with proper lifecycle management.
//
// It starts all components, runs the provided function, and ensures
// graceful shutdown even if the function panics or returns an error.
//
// The shutdown timeout is 10 seconds.
//
// Example:
//
//	c.Run(ctx, func() error {
//	    return dispatcher.RunCommand(cliCtx, args)
//	})
func (c *Container) Run(ctx context.Context, fn func() error) error {
	// Start all components
	if err := c.Start(ctx); err != nil {
		return err
	}

	// Ensure cleanup on exit
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Safe to ignore: Container cleanup in defer, errors would be logged by Stop()
		// We're already in cleanup path, nothing useful to do with error here
		_ = c.Stop(stopCtx)
	}()

	// Run the application function
	return fn()
}

// Populate extracts dependencies from the container into the provided targets.
//
// This must be called during container creation via fx.Populate.
//
// Example:
//
//	var reg *command.Registry
//	c, _ := container.New(fx.Populate(&reg))
//	// reg is now populated
func (c *Container) Populate(targets ...interface{}) fx.Option {
	return fx.Populate(targets...)
}
