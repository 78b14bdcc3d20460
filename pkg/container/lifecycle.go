package container

import (
	"context"

	"go.uber.org/fx"

	"github.com/stega-cli/stega/pkg/dispatch"
	"github.com/stega-cli/stega/pkg/history"
	"github.com/stega-cli/stega/pkg/logging"
)

// LifecycleParams groups all components that need lifecycle management.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *logging.Logger
}

// registerLifecycleHooks registers startup and shutdown hooks for the application.
//
// This is called automatically by uber-fx when the container is created.
//
// Lifecycle hooks execute in dependency order:
//   - OnStart: from least dependent to most dependent
//   - OnStop: from most dependent to least dependent (reverse order)
//
// Currently, we only log startup and shutdown messages.
// Additional components can register their own hooks by taking fx.Lifecycle
// as a dependency in their provider functions.
func registerLifecycleHooks(params LifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Info("starting stega")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("shutting down stega")
			return nil
		},
	})
}

// registerHistoryMiddleware wires the history store's recording
// middleware onto the Dispatcher, so every non-interactive dispatch is
// journaled - distinct from the REPL's own Store instance (spec §3
// Ownership).
func registerHistoryMiddleware(dispatcher *dispatch.Dispatcher, store *history.Store) {
	dispatcher.Use(history.Middleware(store))
}
