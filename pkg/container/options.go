package container

import (
	"io"

	"go.uber.org/fx"

	"github.com/stega-cli/stega/pkg/history"
	"github.com/stega-cli/stega/pkg/logging"
)

// Option is a functional option for configuring the container.
//
// Options are typically used in tests to override default providers.
type Option = fx.Option

// WithLogger overrides the logger provider.
//
// Useful in tests to capture log output or disable logging.
//
// Example:
//
//	testLogger := logging.New(&logging.Config{Level: slog.LevelDebug})
//	c, _ := container.New(container.WithLogger(testLogger))
func WithLogger(logger *logging.Logger) Option {
	return fx.Replace(logger)
}

// WithWriter overrides the output writer.
//
// Useful in tests to capture output to a buffer.
//
// Example:
//
//	buf := &bytes.Buffer{}
//	c, _ := container.New(container.WithWriter(buf))
func WithWriter(w io.Writer) Option {
	// fx.Replace would key on w's concrete type; decorate the io.Writer
	// interface type instead.
	return fx.Decorate(func(io.Writer) io.Writer {
		return w
	})
}

// WithHistoryStore overrides the history store provider.
//
// Useful in tests to point the store at a temp-directory path, or to
// inject an in-memory store entirely.
//
// Example:
//
//	store, _ := history.New(filepath.Join(t.TempDir(), "history.json"), 100)
//	c, _ := container.New(container.WithHistoryStore(store))
func WithHistoryStore(store *history.Store) Option {
	return fx.Replace(store)
}

// WithoutLifecycle adds a no-op invoke to the container.
//
// It does not remove the container's own lifecycle hooks:
// registerLifecycleHooks is still invoked, so the OnStart and OnStop
// hooks still run.
//
// Example:
//
//	c, _ := container.New(container.WithoutLifecycle())
func WithoutLifecycle() Option {
	return fx.Options(
		fx.Invoke(func() {
			// No-op; registerLifecycleHooks is invoked regardless
		}),
	)
}
