package container

import (
	"io"
	"os"

	"go.uber.org/fx"

	"github.com/stega-cli/stega/pkg/command"
	"github.com/stega-cli/stega/pkg/dispatch"
	"github.com/stega-cli/stega/pkg/history"
	"github.com/stega-cli/stega/pkg/logging"
	"github.com/stega-cli/stega/pkg/plugin"
)

// defaultMaxHistoryEntries bounds the on-disk journal opened by
// provideHistory (WithHistoryStore replaces that store entirely).
const defaultMaxHistoryEntries = 1000

// Provider functions create and configure the framework's components.
// uber-fx calls these in dependency order.

// provideLogger creates the application logger, configured from
// environment variables (STEGA_LOG_LEVEL, STEGA_LOG_FORMAT, DEBUG).
func provideLogger() *logging.Logger {
	return logging.New(logging.FromEnv())
}

// provideWriter provides the output writer. Defaults to os.Stdout; can
// be overridden in tests with WithWriter.
func provideWriter() io.Writer {
	return os.Stdout
}

// provideRegistry creates the empty command registry every other
// component registers onto or resolves against.
func provideRegistry() *command.Registry {
	return command.NewRegistry()
}

// ContextParams groups command.Context's dependencies.
type ContextParams struct {
	fx.In

	Registry *command.Registry
	Logger   *logging.Logger
	Writer   io.Writer
}

// provideContext builds the Context actions, middleware, and lifecycle
// hooks receive, pointing its Writer at the container's own io.Writer
// (os.Stdout by default, overridable with WithWriter) rather than
// leaving Context's NewContext default in place.
func provideContext(params ContextParams) *command.Context {
	ctx := command.NewContext(params.Registry, logging.AsILogger(params.Logger), nil)
	ctx.Writer = params.Writer
	return ctx
}

// provideDispatcher creates the Dispatcher bound to the shared registry.
func provideDispatcher(registry *command.Registry) *dispatch.Dispatcher {
	return dispatch.New(registry)
}

// provideHistory opens the command history journal at its default path
// (<cwd>/.stega/history.json). WithHistoryStore replaces the store.
func provideHistory(logger *logging.Logger) (*history.Store, error) {
	path, err := history.DefaultPath()
	if err != nil {
		return nil, err
	}
	logger.Debug("opening history store", "path", path)
	return history.New(path, defaultMaxHistoryEntries)
}

// PluginManagerParams groups plugin.Manager's dependencies.
type PluginManagerParams struct {
	fx.In

	Registry *command.Registry
	Logger   *logging.Logger
}

// providePluginManager creates the plugin manager that registers and
// deregisters plugin-contributed commands on the shared registry.
func providePluginManager(params PluginManagerParams) *plugin.Manager {
	return plugin.NewManager(params.Registry, logging.AsILogger(params.Logger))
}
