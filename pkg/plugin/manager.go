package plugin

import (
	"os"

	"github.com/stega-cli/stega/pkg/command"
	cliErrors "github.com/stega-cli/stega/pkg/errors"
	"github.com/stega-cli/stega/pkg/logging"
	"github.com/stega-cli/stega/pkg/plugin/sdk"
)

// Manager is the public facade over the out-of-process plugin runtime.
// It owns no state of its own beyond the wrapped sdk.Manager — the
// split exists so callers depend on pkg/plugin's narrow Load/Unload/List
// contract without reaching into pkg/plugin/sdk's lifecycle and security
// internals.
type Manager struct {
	inner *sdk.Manager
}

// NewManager creates a Manager that registers the commands plugins
// describe onto registry, logging through logger.
func NewManager(registry *command.Registry, logger logging.ILogger) *Manager {
	return &Manager{inner: sdk.NewManager(registry, logger)}
}

// SetStrict toggles trusted-path and world-writable enforcement on every
// subsequent Load.
func (m *Manager) SetStrict(strict bool) {
	m.inner.SetStrict(strict)
}

// Load starts the plugin binary at source, validates and initializes
// it, and registers the commands it describes. See spec §4.4 for the
// full failure taxonomy (DuplicatePlugin, MissingDependency,
// IntegrityViolation).
//
// When a sidecar manifest (source + ".yaml") is present, its declared
// capabilities are checked against ctx's granted set before the binary
// is ever started — the Metadata RPC call can't run this check, since
// it only answers once the plugin process already exists. ctx may be
// nil, in which case a manifest declaring any capability is rejected.
func (m *Manager) Load(ctx *command.Context, source string, opts LoadOptions) error {
	manifestPath := sdk.ManifestPath(source)
	if _, err := os.Stat(manifestPath); err == nil {
		manifest, err := sdk.ParseManifest(manifestPath)
		if err != nil {
			return err
		}
		for _, capability := range manifest.Spec.Capabilities.Requested {
			if ctx == nil || !ctx.HasCapability(capability) {
				return cliErrors.NewPermissionDenied(capability)
			}
		}
	}
	return m.inner.Load(source, opts)
}

// Unload stops the named plugin and deregisters its commands.
func (m *Manager) Unload(name string) error {
	return m.inner.Unload(name)
}

// List returns the metadata of every active plugin, sorted by name.
func (m *Manager) List() []PluginMetadata {
	return m.inner.List()
}

// ResolveLoadOrder topologically sorts a batch of plugin manifests by
// their declared dependencies, for hosts that want to load several
// discovered plugins dependency-first.
func (m *Manager) ResolveLoadOrder(plugins map[string]PluginMetadata) ([]string, error) {
	return m.inner.ResolveLoadOrder(plugins)
}
