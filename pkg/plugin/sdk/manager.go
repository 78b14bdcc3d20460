package sdk

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/stega-cli/stega/pkg/command"
	cliErrors "github.com/stega-cli/stega/pkg/errors"
	"github.com/stega-cli/stega/pkg/logging"
)

// LoadOptions configures a single Load call, per spec §4.4.
type LoadOptions struct {
	// Integrity, when non-empty, is the expected hex-encoded sha256 digest
	// of the plugin binary at source. A mismatch fails with
	// IntegrityViolation before the process is ever started.
	Integrity string
}

// LoadedPlugin is one active, out-of-process plugin: its transport
// handle, the metadata it declared, and the top-level command names it
// registered under its ownership.
type LoadedPlugin struct {
	Name     string
	Path     string
	Metadata PluginMetadata
	Client   *goplugin.Client
	Service  Service
	Commands []string
}

// Manager loads, tracks, and unloads plugin binaries over go-plugin's
// net/rpc transport, registering and deregistering the commands they
// contribute on a shared command.Registry. Load and Unload are
// serialized by mu so the registry and the active set never observe a
// half-applied change, matching spec §5's rule that loads and unloads
// never interleave.
type Manager struct {
	mu        sync.Mutex
	registry  *command.Registry
	logger    logging.ILogger
	validator *Validator
	lifecycle *LifecycleManager
	active    map[string]*LoadedPlugin
}

// NewManager creates a Manager that registers plugin commands into
// registry and logs through logger.
func NewManager(registry *command.Registry, logger logging.ILogger) *Manager {
	return &Manager{
		registry:  registry,
		logger:    logger,
		validator: NewValidator(false),
		lifecycle: NewLifecycleManager(DefaultLifecycleConfig()),
		active:    make(map[string]*LoadedPlugin),
	}
}

// SetStrict toggles the validator's trusted-path and world-writable
// checks, per spec §4.4's strict-mode host option.
func (m *Manager) SetStrict(strict bool) {
	m.validator.SetStrict(strict)
}

// Load launches the binary at source as a subprocess, performs the
// net/rpc handshake, validates its declared metadata and dependencies,
// calls its Init, and registers every command it describes. Failure at
// any step rolls back everything this call did: the process is killed
// and no command from it is left registered.
func (m *Manager) Load(source string, opts LoadOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if opts.Integrity != "" {
		m.validator.SetChecksum(source, opts.Integrity)
	}
	if err := m.validator.Validate(source); err != nil {
		return cliErrors.NewIntegrityViolation(source, cliErrors.WithError(err))
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap,
		Cmd:              exec.Command(source),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           hclog.NewNullLogger(),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return fmt.Errorf("connect to plugin at %s: %w", source, err)
	}

	raw, err := rpcClient.Dispense("stega")
	if err != nil {
		client.Kill()
		return fmt.Errorf("dispense plugin at %s: %w", source, err)
	}
	svc, ok := raw.(Service)
	if !ok {
		client.Kill()
		return fmt.Errorf("plugin at %s does not implement the stega plugin service", source)
	}

	metadata, err := svc.Metadata()
	if err != nil {
		client.Kill()
		return fmt.Errorf("fetch metadata from %s: %w", source, err)
	}
	if metadata.Name == "" {
		client.Kill()
		return fmt.Errorf("plugin at %s declares an empty name", source)
	}
	if _, err := semver.NewVersion(metadata.Version); err != nil {
		client.Kill()
		return fmt.Errorf("plugin %s declares an invalid semver version %q: %w", metadata.Name, metadata.Version, err)
	}

	if _, exists := m.active[metadata.Name]; exists {
		client.Kill()
		return cliErrors.NewDuplicatePlugin(metadata.Name)
	}

	// Dependency resolution is existence-only (spec §4.4): a required
	// dependency must already be active, but its declared version range
	// is never consulted against the active plugin's actual version.
	for _, dep := range metadata.Dependencies {
		if _, active := m.active[dep.Name]; !active && !dep.Optional {
			client.Kill()
			return cliErrors.NewMissingDependency(metadata.Name, dep.Name)
		}
	}

	loaded := &LoadedPlugin{
		Name:     metadata.Name,
		Path:     source,
		Metadata: metadata,
		Client:   client,
		Service:  svc,
	}

	if err := m.lifecycle.Register(metadata.Name, newLifecycleAdapter(loaded)); err != nil {
		client.Kill()
		return err
	}

	ctx := context.Background()
	if err := m.lifecycle.InitPlugin(ctx, metadata.Name); err != nil {
		_ = m.lifecycle.StopPlugin(ctx, metadata.Name)
		_ = m.lifecycle.Unregister(metadata.Name)
		client.Kill()
		return fmt.Errorf("plugin %s failed to initialize: %w", metadata.Name, err)
	}

	defs, err := svc.Describe()
	if err != nil {
		_ = m.lifecycle.StopPlugin(ctx, metadata.Name)
		_ = m.lifecycle.Unregister(metadata.Name)
		return fmt.Errorf("plugin %s failed to describe its commands: %w", metadata.Name, err)
	}

	registered := make([]string, 0, len(defs))
	for _, def := range defs {
		cmd := m.buildCommand(loaded, def)
		if err := m.registry.Register(cmd); err != nil {
			for _, name := range registered {
				m.registry.Remove(name)
			}
			_ = m.lifecycle.StopPlugin(ctx, metadata.Name)
			_ = m.lifecycle.Unregister(metadata.Name)
			return fmt.Errorf("plugin %s: %w", metadata.Name, err)
		}
		registered = append(registered, cmd.Name)
	}

	if err := m.lifecycle.StartPlugin(ctx, metadata.Name); err != nil {
		for _, name := range registered {
			m.registry.Remove(name)
		}
		_ = m.lifecycle.StopPlugin(ctx, metadata.Name)
		_ = m.lifecycle.Unregister(metadata.Name)
		return fmt.Errorf("plugin %s failed to start: %w", metadata.Name, err)
	}

	loaded.Commands = registered
	m.active[metadata.Name] = loaded
	m.logger.Info("plugin loaded", "name", metadata.Name, "version", metadata.Version, "commands", len(registered))
	return nil
}

// Unload stops the named plugin's process and deregisters every command
// it contributed. Unloading a plugin that other active plugins declared
// as a dependency still succeeds — spec §4.4 only requires a dependency
// to be active at load time, not for the dependent's entire lifetime.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loaded, exists := m.active[name]
	if !exists {
		return cliErrors.NewUnknownPlugin(name)
	}

	for _, cmdName := range loaded.Commands {
		m.registry.Remove(cmdName)
	}

	if err := m.lifecycle.StopPlugin(context.Background(), name); err != nil {
		m.logger.Warn("plugin stop reported an error", "name", name, "error", err)
	}
	_ = m.lifecycle.Unregister(name)

	delete(m.active, name)
	m.logger.Info("plugin unloaded", "name", name)
	return nil
}

// ResolveLoadOrder topologically sorts a batch of not-yet-loaded plugin
// manifests by their declared dependencies, so a host that discovers
// several plugin sources at once (e.g. scanning a directory before
// calling Load on each) can load them dependency-first. Load itself
// never calls this — its own dependency check is existence-only against
// whatever is already active, per spec §4.4 — this is an opt-in
// convenience for batch loading.
func (m *Manager) ResolveLoadOrder(plugins map[string]PluginMetadata) ([]string, error) {
	return NewDependencyResolver(m.logger).Resolve(plugins)
}

// List returns the metadata of every active plugin, sorted by name.
func (m *Manager) List() []PluginMetadata {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]PluginMetadata, 0, len(m.active))
	for _, loaded := range m.active {
		out = append(out, loaded.Metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// buildCommand converts a plugin-declared CommandDef into a real
// command.Command whose Action forwards the call across the RPC
// boundary to the owning plugin's Invoke method, recursing into
// subcommands.
func (m *Manager) buildCommand(loaded *LoadedPlugin, def CommandDef) *command.Command {
	cmd := &command.Command{
		Name:        def.Name,
		Description: def.Description,
		Category:    def.Category,
		Aliases:     def.Aliases,
		Permissions: def.Permissions,
		Owner:       loaded.Name,
		Options:     make([]command.Option, 0, len(def.Options)),
	}
	for _, optDef := range def.Options {
		cmd.Options = append(cmd.Options, command.Option{
			Name:        optDef.Name,
			Alias:       optDef.Alias,
			Type:        command.ValueType(optDef.Type),
			Required:    optDef.Required,
			Default:     optDef.Default,
			HasDefault:  optDef.HasDefault,
			Description: optDef.Description,
		})
	}
	for _, subDef := range def.Subcommands {
		cmd.Subcommands = append(cmd.Subcommands, m.buildCommand(loaded, subDef))
	}
	if len(def.Subcommands) == 0 {
		cmd.Action = func(ctx *command.Context, args *command.Args) error {
			resp, err := loaded.Service.Invoke(InvokeRequest{
				Command:     args.Command,
				Flags:       args.Flags,
				Positionals: args.Command,
			})
			if err != nil {
				return fmt.Errorf("plugin %s: %w", loaded.Name, err)
			}
			if resp.Error != "" {
				return fmt.Errorf("plugin %s: %s", loaded.Name, resp.Error)
			}
			return nil
		}
	}
	return cmd
}
