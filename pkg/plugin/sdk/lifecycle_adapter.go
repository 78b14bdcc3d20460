package sdk

import (
	"context"
)

// lifecycleAdapter adapts a LoadedPlugin to the Lifecycle interface
// This allows the LifecycleManager to manage plugin processes
type lifecycleAdapter struct {
	loaded *LoadedPlugin
}

// newLifecycleAdapter creates a new lifecycle adapter for a loaded plugin
func newLifecycleAdapter(loaded *LoadedPlugin) Lifecycle {
	return &lifecycleAdapter{
		loaded: loaded,
	}
}

// Init calls the plugin's own Init RPC, by which point the process is
// already started and its metadata already fetched during Load.
func (a *lifecycleAdapter) Init(ctx context.Context) error {
	return a.loaded.Service.Init()
}

// Start is a no-op: a stega plugin becomes operational the moment Init
// succeeds, there is no separate start phase over the wire.
func (a *lifecycleAdapter) Start(ctx context.Context) error {
	return nil
}

// Stop asks the plugin to unload gracefully, then kills its process.
func (a *lifecycleAdapter) Stop(ctx context.Context) error {
	if a.loaded.Service != nil {
		_ = a.loaded.Service.Unload()
	}
	if a.loaded.Client != nil {
		a.loaded.Client.Kill()
	}
	return nil
}

// HealthCheck verifies the plugin is responsive
func (a *lifecycleAdapter) HealthCheck() error {
	// Check that the client exists and its process has not exited;
	// no RPC is sent to the plugin
	if a.loaded.Client == nil {
		return NewLifecycleError("HealthCheck", a.loaded.Name, "plugin client is nil", nil)
	}

	if a.loaded.Client.Exited() {
		return NewLifecycleError("HealthCheck", a.loaded.Name, "plugin process has exited", nil)
	}

	// Plugin is alive - could be extended with actual RPC health check in v2
	return nil
}
