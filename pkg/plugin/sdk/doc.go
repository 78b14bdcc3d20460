// Package sdk implements out-of-process plugin loading over
// hashicorp/go-plugin's net/rpc transport.
//
// # Loading a plugin
//
//	mgr := sdk.NewManager(registry, logger)
//	err := mgr.Load("/path/to/plugin-binary", sdk.LoadOptions{
//	    Integrity: "a3f5...", // optional expected sha256 digest
//	})
//
// Load starts the binary as a subprocess, performs the net/rpc
// handshake, fetches its PluginMetadata, checks that every required
// dependency is already active, calls Init, and registers every command
// Describe returns onto the shared command.Registry, tagging each with
// the plugin's name as Owner. Any failure along the way kills the
// process and leaves no command registered.
//
// # Unloading
//
//	err := mgr.Unload("my-plugin")
//
// Unload deregisters the plugin's commands, asks it to Unload over RPC,
// and kills its process.
//
// # Security
//
// Validator checks a binary's permissions, trusted-path membership (in
// strict mode), checksum, and binary format before a connection is ever
// attempted. SecurityValidator and CapabilityValidator provide the
// richer manifest-based checks a host can layer on top.
//
// # Lifecycle
//
// LifecycleManager drives each plugin's Init/Start/Stop sequence and
// tracks its PluginState through StateTracker, independent of the
// command-registration bookkeeping Manager itself performs.
package sdk
