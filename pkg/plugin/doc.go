// Package plugin is the public surface of the plugin lifecycle manager:
// a Manager that loads, tracks, and unloads out-of-process plugin
// binaries, registering the commands they contribute on the host's
// command.Registry.
//
// # Architecture
//
//   - Plugins run as separate OS processes, launched and supervised by
//     hashicorp/go-plugin over its net/rpc transport (see pkg/plugin/sdk).
//   - A plugin describes its commands rather than registering them
//     directly — it cannot call back into the host's in-process Registry
//     across an OS process boundary. Manager builds real command.Command
//     values from that description and tags each with the plugin's name
//     as Owner.
//   - Before a plugin binary is ever executed it is validated: must be
//     executable, must pass the strict-mode trusted-path and
//     world-writable checks when enabled, and must match an expected
//     sha256 digest when one is supplied to Load.
//
// # Quick start
//
//	mgr := plugin.NewManager(registry, logger)
//	if err := mgr.Load(ctx, "/path/to/plugin-binary", plugin.LoadOptions{}); err != nil {
//	    return err
//	}
//	defer mgr.Unload("my-plugin")
//
// See pkg/plugin/sdk for the net/rpc wire contract a plugin binary
// implements (Metadata, Describe, Init, Invoke, Unload).
package plugin
