package plugin

import "github.com/stega-cli/stega/pkg/plugin/sdk"

// PluginMetadata describes a plugin's identity and dependencies, exactly
// as its binary declares them over the Metadata RPC call.
type PluginMetadata = sdk.PluginMetadata

// PluginDependency is one plugin-name dependency a plugin declares.
// Version is validated as a semver string, but Load only ever checks
// that Name is already active — it never consults Version.
type PluginDependency = sdk.PluginDependency

// LoadOptions configures a single Load call.
type LoadOptions = sdk.LoadOptions

// CommandDef and OptionDef are the wire shapes a plugin's Describe RPC
// returns; the Manager builds real command.Command values from them.
type CommandDef = sdk.CommandDef
type OptionDef = sdk.OptionDef
