package plugin

import (
	"github.com/stega-cli/stega/pkg/command"
)

// NewCommand builds the "plugin" meta-command spec §6 describes as part
// of the core's own CLI surface: "plugin load --path <src> [--integrity
// <hex>]" and "plugin unload --name <name>", both wired to mgr. A host
// binary registers this the same way it registers any other command.
func NewCommand(mgr *Manager) *command.Command {
	return &command.Command{
		Name:        "plugin",
		Description: "Load and unload plugin binaries at runtime",
		Category:    "framework",
		Subcommands: []*command.Command{
			newPluginLoadCommand(mgr),
			newPluginLoadAllCommand(mgr),
			newPluginUnloadCommand(mgr),
			newPluginListCommand(mgr),
		},
	}
}

func newPluginLoadCommand(mgr *Manager) *command.Command {
	return &command.Command{
		Name:        "load",
		Description: "Load a plugin binary and register the commands it describes",
		Options: []command.Option{
			{Name: "path", Type: command.TypeString, Required: true, Description: "path to the plugin binary"},
			{Name: "integrity", Type: command.TypeString, Description: "expected hex-encoded sha256 digest of the binary"},
		},
		Action: func(ctx *command.Context, args *command.Args) error {
			path, _ := args.Flag("path")
			integrity, _ := args.Flag("integrity")

			opts := LoadOptions{}
			if s, ok := integrity.(string); ok {
				opts.Integrity = s
			}
			sourcePath, _ := path.(string)
			if err := mgr.Load(ctx, sourcePath, opts); err != nil {
				return err
			}
			if ctx.Logger != nil {
				ctx.Logger.Info("plugin loaded", "path", sourcePath)
			}
			return nil
		},
	}
}

func newPluginLoadAllCommand(mgr *Manager) *command.Command {
	return &command.Command{
		Name:        "load-all",
		Description: "Discover plugin manifests in a directory and load them in dependency order",
		Options: []command.Option{
			{Name: "dir", Type: command.TypeString, Required: true, Description: "directory to scan for <binary>.yaml manifests"},
		},
		Action: func(ctx *command.Context, args *command.Args) error {
			dir, _ := args.Flag("dir")
			dirPath, _ := dir.(string)
			if err := mgr.LoadAll(ctx, dirPath); err != nil {
				return err
			}
			if ctx.Logger != nil {
				ctx.Logger.Info("plugin batch load complete", "dir", dirPath)
			}
			return nil
		},
	}
}

func newPluginUnloadCommand(mgr *Manager) *command.Command {
	return &command.Command{
		Name:        "unload",
		Description: "Unload an active plugin and deregister its commands",
		Options: []command.Option{
			{Name: "name", Type: command.TypeString, Required: true, Description: "name of the plugin to unload"},
		},
		Action: func(ctx *command.Context, args *command.Args) error {
			name, _ := args.Flag("name")
			pluginName, _ := name.(string)
			if err := mgr.Unload(pluginName); err != nil {
				return err
			}
			if ctx.Logger != nil {
				ctx.Logger.Info("plugin unloaded", "name", pluginName)
			}
			return nil
		},
	}
}

func newPluginListCommand(mgr *Manager) *command.Command {
	return &command.Command{
		Name:        "list",
		Description: "List every active plugin",
		Action: func(ctx *command.Context, args *command.Args) error {
			for _, meta := range mgr.List() {
				if ctx.Logger != nil {
					ctx.Logger.Info("plugin", "name", meta.Name, "version", meta.Version, "description", meta.Description)
				}
			}
			return nil
		},
	}
}
