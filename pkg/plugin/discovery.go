package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stega-cli/stega/pkg/command"
	"github.com/stega-cli/stega/pkg/plugin/sdk"
)

// discoveredPlugin pairs a manifest's declared metadata with the binary
// path it describes.
type discoveredPlugin struct {
	path     string
	metadata PluginMetadata
}

// LoadAll discovers every "<binary>.yaml" manifest in dir, resolves a
// dependency-first load order across the whole batch with
// ResolveLoadOrder, and Loads each binary in that order.
//
// This is the batch-discovery flow the dependency resolver exists for:
// a single Load call only ever checks dependencies against whatever is
// already active (existence-only, per Load's own doc comment), which is
// correct for one plugin at a time but cannot order several plugins
// discovered together, some of which may depend on others in the same
// batch. LoadAll builds the PluginMetadata map ResolveLoadOrder needs
// from each manifest's declared name, version, and dependencies, then
// loads the binaries in the order it returns.
//
// A manifest that fails to parse, declares an empty name, or collides
// with another manifest's name in the same directory aborts the scan
// before anything loads. A dependency cycle or an unresolvable required
// dependency aborts the same way. Once loading starts, a single
// plugin's Load failure does not stop the batch — LoadAll continues
// through the remaining order and returns a combined error naming every
// plugin that failed.
func (m *Manager) LoadAll(ctx *command.Context, dir string) error {
	discovered, err := discoverManifests(dir)
	if err != nil {
		return err
	}
	if len(discovered) == 0 {
		return nil
	}

	// A dependency already active from an earlier Load call is just as
	// satisfied as one loaded earlier in this same batch - ResolveLoadOrder
	// needs both in its view to order correctly, but only the ones this
	// call discovered get loaded.
	metas := make(map[string]PluginMetadata, len(discovered))
	for _, active := range m.List() {
		metas[active.Name] = active
	}
	for name, d := range discovered {
		metas[name] = d.metadata
	}

	order, err := m.ResolveLoadOrder(metas)
	if err != nil {
		return err
	}

	var failed []string
	for _, name := range order {
		d, isDiscovered := discovered[name]
		if !isDiscovered {
			continue
		}
		if err := m.Load(ctx, d.path, LoadOptions{}); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("plugin batch load failed for %d plugin(s): %s", len(failed), strings.Join(failed, "; "))
	}
	return nil
}

// discoverManifests scans dir for "<binary>.yaml" sidecar manifests and
// returns the plugin metadata and binary path each one describes, keyed
// by declared plugin name.
func discoverManifests(dir string) (map[string]discoveredPlugin, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan plugin directory %s: %w", dir, err)
	}

	out := make(map[string]discoveredPlugin)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		manifestPath := filepath.Join(dir, entry.Name())
		manifest, err := sdk.ParseManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		if manifest.Metadata.Name == "" {
			return nil, fmt.Errorf("manifest %s declares an empty plugin name", manifestPath)
		}
		if _, dup := out[manifest.Metadata.Name]; dup {
			return nil, fmt.Errorf("manifest %s: duplicate plugin name %q in %s", manifestPath, manifest.Metadata.Name, dir)
		}

		out[manifest.Metadata.Name] = discoveredPlugin{
			path: strings.TrimSuffix(manifestPath, ".yaml"),
			metadata: PluginMetadata{
				Name:         manifest.Metadata.Name,
				Version:      manifest.Metadata.Version,
				Description:  manifest.Metadata.Description,
				Dependencies: manifest.Spec.Dependencies,
			},
		}
	}
	return out, nil
}
