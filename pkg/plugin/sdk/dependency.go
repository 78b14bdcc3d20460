package sdk

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// PluginMetadata is the subset of a plugin's manifest the dependency
// resolver needs: who it is, what version it claims to be, and what it
// declares it needs loaded first. LoadAll (pkg/plugin/discovery.go)
// builds one of these per discovered "<binary>.yaml" manifest; Manager
// also keeps one per already-active plugin so a batch can depend on
// something loaded in an earlier call.
type PluginMetadata struct {
	Name         string
	Version      string
	Author       string
	Description  string
	Dependencies []PluginDependency
}

// PluginDependency is one plugin's declared need for another, read
// straight off a manifest's "spec.dependencies" list.
//
// Version is a semver constraint, not a fixed version — "^1.0.0",
// ">=1.2.3 <2.0.0", "1.x", and so on. Optional downgrades a missing or
// incompatible match from a load-order failure to a warning; see
// DependencyResolver.validateDependencies.
//
// Example manifest fragment:
//
//	spec:
//	  dependencies:
//	    - name: core
//	      version: ">=1.0.0"
//	      optional: false
type PluginDependency struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
	Optional bool   `json:"optional" yaml:"optional"`
}

// String renders a dependency the way error messages and logs quote it:
// "name@constraint", with "(optional)" appended for non-required ones.
func (d PluginDependency) String() string {
	opt := ""
	if d.Optional {
		opt = " (optional)"
	}
	return fmt.Sprintf("%s@%s%s", d.Name, d.Version, opt)
}

// Validate rejects a dependency declaration a manifest author got
// wrong: an empty name, an empty version constraint, or a version
// constraint semver can't parse. ResolveLoadOrder calls this on every
// declared dependency before it attempts any ordering.
func (d PluginDependency) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dependency name cannot be empty")
	}
	if d.Version == "" {
		return fmt.Errorf("dependency %q: version constraint cannot be empty", d.Name)
	}
	if _, err := semver.NewConstraint(d.Version); err != nil {
		return fmt.Errorf("dependency %q: invalid version constraint %q: %w", d.Name, d.Version, err)
	}
	return nil
}

// SatisfiedBy reports whether version meets this dependency's semver
// constraint. An unparsable constraint or version is never satisfied —
// Validate is expected to have already rejected the former.
func (d PluginDependency) SatisfiedBy(version string) bool {
	constraint, err := semver.NewConstraint(d.Version)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return constraint.Check(v)
}

// DependencyGraph is the adjacency view ResolveLoadOrder's topological
// sort walks: plugin name to the dependencies it declared. Built fresh
// per resolution from whatever PluginMetadata map the caller passes —
// it holds no state across calls.
type DependencyGraph struct {
	nodes map[string][]PluginDependency
}

// NewDependencyGraph returns an empty graph ready for AddPlugin calls.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{nodes: make(map[string][]PluginDependency)}
}

// AddPlugin registers name's declared dependencies in the graph.
func (g *DependencyGraph) AddPlugin(name string, dependencies []PluginDependency) {
	g.nodes[name] = dependencies
}

// GetDependencies returns the dependencies previously added for name,
// or nil if name isn't in the graph.
func (g *DependencyGraph) GetDependencies(name string) []PluginDependency {
	return g.nodes[name]
}

// HasPlugin reports whether name has been added to the graph.
func (g *DependencyGraph) HasPlugin(name string) bool {
	_, exists := g.nodes[name]
	return exists
}

// AllPlugins returns every plugin name in the graph, in no particular
// order — callers that need a stable order use the resolver's sort.
func (g *DependencyGraph) AllPlugins() []string {
	plugins := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		plugins = append(plugins, name)
	}
	return plugins
}

// DependencyError wraps a plugin-scoped dependency failure that doesn't
// fit the more specific error types below (e.g. an invalid declaration
// caught by Validate).
type DependencyError struct {
	Plugin  string
	Message string
	Cause   error
}

func (e *DependencyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dependency error for plugin %q: %s: %v", e.Plugin, e.Message, e.Cause)
	}
	return fmt.Sprintf("dependency error for plugin %q: %s", e.Plugin, e.Message)
}

func (e *DependencyError) Unwrap() error {
	return e.Cause
}

// NewDependencyError builds a DependencyError; cause may be nil.
func NewDependencyError(plugin, message string, cause error) *DependencyError {
	return &DependencyError{Plugin: plugin, Message: message, Cause: cause}
}

// CyclicDependencyError reports a dependency cycle ResolveLoadOrder's
// topological sort found; Cycle lists the plugin names in the loop,
// first name repeated at the end.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency detected: %v", e.Cycle)
}

// MissingDependencyError reports a required dependency with no entry
// at all in the batch ResolveLoadOrder was given.
type MissingDependencyError struct {
	Plugin     string
	Dependency PluginDependency
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("plugin %q requires missing dependency %s", e.Plugin, e.Dependency)
}

// VersionMismatchError reports a required dependency that is present
// in the batch but whose version doesn't satisfy the constraint.
type VersionMismatchError struct {
	Plugin          string
	Dependency      PluginDependency
	ActualVersion   string
	RequiredVersion string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf(
		"plugin %q requires %s@%s but found version %s",
		e.Plugin,
		e.Dependency.Name,
		e.RequiredVersion,
		e.ActualVersion,
	)
}
