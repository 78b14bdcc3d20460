package command

import (
	"sort"
	"strings"
	"sync"

	cliErrors "github.com/stega-cli/stega/pkg/errors"
)

func lower(s string) string { return strings.ToLower(s) }

// Registry stores the top-level Command tree and resolves names, aliases,
// and subcommand paths, case-insensitively, per spec §4.1. It is modeled
// on the teacher's internal/cli.Registry (name/alias collision rules) with
// the map+alias+mutex shape of its generic pkg/registry.Registry[T] — a
// hand-written structure rather than a direct instantiation, since
// hierarchical subcommand resolution has no analog in the generic registry.
type Registry struct {
	mu      sync.RWMutex
	order   []string // registration order of canonical (lower-cased) names
	byName  map[string]*Command
	aliases map[string]string // lower-cased alias -> lower-cased canonical name
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Command),
		aliases: make(map[string]string),
	}
}

// Register validates cmd and adds it as a top-level command. Fails with
// DuplicateCommand if cmd's name or any alias collides with an existing
// top-level name or alias, and InvalidDefinition if cmd (or a descendant)
// violates the Command invariants of spec §3.
func (r *Registry) Register(cmd *Command) error {
	if err := ValidateDefinition(cmd); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := lower(cmd.Name)
	if _, exists := r.byName[name]; exists {
		return cliErrors.NewDuplicateCommand(cmd.Name)
	}
	if _, exists := r.aliases[name]; exists {
		return cliErrors.NewDuplicateCommand(cmd.Name)
	}
	for _, alias := range cmd.Aliases {
		la := lower(alias)
		if _, exists := r.byName[la]; exists {
			return cliErrors.NewDuplicateCommand(alias)
		}
		if _, exists := r.aliases[la]; exists {
			return cliErrors.NewDuplicateCommand(alias)
		}
	}

	r.byName[name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[lower(alias)] = name
	}
	r.order = append(r.order, name)
	return nil
}

// Remove deletes a top-level command and its aliases. Idempotent: removing
// an absent name reports false but is not an error.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	canonical := lower(name)
	if target, isAlias := r.aliases[canonical]; isAlias {
		canonical = target
	}
	if _, exists := r.byName[canonical]; !exists {
		return false
	}

	delete(r.byName, canonical)
	for alias, target := range r.aliases {
		if target == canonical {
			delete(r.aliases, alias)
		}
	}
	for i, n := range r.order {
		if n == canonical {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Find resolves a top-level name or alias, case-insensitively.
func (r *Registry) Find(nameOrAlias string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(nameOrAlias)
}

func (r *Registry) findLocked(nameOrAlias string) (*Command, bool) {
	key := lower(nameOrAlias)
	if cmd, ok := r.byName[key]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[key]; ok {
		return r.byName[canonical], true
	}
	return nil, false
}

// FindSubcommand walks pathTokens greedily from parent: for each token it
// picks the child whose name or alias matches (case-insensitively); on the
// first unmatched token, resolution stops at the most recently matched
// command and the remainder is returned as leftover positionals, exactly
// per spec §4.1.
func FindSubcommand(parent *Command, pathTokens []string) (resolved *Command, leftover []string) {
	resolved = parent
	for i, token := range pathTokens {
		lowerToken := lower(token)
		var next *Command
		for _, child := range resolved.Subcommands {
			if child.matchesToken(lowerToken) {
				next = child
				break
			}
		}
		if next == nil {
			return resolved, pathTokens[i:]
		}
		resolved = next
	}
	return resolved, nil
}

// Commands returns all top-level commands in registration order.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmds := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.byName[name])
	}
	return cmds
}

// Names returns all top-level command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
