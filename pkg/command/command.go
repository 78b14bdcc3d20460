package command

import (
	cliErrors "github.com/stega-cli/stega/pkg/errors"
)

// ValueType is one of the four flag types a Option may declare.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeArray   ValueType = "array"
)

// Option declares one parameter a Command accepts.
type Option struct {
	Name        string
	Alias       string
	Type        ValueType
	Required    bool
	Default     any
	HasDefault  bool
	Description string
	// Validate runs against the coerced value during dispatch step 7.
	Validate func(value any) error
}

// Validation bundles the three validator kinds a Command may declare.
type Validation struct {
	// Flags maps option name to a validator over its coerced value.
	Flags map[string]func(value any) error
	// Positionals validates the leftover positional tokens.
	Positionals func([]string) error
	// CrossCutting validators run over the fully-resolved Args.
	CrossCutting []func(*Args) error
}

// Lifecycle holds the four optional per-command hooks of spec §3/§4.3.
type Lifecycle struct {
	BeforeExecute func(ctx *Context, args *Args) error
	AfterExecute  func(ctx *Context, args *Args) error
	OnError       func(ctx *Context, args *Args, err error) error
	Cleanup       func(ctx *Context, args *Args) error
}

// Action is the executable body of a Command.
type Action func(ctx *Context, args *Args) error

// Command is a node in the command tree: either a leaf with an Action, or
// an interior node with Subcommands (optionally also carrying its own
// Action, invoked when no subcommand is selected).
type Command struct {
	Name        string
	Description string
	Aliases     []string
	Category    string
	Permissions []string
	Options     []Option
	Subcommands []*Command
	Action      Action
	Lifecycle   Lifecycle
	Validation  Validation

	// Owner is the plugin name that registered this command, empty for
	// host-registered commands. Used by the plugin manager's unload path.
	Owner string
}

// ValidateDefinition enforces the InvalidDefinition invariants of spec §4.1:
// a non-empty name, no option name/alias collisions, and either an Action
// or at least one Subcommand (recursively).
func ValidateDefinition(cmd *Command) error {
	if cmd.Name == "" {
		return cliErrors.NewInvalidDefinition("command name must not be empty")
	}

	seen := make(map[string]bool, len(cmd.Options)*2)
	for _, opt := range cmd.Options {
		if opt.Name == "" {
			return cliErrors.NewInvalidDefinition(
				"command " + cmd.Name + " declares an option with an empty name")
		}
		for _, key := range []string{opt.Name, opt.Alias} {
			if key == "" {
				continue
			}
			if seen[key] {
				return cliErrors.NewInvalidDefinition(
					"command " + cmd.Name + " has a duplicate option name or alias: " + key)
			}
			seen[key] = true
		}
	}

	if cmd.Action == nil && len(cmd.Subcommands) == 0 {
		return cliErrors.NewInvalidDefinition(
			"command " + cmd.Name + " has neither an action nor subcommands")
	}

	for _, sub := range cmd.Subcommands {
		if err := ValidateDefinition(sub); err != nil {
			return err
		}
	}
	return nil
}

// FindOption returns the first Option matching name or alias, searching
// cmd's own options only (not subcommands).
func (cmd *Command) FindOption(nameOrAlias string) (Option, bool) {
	for _, opt := range cmd.Options {
		if opt.Name == nameOrAlias || (opt.Alias != "" && opt.Alias == nameOrAlias) {
			return opt, true
		}
	}
	return Option{}, false
}

// Matches reports whether token names cmd or one of its aliases,
// case-insensitively.
func (cmd *Command) Matches(token string) bool {
	return cmd.matchesToken(lower(token))
}

// matchesToken reports whether lowerToken (already lower-cased by the
// caller) names cmd or one of its aliases, case-insensitively.
func (cmd *Command) matchesToken(lowerToken string) bool {
	if lower(cmd.Name) == lowerToken {
		return true
	}
	for _, a := range cmd.Aliases {
		if lower(a) == lowerToken {
			return true
		}
	}
	return false
}
