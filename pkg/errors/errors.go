package errors

import (
	"fmt"
)

// New creates a CLIError of the given kind.
func New(kind Kind, message string, opts ...Option) *CLIError {
	e := &CLIError{
		Kind:    kind,
		Message: message,
		Code:    1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewCommandNotFound builds the CommandNotFound{name} error of §7.
func NewCommandNotFound(name string, opts ...Option) *CLIError {
	defaults := []Option{
		WithField("name", name),
		WithSuggestions(fmt.Sprintf("run 'help' to list available commands")),
	}
	return New(KindCommandNotFound, fmt.Sprintf("command not found: %s", name), append(defaults, opts...)...)
}

// NewSubcommandNotFound builds the SubcommandNotFound{parent, token} error.
func NewSubcommandNotFound(parent, token string, opts ...Option) *CLIError {
	defaults := []Option{
		WithField("parent", parent),
		WithField("token", token),
	}
	return New(KindSubcommandNotFound,
		fmt.Sprintf("%q has no subcommand %q", parent, token),
		append(defaults, opts...)...)
}

// NewMissingFlag builds the MissingFlag{flag, expectedType} error.
func NewMissingFlag(flag, expectedType string, opts ...Option) *CLIError {
	defaults := []Option{
		WithField("flag", flag),
		WithField("expectedType", expectedType),
	}
	return New(KindMissingFlag,
		fmt.Sprintf("missing required flag --%s (%s)", flag, expectedType),
		append(defaults, opts...)...)
}

// NewInvalidFlagValue builds the InvalidFlagValue{flag, expectedType, rawValue} error.
func NewInvalidFlagValue(flag, expectedType, rawValue string, opts ...Option) *CLIError {
	defaults := []Option{
		WithField("flag", flag),
		WithField("expectedType", expectedType),
		WithField("rawValue", rawValue),
	}
	return New(KindInvalidFlagValue,
		fmt.Sprintf("invalid value %q for --%s: expected %s", rawValue, flag, expectedType),
		append(defaults, opts...)...)
}

// NewValidationFailed builds the ValidationFailed{which, reason} error.
func NewValidationFailed(which, reason string, opts ...Option) *CLIError {
	defaults := []Option{
		WithField("which", which),
		WithField("reason", reason),
	}
	return New(KindValidationFailed,
		fmt.Sprintf("validation failed for %s: %s", which, reason),
		append(defaults, opts...)...)
}

// NewPermissionDenied builds the PermissionDenied{capability} error.
func NewPermissionDenied(capability string, opts ...Option) *CLIError {
	defaults := []Option{
		WithField("capability", capability),
	}
	return New(KindPermissionDenied,
		fmt.Sprintf("permission denied: missing capability %q", capability),
		append(defaults, opts...)...)
}

// NewDuplicateCommand builds the DuplicateCommand{name} error.
func NewDuplicateCommand(name string, opts ...Option) *CLIError {
	defaults := []Option{WithField("name", name)}
	return New(KindDuplicateCommand,
		fmt.Sprintf("a command named %q is already registered", name),
		append(defaults, opts...)...)
}

// NewDuplicatePlugin builds the DuplicatePlugin{name} error.
func NewDuplicatePlugin(name string, opts ...Option) *CLIError {
	defaults := []Option{WithField("name", name)}
	return New(KindDuplicatePlugin,
		fmt.Sprintf("plugin %q is already active", name),
		append(defaults, opts...)...)
}

// NewMissingDependency builds the MissingDependency{plugin, dependency} error.
func NewMissingDependency(plugin, dependency string, opts ...Option) *CLIError {
	defaults := []Option{
		WithField("plugin", plugin),
		WithField("dependency", dependency),
	}
	return New(KindMissingDependency,
		fmt.Sprintf("plugin %q requires %q, which is not active", plugin, dependency),
		append(defaults, opts...)...)
}

// NewIntegrityViolation builds the IntegrityViolation{source} error.
func NewIntegrityViolation(source string, opts ...Option) *CLIError {
	defaults := []Option{WithField("source", source)}
	return New(KindIntegrityViolation,
		fmt.Sprintf("integrity check failed for %s", source),
		append(defaults, opts...)...)
}

// NewUnknownPlugin builds the UnknownPlugin{name} error.
func NewUnknownPlugin(name string, opts ...Option) *CLIError {
	defaults := []Option{WithField("name", name)}
	return New(KindUnknownPlugin,
		fmt.Sprintf("plugin %q is not active", name),
		append(defaults, opts...)...)
}

// NewInvalidPipeline builds the InvalidPipeline{reason} error.
func NewInvalidPipeline(reason string, opts ...Option) *CLIError {
	defaults := []Option{WithField("reason", reason)}
	return New(KindInvalidPipeline, fmt.Sprintf("invalid pipeline: %s", reason), append(defaults, opts...)...)
}

// NewUnknownOperator builds the UnknownOperator{name} error.
func NewUnknownOperator(name string, opts ...Option) *CLIError {
	defaults := []Option{WithField("name", name)}
	return New(KindUnknownOperator, fmt.Sprintf("unknown string operator: .%s", name), append(defaults, opts...)...)
}

// NewInvalidDefinition builds the InvalidDefinition{reason} error raised at registration time.
func NewInvalidDefinition(reason string, opts ...Option) *CLIError {
	defaults := []Option{WithField("reason", reason)}
	return New(KindInvalidDefinition, fmt.Sprintf("invalid command definition: %s", reason), append(defaults, opts...)...)
}

// Wrap wraps err with an additional message, preserving Kind/Fields/Suggestions
// when err is already a *CLIError.
func Wrap(err error, message string, opts ...Option) *CLIError {
	if err == nil {
		return nil
	}

	if cliErr, ok := err.(*CLIError); ok {
		wrapped := &CLIError{
			Kind:        cliErr.Kind,
			Message:     message,
			Err:         cliErr,
			Suggestions: cliErr.Suggestions,
			Fields:      cliErr.Fields,
			Code:        cliErr.Code,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	return New(KindValidationFailed, message, append(opts, WithError(err))...)
}

// Is reports whether err is a *CLIError of the given Kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	cliErr, ok := err.(*CLIError)
	if !ok {
		return false
	}
	return cliErr.Kind == kind
}

// WithSuggestion adds a suggestion to err, wrapping it as a CLIError first
// if it isn't one already.
func WithSuggestion(err error, suggestion string) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr, ok := err.(*CLIError); ok {
		return cliErr.AddSuggestion(suggestion)
	}
	return Wrap(err, err.Error(), WithSuggestions(suggestion))
}
