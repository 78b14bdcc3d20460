package errors

import (
	"fmt"
)

// Kind identifies one of the fixed error categories the framework raises.
// Every Kind carries its own structured fields inside CLIError.Fields.
type Kind string

const (
	KindCommandNotFound Kind = "command_not_found"
	// KindSubcommandNotFound is part of the fixed taxonomy spec §7
	// names, but the framework's own resolver (dispatch.resolve) never
	// produces it: per spec §4.1, a subcommand path that fails to match
	// stops at the deepest matched command and the remaining tokens
	// become positionals rather than raising an error. The constructor
	// exists for a host command that wants to report its own stricter
	// subcommand-path failure in the same taxonomy.
	KindSubcommandNotFound Kind = "subcommand_not_found"
	KindMissingFlag        Kind = "missing_flag"
	KindInvalidFlagValue   Kind = "invalid_flag_value"
	KindValidationFailed   Kind = "validation_failed"
	KindPermissionDenied   Kind = "permission_denied"
	KindDuplicateCommand   Kind = "duplicate_command"
	KindDuplicatePlugin    Kind = "duplicate_plugin"
	KindMissingDependency  Kind = "missing_dependency"
	KindIntegrityViolation Kind = "integrity_violation"
	KindUnknownPlugin      Kind = "unknown_plugin"
	KindInvalidPipeline    Kind = "invalid_pipeline"
	KindUnknownOperator    Kind = "unknown_operator"
	KindInvalidDefinition  Kind = "invalid_definition"
)

// CLIError is the single error type the framework raises. Kind selects the
// category; Fields carries the structured data the §7 table associates with
// that Kind (e.g. "flag", "expectedType", "rawValue").
type CLIError struct {
	Kind        Kind
	Message     string
	Err         error
	Suggestions []string
	Fields      map[string]any
	Code        int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a CLIError of the same Kind.
func (e *CLIError) Is(target error) bool {
	t, ok := target.(*CLIError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func (e *CLIError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

func (e *CLIError) Field(key string) (any, bool) {
	if e.Fields == nil {
		return nil, false
	}
	v, ok := e.Fields[key]
	return v, ok
}

func (e *CLIError) AddSuggestion(suggestion string) *CLIError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

func (e *CLIError) WithField(key string, value any) *CLIError {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

func (e *CLIError) WithCode(code int) *CLIError {
	e.Code = code
	return e
}

// Option is a functional option for New.
type Option func(*CLIError)

func WithError(err error) Option {
	return func(e *CLIError) { e.Err = err }
}

func WithSuggestions(suggestions ...string) Option {
	return func(e *CLIError) { e.Suggestions = append(e.Suggestions, suggestions...) }
}

func WithField(key string, value any) Option {
	return func(e *CLIError) {
		if e.Fields == nil {
			e.Fields = make(map[string]any)
		}
		e.Fields[key] = value
	}
}

func WithExitCode(code int) Option {
	return func(e *CLIError) { e.Code = code }
}
