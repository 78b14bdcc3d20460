// Package errors defines the framework's error taxonomy: a single tagged
// CLIError type distinguished by Kind, each carrying the structured fields
// its category needs for a user-facing message.
//
// Construct errors with the per-kind factories (NewCommandNotFound,
// NewMissingFlag, NewInvalidFlagValue, ...) rather than New directly, so the
// expected Fields are always populated consistently.
//
//	err := errors.NewMissingFlag("name", "string")
//	errors.Is(err, errors.KindMissingFlag) // true
//
// Handler renders a CLIError to an io.Writer (stderr by default), honoring
// the DEBUG environment variable to additionally print fields and a stack
// trace captured at handling time.
package errors
