package pipeline

import (
	"strings"

	cliErrors "github.com/stega-cli/stega/pkg/errors"
)

// Stage is one command+args unit within a Pipeline, per spec §3/§4.6.
type Stage struct {
	Command string
	Args    []string
}

// Pipeline is an ordered sequence of Stages.
type Pipeline struct {
	Stages []Stage
}

// HasPipe reports whether line contains at least one top-level `|`
// stage separator outside a quoted span. The REPL uses this to decide
// whether a submitted line is routed through Parse/Evaluate at all, or
// evaluated as a single plain command.
func HasPipe(line string) bool {
	return len(splitTopLevel(line, '|')) > 1
}

// Parse splits line on `|` while preserving quoted spans, then tokenises
// each stage into a command and its args, stripping outer quotes. Empty
// stages (adjacent `|`, or a stage that is only whitespace) are rejected
// with InvalidPipeline.
func Parse(line string) (*Pipeline, error) {
	chunks := splitTopLevel(line, '|')

	stages := make([]Stage, 0, len(chunks))
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			return nil, cliErrors.NewInvalidPipeline("empty stage")
		}

		tokens := tokenize(trimmed)
		if len(tokens) == 0 {
			return nil, cliErrors.NewInvalidPipeline("empty stage")
		}

		stages = append(stages, Stage{Command: tokens[0], Args: tokens[1:]})
	}

	if len(stages) == 0 {
		return nil, cliErrors.NewInvalidPipeline("empty pipeline")
	}
	return &Pipeline{Stages: stages}, nil
}

// splitTopLevel splits s on sep, ignoring occurrences of sep inside
// "..." or '...' spans.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var current strings.Builder
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			current.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			current.WriteByte(c)
		case c == sep:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	parts = append(parts, current.String())
	return parts
}

// tokenize splits s on whitespace, treating a quoted span as one token
// and stripping its surrounding quotes.
func tokenize(s string) []string {
	var tokens []string
	var current strings.Builder
	var quote byte
	inToken := false

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			current.Reset()
			inToken = false
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				current.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inToken = true
		case c == ' ' || c == '\t':
			flush()
		default:
			inToken = true
			current.WriteByte(c)
		}
	}
	flush()
	return tokens
}
