package errors_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	cliErrors "github.com/stega-cli/stega/pkg/errors"
)

func TestHandlerReturnsErrorCode(t *testing.T) {
	var buf bytes.Buffer
	h := &cliErrors.Handler{Writer: &buf, NoColor: true}

	code := h.Handle(cliErrors.NewCommandNotFound("greet"))
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "command not found: greet")
}

func TestHandlerNilError(t *testing.T) {
	h := cliErrors.DefaultHandler()
	assert.Equal(t, 0, h.Handle(nil))
}

func TestHandlerShowsSuggestions(t *testing.T) {
	var buf bytes.Buffer
	h := &cliErrors.Handler{Writer: &buf, NoColor: true}

	h.Handle(cliErrors.NewMissingFlag("name", "string", cliErrors.WithSuggestions("pass --name <value>")))
	assert.Contains(t, buf.String(), "suggestions:")
}

func TestHandlerDebugShowsFields(t *testing.T) {
	var buf bytes.Buffer
	h := &cliErrors.Handler{Writer: &buf, NoColor: true, Debug: true}

	h.Handle(cliErrors.NewInvalidFlagValue("c", "number", "x"))
	out := buf.String()
	assert.Contains(t, out, "rawValue=x")
	assert.Contains(t, out, "stack:")
}
