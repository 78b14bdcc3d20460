package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliErrors "github.com/stega-cli/stega/pkg/errors"
	"github.com/stega-cli/stega/pkg/pipeline"
)

func TestParseSplitsOnPipePreservingQuotes(t *testing.T) {
	p, err := pipeline.Parse(`echo "a | b" | .trim`)
	require.NoError(t, err)
	require.Len(t, p.Stages, 2)
	assert.Equal(t, "echo", p.Stages[0].Command)
	assert.Equal(t, []string{"a | b"}, p.Stages[0].Args)
	assert.Equal(t, ".trim", p.Stages[1].Command)
}

func TestParseRejectsEmptyStage(t *testing.T) {
	_, err := pipeline.Parse("echo hi | | .trim")
	require.Error(t, err)
	assert.True(t, cliErrors.Is(err, cliErrors.KindInvalidPipeline))
}

func TestSingleStageNoUpstreamInput(t *testing.T) {
	p, err := pipeline.Parse("echo hello")
	require.NoError(t, err)

	result := pipeline.Evaluate(p, func(command string, args []string, input string) (string, error) {
		assert.Equal(t, "", input)
		return "hello", nil
	})
	assert.True(t, result.Success)
	assert.Equal(t, "hello", result.Output)
}

func TestPipelineComposition(t *testing.T) {
	p, err := pipeline.Parse(`echo "Hello, World!" | .lowercase | .replace "world" "there" | .trim`)
	require.NoError(t, err)

	result := pipeline.Evaluate(p, func(command string, args []string, input string) (string, error) {
		return args[0], nil
	})
	require.True(t, result.Success)
	assert.Equal(t, "hello, there!", result.Output)
}

func TestUnknownOperator(t *testing.T) {
	p, err := pipeline.Parse("echo hi | .shout")
	require.NoError(t, err)

	result := pipeline.Evaluate(p, func(command string, args []string, input string) (string, error) {
		return "hi", nil
	})
	assert.False(t, result.Success)
	assert.True(t, cliErrors.Is(result.Error, cliErrors.KindUnknownOperator))
}

func TestSplitOperator(t *testing.T) {
	p, err := pipeline.Parse(`echo a,b,c | .split ","`)
	require.NoError(t, err)
	result := pipeline.Evaluate(p, func(command string, args []string, input string) (string, error) {
		return "a,b,c", nil
	})
	require.True(t, result.Success)
	assert.Equal(t, "a\nb\nc", result.Output)
}

func TestGrepOperator(t *testing.T) {
	p, err := pipeline.Parse(`echo x | .grep "^b"`)
	require.NoError(t, err)
	result := pipeline.Evaluate(p, func(command string, args []string, input string) (string, error) {
		return "apple\nbanana\nblueberry", nil
	})
	require.True(t, result.Success)
	assert.Equal(t, "banana\nblueberry", result.Output)
}

func TestUppercaseLowercaseIdempotence(t *testing.T) {
	p, err := pipeline.Parse(`echo x | .uppercase | .lowercase`)
	require.NoError(t, err)
	result := pipeline.Evaluate(p, func(command string, args []string, input string) (string, error) {
		return "MiXeD", nil
	})
	require.True(t, result.Success)
	assert.Equal(t, "mixed", result.Output)
}
