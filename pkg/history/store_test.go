package history_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stega-cli/stega/pkg/history"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.json")
}

func TestAddEntryPrependsAndCaps(t *testing.T) {
	s, err := history.New(tempStorePath(t), 2)
	require.NoError(t, err)

	require.NoError(t, s.AddEntry(history.Entry{Command: "one"}))
	require.NoError(t, s.AddEntry(history.Entry{Command: "two"}))
	require.NoError(t, s.AddEntry(history.Entry{Command: "three"}))

	entries := s.GetHistory(nil)
	require.Len(t, entries, 2)
	assert.Equal(t, "three", entries[0].Command)
	assert.Equal(t, "two", entries[1].Command)
}

func TestMaxEntriesZeroIsNoOp(t *testing.T) {
	s, err := history.New(tempStorePath(t), 0)
	require.NoError(t, err)
	require.NoError(t, s.AddEntry(history.Entry{Command: "one"}))
	assert.Empty(t, s.GetHistory(nil))
}

func TestExcludedCommandsNeverRecorded(t *testing.T) {
	s, err := history.New(tempStorePath(t), 10, history.WithExclude("secret"))
	require.NoError(t, err)

	require.True(t, s.IsExcluded("Secret"))
	require.NoError(t, s.AddEntry(history.Entry{Command: "Secret"}))
	assert.Empty(t, s.GetHistory(nil))
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := tempStorePath(t)
	s, err := history.New(path, 10)
	require.NoError(t, err)
	require.NoError(t, s.AddEntry(history.Entry{Command: "greet", Success: true, Duration: 1.5}))

	reloaded, err := history.New(path, 10)
	require.NoError(t, err)
	entries := reloaded.GetHistory(nil)
	require.Len(t, entries, 1)
	assert.Equal(t, "greet", entries[0].Command)
}

func TestMissingFileTreatedAsEmptyWithoutOverwrite(t *testing.T) {
	path := tempStorePath(t)
	_, err := history.New(path, 10)
	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCorruptFileTreatedAsEmpty(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s, err := history.New(path, 10)
	require.NoError(t, err)
	assert.Empty(t, s.GetHistory(nil))

	require.NoError(t, s.AddEntry(history.Entry{Command: "ok"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ok")
}

func TestSearchHistoryAllTermsMustMatch(t *testing.T) {
	s, err := history.New(tempStorePath(t), 10)
	require.NoError(t, err)
	require.NoError(t, s.AddEntry(history.Entry{Command: "deploy", Args: map[string]any{"env": "prod"}}))
	require.NoError(t, s.AddEntry(history.Entry{Command: "build"}))

	results := s.SearchHistory("deploy prod")
	require.Len(t, results, 1)
	assert.Equal(t, "deploy", results[0].Command)

	assert.Empty(t, s.SearchHistory("deploy staging"))
}

func TestGetStatistics(t *testing.T) {
	s, err := history.New(tempStorePath(t), 10)
	require.NoError(t, err)
	require.NoError(t, s.AddEntry(history.Entry{Command: "a", Success: true, Duration: 10}))
	require.NoError(t, s.AddEntry(history.Entry{Command: "a", Success: false, Duration: 20}))
	require.NoError(t, s.AddEntry(history.Entry{Command: "b", Success: true, Duration: 30}))

	stats := s.GetStatistics()
	assert.Equal(t, 3, stats.TotalCommands)
	assert.Equal(t, 2, stats.UniqueCommands)
	assert.InDelta(t, 66.67, stats.SuccessRate, 0.01)
	assert.InDelta(t, 20.0, stats.AverageDuration, 0.01)
	require.Len(t, stats.MostUsedCommands, 2)
	assert.Equal(t, "a", stats.MostUsedCommands[0].Command)
	assert.Equal(t, 2, stats.MostUsedCommands[0].Count)
}

func TestClearHistory(t *testing.T) {
	s, err := history.New(tempStorePath(t), 10)
	require.NoError(t, err)
	require.NoError(t, s.AddEntry(history.Entry{Command: "a"}))
	require.NoError(t, s.ClearHistory())
	assert.Empty(t, s.GetHistory(nil))
}
