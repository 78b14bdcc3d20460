package history_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stega-cli/stega/pkg/command"
	"github.com/stega-cli/stega/pkg/history"
)

func TestMiddlewareRecordsSuccessfulDispatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := history.New(path, 10)
	require.NoError(t, err)

	mw := history.Middleware(store)
	ctx := command.NewContext(command.NewRegistry(), nil, nil)
	args := &command.Args{Command: []string{"greet"}, Flags: map[string]any{"name": "Alice"}}

	err = mw(ctx, args, func() error { return nil })
	require.NoError(t, err)

	entries := store.GetHistory(nil)
	require.Len(t, entries, 1)
	assert.Equal(t, "greet", entries[0].Command)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "Alice", entries[0].Args["name"])
}

func TestMiddlewareRecordsFailureAndPropagatesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := history.New(path, 10)
	require.NoError(t, err)

	mw := history.Middleware(store)
	ctx := command.NewContext(command.NewRegistry(), nil, nil)
	args := &command.Args{Command: []string{"greet"}}

	wantErr := errors.New("boom")
	err = mw(ctx, args, func() error { return wantErr })
	require.ErrorIs(t, err, wantErr)

	entries := store.GetHistory(nil)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "boom", entries[0].Error)
}
