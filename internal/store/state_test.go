package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSharedState_Defaults(t *testing.T) {
	state, err := LoadSharedState(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	assert.False(t, state.Paused)
	assert.Equal(t, CurrentSchemaVersion, state.SchemaVersion)
	assert.True(t, state.LastBubbleTime().IsZero())
}

func TestLoadSharedState_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))

	state, err := LoadSharedState(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSharedState(), state)
}

func TestSharedState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "state.json")

	state := DefaultSharedState()
	state.SetPaused(true, "pause", "cli")
	state.RecordBubble("english", "apple")
	require.NoError(t, SaveSharedState(path, state))

	loaded, err := LoadSharedState(path)
	require.NoError(t, err)
	assert.True(t, loaded.Paused)
	require.NotNil(t, loaded.LastTransition)
	assert.Equal(t, "cli", loaded.LastTransition.Source)
	assert.Equal(t, "apple", loaded.LastWord)
	assert.Equal(t, "english", loaded.LastList)
	assert.False(t, loaded.LastBubbleTime().IsZero())
}

func TestUpdateSharedState_Toggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	var paused bool
	_, err := UpdateSharedState(path, func(s *SharedState) {
		paused = s.TogglePaused("toggle", "cli")
	})
	require.NoError(t, err)
	assert.True(t, paused)

	state, err := UpdateSharedState(path, func(s *SharedState) {
		paused = s.TogglePaused("toggle", "cli")
	})
	require.NoError(t, err)
	assert.False(t, paused)
	assert.False(t, state.Paused)
	assert.False(t, state.LastTransition.Paused)
}
