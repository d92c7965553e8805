// Package store persists state shared between wordbubble and wordbubbled.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/wordbubble/internal/config"
)

// Transition records details about a pause state change.
type Transition struct {
	Paused    bool   `json:"paused"`
	Reason    string `json:"reason"`           // Human-readable reason (e.g., "pause", "toggle")
	Source    string `json:"source,omitempty"` // Source identifier (e.g., "cli", "tui", "wordbubbled")
	Timestamp int64  `json:"timestamp"`
}

// SharedState contains state that is shared between wordbubble and wordbubbled.
// This is persisted to ~/.local/share/wordbubble/state.json
type SharedState struct {
	Paused         bool        `json:"paused"`
	LastTransition *Transition `json:"last_transition,omitempty"`

	// Last bubble shown, for status output.
	LastBubbleAt int64  `json:"last_bubble_at,omitempty"`
	LastWord     string `json:"last_word,omitempty"`
	LastList     string `json:"last_list,omitempty"`

	// Running daemon, 0 when none.
	DaemonPID int `json:"daemon_pid,omitempty"`

	SchemaVersion int `json:"schema_version"`
}

// CurrentSchemaVersion is the current version of the state schema.
const CurrentSchemaVersion = 1

// stateFileMutex protects concurrent access to the state file.
var stateFileMutex sync.RWMutex

// DefaultSharedState returns a new SharedState with default values.
func DefaultSharedState() *SharedState {
	return &SharedState{
		Paused:        false,
		SchemaVersion: CurrentSchemaVersion,
	}
}

// StateFilePath returns the default path to the state file.
func StateFilePath() string {
	return filepath.Join(config.DataPath(), "state.json")
}

// LoadSharedState loads the shared state from path, or the default path
// when empty. A missing or corrupted file yields a default state.
func LoadSharedState(path string) (*SharedState, error) {
	stateFileMutex.RLock()
	defer stateFileMutex.RUnlock()

	if path == "" {
		path = StateFilePath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSharedState(), nil
		}
		return nil, err
	}

	var state SharedState
	if err := json.Unmarshal(data, &state); err != nil {
		// If the file is corrupted, return default state
		return DefaultSharedState(), nil
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}

	return &state, nil
}

// SaveSharedState saves the shared state to path, or the default path
// when empty.
func SaveSharedState(path string, state *SharedState) error {
	stateFileMutex.Lock()
	defer stateFileMutex.Unlock()

	if path == "" {
		path = StateFilePath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// UpdateSharedState loads, modifies and saves the state in one step.
func UpdateSharedState(path string, fn func(*SharedState)) (*SharedState, error) {
	state, err := LoadSharedState(path)
	if err != nil {
		return nil, err
	}
	fn(state)
	if err := SaveSharedState(path, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SetPaused updates the pause state and records the transition.
func (s *SharedState) SetPaused(paused bool, reason, source string) {
	s.Paused = paused
	s.LastTransition = &Transition{
		Paused:    paused,
		Reason:    reason,
		Source:    source,
		Timestamp: time.Now().Unix(),
	}
}

// TogglePaused flips the pause state. Returns the new state.
func (s *SharedState) TogglePaused(reason, source string) bool {
	s.SetPaused(!s.Paused, reason, source)
	return s.Paused
}

// RecordBubble notes the most recently shown word.
func (s *SharedState) RecordBubble(list, word string) {
	s.LastBubbleAt = time.Now().Unix()
	s.LastWord = word
	s.LastList = list
}

// LastBubbleTime returns LastBubbleAt as a time.Time, zero if unset.
func (s *SharedState) LastBubbleTime() time.Time {
	if s.LastBubbleAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.LastBubbleAt, 0)
}
