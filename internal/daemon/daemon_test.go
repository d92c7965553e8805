package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/notify"
	"github.com/jmylchreest/wordbubble/internal/store"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func TestFileWatcher_DetectsCreateAndChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.txt")

	var calls atomic.Int32
	w := NewFileWatcher("test", path, nil)
	w.SetPollInterval(tick)
	w.SetChangeCallback(func() { calls.Add(1) })
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, tick)

	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, waitFor, tick)
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	w := NewFileWatcher("test", filepath.Join(t.TempDir(), "x"), nil)
	w.SetPollInterval(tick)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}

func TestSettingsWatcher_ReportsOnlyRealChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	initial := config.DefaultSettings()
	require.NoError(t, config.SaveSettings(path, initial))

	var mu sync.Mutex
	var got []*config.Settings
	w := NewSettingsWatcher(path, initial, nil)
	w.SetPollInterval(tick)
	w.SetReloadCallback(func(s *config.Settings) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// The daemon's own save is not echoed back.
	own := *initial
	own.FontSize = 20
	w.Update(&own)
	require.NoError(t, config.SaveSettings(path, &own))

	// An edit from elsewhere is.
	external := own
	external.BubblePosition = "top_left"
	external.BubbleInterval = 42
	require.NoError(t, config.SaveSettings(path, &external))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	last := got[len(got)-1]
	assert.Equal(t, "top_left", last.BubblePosition)
	assert.Equal(t, 42, last.BubbleInterval)
	for _, s := range got {
		assert.NotEqual(t, own, *s)
	}
}

func TestStateWatcher_PauseFlip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	var paused atomic.Int32
	w := NewStateWatcher(path, false, nil)
	w.SetPollInterval(tick)
	w.SetPauseCallback(func(s *store.SharedState) {
		if s.Paused {
			paused.Add(1)
		}
	})
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	_, err := store.UpdateSharedState(path, func(s *store.SharedState) {
		s.RecordBubble("animals", "cat")
	})
	require.NoError(t, err)

	_, err = store.UpdateSharedState(path, func(s *store.SharedState) {
		s.SetPaused(true, "test", "cli")
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return paused.Load() == 1 }, waitFor, tick)
}

func TestConfigWatcher_KeepsLastValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordbubbled.toml")
	initial := config.DefaultDaemonConfig()

	var reloads, failures atomic.Int32
	w := NewConfigWatcher(path, initial, nil)
	w.SetPollInterval(tick)
	w.SetReloadCallback(func(*config.DaemonConfig) { reloads.Add(1) })
	w.SetErrorCallback(func(error) { failures.Add(1) })
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[placement]\nmargin = 40\n"), 0o644))
	require.Eventually(t, func() bool { return reloads.Load() == 1 }, waitFor, tick)
	assert.Equal(t, 40, w.GetCurrentConfig().Placement.Margin)

	require.NoError(t, os.WriteFile(path, []byte("[instance]\nbackend = \"carrier-pigeon\"\n"), 0o644))
	require.Eventually(t, func() bool { return failures.Load() == 1 }, waitFor, tick)
	assert.Equal(t, 40, w.GetCurrentConfig().Placement.Margin)
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	var mu sync.Mutex
	var sent []notify.Message
	n := NewInternalNotifier(nil, nil)
	n.send = func(_ context.Context, msg notify.Message) {
		mu.Lock()
		sent = append(sent, msg)
		mu.Unlock()
	}

	n.NotifyConfigError(errors.New("bad"))
	n.NotifyConfigError(errors.New("bad again"))
	n.NotifyPauseChanged(true, "cli")

	mu.Lock()
	require.Len(t, sent, 2)
	assert.Equal(t, "Configuration Error", sent[0].Summary)
	assert.Equal(t, notify.UrgencyNormal, sent[0].Urgency)
	assert.Equal(t, "Word Bubbles Paused", sent[1].Summary)
	assert.Equal(t, notify.UrgencyLow, sent[1].Urgency)
	mu.Unlock()

	n.SetMinInterval(0)
	n.NotifyConfigError(errors.New("bad"))
	mu.Lock()
	assert.Len(t, sent, 3)
	mu.Unlock()

	n.SetEnabled(false)
	n.NotifyAudioError(errors.New("x"))
	mu.Lock()
	assert.Len(t, sent, 3)
	mu.Unlock()
}

func TestInternalNotifier_NoClient(t *testing.T) {
	n := NewInternalNotifier(nil, nil)
	n.NotifyThemeReloaded("default")
}
