package audio

import (
	"log/slog"
	"sync"
)

// Manager plays the bubble chime according to the current settings.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	enabled bool
	sound   string
}

// NewManager creates a manager. When enabled is false Chime does nothing.
func NewManager(enabled bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:  logger,
		player:  NewPlayer(logger),
		enabled: enabled,
	}
}

// Configure sets the chime file and volume (0-100). The file is decoded
// ahead of the first bubble.
func (m *Manager) Configure(sound string, volume int) {
	m.mu.Lock()
	changed := m.sound != sound
	m.sound = sound
	m.mu.Unlock()

	m.player.SetVolume(float64(volume) / 100.0)

	if changed && sound != "" {
		if err := m.player.Preload(sound); err != nil {
			m.logger.Warn("failed to preload chime", "path", sound, "error", err)
		}
	}
}

// SetEnabled toggles playback.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Sound returns the configured chime path.
func (m *Manager) Sound() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sound
}

// Chime plays the configured sound, if any.
func (m *Manager) Chime() error {
	m.mu.RLock()
	enabled, sound := m.enabled, m.sound
	m.mu.RUnlock()

	if !enabled || sound == "" {
		return nil
	}
	return m.player.Play(sound)
}

// Stop releases the audio device.
func (m *Manager) Stop() {
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}
