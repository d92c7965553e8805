package daemon

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/store"
)

// DefaultPollInterval is how often watched files are stat'ed.
const DefaultPollInterval = 500 * time.Millisecond

// FileWatcher polls a single file and calls back when its modification
// time or size changes. It works for files that don't exist yet.
type FileWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	name string
	path string

	lastModTime time.Time
	lastSize    int64

	pollInterval time.Duration

	onChangeCallback func()

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewFileWatcher creates a watcher for path. The name labels log lines.
func NewFileWatcher(name, path string, logger *slog.Logger) *FileWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		logger:       logger,
		name:         name,
		path:         path,
		pollInterval: DefaultPollInterval,
	}
}

// Path returns the watched path.
func (w *FileWatcher) Path() string {
	return w.path
}

// SetPollInterval sets the polling interval. Takes effect on the next Start.
func (w *FileWatcher) SetPollInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pollInterval = interval
}

// SetChangeCallback sets the callback to invoke when the file changes.
func (w *FileWatcher) SetChangeCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
}

// Start begins polling.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true

	if info, err := os.Stat(w.path); err == nil {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	interval, stopCh, doneCh := w.pollInterval, w.stopCh, w.doneCh
	w.mu.Unlock()

	go w.watchLoop(ctx, interval, stopCh, doneCh)

	w.logger.Debug("file watcher started", "name", w.name, "path", w.path, "interval", interval)
	return nil
}

// Stop stops polling and waits for the loop to exit.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	doneCh := w.doneCh
	w.mu.Unlock()

	<-doneCh
	w.logger.Debug("file watcher stopped", "name", w.name)
}

func (w *FileWatcher) watchLoop(ctx context.Context, interval time.Duration, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

func (w *FileWatcher) checkForChanges() {
	w.mu.RLock()
	callback := w.onChangeCallback
	lastModTime, lastSize := w.lastModTime, w.lastSize
	w.mu.RUnlock()

	info, err := os.Stat(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Debug("failed to stat watched file", "name", w.name, "path", w.path, "error", err)
		}
		return
	}

	modTime, size := info.ModTime(), info.Size()
	if modTime.Equal(lastModTime) && size == lastSize {
		return
	}

	w.mu.Lock()
	w.lastModTime, w.lastSize = modTime, size
	w.mu.Unlock()

	w.logger.Debug("watched file changed", "name", w.name, "path", w.path, "modTime", modTime)
	if callback != nil {
		callback()
	}
}

// SettingsWatcher reloads settings.json when another process edits it.
type SettingsWatcher struct {
	*FileWatcher

	mu       sync.Mutex
	current  config.Settings
	onReload func(*config.Settings)
}

// NewSettingsWatcher watches path, starting from initial.
func NewSettingsWatcher(path string, initial *config.Settings, logger *slog.Logger) *SettingsWatcher {
	w := &SettingsWatcher{FileWatcher: NewFileWatcher("settings", path, logger)}
	if initial != nil {
		w.current = *initial
	}
	w.SetChangeCallback(w.reload)
	return w
}

// SetReloadCallback sets the function called with settings that differ
// from the last known ones.
func (w *SettingsWatcher) SetReloadCallback(callback func(*config.Settings)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// Update records settings the daemon saved itself, so the resulting file
// change is not reported back.
func (w *SettingsWatcher) Update(s *config.Settings) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = *s
}

func (w *SettingsWatcher) reload() {
	s, err := config.LoadSettings(w.path)
	if err != nil {
		w.logger.Warn("failed to reload settings", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	if *s == w.current {
		w.mu.Unlock()
		return
	}
	w.current = *s
	callback := w.onReload
	w.mu.Unlock()

	w.logger.Info("settings reloaded", "path", w.path)
	if callback != nil {
		callback(s)
	}
}

// StateWatcher reports pause changes made through the shared state file.
type StateWatcher struct {
	*FileWatcher

	mu       sync.Mutex
	paused   bool
	onChange func(*store.SharedState)
}

// NewStateWatcher watches the shared state file at path.
func NewStateWatcher(path string, paused bool, logger *slog.Logger) *StateWatcher {
	w := &StateWatcher{
		FileWatcher: NewFileWatcher("state", path, logger),
		paused:      paused,
	}
	w.SetChangeCallback(w.reload)
	return w
}

// SetPauseCallback sets the function called when the paused flag flips.
func (w *StateWatcher) SetPauseCallback(callback func(*store.SharedState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// SetPaused records a pause change made by the daemon itself.
func (w *StateWatcher) SetPaused(paused bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paused = paused
}

func (w *StateWatcher) reload() {
	state, err := store.LoadSharedState(w.path)
	if err != nil {
		w.logger.Warn("failed to reload shared state", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	if state.Paused == w.paused {
		w.mu.Unlock()
		return
	}
	w.paused = state.Paused
	callback := w.onChange
	w.mu.Unlock()

	w.logger.Info("pause state changed externally", "paused", state.Paused)
	if callback != nil {
		callback(state)
	}
}

// ConfigWatcher reloads and validates the daemon config file.
type ConfigWatcher struct {
	*FileWatcher

	mu            sync.RWMutex
	currentConfig *config.DaemonConfig
	onReload      func(*config.DaemonConfig)
	onError       func(error)
}

// NewConfigWatcher watches the daemon config at path.
func NewConfigWatcher(path string, initial *config.DaemonConfig, logger *slog.Logger) *ConfigWatcher {
	w := &ConfigWatcher{
		FileWatcher:   NewFileWatcher("config", path, logger),
		currentConfig: initial,
	}
	w.SetChangeCallback(w.reload)
	return w
}

// SetReloadCallback sets the callback for successfully reloaded configs.
func (w *ConfigWatcher) SetReloadCallback(callback func(*config.DaemonConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the callback for configs that fail validation.
func (w *ConfigWatcher) SetErrorCallback(callback func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// GetCurrentConfig returns the last valid configuration.
func (w *ConfigWatcher) GetCurrentConfig() *config.DaemonConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentConfig
}

func (w *ConfigWatcher) reload() {
	w.mu.RLock()
	reloadCallback, errorCallback := w.onReload, w.onError
	w.mu.RUnlock()

	cfg, err := config.LoadDaemonConfig(w.path)
	if err != nil {
		// The previous config stays in effect.
		w.logger.Warn("config file changed but validation failed", "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.currentConfig = cfg
	w.mu.Unlock()

	w.logger.Info("config reloaded successfully")
	if reloadCallback != nil {
		reloadCallback(cfg)
	}
}
