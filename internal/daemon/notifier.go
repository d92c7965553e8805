package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/wordbubble/internal/notify"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	NotificationLevelInfo NotificationLevel = iota
	NotificationLevelWarning
	NotificationLevelError
)

func (l NotificationLevel) urgency() notify.Urgency {
	switch l {
	case NotificationLevelInfo:
		return notify.UrgencyLow
	case NotificationLevelError:
		return notify.UrgencyCritical
	default:
		return notify.UrgencyNormal
	}
}

// InternalNotifier tells the user about wordbubbled's own events through
// desktop notifications. Repeats of the same key are rate limited.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	send func(ctx context.Context, msg notify.Message)

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration

	enabled bool
}

// NewInternalNotifier creates a notifier delivering through client.
func NewInternalNotifier(client *notify.Client, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	n := &InternalNotifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
	}
	if client != nil {
		n.send = client.Notify
	}
	return n
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the same key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends a notification unless one with the same key went out
// within the minimum interval.
func (n *InternalNotifier) Notify(key, summary, body string, level NotificationLevel) {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return
	}
	if n.send == nil {
		n.mu.Unlock()
		n.logger.Debug("internal notification skipped: no client", "summary", summary)
		return
	}
	if last, ok := n.lastNotifyTime[key]; ok && time.Since(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "summary", summary)
		return
	}
	n.lastNotifyTime[key] = time.Now()
	send := n.send
	n.mu.Unlock()

	n.logger.Debug("sending internal notification", "key", key, "summary", summary, "level", level)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	send(ctx, notify.Message{
		Summary: summary,
		Body:    body,
		Urgency: level.urgency(),
		Timeout: 5 * time.Second,
	})
}

// NotifySettingsError reports a settings file that could not be applied.
func (n *InternalNotifier) NotifySettingsError(err error) {
	n.Notify("settings-error", "Settings Error", "Failed to apply settings: "+err.Error(), NotificationLevelWarning)
}

// NotifyConfigReloaded reports a successful daemon config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration Reloaded",
		"wordbubbled configuration has been successfully reloaded.", NotificationLevelInfo)
}

// NotifyConfigError reports a daemon config that failed validation.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration Error",
		"Failed to reload configuration: "+err.Error(), NotificationLevelWarning)
}

// NotifyThemeReloaded reports a theme hot reload.
func (n *InternalNotifier) NotifyThemeReloaded(themeName string) {
	n.Notify("theme-reload", "Theme Reloaded", "Theme '"+themeName+"' has been reloaded.", NotificationLevelInfo)
}

// NotifyPauseChanged reports a pause toggled from outside the control window.
func (n *InternalNotifier) NotifyPauseChanged(paused bool, reason string) {
	summary, body := "Word Bubbles Resumed", "New words will appear again."
	if paused {
		summary, body = "Word Bubbles Paused", "No new words will appear until resumed."
	}
	if reason != "" {
		body += " (" + reason + ")"
	}
	n.Notify("pause-change", summary, body, NotificationLevelInfo)
}

// NotifyListError reports a selected word list that could not be read.
func (n *InternalNotifier) NotifyListError(list string, err error) {
	n.Notify("list-error:"+list, "Word List Error",
		"Failed to load '"+list+"': "+err.Error(), NotificationLevelWarning)
}

// NotifyAudioError reports a chime that failed to play.
func (n *InternalNotifier) NotifyAudioError(err error) {
	n.Notify("audio-error", "Audio Error", "Failed to play bubble sound: "+err.Error(), NotificationLevelWarning)
}
