// Package daemon holds the background plumbing of wordbubbled: polling
// watchers for the settings, daemon config, shared state and theme files,
// and the rate-limited internal notifier.
package daemon
