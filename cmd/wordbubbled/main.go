// Package main is the entry point for the wordbubbled desktop daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/i18n"
	"github.com/jmylchreest/wordbubble/internal/instance"
	"github.com/jmylchreest/wordbubble/internal/notify"
)

const (
	appID   = "io.github.jmylchreest.wordbubble"
	appName = "wordbubbled"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to daemon config (default: ~/.config/wordbubble/wordbubbled.toml)")
	settingsPath := flag.String("settings", "", "Path to settings.json (default: ~/.config/wordbubble/settings.json)")
	backend := flag.String("backend", "", "Single-instance backend override (socket or dbus)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("wordbubbled version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *configPath == "" {
		*configPath = config.DaemonConfigPath()
	}
	cfg, err := config.LoadDaemonConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Instance.Backend = *backend
	}

	if *settingsPath == "" {
		*settingsPath = config.SettingsPath()
	}
	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "error", err)
		settings = config.DefaultSettings()
	}
	loc := i18n.New(settings.Language)
	notifier := notify.New(appName, logger)

	timeout := cfg.Instance.ConnectTimeout.Duration()
	ep := instance.NewEndpoint(cfg.Instance.Backend, cfg.Instance.Name, timeout, logger)
	coord := instance.NewCoordinator(ep, logger)

	primary, err := raceForPrimary(coord, timeout)
	if err != nil {
		var bindErr *instance.BindError
		if errors.As(err, &bindErr) {
			logger.Error("failed to bind instance endpoint", "endpoint", bindErr.Endpoint, "error", bindErr.Cause)
		} else {
			logger.Error("single-instance check failed", "error", err)
		}
		notifier.Notify(context.Background(), notify.Message{
			Summary: loc.T(i18n.MsgWindowTitle, nil),
			Body:    loc.T(i18n.MsgBindFailed, map[string]any{"Error": err.Error()}),
			Urgency: notify.UrgencyCritical,
		})
		_ = coord.Close()
		os.Exit(1)
	}

	if !primary {
		runSecondary(coord, notifier, loc, timeout, logger)
		return
	}

	status := run(&daemonOptions{
		cfg:          cfg,
		configPath:   *configPath,
		settings:     settings,
		settingsPath: *settingsPath,
		coord:        coord,
		notifier:     notifier,
		logger:       logger,
	})
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}
	logger.Info("wordbubbled stopped")
}

func raceForPrimary(coord *instance.Coordinator, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout+2*time.Second)
	defer cancel()
	return coord.TryBecomePrimary(ctx)
}

// runSecondary asks the primary to come forward, tells the user it is
// already running and returns so the process exits 0.
func runSecondary(coord *instance.Coordinator, notifier *notify.Client, loc *i18n.Localizer, timeout time.Duration, logger *slog.Logger) {
	defer coord.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
	defer cancel()

	if err := coord.SendActivate(ctx); err != nil {
		logger.Warn("failed to activate running instance", "error", err)
	}
	notifier.Notify(ctx, notify.Message{
		Summary: loc.T(i18n.MsgWindowTitle, nil),
		Body:    loc.T(i18n.MsgAlreadyRunning, nil),
		Urgency: notify.UrgencyNormal,
	})
}
