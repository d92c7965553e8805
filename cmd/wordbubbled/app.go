package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/wordbubble/internal/audio"
	"github.com/jmylchreest/wordbubble/internal/bubble"
	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/daemon"
	"github.com/jmylchreest/wordbubble/internal/display"
	"github.com/jmylchreest/wordbubble/internal/fonts"
	"github.com/jmylchreest/wordbubble/internal/i18n"
	"github.com/jmylchreest/wordbubble/internal/instance"
	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/notify"
	"github.com/jmylchreest/wordbubble/internal/placement"
	"github.com/jmylchreest/wordbubble/internal/scheduler"
	"github.com/jmylchreest/wordbubble/internal/store"
	"github.com/jmylchreest/wordbubble/internal/theme"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// stateSource identifies the daemon in shared state transitions.
const stateSource = "wordbubbled"

type daemonOptions struct {
	cfg          *config.DaemonConfig
	configPath   string
	settings     *config.Settings
	settingsPath string
	coord        *instance.Coordinator
	notifier     *notify.Client
	logger       *slog.Logger
}

// daemonApp holds the components owned by the GTK main loop.
type daemonApp struct {
	opts   *daemonOptions
	logger *slog.Logger
	app    *adw.Application
	ctx    context.Context

	// mu guards settings, cfg, loc and fontFamily, which the scheduler
	// goroutine reads through selectedList.
	mu         sync.Mutex
	settings   config.Settings
	cfg        *config.DaemonConfig
	loc        *i18n.Localizer
	fontFamily string

	lists     *wordlist.Store
	picker    *wordlist.Picker
	sched     *scheduler.Scheduler
	themes    *theme.Loader
	audio     *audio.Manager
	display   *display.Manager
	internal  *daemon.InternalNotifier
	statePath string
	control   *controlWindow
	settingsW *daemon.SettingsWatcher
	stateW    *daemon.StateWatcher
	configW   *daemon.ConfigWatcher
	watchers  []*daemon.FileWatcher
	listWatch *wordlist.Watcher
	stopOnce  sync.Once
	running   atomic.Bool
}

// run owns the primary process until the application quits and returns
// its exit status.
func run(opts *daemonOptions) int {
	logger := opts.logger
	logger.Info("starting wordbubbled", "version", version)

	// Single-instance handling is done by the coordinator, not GApplication.
	app := adw.NewApplication(appID, gio.ApplicationNonUnique)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := &daemonApp{
		opts:     opts,
		logger:   logger,
		app:      app,
		ctx:      ctx,
		settings: *opts.settings,
		cfg:      opts.cfg,
		loc:      i18n.New(opts.settings.Language),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
			return
		}
		cancel()

		// Stop components in GTK main loop context
		glib.IdleAdd(func() {
			d.quit()
		})
	}()

	opts.coord.OnActivate(func() {
		glib.IdleAdd(func() {
			if d.running.Load() && d.control != nil {
				d.control.Present()
			}
		})
	})

	app.ConnectActivate(func() {
		if d.running.Load() {
			// Activation after startup only raises the window.
			d.control.Present()
			return
		}
		if err := d.setup(); err != nil {
			logger.Error("failed to start", "error", err)
			d.notifyFatal(err)
			app.Quit()
		}
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		d.stop()
	})

	// Flags were parsed already; GApplication gets only the program name.
	status := app.Run(os.Args[:1])
	d.stop()
	return status
}

// setup builds every component. It runs once on the GTK main loop.
func (d *daemonApp) setup() error {
	logger := d.logger
	s := d.currentSettings()

	lists, err := wordlist.NewStore(config.WordListDir(), logger)
	if err != nil {
		return err
	}
	d.lists = lists
	d.picker = wordlist.NewPicker(wordlist.ParsePlayMode(s.PlayMode), nil)

	d.themes = theme.NewLoader(theme.ThemesDir(), logger)
	d.themes.LoadTheme(theme.DefaultThemeName)
	d.themes.SetDarkMode(s.DarkMode)
	d.themes.Apply(nil)

	d.display = display.NewManager(&d.app.Application, d.cfg, d.themes, logger)
	if err := d.display.Start(); err != nil {
		return err
	}
	d.display.SetShowCallback(func(b *bubble.Bubble, p placement.Placement) {
		logger.Debug("bubble shown", "word", b.Word, "mode", p.Mode.String(), "slot", p.Slot, "x", p.Start.X, "y", p.Start.Y)
	})

	d.audio = audio.NewManager(d.cfg.Audio.Enabled, logger)
	d.audio.Configure(s.SoundPath(), s.SoundVolume)

	d.internal = daemon.NewInternalNotifier(d.opts.notifier, logger)
	d.setFont(s.SelectedFont)

	d.statePath = store.StateFilePath()
	state, err := store.UpdateSharedState(d.statePath, func(st *store.SharedState) {
		st.DaemonPID = os.Getpid()
	})
	if err != nil {
		logger.Warn("failed to record daemon in shared state", "error", err)
		state = store.DefaultSharedState()
	}

	source := &listSource{
		Source: wordlist.Source{Store: d.lists, Picker: d.picker, List: d.selectedList},
		onError: func(list string, err error) {
			d.internal.NotifyListError(list, err)
		},
	}
	d.sched = scheduler.New(source, d.enqueue, s.Interval(), logger)
	d.sched.SetPaused(state.Paused)
	d.sched.Start(d.ctx)

	d.control = newControlWindow(d)
	d.startWatchers(state.Paused)

	d.running.Store(true)
	logger.Info("wordbubbled ready",
		"list", d.selectedList(),
		"paused", state.Paused,
		"interval", s.Interval(),
		"mode", s.Mode().String())

	d.control.Present()
	return nil
}

func (d *daemonApp) startWatchers(paused bool) {
	logger := d.logger
	poll := d.cfg.Animation.PollInterval.Duration()

	d.settingsW = daemon.NewSettingsWatcher(d.opts.settingsPath, &d.settings, logger)
	d.settingsW.SetReloadCallback(func(s *config.Settings) {
		glib.IdleAdd(func() {
			d.applySettings(s)
		})
	})

	d.stateW = daemon.NewStateWatcher(d.statePath, paused, logger)
	d.stateW.SetPauseCallback(func(st *store.SharedState) {
		reason := ""
		if st.LastTransition != nil {
			reason = st.LastTransition.Reason
		}
		glib.IdleAdd(func() {
			d.sched.SetPaused(st.Paused)
			d.control.SetPaused(st.Paused)
		})
		d.internal.NotifyPauseChanged(st.Paused, reason)
	})

	d.configW = daemon.NewConfigWatcher(d.opts.configPath, d.cfg, logger)
	d.configW.SetReloadCallback(func(cfg *config.DaemonConfig) {
		glib.IdleAdd(func() {
			d.mu.Lock()
			d.cfg = cfg
			d.mu.Unlock()
			d.display.UpdateConfig(cfg)
			d.audio.SetEnabled(cfg.Audio.Enabled)
			d.internal.NotifyConfigReloaded()
		})
	})
	d.configW.SetErrorCallback(d.internal.NotifyConfigError)

	watchers := []*daemon.FileWatcher{d.settingsW.FileWatcher, d.stateW.FileWatcher, d.configW.FileWatcher}

	// Only user themes live on disk.
	if t := d.themes.Theme(); t != nil && !t.IsBundled() {
		themeW := daemon.NewFileWatcher("theme", t.Path, logger)
		themeW.SetChangeCallback(func() {
			glib.IdleAdd(func() {
				if d.themes.Reload() {
					d.internal.NotifyThemeReloaded(d.themes.Theme().Name)
				}
			})
		})
		watchers = append(watchers, themeW)
	}

	for _, w := range watchers {
		w.SetPollInterval(poll)
		if err := w.Start(d.ctx); err != nil {
			logger.Warn("failed to start watcher", "path", w.Path(), "error", err)
			continue
		}
		d.watchers = append(d.watchers, w)
	}

	lw, err := wordlist.NewWatcher(d.lists, logger)
	if err != nil {
		logger.Warn("failed to watch word lists", "error", err)
		return
	}
	lw.OnChange(func(name string) {
		glib.IdleAdd(func() {
			d.control.RefreshLists()
		})
	})
	if err := lw.Start(); err != nil {
		logger.Warn("failed to start word list watcher", "error", err)
		return
	}
	d.listWatch = lw
}

// enqueue is the scheduler's ShowFunc. It runs off the main loop.
func (d *daemonApp) enqueue(e model.Entry) {
	glib.IdleAdd(func() {
		d.showEntry(e)
	})
}

// showEntry builds a bubble from the current settings and presents it.
func (d *daemonApp) showEntry(e model.Entry) {
	d.mu.Lock()
	s := d.settings
	family := d.fontFamily
	d.mu.Unlock()

	b := bubble.New(e.Word, e.Meaning, s.Style(family), s.Mode(), s.Duration(), s.Language)
	if err := d.display.Show(b); err != nil {
		d.logger.Error("failed to show bubble", "word", e.Word, "error", err)
		return
	}

	go func() {
		if err := d.audio.Chime(); err != nil {
			d.internal.NotifyAudioError(err)
		}
	}()

	if e.List == "" {
		return
	}
	go func() {
		if _, err := store.UpdateSharedState(d.statePath, func(st *store.SharedState) {
			st.RecordBubble(e.List, e.Word)
		}); err != nil {
			d.logger.Debug("failed to record bubble", "error", err)
		}
	}()
}

// Preview shows a sample bubble with the current settings.
func (d *daemonApp) Preview() {
	loc := d.localizer()
	d.showEntry(model.NewEntry(loc.T(i18n.MsgPreviewWord, nil), loc.T(i18n.MsgPreviewMeaning, nil)))
}

// TogglePaused flips the scheduler and persists the result so the CLI
// sees it.
func (d *daemonApp) TogglePaused() bool {
	paused := d.sched.Toggle()
	d.stateW.SetPaused(paused)
	go func() {
		if _, err := store.UpdateSharedState(d.statePath, func(st *store.SharedState) {
			st.SetPaused(paused, "toggle", stateSource)
		}); err != nil {
			d.logger.Warn("failed to save pause state", "error", err)
		}
	}()
	return paused
}

// UpdateSettings applies fn to a copy of the settings, saves it and
// applies the result. Unchanged settings are not written.
func (d *daemonApp) UpdateSettings(fn func(s *config.Settings)) {
	next := d.currentSettings()
	fn(&next)
	next.Normalize()
	if next == d.currentSettings() {
		return
	}

	if err := config.SaveSettings(d.opts.settingsPath, &next); err != nil {
		d.logger.Error("failed to save settings", "error", err)
		d.internal.NotifySettingsError(err)
		return
	}
	d.settingsW.Update(&next)
	d.applySettings(&next)
}

// applySettings pushes new settings into every component. Main loop only.
func (d *daemonApp) applySettings(s *config.Settings) {
	prev := d.currentSettings()

	d.mu.Lock()
	d.settings = *s
	if s.Language != prev.Language {
		d.loc = i18n.New(s.Language)
	}
	d.mu.Unlock()

	if s.BubbleInterval != prev.BubbleInterval {
		d.sched.SetInterval(s.Interval())
	}
	if s.PlayMode != prev.PlayMode {
		d.picker.SetMode(wordlist.ParsePlayMode(s.PlayMode))
	}
	if s.SelectedFile != prev.SelectedFile {
		d.picker.Reset()
	}
	if s.SoundFile != prev.SoundFile || s.SoundVolume != prev.SoundVolume {
		d.audio.Configure(s.SoundPath(), s.SoundVolume)
	}
	if s.DarkMode != prev.DarkMode {
		d.themes.SetDarkMode(s.DarkMode)
	}
	if s.SelectedFont != prev.SelectedFont {
		d.setFont(s.SelectedFont)
	}

	d.logger.Debug("settings applied", "list", d.selectedList(), "mode", s.BubblePosition)
	d.control.Sync()
}

func (d *daemonApp) setFont(file string) {
	family := fonts.Resolve(config.FontDir(), file)
	d.mu.Lock()
	d.fontFamily = family
	d.mu.Unlock()
}

func (d *daemonApp) currentSettings() config.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

func (d *daemonApp) localizer() *i18n.Localizer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loc
}

// selectedList returns the list name from the current settings.
func (d *daemonApp) selectedList() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return wordlist.SelectedName(d.settings.SelectedFile)
}

func (d *daemonApp) notifyFatal(err error) {
	loc := d.localizer()
	d.opts.notifier.Notify(context.Background(), notify.Message{
		Summary: loc.T(i18n.MsgWindowTitle, nil),
		Body:    loc.T(i18n.MsgBindFailed, map[string]any{"Error": err.Error()}),
		Urgency: notify.UrgencyCritical,
	})
}

// quit stops the components and ends the main loop.
func (d *daemonApp) quit() {
	d.stop()
	d.app.Quit()
}

// stop releases everything exactly once.
func (d *daemonApp) stop() {
	d.stopOnce.Do(func() {
		if d.sched != nil {
			d.sched.Stop()
		}
		for _, w := range d.watchers {
			w.Stop()
		}
		if d.listWatch != nil {
			_ = d.listWatch.Stop()
		}
		if d.audio != nil {
			d.audio.Stop()
		}
		if d.display != nil {
			d.display.Stop()
		}
		if d.running.Load() {
			if _, err := store.UpdateSharedState(d.statePath, func(st *store.SharedState) {
				if st.DaemonPID == os.Getpid() {
					st.DaemonPID = 0
				}
			}); err != nil {
				d.logger.Warn("failed to clear daemon from shared state", "error", err)
			}
		}
		if err := d.opts.coord.Close(); err != nil && !errors.Is(err, instance.ErrClosed) {
			d.logger.Warn("failed to release instance endpoint", "error", err)
		}
		d.running.Store(false)
	})
}

// listSource reports list failures other than an empty selection.
type listSource struct {
	wordlist.Source
	onError func(list string, err error)
}

func (s *listSource) Next() (model.Entry, error) {
	e, err := s.Source.Next()
	if err != nil && !errors.Is(err, wordlist.ErrNoWords) && s.onError != nil {
		s.onError(s.List(), err)
	}
	return e, err
}
