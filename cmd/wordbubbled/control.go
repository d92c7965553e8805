package main

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/fonts"
	"github.com/jmylchreest/wordbubble/internal/i18n"
	"github.com/jmylchreest/wordbubble/internal/placement"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// controlWindow is the main window: play/pause, list selection and the
// bubble settings the user changes most. Closing it only hides it.
type controlWindow struct {
	d   *daemonApp
	win *adw.ApplicationWindow

	toasts    *adw.ToastOverlay
	playBtn   *gtk.Button
	listRow   *adw.ActionRow
	lists     *gtk.DropDown
	listNames []string

	modeRow   *adw.ActionRow
	modes     *gtk.DropDown
	posRow    *adw.ActionRow
	positions *gtk.DropDown

	intervalRow *adw.ActionRow
	interval    *gtk.SpinButton
	durationRow *adw.ActionRow
	duration    *gtk.SpinButton
	darkRow     *adw.ActionRow
	dark        *gtk.Switch

	previewBtn    *gtk.Button
	importListBtn *gtk.Button
	importFontBtn *gtk.Button
	quitBtn       *gtk.Button

	// syncing suppresses change handlers while widgets are set from settings.
	syncing bool
}

func newControlWindow(d *daemonApp) *controlWindow {
	c := &controlWindow{d: d}
	c.buildUI()
	c.RefreshLists()
	c.Sync()
	return c
}

func (c *controlWindow) buildUI() {
	c.win = adw.NewApplicationWindow(&c.d.app.Application)
	c.win.SetDefaultSize(380, -1)
	c.win.SetHideOnClose(true)

	header := adw.NewHeaderBar()

	c.playBtn = gtk.NewButton()
	c.playBtn.AddCSSClass("suggested-action")
	c.playBtn.ConnectClicked(func() {
		c.SetPaused(c.d.TogglePaused())
	})

	c.lists = gtk.NewDropDownFromStrings(nil)
	c.lists.SetVAlign(gtk.AlignCenter)
	c.lists.NotifyProperty("selected", c.onListSelected)
	c.listRow = adw.NewActionRow()
	c.listRow.AddSuffix(c.lists)

	c.modes = gtk.NewDropDownFromStrings(nil)
	c.modes.SetVAlign(gtk.AlignCenter)
	c.modes.NotifyProperty("selected", func() {
		mode := wordlist.PlayRandom
		if c.modes.Selected() == 1 {
			mode = wordlist.PlaySequential
		}
		c.update(func(s *config.Settings) { s.PlayMode = string(mode) })
	})
	c.modeRow = adw.NewActionRow()
	c.modeRow.AddSuffix(c.modes)

	modes := placement.AllModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	c.positions = gtk.NewDropDownFromStrings(names)
	c.positions.SetVAlign(gtk.AlignCenter)
	c.positions.NotifyProperty("selected", func() {
		idx := int(c.positions.Selected())
		if idx < 0 || idx >= len(modes) {
			return
		}
		c.update(func(s *config.Settings) { s.BubblePosition = modes[idx].String() })
	})
	c.posRow = adw.NewActionRow()
	c.posRow.AddSuffix(c.positions)

	c.interval = gtk.NewSpinButtonWithRange(config.MinBubbleInterval, config.MaxBubbleInterval, 1)
	c.interval.SetVAlign(gtk.AlignCenter)
	c.interval.ConnectValueChanged(func() {
		v := c.interval.ValueAsInt()
		c.update(func(s *config.Settings) { s.BubbleInterval = v })
	})
	c.intervalRow = adw.NewActionRow()
	c.intervalRow.AddSuffix(c.interval)

	c.duration = gtk.NewSpinButtonWithRange(config.MinBubbleDuration, config.MaxBubbleDuration, 1)
	c.duration.SetVAlign(gtk.AlignCenter)
	c.duration.ConnectValueChanged(func() {
		v := c.duration.ValueAsInt()
		c.update(func(s *config.Settings) { s.BubbleDuration = v })
	})
	c.durationRow = adw.NewActionRow()
	c.durationRow.AddSuffix(c.duration)

	c.dark = gtk.NewSwitch()
	c.dark.SetVAlign(gtk.AlignCenter)
	c.dark.NotifyProperty("active", func() {
		v := c.dark.Active()
		c.update(func(s *config.Settings) { s.DarkMode = v })
	})
	c.darkRow = adw.NewActionRow()
	c.darkRow.AddSuffix(c.dark)
	c.darkRow.SetActivatableWidget(c.dark)

	group := adw.NewPreferencesGroup()
	for _, row := range []*adw.ActionRow{c.listRow, c.modeRow, c.posRow, c.intervalRow, c.durationRow, c.darkRow} {
		group.Add(row)
	}

	c.previewBtn = gtk.NewButton()
	c.previewBtn.ConnectClicked(c.d.Preview)
	c.importListBtn = gtk.NewButton()
	c.importListBtn.ConnectClicked(c.importList)
	c.importFontBtn = gtk.NewButton()
	c.importFontBtn.ConnectClicked(func() { c.importFont(false) })
	c.quitBtn = gtk.NewButton()
	c.quitBtn.AddCSSClass("destructive-action")
	c.quitBtn.ConnectClicked(c.d.quit)

	buttons := gtk.NewBox(gtk.OrientationHorizontal, 6)
	buttons.SetHAlign(gtk.AlignCenter)
	for _, b := range []*gtk.Button{c.previewBtn, c.importListBtn, c.importFontBtn, c.quitBtn} {
		buttons.Append(b)
	}

	page := gtk.NewBox(gtk.OrientationVertical, 12)
	page.SetMarginTop(12)
	page.SetMarginBottom(12)
	page.SetMarginStart(12)
	page.SetMarginEnd(12)
	page.Append(c.playBtn)
	page.Append(group)
	page.Append(buttons)

	c.toasts = adw.NewToastOverlay()
	c.toasts.SetChild(page)

	content := gtk.NewBox(gtk.OrientationVertical, 0)
	content.Append(header)
	content.Append(c.toasts)
	c.win.SetContent(content)
}

// Present shows the window and brings it to the front.
func (c *controlWindow) Present() {
	c.win.SetVisible(true)
	c.win.Unminimize()
	c.win.Present()
}

// SetPaused updates the play/pause button.
func (c *controlWindow) SetPaused(paused bool) {
	loc := c.d.localizer()
	if paused {
		c.playBtn.SetLabel(loc.T(i18n.MsgPlay, nil))
	} else {
		c.playBtn.SetLabel(loc.T(i18n.MsgPause, nil))
	}
}

// RefreshLists reloads the list names into the dropdown.
func (c *controlWindow) RefreshLists() {
	names, err := c.d.lists.Lists()
	if err != nil {
		c.d.logger.Warn("failed to list word lists", "error", err)
	}
	c.listNames = names

	c.syncing = true
	c.lists.SetModel(gtk.NewStringList(names))
	c.syncing = false
	c.Sync()
}

// Sync sets every widget from the current settings and relabels it in
// the current language.
func (c *controlWindow) Sync() {
	s := c.d.currentSettings()
	loc := c.d.localizer()
	selected := c.d.selectedList()

	c.syncing = true
	defer func() { c.syncing = false }()

	c.win.SetTitle(loc.T(i18n.MsgWindowTitle, nil))
	c.modeRow.SetTitle(loc.T(i18n.MsgPlayMode, nil))
	c.posRow.SetTitle(loc.T(i18n.MsgPosition, nil))
	c.intervalRow.SetTitle(loc.T(i18n.MsgInterval, nil))
	c.durationRow.SetTitle(loc.T(i18n.MsgDuration, nil))
	c.darkRow.SetTitle(loc.T(i18n.MsgDarkMode, nil))
	c.previewBtn.SetLabel(loc.T(i18n.MsgPreviewWord, nil))
	c.importListBtn.SetLabel(loc.T(i18n.MsgImportList, nil))
	c.importFontBtn.SetLabel(loc.T(i18n.MsgImportFont, nil))
	c.quitBtn.SetLabel(loc.T(i18n.MsgQuit, nil))
	c.modes.SetModel(gtk.NewStringList([]string{
		loc.T(i18n.MsgPlayModeRandom, nil),
		loc.T(i18n.MsgPlayModeSequential, nil),
	}))

	switch {
	case len(c.listNames) == 0:
		c.listRow.SetTitle(loc.T(i18n.MsgNoListsFound, nil))
	case selected == "":
		c.listRow.SetTitle(loc.T(i18n.MsgNoListSelected, nil))
	default:
		c.listRow.SetTitle(loc.T(i18n.MsgSelectedList, map[string]any{"Name": selected}))
	}
	for i, name := range c.listNames {
		if name == selected {
			c.lists.SetSelected(uint(i))
		}
	}

	if wordlist.ParsePlayMode(s.PlayMode) == wordlist.PlaySequential {
		c.modes.SetSelected(1)
	} else {
		c.modes.SetSelected(0)
	}
	current := s.Mode()
	for i, m := range placement.AllModes() {
		if m == current {
			c.positions.SetSelected(uint(i))
		}
	}
	c.interval.SetValue(float64(s.BubbleInterval))
	c.duration.SetValue(float64(s.BubbleDuration))
	c.dark.SetActive(s.DarkMode)
	c.SetPaused(c.d.sched.Paused())
}

func (c *controlWindow) update(fn func(s *config.Settings)) {
	if c.syncing {
		return
	}
	c.d.UpdateSettings(fn)
}

func (c *controlWindow) onListSelected() {
	idx := int(c.lists.Selected())
	if idx < 0 || idx >= len(c.listNames) {
		return
	}
	name := c.listNames[idx]
	c.update(func(s *config.Settings) { s.SelectedFile = wordlist.FileName(name) })
}

func (c *controlWindow) toast(msg string) {
	c.toasts.AddToast(adw.NewToast(msg))
}

// chooseFile opens a file dialog and calls fn with the chosen path.
func (c *controlWindow) chooseFile(title string, fn func(path string)) {
	dialog := gtk.NewFileDialog()
	dialog.SetTitle(title)
	dialog.SetModal(true)
	dialog.Open(context.Background(), &c.win.Window, func(res gio.AsyncResulter) {
		file, err := dialog.OpenFinish(res)
		if err != nil || file == nil {
			// Dismissed.
			return
		}
		if path := file.Path(); path != "" {
			fn(path)
		}
	})
}

func (c *controlWindow) importList() {
	loc := c.d.localizer()
	c.chooseFile(loc.T(i18n.MsgImportList, nil), func(path string) {
		name, err := wordlist.NormalizeName(filepath.Base(path))
		if err != nil {
			c.toast(loc.T(i18n.MsgImportListInvalid, nil))
			return
		}
		n, err := c.d.lists.Import(path, name, false)
		switch {
		case errors.Is(err, wordlist.ErrListExists):
			c.toast(loc.T(i18n.MsgListExists, nil))
			return
		case errors.Is(err, wordlist.ErrEmptyFile):
			c.toast(loc.T(i18n.MsgImportListEmpty, nil))
			return
		case err != nil:
			c.d.logger.Warn("failed to import word list", "path", path, "error", err)
			c.toast(loc.T(i18n.MsgImportListInvalid, nil))
			return
		}

		c.d.logger.Info("imported word list", "name", name, "words", n)
		c.RefreshLists()
		c.update(func(s *config.Settings) { s.SelectedFile = wordlist.FileName(name) })
	})
}

func (c *controlWindow) importFont(replace bool) {
	loc := c.d.localizer()
	c.chooseFile(loc.T(i18n.MsgImportFont, nil), func(path string) {
		c.installFont(path, replace)
	})
}

func (c *controlWindow) installFont(path string, replace bool) {
	loc := c.d.localizer()
	name, err := fonts.Import(path, config.FontDir(), replace)
	switch {
	case errors.Is(err, fonts.ErrExists):
		t := adw.NewToast(loc.T(i18n.MsgFontExists, nil))
		t.SetButtonLabel(loc.T(i18n.MsgReplace, nil))
		t.ConnectButtonClicked(func() { c.installFont(path, true) })
		c.toasts.AddToast(t)
		return
	case err != nil:
		c.d.logger.Warn("failed to import font", "path", path, "error", err)
		c.toast(loc.T(i18n.MsgImportFontInvalid, nil))
		return
	}

	c.d.logger.Info("imported font", "file", name, "family", fonts.Family(filepath.Join(config.FontDir(), name)))
	c.update(func(s *config.Settings) { s.SelectedFont = name })
}
