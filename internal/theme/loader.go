package theme

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wordbubble/internal/bubble"
)

// maxBubbleStyles bounds how many per-style rule sets are kept.
const maxBubbleStyles = 32

// Loader owns the GTK CSS providers: the base theme, the light/dark
// palette and the generated per-style bubble rules.
type Loader struct {
	mu        sync.Mutex
	logger    *slog.Logger
	themesDir string
	theme     *Theme
	dark      bool

	base    *gtk.CSSProvider
	scheme  *gtk.CSSProvider
	bubbles *gtk.CSSProvider

	rules map[string]string
	order []string
}

// NewLoader creates a loader resolving user themes from themesDir.
func NewLoader(themesDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		themesDir: themesDir,
		base:      gtk.NewCSSProvider(),
		scheme:    gtk.NewCSSProvider(),
		bubbles:   gtk.NewCSSProvider(),
		rules:     make(map[string]string),
	}
}

// LoadTheme resolves and loads a theme by name.
func (l *Loader) LoadTheme(name string) {
	t := Resolve(name, l.themesDir)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.theme = t
	l.base.LoadFromString(t.CSS)
	if t.IsBundled() {
		l.logger.Info("loaded bundled theme", "name", t.Name)
	} else {
		l.logger.Info("loaded user theme", "name", t.Name, "path", t.Path)
	}
}

// Reload re-resolves the current theme. Returns true if the CSS changed.
func (l *Loader) Reload() bool {
	l.mu.Lock()
	name := DefaultThemeName
	old := ""
	if l.theme != nil {
		name, old = l.theme.Name, l.theme.CSS
	}
	l.mu.Unlock()

	t := Resolve(name, l.themesDir)
	if t.CSS == old {
		return false
	}

	l.mu.Lock()
	l.theme = t
	l.base.LoadFromString(t.CSS)
	l.mu.Unlock()
	l.logger.Info("hot-reloaded theme", "name", t.Name)
	return true
}

// Theme returns the loaded theme.
func (l *Loader) Theme() *Theme {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.theme
}

// SetDarkMode switches the control-window palette and the libadwaita
// color scheme.
func (l *Loader) SetDarkMode(dark bool) {
	l.mu.Lock()
	l.dark = dark
	l.scheme.LoadFromString(ColorSchemeCSS(dark))
	l.mu.Unlock()

	scheme := adw.ColorSchemeForceLight
	if dark {
		scheme = adw.ColorSchemeForceDark
	}
	adw.StyleManagerGetDefault().SetColorScheme(scheme)
}

// DarkMode reports the current palette.
func (l *Loader) DarkMode() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dark
}

// BubbleClass makes sure rules for style are loaded and returns the class
// bubble windows with that style should carry.
func (l *Loader) BubbleClass(style bubble.Style) string {
	class := StyleClass(style)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.rules[class]; ok {
		return class
	}

	l.rules[class] = BubbleCSS(class, style)
	l.order = append(l.order, class)
	// Oldest styles are dropped first; their bubbles have long faded.
	for len(l.order) > maxBubbleStyles {
		delete(l.rules, l.order[0])
		l.order = l.order[1:]
	}

	var b strings.Builder
	for _, c := range l.order {
		b.WriteString(l.rules[c])
	}
	l.bubbles.LoadFromString(b.String())
	return class
}

// Apply attaches the providers to a display.
// This should be called after the GTK application is initialized.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	for _, p := range []*gtk.CSSProvider{l.base, l.scheme, l.bubbles} {
		gtk.StyleContextAddProviderForDisplay(display, p, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	}
	l.logger.Debug("applied theme to display")
}
