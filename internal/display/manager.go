package display

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wordbubble/internal/bubble"
	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/placement"
	"github.com/jmylchreest/wordbubble/internal/theme"
)

// activeBubble is a bubble currently on screen.
type activeBubble struct {
	id        string
	window    *Window
	lifecycle *bubble.Lifecycle
	elem      *list.Element
}

// ShowCallback is called after a bubble has been placed and shown.
type ShowCallback func(b *bubble.Bubble, p placement.Placement)

// Manager creates bubble windows and drives their lifecycles. Every method
// must run on the GTK main thread.
type Manager struct {
	app     *gtk.Application
	logger  *slog.Logger
	loader  *theme.Loader
	display *gdk.Display

	mu       sync.Mutex
	config   *config.DaemonConfig
	registry *placement.Registry
	engine   *placement.Engine
	bubbles  map[string]*activeBubble
	order    *list.List // oldest first

	onShow ShowCallback
}

// NewManager creates a display manager. The registry is shared by every
// bubble for the lifetime of the manager.
func NewManager(app *gtk.Application, cfg *config.DaemonConfig, loader *theme.Loader, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}

	registry := placement.NewRegistry()
	return &Manager{
		app:      app,
		logger:   logger,
		loader:   loader,
		config:   cfg,
		registry: registry,
		engine:   placement.NewEngine(registry, placement.WithParams(cfg.PlacementParams())),
		bubbles:  make(map[string]*activeBubble),
		order:    list.New(),
	}
}

// Start binds the manager to the default display.
func (m *Manager) Start() error {
	m.display = gdk.DisplayGetDefault()
	if m.display == nil {
		return &DisplayError{Message: "no display available"}
	}
	m.logger.Info("display manager started")
	return nil
}

// Stop closes every bubble.
func (m *Manager) Stop() {
	m.CloseAll()
	m.logger.Info("display manager stopped")
}

// SetShowCallback sets the callback run after each bubble appears.
func (m *Manager) SetShowCallback(cb ShowCallback) {
	m.onShow = cb
}

// Show places and presents b. Existing bubbles are never moved.
func (m *Manager) Show(b *bubble.Bubble) error {
	if m.display == nil {
		return &DisplayError{Message: "display manager not started"}
	}

	class := theme.StyleClass(b.Style)
	if m.loader != nil {
		class = m.loader.BubbleClass(b.Style)
	}

	m.mu.Lock()
	cfg := m.config
	engine := m.engine
	m.mu.Unlock()

	m.evictForLimit(cfg.Display.MaxVisible)

	win := NewWindow(m.app, b, class, m.logger)
	monitor := Monitor(m.display, cfg.Display.Monitor)
	setMonitor(win.window, monitor)

	screenW, screenH := ScreenSize(monitor)
	bubbleW, bubbleH := win.Size()
	p := engine.Place(b.Mode, placement.Geometry{
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
		BubbleWidth:  bubbleW,
		BubbleHeight: bubbleH,
	})

	lc := bubble.NewLifecycle(b, p)
	ab := &activeBubble{id: b.ID, window: win, lifecycle: lc}

	lc.OnClose(func() { m.remove(ab) })
	win.OnDismiss(lc.Close)

	m.mu.Lock()
	ab.elem = m.order.PushBack(ab)
	m.bubbles[b.ID] = ab
	m.mu.Unlock()

	frame := lc.Start(time.Now())
	win.Move(frame.Position)
	win.SetOpacity(frame.Opacity)
	win.Show()

	m.schedule(ab, cfg.Animation.FrameInterval.Duration())

	m.logger.Debug("showed bubble",
		"id", b.ID,
		"mode", p.Mode.String(),
		"x", p.Start.X,
		"y", p.Start.Y,
		"width", bubbleW,
		"height", bubbleH,
		"slot", p.Slot,
	)

	if m.onShow != nil {
		m.onShow(b, p)
	}
	return nil
}

// schedule drives frames for ab until its lifecycle closes.
func (m *Manager) schedule(ab *activeBubble, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Millisecond
	}
	glib.TimeoutAdd(uint(interval.Milliseconds()), func() bool {
		f := ab.lifecycle.Frame(time.Now())
		if f.State == bubble.StateClosed {
			return false
		}
		ab.window.Move(f.Position)
		ab.window.SetOpacity(f.Opacity)
		return true
	})
}

// evictForLimit closes the oldest bubbles so a new one fits under limit.
func (m *Manager) evictForLimit(limit int) {
	if limit <= 0 {
		return
	}
	for {
		m.mu.Lock()
		if m.order.Len() < limit {
			m.mu.Unlock()
			return
		}
		oldest := m.order.Front().Value.(*activeBubble)
		m.mu.Unlock()

		m.logger.Debug("closing oldest bubble for visibility limit", "id", oldest.id, "limit", limit)
		// Close runs the lifecycle's close callback, which removes it.
		oldest.lifecycle.Close()
	}
}

// remove closes the window and forgets ab. Runs from the lifecycle's
// close callback, exactly once per bubble.
func (m *Manager) remove(ab *activeBubble) {
	m.mu.Lock()
	if _, ok := m.bubbles[ab.id]; ok {
		delete(m.bubbles, ab.id)
		m.order.Remove(ab.elem)
	}
	m.mu.Unlock()

	ab.window.Close()
}

// Close closes one bubble by ID.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	ab, ok := m.bubbles[id]
	m.mu.Unlock()
	if !ok {
		return false
	}
	ab.lifecycle.Close()
	return true
}

// CloseAll closes every visible bubble.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*activeBubble, 0, len(m.bubbles))
	for e := m.order.Front(); e != nil; e = e.Next() {
		all = append(all, e.Value.(*activeBubble))
	}
	m.mu.Unlock()

	for _, ab := range all {
		ab.lifecycle.Close()
	}
}

// ActiveCount returns the number of visible bubbles.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bubbles)
}

// Registry returns the cascade slot registry.
func (m *Manager) Registry() *placement.Registry {
	return m.registry
}

// UpdateConfig applies a reloaded daemon config to future bubbles.
// Visible bubbles keep their placement.
func (m *Manager) UpdateConfig(cfg *config.DaemonConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
	m.engine = placement.NewEngine(m.registry, placement.WithParams(cfg.PlacementParams()))
	m.logger.Debug("display manager config updated",
		"margin", cfg.Placement.Margin,
		"max_visible", cfg.Display.MaxVisible,
	)
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
