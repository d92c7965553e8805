package display

import (
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wordbubble/internal/bubble"
	"github.com/jmylchreest/wordbubble/internal/placement"
	"github.com/jmylchreest/wordbubble/internal/theme"
)

// padding is added to the measured content size on both axes.
const padding = 20

// Window is the frameless surface showing one bubble.
type Window struct {
	window     *gtk.Window
	box        *gtk.Box
	wordLbl    *gtk.Label
	meaningLbl *gtk.Label
	logger     *slog.Logger

	onDismiss func()
	closed    bool
}

// NewWindow builds the window for b. styleClass selects the generated CSS
// rules for the bubble's style.
func NewWindow(app *gtk.Application, b *bubble.Bubble, styleClass string, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Window{logger: logger}

	w.window = gtk.NewWindow()
	if app != nil {
		w.window.SetApplication(app)
	}
	w.window.SetDecorated(false)
	w.window.SetResizable(false)
	w.window.AddCSSClass(theme.BubbleWindowClass)
	w.window.AddCSSClass(styleClass)

	layershell.InitForWindow(w.window)
	layer := layershell.LayerShellLayerBottom
	if b.Style.TopMost {
		layer = layershell.LayerShellLayerTop
	}
	layershell.SetLayer(w.window, layer)
	layershell.SetExclusiveZone(w.window, 0)
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(w.window, "wordbubble")
	// Top-left anchoring turns margins into absolute coordinates.
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, true)

	w.buildUI(b)
	w.connectSignals()
	return w
}

func (w *Window) buildUI(b *bubble.Bubble) {
	w.box = gtk.NewBox(gtk.OrientationVertical, 2)
	w.box.AddCSSClass(theme.BubbleBoxClass)

	justify, xalign := justification(b.Style.Alignment)
	dir := gtk.TextDirLTR
	if b.Direction == bubble.RightToLeft {
		dir = gtk.TextDirRTL
	}

	w.wordLbl = gtk.NewLabel(b.Word)
	w.wordLbl.AddCSSClass(theme.BubbleWordClass)
	w.wordLbl.SetJustify(justify)
	w.wordLbl.SetXAlign(xalign)
	w.wordLbl.SetDirection(dir)
	w.box.Append(w.wordLbl)

	if b.Meaning != "" {
		w.meaningLbl = gtk.NewLabel(b.Meaning)
		w.meaningLbl.AddCSSClass(theme.BubbleMeaningClass)
		w.meaningLbl.SetJustify(justify)
		w.meaningLbl.SetXAlign(xalign)
		w.meaningLbl.SetDirection(dir)
		w.meaningLbl.SetWrap(true)
		w.meaningLbl.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
		w.meaningLbl.SetMaxWidthChars(40)
		w.box.Append(w.meaningLbl)
	}

	w.window.SetChild(w.box)
}

func justification(a bubble.Alignment) (gtk.Justification, float32) {
	switch a {
	case bubble.AlignLeft:
		return gtk.JustifyLeft, 0
	case bubble.AlignCenter:
		return gtk.JustifyCenter, 0.5
	default:
		return gtk.JustifyRight, 1
	}
}

func (w *Window) connectSignals() {
	click := gtk.NewGestureClick()
	click.SetButton(0)
	click.ConnectReleased(func(nPress int, x, y float64) {
		if w.onDismiss != nil {
			w.onDismiss()
		}
	})
	w.window.AddController(click)
}

// OnDismiss sets the callback for a click on the bubble.
func (w *Window) OnDismiss(cb func()) {
	w.onDismiss = cb
}

// Size measures the natural content size plus padding.
func (w *Window) Size() (int, int) {
	_, width, _, _ := w.box.Measure(gtk.OrientationHorizontal, -1)
	_, height, _, _ := w.box.Measure(gtk.OrientationVertical, width)
	return width + padding, height + padding
}

// Move places the window's top-left corner at p.
func (w *Window) Move(p placement.Point) {
	layershell.SetMargin(w.window, layershell.LayerShellEdgeLeft, p.X)
	layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, p.Y)
}

// SetOpacity sets the whole window's opacity.
func (w *Window) SetOpacity(opacity float64) {
	w.window.SetOpacity(opacity)
}

// Show presents the window.
func (w *Window) Show() {
	w.window.Present()
}

// Close destroys the window. Safe to call more than once.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.window.Close()
}
