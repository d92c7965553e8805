package display

import (
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// fallbackWidth and fallbackHeight are used when no monitor reports a size.
const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// Monitor returns the monitor bubbles appear on. index is 1-based;
// 0 or an unavailable index selects the first monitor.
func Monitor(display *gdk.Display, index int) *gdk.Monitor {
	if display == nil {
		return nil
	}
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}

	i := uint(0)
	if index > 0 && uint(index-1) < monitors.NItems() {
		i = uint(index - 1)
	}
	return wrapMonitor(monitors.Item(i))
}

// ScreenSize returns the logical size of monitor.
func ScreenSize(monitor *gdk.Monitor) (int, int) {
	if monitor == nil {
		return fallbackWidth, fallbackHeight
	}
	rect := monitor.Geometry()
	if rect == nil || rect.Width() <= 0 || rect.Height() <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return rect.Width(), rect.Height()
}

// wrapMonitor wraps a list item as a gdk.Monitor; gotk4 doesn't export
// its own wrapper.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// setMonitor pins a layer-shell window to monitor.
func setMonitor(window *gtk.Window, monitor *gdk.Monitor) {
	if monitor == nil {
		return
	}
	layershell.SetMonitor(window, monitor)
}
