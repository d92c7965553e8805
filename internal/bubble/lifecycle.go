package bubble

import (
	"sync"
	"time"

	"github.com/jmylchreest/wordbubble/internal/placement"
)

// State is a lifecycle phase.
type State int

const (
	StateVisible State = iota
	StateFading
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateFading:
		return "fading"
	default:
		return "closed"
	}
}

// Frame is what a bubble window should look like at one instant.
type Frame struct {
	State    State
	Opacity  float64
	Position placement.Point
}

// Lifecycle drives a bubble from Visible through Fading to Closed.
// Opacity decays linearly from the style opacity to zero over the bubble
// duration and, for animated placements, the position moves linearly from
// start to end over the same duration.
type Lifecycle struct {
	mu        sync.Mutex
	bubble    *Bubble
	placement placement.Placement
	startedAt time.Time
	state     State
	onClose   func()
}

// NewLifecycle creates a lifecycle in the Visible state.
func NewLifecycle(b *Bubble, p placement.Placement) *Lifecycle {
	return &Lifecycle{
		bubble:    b,
		placement: p,
		state:     StateVisible,
	}
}

// OnClose sets a callback invoked once when the lifecycle reaches Closed.
func (l *Lifecycle) OnClose(cb func()) {
	l.mu.Lock()
	l.onClose = cb
	l.mu.Unlock()
}

// Bubble returns the bubble being driven.
func (l *Lifecycle) Bubble() *Bubble {
	return l.bubble
}

// Placement returns the placement the bubble was created with.
func (l *Lifecycle) Placement() placement.Placement {
	return l.placement
}

// State returns the current phase.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start records the moment the bubble was shown and enters Fading.
func (l *Lifecycle) Start(now time.Time) Frame {
	l.mu.Lock()
	if l.state == StateVisible {
		l.startedAt = now
		l.state = StateFading
	}
	l.mu.Unlock()
	return l.Frame(now)
}

// Frame computes the frame at now and advances the state. Once Closed, the
// close callback runs exactly once.
func (l *Lifecycle) Frame(now time.Time) Frame {
	l.mu.Lock()

	opacity := l.bubble.Style.Opacity
	switch l.state {
	case StateVisible:
		f := Frame{State: l.state, Opacity: opacity, Position: l.placement.Start}
		l.mu.Unlock()
		return f
	case StateClosed:
		f := Frame{State: l.state, Opacity: 0, Position: l.end()}
		l.mu.Unlock()
		return f
	}

	progress := 1.0
	if d := l.bubble.Duration; d > 0 {
		progress = float64(now.Sub(l.startedAt)) / float64(d)
	}
	progress = min(max(progress, 0), 1)

	f := Frame{
		State:    StateFading,
		Opacity:  opacity * (1 - progress),
		Position: l.placement.Start,
	}
	if l.placement.Animated {
		f.Position = placement.Lerp(l.placement.Start, l.placement.End, progress)
	}

	var cb func()
	if progress >= 1 {
		l.state = StateClosed
		f.State = StateClosed
		f.Opacity = 0
		cb = l.onClose
		l.onClose = nil
	}
	l.mu.Unlock()

	if cb != nil {
		cb()
	}
	return f
}

// Close forces the lifecycle to Closed, running the close callback if it
// has not already run.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	if l.state == StateClosed {
		l.mu.Unlock()
		return
	}
	l.state = StateClosed
	cb := l.onClose
	l.onClose = nil
	l.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (l *Lifecycle) end() placement.Point {
	if l.placement.Animated {
		return l.placement.End
	}
	return l.placement.Start
}
