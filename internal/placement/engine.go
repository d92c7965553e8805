package placement

import (
	"math/rand/v2"
	"sync"
)

// Default engine parameters.
const (
	DefaultMargin     = 20
	DefaultSpacing    = 200
	DefaultCascadeGap = 10
)

// Point is a screen coordinate in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Geometry describes the screen and the bubble being placed.
type Geometry struct {
	ScreenWidth  int
	ScreenHeight int
	BubbleWidth  int
	BubbleHeight int
}

// Params are the fixed spacing constants used by the engine.
type Params struct {
	// Margin is kept between a bubble and every screen edge.
	Margin int
	// Spacing is the horizontal step between cascading sweep bubbles.
	Spacing int
	// CascadeGap is added to the bubble height to form the vertical cascade step.
	CascadeGap int
}

// DefaultParams returns the standard engine parameters.
func DefaultParams() Params {
	return Params{
		Margin:     DefaultMargin,
		Spacing:    DefaultSpacing,
		CascadeGap: DefaultCascadeGap,
	}
}

// Placement is the computed position of a bubble.
// For sweep modes the bubble moves linearly from Start to End over its lifetime.
type Placement struct {
	Mode     Mode  `json:"mode"`
	Start    Point `json:"start"`
	End      Point `json:"end"`
	Animated bool  `json:"animated"`
	// Slot is the cascade slot used, or -1 for modes without one.
	Slot int `json:"slot"`
}

// Engine computes bubble placements. It never fails: unknown modes fall back
// to random placement and degenerate geometry is clamped.
type Engine struct {
	params   Params
	registry *Registry

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used by random placement.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithParams overrides the spacing constants.
func WithParams(p Params) Option {
	return func(e *Engine) {
		e.params = p
	}
}

// NewEngine creates an engine that advances cascade slots in registry.
// A nil registry gets a private one.
func NewEngine(registry *Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = NewRegistry()
	}
	e := &Engine{
		params:   DefaultParams(),
		registry: registry,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.params.Margin < 0 {
		e.params.Margin = 0
	}
	if e.params.Spacing < 1 {
		e.params.Spacing = DefaultSpacing
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Registry returns the cascade slot registry the engine advances.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Params returns the engine's spacing constants.
func (e *Engine) Params() Params {
	return e.params
}

// PlaceName is Place with the mode given by its settings name.
func (e *Engine) PlaceName(mode string, g Geometry) Placement {
	return e.Place(ParseMode(mode), g)
}

// Place computes the placement of a new bubble in the given mode.
func (e *Engine) Place(mode Mode, g Geometry) Placement {
	var p Placement
	switch mode.Family() {
	case FamilyFixed:
		p = e.placeFixed(mode, g)
	case FamilyCascade:
		p = e.placeCascade(mode, g)
	case FamilySweep:
		p = e.placeSweep(mode, g)
	case FamilyCascadeSweep:
		p = e.placeCascadeSweep(mode, g)
	default:
		mode = ModeRandom
		p = e.placeRandom(g)
	}
	p.Mode = mode
	p.Start = e.clamp(p.Start, g)
	if p.Animated {
		p.End = e.clamp(p.End, g)
	} else {
		p.End = p.Start
	}
	return p
}

// edges are the extreme in-bounds coordinates for a bubble.
type edges struct {
	left, right, top, bottom int
	centerX, centerY         int
}

func (e *Engine) edges(g Geometry) edges {
	m := e.params.Margin
	return edges{
		left:    m,
		right:   g.ScreenWidth - g.BubbleWidth - m,
		top:     m,
		bottom:  g.ScreenHeight - g.BubbleHeight - m,
		centerX: (g.ScreenWidth - g.BubbleWidth) / 2,
		centerY: (g.ScreenHeight - g.BubbleHeight) / 2,
	}
}

func (e *Engine) placeRandom(g Geometry) Placement {
	ed := e.edges(g)
	return Placement{
		Start: Point{X: e.randomIn(ed.left, ed.right, ed.centerX), Y: e.randomIn(ed.top, ed.bottom, ed.centerY)},
		Slot:  -1,
	}
}

// randomIn returns a uniform value in [lo, hi], or fallback when the range is empty.
func (e *Engine) randomIn(lo, hi, fallback int) int {
	if hi < lo {
		return fallback
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return lo + e.rng.IntN(hi-lo+1)
}

func (e *Engine) placeFixed(mode Mode, g Geometry) Placement {
	ed := e.edges(g)
	var pt Point
	switch mode {
	case ModeTopLeft:
		pt = Point{ed.left, ed.top}
	case ModeTopRight:
		pt = Point{ed.right, ed.top}
	case ModeBottomLeft:
		pt = Point{ed.left, ed.bottom}
	case ModeBottomRight:
		pt = Point{ed.right, ed.bottom}
	default:
		pt = Point{ed.centerX, ed.centerY}
	}
	return Placement{Start: pt, Slot: -1}
}

// CascadeSlots returns how many vertically cascaded bubbles fit on screen.
func (e *Engine) CascadeSlots(g Geometry) int {
	step := g.BubbleHeight + e.params.CascadeGap
	if step < 1 {
		step = 1
	}
	n := (g.ScreenHeight - 2*e.params.Margin) / step
	if n < 1 {
		n = 1
	}
	return n
}

// SweepSlots returns how many horizontally cascaded sweep bubbles fit on screen.
func (e *Engine) SweepSlots(g Geometry) int {
	n := (g.ScreenWidth - 2*e.params.Margin) / e.params.Spacing
	if n < 1 {
		n = 1
	}
	return n
}

func (e *Engine) placeCascade(mode Mode, g Geometry) Placement {
	ed := e.edges(g)
	x := ed.left
	switch mode {
	case ModeCascadeTopRight:
		x = ed.right
	case ModeCascadeTopCenter:
		x = ed.centerX
	}
	idx := e.registry.Next(mode.SlotKey(), e.CascadeSlots(g))
	y := ed.top + idx*(g.BubbleHeight+e.params.CascadeGap)
	return Placement{Start: Point{x, y}, Slot: idx}
}

func (e *Engine) placeSweep(mode Mode, g Geometry) Placement {
	ed := e.edges(g)
	var start, end Point
	switch mode {
	case ModeLeftToRightTopLeft:
		start, end = Point{ed.left, ed.top}, Point{ed.right, ed.top}
	case ModeLeftToRightBottomLeft:
		start, end = Point{ed.left, ed.bottom}, Point{ed.right, ed.bottom}
	case ModeRightToLeftTopRight:
		start, end = Point{ed.right, ed.top}, Point{ed.left, ed.top}
	case ModeRightToLeftBottomRight:
		start, end = Point{ed.right, ed.bottom}, Point{ed.left, ed.bottom}
	case ModeTopToBottomTopLeft:
		start, end = Point{ed.left, ed.top}, Point{ed.left, ed.bottom}
	case ModeTopToBottomTopCenter:
		start, end = Point{ed.centerX, ed.top}, Point{ed.centerX, ed.bottom}
	default:
		start, end = Point{ed.right, ed.top}, Point{ed.right, ed.bottom}
	}
	return Placement{Start: start, End: end, Animated: true, Slot: -1}
}

func (e *Engine) placeCascadeSweep(mode Mode, g Geometry) Placement {
	ed := e.edges(g)
	key := mode.SlotKey()
	idx := e.registry.Next(key, e.SweepSlots(g))
	offset := idx * e.params.Spacing

	y := ed.top
	if mode == ModeCascadeRightToLeftBottomRight || mode == ModeCascadeLeftToRightBottomLeft {
		y = ed.bottom
	}

	var x int
	switch mode {
	case ModeCascadeRightToLeftTopRight, ModeCascadeRightToLeftBottomRight:
		x = ed.right - offset
		if x < ed.left {
			e.registry.Reset(key)
			x, idx = ed.right, 0
		}
	default:
		x = ed.left + offset
		if x > ed.right {
			e.registry.Reset(key)
			x, idx = ed.left, 0
		}
	}
	return Placement{Start: Point{x, y}, Slot: idx}
}

// clamp keeps a point inside the margins. When the bubble does not fit
// between the margins on an axis it is centered on that axis instead.
func (e *Engine) clamp(p Point, g Geometry) Point {
	return Point{
		X: clampAxis(p.X, g.ScreenWidth, g.BubbleWidth, e.params.Margin),
		Y: clampAxis(p.Y, g.ScreenHeight, g.BubbleHeight, e.params.Margin),
	}
}

func clampAxis(v, screen, size, margin int) int {
	lo, hi := margin, screen-size-margin
	if hi < lo {
		return max(0, (screen-size)/2)
	}
	return min(max(v, lo), hi)
}

// Lerp returns the point a fraction t (0..1) of the way from a to b.
func Lerp(a, b Point, t float64) Point {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return Point{
		X: a.X + int(float64(b.X-a.X)*t),
		Y: a.Y + int(float64(b.Y-a.Y)*t),
	}
}
