// Package bubble models a single transient word bubble and its lifecycle.
package bubble

import (
	"crypto/rand"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/unicode/bidi"

	"github.com/jmylchreest/wordbubble/internal/placement"
)

// Alignment is the horizontal text alignment inside a bubble.
type Alignment string

const (
	AlignRight  Alignment = "right"
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// ParseAlignment resolves an alignment name, defaulting to right.
func ParseAlignment(s string) Alignment {
	switch Alignment(s) {
	case AlignLeft, AlignCenter:
		return Alignment(s)
	default:
		return AlignRight
	}
}

// Direction is the base text direction of a bubble.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// Style is the visual configuration of a bubble, fixed at creation.
type Style struct {
	FontSize        int
	FontFamily      string
	WordColor       string // #rrggbb
	MeaningColor    string // #rrggbb
	BackgroundColor string // #rrggbb
	Opacity         float64
	Alignment       Alignment
	TopMost         bool
}

// Bubble is an immutable word/meaning popup description.
type Bubble struct {
	ID        string
	Word      string
	Meaning   string
	Style     Style
	Mode      placement.Mode
	Duration  time.Duration
	Direction Direction
	CreatedAt time.Time
}

// New creates a bubble with a fresh ULID.
func New(word, meaning string, style Style, mode placement.Mode, duration time.Duration, language string) *Bubble {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		id = ulid.Make()
	}
	b := &Bubble{
		ID:        id.String(),
		Word:      word,
		Meaning:   meaning,
		Style:     style,
		Mode:      mode,
		Duration:  duration,
		CreatedAt: now,
	}
	b.Direction = DetectDirection(word, language, style.Alignment)
	return b
}

// DetectDirection decides the base direction for bubble text.
// Right alignment always lays out right-to-left; Persian text is
// right-to-left when its first strong character is.
func DetectDirection(text, language string, align Alignment) Direction {
	if align == AlignRight {
		return RightToLeft
	}
	if language == "fa" && IsRTL(text) {
		return RightToLeft
	}
	return LeftToRight
}

// IsRTL reports whether the first strongly-directional rune in text is
// right-to-left.
func IsRTL(text string) bool {
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsDigit(r) {
			continue
		}
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
	}
	return false
}
