package bubble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wordbubble/internal/placement"
)

func testStyle() Style {
	return Style{
		FontSize:        13,
		WordColor:       "#000000",
		MeaningColor:    "#0000ff",
		BackgroundColor: "#ccffff",
		Opacity:         0.8,
		Alignment:       AlignLeft,
	}
}

func TestNew(t *testing.T) {
	b := New("apple", "a fruit", testStyle(), placement.ModeCenter, 5*time.Second, "en")
	assert.Len(t, b.ID, 26)
	assert.Equal(t, "apple", b.Word)
	assert.Equal(t, "a fruit", b.Meaning)
	assert.Equal(t, LeftToRight, b.Direction)

	other := New("apple", "a fruit", testStyle(), placement.ModeCenter, 5*time.Second, "en")
	assert.NotEqual(t, b.ID, other.ID)
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		language string
		align    Alignment
		want     Direction
	}{
		{"right alignment forces rtl", "apple", "en", AlignRight, RightToLeft},
		{"persian text in fa", "سیب", "fa", AlignLeft, RightToLeft},
		{"persian text in en", "سیب", "en", AlignCenter, LeftToRight},
		{"latin text in fa", "apple", "fa", AlignLeft, LeftToRight},
		{"leading punctuation skipped", "«سیب»", "fa", AlignLeft, RightToLeft},
		{"empty", "", "fa", AlignLeft, LeftToRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDirection(tt.text, tt.language, tt.align))
		})
	}
}

func TestParseAlignment(t *testing.T) {
	assert.Equal(t, AlignLeft, ParseAlignment("left"))
	assert.Equal(t, AlignCenter, ParseAlignment("center"))
	assert.Equal(t, AlignRight, ParseAlignment("right"))
	assert.Equal(t, AlignRight, ParseAlignment("justify"))
}

func TestLifecycle_FadeAndClose(t *testing.T) {
	b := New("w", "m", testStyle(), placement.ModeTopLeft, 4*time.Second, "en")
	p := placement.Placement{Start: placement.Point{X: 20, Y: 20}, End: placement.Point{X: 20, Y: 20}}
	l := NewLifecycle(b, p)

	closed := 0
	l.OnClose(func() { closed++ })

	start := time.Unix(1000, 0)
	assert.Equal(t, StateVisible, l.State())
	f := l.Frame(start)
	assert.Equal(t, StateVisible, f.State)
	assert.InDelta(t, 0.8, f.Opacity, 1e-9)

	f = l.Start(start)
	assert.Equal(t, StateFading, f.State)
	assert.InDelta(t, 0.8, f.Opacity, 1e-9)

	f = l.Frame(start.Add(time.Second))
	assert.Equal(t, StateFading, f.State)
	assert.InDelta(t, 0.6, f.Opacity, 1e-9)
	assert.Equal(t, p.Start, f.Position)

	f = l.Frame(start.Add(3 * time.Second))
	assert.InDelta(t, 0.2, f.Opacity, 1e-9)

	f = l.Frame(start.Add(4 * time.Second))
	assert.Equal(t, StateClosed, f.State)
	assert.Zero(t, f.Opacity)
	assert.Equal(t, 1, closed)

	// Further frames and Close never re-run the callback.
	l.Frame(start.Add(10 * time.Second))
	l.Close()
	assert.Equal(t, 1, closed)
}

func TestLifecycle_AnimatedPosition(t *testing.T) {
	b := New("w", "m", testStyle(), placement.ModeLeftToRightTopLeft, 2*time.Second, "en")
	p := placement.Placement{
		Start:    placement.Point{X: 20, Y: 20},
		End:      placement.Point{X: 1680, Y: 20},
		Animated: true,
	}
	l := NewLifecycle(b, p)

	start := time.Unix(0, 0)
	l.Start(start)

	f := l.Frame(start.Add(time.Second))
	assert.Equal(t, placement.Point{X: 850, Y: 20}, f.Position)
	assert.InDelta(t, 0.4, f.Opacity, 1e-9)

	f = l.Frame(start.Add(5 * time.Second))
	assert.Equal(t, StateClosed, f.State)
	assert.Equal(t, p.End, f.Position)
}

func TestLifecycle_ZeroDurationClosesImmediately(t *testing.T) {
	b := New("w", "m", testStyle(), placement.ModeCenter, 0, "en")
	l := NewLifecycle(b, placement.Placement{})

	done := make(chan struct{})
	l.OnClose(func() { close(done) })

	f := l.Start(time.Now())
	assert.Equal(t, StateClosed, f.State)
	select {
	case <-done:
	default:
		require.Fail(t, "close callback not invoked")
	}
}

func TestLifecycle_CloseRunsCallbackBeforeReturning(t *testing.T) {
	b := New("w", "m", testStyle(), placement.ModeCenter, time.Minute, "en")
	l := NewLifecycle(b, placement.Placement{})

	removed := false
	l.OnClose(func() { removed = true })
	l.Start(time.Now())

	l.Close()
	assert.True(t, removed, "callback must have run when Close returns")
}

func TestLifecycle_ForcedClose(t *testing.T) {
	b := New("w", "m", testStyle(), placement.ModeCenter, time.Minute, "en")
	l := NewLifecycle(b, placement.Placement{})

	closed := 0
	l.OnClose(func() { closed++ })
	l.Start(time.Now())
	l.Close()
	l.Close()

	assert.Equal(t, StateClosed, l.State())
	assert.Equal(t, 1, closed)
	assert.Equal(t, "closed", l.State().String())
}
