package theme

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/wordbubble/internal/bubble"
)

// Bubble widget CSS classes.
const (
	BubbleWindowClass  = "wordbubble"
	BubbleBoxClass     = "bubble-box"
	BubbleWordClass    = "bubble-word"
	BubbleMeaningClass = "bubble-meaning"
)

// StyleClass returns a CSS class name unique to a style, so bubbles created
// under different settings keep their own look.
func StyleClass(s bubble.Style) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d|%s|%s|%s|%s|%s", s.FontSize, s.FontFamily, s.WordColor, s.MeaningColor, s.BackgroundColor, s.Alignment)
	return fmt.Sprintf("bubble-style-%08x", h.Sum32())
}

// BubbleCSS generates the rules for one style class.
func BubbleCSS(class string, s bubble.Style) string {
	bg := parseColor(s.BackgroundColor, colorful.Color{R: 0.8, G: 1, B: 1})
	border := bg.BlendLab(colorful.Color{}, 0.2).Clamped()
	word := parseColor(s.WordColor, colorful.Color{})
	meaning := parseColor(s.MeaningColor, colorful.Color{B: 1})

	var b strings.Builder
	fmt.Fprintf(&b, ".%s .%s {\n", class, BubbleBoxClass)
	fmt.Fprintf(&b, "  background-color: %s;\n", bg.Hex())
	fmt.Fprintf(&b, "  border-color: %s;\n", border.Hex())
	b.WriteString("}\n")

	font := fontDecl(s)
	fmt.Fprintf(&b, ".%s .%s {\n  color: %s;\n%s}\n", class, BubbleWordClass, word.Hex(), font)
	fmt.Fprintf(&b, ".%s .%s {\n  color: %s;\n%s}\n", class, BubbleMeaningClass, meaning.Hex(), font)
	return b.String()
}

// IsDark reports whether a hex color is dark enough to need light text.
func IsDark(hex string) bool {
	c, err := colorful.Hex(hex)
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l < 0.5
}

func fontDecl(s bubble.Style) string {
	var b strings.Builder
	if s.FontSize > 0 {
		fmt.Fprintf(&b, "  font-size: %dpt;\n", s.FontSize)
	}
	if family := sanitizeFamily(s.FontFamily); family != "" {
		fmt.Fprintf(&b, "  font-family: \"%s\";\n", family)
	}
	return b.String()
}

func sanitizeFamily(family string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', ';', '{', '}', '\n', '\r':
			return -1
		}
		return r
	}, strings.TrimSpace(family))
}

func parseColor(hex string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}
