package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/wordbubble/internal/bubble"
)

func testStyle() bubble.Style {
	return bubble.Style{
		FontSize:        13,
		FontFamily:      "Vazir",
		WordColor:       "#000000",
		MeaningColor:    "#0000ff",
		BackgroundColor: "#ccffff",
		Opacity:         0.9,
		Alignment:       bubble.AlignRight,
	}
}

func TestStyleClass(t *testing.T) {
	a := StyleClass(testStyle())
	assert.True(t, strings.HasPrefix(a, "bubble-style-"))
	assert.Equal(t, a, StyleClass(testStyle()))

	other := testStyle()
	other.WordColor = "#ff0000"
	assert.NotEqual(t, a, StyleClass(other))

	// Opacity is applied to the window, not CSS.
	faded := testStyle()
	faded.Opacity = 0.3
	assert.Equal(t, a, StyleClass(faded))
}

func TestBubbleCSS(t *testing.T) {
	css := BubbleCSS("bubble-style-x", testStyle())

	assert.Contains(t, css, ".bubble-style-x .bubble-box {")
	assert.Contains(t, css, "background-color: #ccffff;")
	assert.Contains(t, css, ".bubble-style-x .bubble-word {\n  color: #000000;")
	assert.Contains(t, css, ".bubble-style-x .bubble-meaning {\n  color: #0000ff;")
	assert.Contains(t, css, "font-size: 13pt;")
	assert.Contains(t, css, `font-family: "Vazir";`)
	assert.NotContains(t, css, "border-color: #ccffff;")
}

func TestBubbleCSS_InvalidInputs(t *testing.T) {
	s := testStyle()
	s.BackgroundColor = "bogus"
	s.FontFamily = `Evil"; } * { color: red`
	s.FontSize = 0

	css := BubbleCSS("c", s)
	assert.Contains(t, css, "background-color: #ccffff;")
	assert.NotContains(t, css, "font-size")
	assert.Contains(t, css, `font-family: "Evil  *  color: red";`)
	assert.Equal(t, 0, strings.Count(css, "* {"))
}

func TestIsDark(t *testing.T) {
	assert.True(t, IsDark("#000000"))
	assert.True(t, IsDark("#1a1a2e"))
	assert.False(t, IsDark("#ffffff"))
	assert.False(t, IsDark("#ccffff"))
	assert.False(t, IsDark("nope"))
}
