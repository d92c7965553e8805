package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessImports_NoImports(t *testing.T) {
	css := `.bubble-box { color: red; }`
	assert.Equal(t, css, ProcessImports(css, "", nil))
}

func TestProcessImports_FileAndNested(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_grandchild.css"), []byte(`.grandchild { color: blue; }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_child.css"), []byte("@import \"_grandchild.css\";\n.child { color: green; }"), 0o644))

	result := ProcessImports("@import \"_child.css\";\n.main { color: red; }", dir, nil)

	assert.Contains(t, result, "/* imported: _child.css */")
	assert.Contains(t, result, "/* imported: _grandchild.css */")
	assert.Contains(t, result, ".grandchild")
	assert.Contains(t, result, ".child")
	assert.Contains(t, result, ".main")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_a.css"), []byte("@import \"_b.css\";\n.a { color: red; }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_b.css"), []byte("@import \"_a.css\";\n.b { color: blue; }"), 0o644))

	result := ProcessImports(`@import "_a.css";`, dir, nil)
	assert.Contains(t, result, "circular import prevented")
	assert.Contains(t, result, ".a")
	assert.Contains(t, result, ".b")
}

func TestProcessImports_EmbeddedFallback(t *testing.T) {
	result := ProcessImports(`@import "_base.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* imported (embedded): _base.css */")
	assert.Contains(t, result, ".bubble-box")

	result = ProcessImports(`@import "_missing.css";`, "", nil)
	assert.Contains(t, result, "import failed")
}

func TestEmbeddedThemes(t *testing.T) {
	themes := ListEmbeddedThemes()
	assert.Contains(t, themes, "default")
	assert.Contains(t, themes, "minimal")
	assert.NotContains(t, themes, "_base")

	css, ok := GetEmbeddedTheme("default")
	require.True(t, ok)
	assert.Contains(t, css, "@import")

	_, ok = GetEmbeddedTheme("nonexistent")
	assert.False(t, ok)

	assert.Contains(t, ColorSchemeCSS(true), "#2e2e2e")
	assert.Contains(t, ColorSchemeCSS(false), "#f0f0f0")
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	def := Resolve("", dir)
	assert.Equal(t, DefaultThemeName, def.Name)
	assert.True(t, def.IsBundled())
	assert.Contains(t, def.CSS, "window.wordbubble")
	assert.NotContains(t, def.CSS, "@import")

	unknown := Resolve("nope", dir)
	assert.Equal(t, DefaultThemeName, unknown.Name)

	partial := Resolve("_base", "")
	assert.Equal(t, DefaultThemeName, partial.Name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "minimal.css"), []byte(".override {}"), 0o644))
	user := Resolve("minimal", dir)
	assert.False(t, user.IsBundled())
	assert.Equal(t, ".override {}", user.CSS)
	assert.False(t, user.ModTime.IsZero())

	assert.ElementsMatch(t, []string{"default", "minimal"}, ListAvailableThemes(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solar.css"), []byte(""), 0o644))
	assert.Contains(t, ListAvailableThemes(dir), "solar")
}
