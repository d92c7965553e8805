package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/jmylchreest/wordbubble/internal/config"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved CSS theme.
type Theme struct {
	Name    string
	Path    string // Empty for bundled themes
	CSS     string // With imports inlined
	ModTime time.Time
}

// IsBundled reports whether the theme came from the embedded set.
func (t *Theme) IsBundled() bool {
	return t.Path == ""
}

// ThemesDir returns the user themes directory.
func ThemesDir() string {
	return filepath.Join(config.ConfigDir(), "themes")
}

// Resolve finds a theme by name. A user theme in dir overrides a bundled
// one of the same name; unknown names resolve to the default theme.
func Resolve(name, dir string) *Theme {
	if name == "" {
		name = DefaultThemeName
	}

	if dir != "" {
		path := filepath.Join(dir, name+".css")
		if data, err := os.ReadFile(path); err == nil {
			t := &Theme{
				Name: name,
				Path: path,
				CSS:  ProcessImports(string(data), dir, nil),
			}
			if info, err := os.Stat(path); err == nil {
				t.ModTime = info.ModTime()
			}
			return t
		}
	}

	css, ok := GetEmbeddedTheme(name)
	if !ok || strings.HasPrefix(name, "_") {
		name = DefaultThemeName
		css, _ = GetEmbeddedTheme(name)
	}
	return &Theme{Name: name, CSS: ProcessImports(css, "", nil)}
}

// ProcessImports inlines @import statements, resolving paths relative to
// baseDir and falling back to embedded files. seen guards against cycles.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) && baseDir != "" {
			fullPath = filepath.Join(baseDir, importPath)
		}
		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		if baseDir != "" || filepath.IsAbs(importPath) {
			if data, err := os.ReadFile(fullPath); err == nil {
				return "/* imported: " + importPath + " */\n" +
					ProcessImports(string(data), filepath.Dir(fullPath), seen)
			}
		}

		if embedded, ok := GetEmbeddedTheme(filepath.Base(importPath)); ok {
			return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(embedded, "", seen)
		}
		return "/* import failed: " + importPath + " */"
	})
}

// ListAvailableThemes lists bundled and user theme names, deduplicated.
func ListAvailableThemes(dir string) []string {
	themes := ListEmbeddedThemes()
	if dir == "" {
		return themes
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return themes
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || filepath.Ext(name) != ".css" {
			continue
		}
		name = strings.TrimSuffix(name, ".css")
		if !slices.Contains(themes, name) {
			themes = append(themes, name)
		}
	}
	return themes
}
