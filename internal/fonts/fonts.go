// Package fonts manages the font files bubbles can use.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// DefaultFamily is used when a font file is missing or unreadable.
const DefaultFamily = "Sans"

var (
	// ErrUnsupported is returned for files that are not .ttf or .otf.
	ErrUnsupported = errors.New("font must be a .ttf or .otf file")
	// ErrExists is returned when importing over an existing font without replace.
	ErrExists = errors.New("font already exists")
	// ErrInvalidFont is returned when a file does not parse as a font.
	ErrInvalidFont = errors.New("invalid font file")
)

// IsFontFile reports whether name has a supported font extension.
func IsFontFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".ttf" || ext == ".otf"
}

// List returns the font file names in dir, sorted. A missing directory
// yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read font directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && IsFontFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Import copies src into dir under its base name. Returns the file name.
func Import(src, dir string, replace bool) (string, error) {
	name := filepath.Base(src)
	if !IsFontFile(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, name)
	}

	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil && !replace {
		return "", fmt.Errorf("%w: %s", ErrExists, name)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read font: %w", err)
	}
	if _, err := parseFamily(data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create font directory: %w", err)
	}
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write font: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write font: %w", err)
	}
	return name, nil
}

// Family returns the family name stored in a font file, or "" when the
// file cannot be read or parsed.
func Family(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	family, err := parseFamily(data)
	if err != nil {
		return ""
	}
	return family
}

// Resolve returns the family for file inside dir, falling back to
// DefaultFamily.
func Resolve(dir, file string) string {
	if file == "" {
		return DefaultFamily
	}
	if family := Family(filepath.Join(dir, file)); family != "" {
		return family
	}
	return DefaultFamily
}

func parseFamily(data []byte) (string, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return "", err
	}
	var buf sfnt.Buffer
	for _, id := range []sfnt.NameID{sfnt.NameIDTypographicFamily, sfnt.NameIDFamily} {
		name, err := f.Name(&buf, id)
		if err == nil && name != "" {
			return name, nil
		}
	}
	return "", errors.New("font has no family name")
}
