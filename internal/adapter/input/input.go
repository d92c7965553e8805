// Package input reads word entries from files and streams in several
// formats so they can be saved as word lists.
package input

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/wordbubble/internal/model"
)

// Format is an input encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatList Format = "list" // word::meaning lines
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTSV  Format = "tsv"
)

// InputAdapter fetches entries from a source.
type InputAdapter interface {
	// Name returns the adapter identifier.
	Name() string
	// Import reads every valid entry. Invalid records are skipped.
	Import(ctx context.Context) ([]model.Entry, error)
}

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatList, "txt", "text":
		return FormatList, nil
	case FormatJSON, FormatYAML, FormatTSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", &AdapterError{Source: s, Message: "unknown input format"}
	}
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".tsv":
		return FormatTSV
	case ".txt":
		return FormatList
	default:
		return FormatAuto
	}
}

// NewAdapter creates an adapter for path, or stdin when path is "-" or empty.
func NewAdapter(path string, format Format) InputAdapter {
	if path == "" || path == "-" {
		return NewStdinAdapter(format)
	}
	return NewFileAdapter(path, format)
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	msg := e.Message
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
