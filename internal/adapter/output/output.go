// Package output provides output formatters for word entries.
package output

import (
	"io"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/jmylchreest/wordbubble/internal/model"
)

// Formatter formats entries for output.
type Formatter interface {
	Format(w io.Writer, entries []model.Entry) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatDmenu FormatType = "dmenu"
	FormatWords FormatType = "words"
	FormatList  FormatType = "list" // the word-list file format
)

// Formats returns every supported format name.
func Formats() []string {
	return []string{
		string(FormatPlain), string(FormatJSON), string(FormatYAML),
		string(FormatDmenu), string(FormatWords), string(FormatList),
	}
}

// NewFormatter creates a formatter for format. Unknown formats get plain.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatWords:
		return NewWordsFormatter()
	case FormatList:
		return NewListFormatter()
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template      string // Custom template for dmenu/plain format
	ShowIndex     bool   // Show 1-based index prefix
	ShowList      bool   // Show the owning list name
	MeaningMaxLen int    // Maximum meaning length in runes (0 = unlimited)
	Separator     string // Field separator for dmenu format
}

// DefaultFormatterOptions returns defaults suited to dmenu output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:     true,
		MeaningMaxLen: 80,
		Separator:     " | ",
	}
}

// templateData is what custom templates see.
type templateData struct {
	Index int
	Entry *model.Entry
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
	}
}

func parseTemplate(name, text string) *template.Template {
	if text == "" {
		return nil
	}
	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil
	}
	return tmpl
}

// truncate shortens s to maxLen runes, ending in "..." when cut.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatField returns one field of an entry.
func FormatField(e *model.Entry, field string) string {
	switch strings.ToLower(field) {
	case "word", "w":
		return e.Word
	case "meaning", "m":
		return e.Meaning
	case "list", "l":
		return e.List
	case "line":
		return e.Line()
	default:
		return e.Display()
	}
}
