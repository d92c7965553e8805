package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// PlainFormatter formats entries as human-readable text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	return &PlainFormatter{opts: opts, template: parseTemplate("plain", opts.Template)}
}

// Format writes entries as "word :: meaning" lines.
func (f *PlainFormatter) Format(w io.Writer, entries []model.Entry) error {
	for i := range entries {
		if err := f.formatEntry(w, i+1, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatEntry(w io.Writer, index int, e *model.Entry) error {
	if f.template != nil {
		if err := f.template.Execute(w, templateData{Index: index, Entry: e}); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder
	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "[%d] ", index)
	}
	if f.opts.ShowList && e.List != "" {
		fmt.Fprintf(&sb, "<%s> ", e.List)
	}
	sb.WriteString(e.Word)
	sb.WriteString(" :: ")
	sb.WriteString(truncate(e.Meaning, f.opts.MeaningMaxLen))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// WordsFormatter writes only the words, one per line.
type WordsFormatter struct{}

// NewWordsFormatter creates a words-only formatter.
func NewWordsFormatter() *WordsFormatter {
	return &WordsFormatter{}
}

// Format writes each word on its own line.
func (f *WordsFormatter) Format(w io.Writer, entries []model.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.Word); err != nil {
			return err
		}
	}
	return nil
}

// ListFormatter writes entries in the word-list file format, so output
// can be redirected into a new list.
type ListFormatter struct{}

// NewListFormatter creates a word-list formatter.
func NewListFormatter() *ListFormatter {
	return &ListFormatter{}
}

// Format writes "word::meaning" lines.
func (f *ListFormatter) Format(w io.Writer, entries []model.Entry) error {
	return wordlist.Write(w, entries)
}
