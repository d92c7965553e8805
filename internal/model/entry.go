// Package model defines the core data structures for wordbubble.
package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Separator splits a word from its meaning in a word-list line.
const Separator = "::"

// Entry is one word/meaning pair from a word list.
type Entry struct {
	Word    string `json:"word" yaml:"word"`
	Meaning string `json:"meaning" yaml:"meaning"`

	// Position in the owning list, zero-based. Set on load.
	Index int `json:"index" yaml:"index"`
	// List name without extension. Set on load.
	List string `json:"list,omitempty" yaml:"list,omitempty"`
}

// Validation errors.
var (
	ErrEmptyWord    = errors.New("word cannot be empty")
	ErrEmptyMeaning = errors.New("meaning cannot be empty")
	ErrSeparator    = errors.New("word cannot contain \"::\"")
	ErrNewline      = errors.New("word and meaning must be single-line")
)

// NewEntry creates a trimmed entry.
func NewEntry(word, meaning string) Entry {
	return Entry{
		Word:    strings.TrimSpace(word),
		Meaning: strings.TrimSpace(meaning),
	}
}

// ParseLine parses a "word::meaning" line. The line and both halves are
// trimmed; the split happens at the first separator. Lines without a
// separator or with an empty half are rejected.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}
	word, meaning, ok := strings.Cut(line, Separator)
	if !ok {
		return Entry{}, false
	}
	e := NewEntry(word, meaning)
	if e.Word == "" || e.Meaning == "" {
		return Entry{}, false
	}
	return e, true
}

// Validate checks that the entry survives a write/parse round trip.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Word) == "" {
		return ErrEmptyWord
	}
	if strings.TrimSpace(e.Meaning) == "" {
		return ErrEmptyMeaning
	}
	if strings.Contains(e.Word, Separator) {
		return ErrSeparator
	}
	if strings.ContainsAny(e.Word, "\r\n") || strings.ContainsAny(e.Meaning, "\r\n") {
		return ErrNewline
	}
	return nil
}

// Line returns the on-disk form.
func (e Entry) Line() string {
	return e.Word + Separator + e.Meaning
}

// Display returns the "word :: meaning" form shown in list views.
func (e Entry) Display() string {
	return fmt.Sprintf("%s :: %s", e.Word, e.Meaning)
}

// Key returns a case-folded key for lookups and deduplication.
func (e Entry) Key() string {
	return strings.ToLower(e.Word)
}

// MeaningTruncated returns the meaning truncated to maxLen runes.
// If the meaning is longer, it is truncated and "..." is appended.
func (e Entry) MeaningTruncated(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	meaning := strings.Join(strings.Fields(e.Meaning), " ")
	if utf8.RuneCountInString(meaning) <= maxLen {
		return meaning
	}
	runes := []rune(meaning)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
