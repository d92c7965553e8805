// Package wordlist stores vocabulary lists as plain text files of
// "word::meaning" lines, one list per file.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/wordbubble/internal/model"
)

const (
	// Ext is the word-list file extension.
	Ext = ".txt"

	maxLineSize = 1024 * 1024
	bom         = "\uFEFF"
)

// Parse reads word-list lines from r. Lines that do not hold a valid
// pair are skipped. Entries are indexed in file order.
func Parse(r io.Reader) ([]model.Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []model.Entry
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, bom)
			first = false
		}
		e, ok := model.ParseLine(line)
		if !ok {
			continue
		}
		e.Index = len(entries)
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("failed to read word list: %w", err)
	}
	return entries, nil
}

// Write writes entries to w, one "word::meaning" line each.
func Write(w io.Writer, entries []model.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.Line() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
