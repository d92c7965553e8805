package core

import (
	"slices"
	"strings"

	"github.com/jmylchreest/wordbubble/internal/model"
)

// LookupByWord finds an entry by word, ignoring case. Returns nil if not found.
func LookupByWord(entries []model.Entry, word string) *model.Entry {
	key := strings.ToLower(strings.TrimSpace(word))
	for i := range entries {
		if entries[i].Key() == key {
			return &entries[i]
		}
	}
	return nil
}

// LookupByIndex finds an entry by its 1-based position.
func LookupByIndex(entries []model.Entry, index int) *model.Entry {
	idx := index - 1
	if idx < 0 || idx >= len(entries) {
		return nil
	}
	return &entries[idx]
}

// Search finds entries whose word or meaning contains term, ignoring case.
func Search(entries []model.Entry, term string) []model.Entry {
	if term == "" {
		return entries
	}
	var result []model.Entry
	for _, e := range entries {
		if containsFold(e.Word, term) || containsFold(e.Meaning, term) {
			result = append(result, e)
		}
	}
	return result
}

// Duplicates returns words that occur more than once, sorted.
func Duplicates(entries []model.Entry) []string {
	counts := make(map[string]int)
	first := make(map[string]string)
	for _, e := range entries {
		k := e.Key()
		counts[k]++
		if _, ok := first[k]; !ok {
			first[k] = e.Word
		}
	}

	var dups []string
	for k, n := range counts {
		if n > 1 {
			dups = append(dups, first[k])
		}
	}
	slices.SortFunc(dups, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return dups
}
