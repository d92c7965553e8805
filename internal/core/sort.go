package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jmylchreest/wordbubble/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByIndex   SortField = "index"
	SortByWord    SortField = "word"
	SortByMeaning SortField = "meaning"
	SortByLength  SortField = "length"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions keeps file order.
func DefaultSortOptions() SortOptions {
	return SortOptions{Field: SortByIndex, Order: SortAsc}
}

// Sort sorts entries in place. Ties keep their relative order.
func Sort(entries []model.Entry, opts SortOptions) {
	compare := func(a, b model.Entry) int {
		switch opts.Field {
		case SortByWord:
			return cmp.Compare(strings.ToLower(a.Word), strings.ToLower(b.Word))
		case SortByMeaning:
			return cmp.Compare(strings.ToLower(a.Meaning), strings.ToLower(b.Meaning))
		case SortByLength:
			return cmp.Compare(utf8.RuneCountInString(a.Word), utf8.RuneCountInString(b.Word))
		default:
			return cmp.Compare(a.Index, b.Index)
		}
	}

	slices.SortStableFunc(entries, func(a, b model.Entry) int {
		if opts.Order == SortDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

// ParseSortField parses a sort field name.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "index", "i", "file":
		return SortByIndex, nil
	case "word", "w", "alpha":
		return SortByWord, nil
	case "meaning", "m":
		return SortByMeaning, nil
	case "length", "len":
		return SortByLength, nil
	default:
		return "", fmt.Errorf("invalid sort field: %s (use index, word, meaning or length)", s)
	}
}

// ParseSortOrder parses a sort order name.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (use asc or desc)", s)
	}
}
