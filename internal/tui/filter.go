package tui

import (
	"github.com/jmylchreest/wordbubble/internal/core"
	"github.com/jmylchreest/wordbubble/internal/model"
)

// isFilterExpression reports whether a search query is a field filter
// such as "word~ab,length<6" rather than plain text.
func isFilterExpression(query string) bool {
	if query == "" {
		return false
	}
	expr, err := core.ParseFilter(query)
	return err == nil && len(expr.Conditions) > 0
}

// filterEntries applies a search query. Field filters that fail to parse
// fall back to a plain text search and report the parse error.
func filterEntries(entries []model.Entry, query string) ([]model.Entry, error) {
	if query == "" {
		return entries, nil
	}
	if !isFilterExpression(query) {
		if looksLikeFilter(query) {
			_, err := core.ParseFilter(query)
			return core.Search(entries, query), err
		}
		return core.Search(entries, query), nil
	}
	expr, _ := core.ParseFilter(query)
	return core.FilterWithExpr(entries, expr), nil
}

// looksLikeFilter reports whether query starts with a known field name
// followed by an operator character.
func looksLikeFilter(query string) bool {
	for i, r := range query {
		switch r {
		case '=', '!', '~', '<', '>':
			if i == 0 {
				return false
			}
			switch query[:i] {
			case "word", "w", "meaning", "m", "definition", "list", "l", "index", "i", "line", "length", "len":
				return true
			}
			return false
		}
	}
	return false
}
