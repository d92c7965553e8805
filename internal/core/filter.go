// Package core provides filtering, sorting, and lookup over word entries.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmylchreest/wordbubble/internal/model"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // word, meaning, list, index, length
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	regex  *regexp.Regexp
	intVal int
}

// FilterExpr is a list of conditions ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// FilterOptions specifies simple filtering criteria.
type FilterOptions struct {
	List   string // Exact list name (empty = any)
	Search string // Case-insensitive substring of word or meaning
	Limit  int    // Maximum results (0 = unlimited)
}

// Filter returns the entries matching opts.
func Filter(entries []model.Entry, opts FilterOptions) []model.Entry {
	result := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if opts.List != "" && e.List != opts.List {
			continue
		}
		if opts.Search != "" && !containsFold(e.Word, opts.Search) && !containsFold(e.Meaning, opts.Search) {
			continue
		}
		result = append(result, e)
	}
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// ParseFilter parses "field=value,field2~value2" into a FilterExpr.
//
// Fields: word, meaning, list, index (1-based), length (word length in runes).
// Operators: = != ~ ~= > < >= <=; ordering operators need a numeric field.
//
// Examples:
//   - "word~ab" - word contains "ab"
//   - "meaning~=(?i)^an? " - meaning starts with an article
//   - "index<=50" - the first fifty words
func ParseFilter(expr string) (*FilterExpr, error) {
	filter := &FilterExpr{}
	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}
	return filter, nil
}

func parseCondition(s string) (FilterCondition, error) {
	// Longest operators first so "!=" isn't read as "=".
	operators := []FilterOp{
		FilterOpNotEqual,
		FilterOpGreaterEq,
		FilterOpLessEq,
		FilterOpRegex,
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx <= 0 {
			continue
		}
		cond := FilterCondition{
			Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
			Operator: op,
			Value:    strings.TrimSpace(s[idx+len(op):]),
		}
		if err := cond.init(); err != nil {
			return FilterCondition{}, err
		}
		return cond, nil
	}
	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

func (c *FilterCondition) init() error {
	switch c.Field {
	case "word", "w":
		c.Field = "word"
	case "meaning", "m", "definition":
		c.Field = "meaning"
	case "list", "l":
		c.Field = "list"
	case "index", "i", "line":
		c.Field = "index"
	case "length", "len":
		c.Field = "length"
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	numeric := c.Field == "index" || c.Field == "length"
	if numeric {
		n, err := strconv.Atoi(c.Value)
		if err != nil {
			return fmt.Errorf("invalid %s value: %s", c.Field, c.Value)
		}
		c.intVal = n
	} else {
		switch c.Operator {
		case FilterOpGreater, FilterOpLess, FilterOpGreaterEq, FilterOpLessEq:
			return fmt.Errorf("operator %s not supported for %s", c.Operator, c.Field)
		}
	}

	if c.Operator == FilterOpRegex {
		if numeric {
			return fmt.Errorf("operator %s not supported for %s", c.Operator, c.Field)
		}
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}
	return nil
}

// Match tests whether e matches every condition.
func (f *FilterExpr) Match(e model.Entry) bool {
	for i := range f.Conditions {
		if !f.Conditions[i].Match(e) {
			return false
		}
	}
	return true
}

// Match tests a single condition.
func (c *FilterCondition) Match(e model.Entry) bool {
	switch c.Field {
	case "word":
		return c.matchString(e.Word)
	case "meaning":
		return c.matchString(e.Meaning)
	case "list":
		return c.matchString(e.List)
	case "index":
		return c.matchInt(e.Index + 1)
	case "length":
		return c.matchInt(len([]rune(e.Word)))
	default:
		return false
	}
}

func (c *FilterCondition) matchString(v string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return v == c.Value
	case FilterOpNotEqual:
		return v != c.Value
	case FilterOpContains:
		return containsFold(v, c.Value)
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(v)
	default:
		return false
	}
}

func (c *FilterCondition) matchInt(v int) bool {
	switch c.Operator {
	case FilterOpEqual:
		return v == c.intVal
	case FilterOpNotEqual:
		return v != c.intVal
	case FilterOpContains:
		return strings.Contains(strconv.Itoa(v), c.Value)
	case FilterOpGreater:
		return v > c.intVal
	case FilterOpLess:
		return v < c.intVal
	case FilterOpGreaterEq:
		return v >= c.intVal
	case FilterOpLessEq:
		return v <= c.intVal
	default:
		return false
	}
}

// FilterWithExpr returns the entries matching expr.
func FilterWithExpr(entries []model.Entry, expr *FilterExpr) []model.Entry {
	if expr == nil || len(expr.Conditions) == 0 {
		return entries
	}
	result := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if expr.Match(e) {
			result = append(result, e)
		}
	}
	return result
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
