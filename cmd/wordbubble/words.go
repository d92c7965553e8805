package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wordbubble/internal/adapter/output"
	"github.com/jmylchreest/wordbubble/internal/core"
	"github.com/jmylchreest/wordbubble/internal/model"
)

var wordsOpts struct {
	// Filter options
	filter string
	search string
	limit  int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	field    string
	template string
	full     bool
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Show and edit the words of a list",
	Long: `Show and edit the words of a list.

Commands take the list name as their first argument. 'show' falls back to
the selected list when it is omitted.`,
}

var wordsShowCmd = &cobra.Command{
	Use:   "show [list] [index|selection]",
	Short: "Show the words of a list",
	Long: `Show the words of a list in various formats.

Without an index, outputs every word matching the filters in dmenu format
(suitable for fuzzel, walker, rofi, etc.).

With a 1-based index or a full dmenu line, outputs that word. Indexes count
after filtering and sorting, so pass the same flags that produced the menu.

Filter expressions combine conditions with commas:
  word~ab           word contains "ab"
  meaning~=(?i)^to  meaning matches a regex
  length<=5         words of at most five letters
  index>100         words after line 100

Examples:
  # Show the selected list
  wordbubble words show

  # Short words from another list, as JSON
  wordbubble words show gre --filter "length<=5" --format json

  # Pick a word with fuzzel and copy its meaning
  wordbubble words show "" "$(wordbubble words show | fuzzel -d)" --field meaning | wl-copy`,
	Args: cobra.MaximumNArgs(2),
	RunE: wordsShowRun,
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <list> <word> <meaning>",
	Short: "Append a word to a list",
	Args:  cobra.ExactArgs(3),
	RunE:  wordsAddRun,
}

var wordsEditCmd = &cobra.Command{
	Use:   "edit <list> <index> <word> <meaning>",
	Short: "Replace the word at a 1-based line index",
	Args:  cobra.ExactArgs(4),
	RunE:  wordsEditRun,
}

var wordsRmCmd = &cobra.Command{
	Use:     "rm <list> <index|word>",
	Aliases: []string{"delete"},
	Short:   "Remove a word by 1-based line index or by word",
	Args:    cobra.ExactArgs(2),
	RunE:    wordsRmRun,
}

func init() {
	wordsCmd.AddCommand(wordsShowCmd)
	wordsCmd.AddCommand(wordsAddCmd)
	wordsCmd.AddCommand(wordsEditCmd)
	wordsCmd.AddCommand(wordsRmCmd)

	f := wordsShowCmd.Flags()
	f.StringVar(&wordsOpts.filter, "filter", "",
		"Filter expression (e.g. \"word~ab,length<6\")")
	f.StringVarP(&wordsOpts.search, "search", "s", "",
		"Search in word and meaning")
	f.IntVarP(&wordsOpts.limit, "limit", "n", 0,
		"Maximum number of words to show (0=unlimited)")
	f.StringVar(&wordsOpts.sortBy, "sort", "index",
		"Sort by field (index, word, meaning, length)")
	f.StringVar(&wordsOpts.sortOrder, "order", "asc",
		"Sort order (asc, desc)")
	f.StringVarP(&wordsOpts.format, "format", "f", "dmenu",
		"Output format ("+strings.Join(output.Formats(), ", ")+")")
	f.StringVar(&wordsOpts.field, "field", "",
		"Output a single field (word, meaning, list, line, all)")
	f.StringVar(&wordsOpts.template, "template", "",
		"Custom Go template for output formatting")
	f.BoolVar(&wordsOpts.full, "full", false,
		"Do not truncate meanings")

	rootCmd.AddCommand(wordsCmd)
}

func wordsShowRun(cmd *cobra.Command, args []string) error {
	name, err := listArg(args)
	if err != nil {
		return err
	}
	entries, err := listStore.Load(name)
	if err != nil {
		return err
	}

	entries, err = applyWordFilters(entries)
	if err != nil {
		return err
	}

	if len(args) > 1 {
		return showWord(entries, args[1])
	}

	if len(entries) == 0 {
		logger.Debug("no words to output", "list", name)
		return nil
	}
	if wordsOpts.field != "" {
		for i := range entries {
			fmt.Println(output.FormatField(&entries[i], wordsOpts.field))
		}
		return nil
	}
	return createFormatter().Format(os.Stdout, entries)
}

// applyWordFilters applies the filter, search, sort and limit flags.
func applyWordFilters(entries []model.Entry) ([]model.Entry, error) {
	if wordsOpts.filter != "" {
		expr, err := core.ParseFilter(wordsOpts.filter)
		if err != nil {
			return nil, err
		}
		entries = core.FilterWithExpr(entries, expr)
	}
	entries = core.Filter(entries, core.FilterOptions{Search: wordsOpts.search})

	field, err := core.ParseSortField(wordsOpts.sortBy)
	if err != nil {
		return nil, err
	}
	order, err := core.ParseSortOrder(wordsOpts.sortOrder)
	if err != nil {
		return nil, err
	}
	core.Sort(entries, core.SortOptions{Field: field, Order: order})

	if wordsOpts.limit > 0 && len(entries) > wordsOpts.limit {
		entries = entries[:wordsOpts.limit]
	}
	return entries, nil
}

// showWord outputs the entry a 1-based index or a dmenu line points at.
func showWord(entries []model.Entry, selection string) error {
	idx, err := strconv.Atoi(strings.TrimSpace(selection))
	if err != nil {
		idx, err = output.ParseSelection(selection, "")
		if err != nil {
			// Not an index at all: look the word up by name.
			if e := core.LookupByWord(entries, strings.TrimSpace(selection)); e != nil {
				return outputWord(e)
			}
			return err
		}
	}

	e := core.LookupByIndex(entries, idx)
	if e == nil {
		return fmt.Errorf("word at index %d not found", idx)
	}
	return outputWord(e)
}

func outputWord(e *model.Entry) error {
	if wordsOpts.field != "" {
		fmt.Println(output.FormatField(e, wordsOpts.field))
		return nil
	}

	// A single word reads better as JSON than as a menu line.
	if wordsOpts.format == string(output.FormatDmenu) {
		wordsOpts.format = string(output.FormatJSON)
	}
	return createFormatter().Format(os.Stdout, []model.Entry{*e})
}

// createFormatter creates the output formatter based on options.
func createFormatter() output.Formatter {
	opts := output.DefaultFormatterOptions()
	opts.Template = wordsOpts.template
	if wordsOpts.full {
		opts.MeaningMaxLen = 0
	}
	return output.NewFormatter(output.FormatType(strings.ToLower(wordsOpts.format)), opts)
}

func wordsAddRun(cmd *cobra.Command, args []string) error {
	name, err := listArg(args[:1])
	if err != nil {
		return err
	}
	e := model.NewEntry(args[1], args[2])
	if err := e.Validate(); err != nil {
		return err
	}
	if !listStore.Exists(name) {
		if err := listStore.Create(name); err != nil {
			return err
		}
	}

	entries, err := listStore.Load(name)
	if err != nil {
		return err
	}
	if existing := core.LookupByWord(entries, e.Word); existing != nil {
		fmt.Fprintf(os.Stderr, "Warning: %q is already on line %d\n", e.Word, existing.Index+1)
	}

	if err := listStore.AddWord(name, e); err != nil {
		return err
	}
	fmt.Printf("Added %s to %s\n", e.Display(), name)
	return nil
}

func wordsEditRun(cmd *cobra.Command, args []string) error {
	name, err := listArg(args[:1])
	if err != nil {
		return err
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil || idx < 1 {
		return fmt.Errorf("invalid index: %s", args[1])
	}
	e := model.NewEntry(args[2], args[3])
	if err := listStore.UpdateWord(name, idx-1, e); err != nil {
		return err
	}
	fmt.Printf("Updated line %d of %s\n", idx, name)
	return nil
}

func wordsRmRun(cmd *cobra.Command, args []string) error {
	name, err := listArg(args[:1])
	if err != nil {
		return err
	}

	idx, err := strconv.Atoi(args[1])
	if err != nil {
		entries, err := listStore.Load(name)
		if err != nil {
			return err
		}
		e := core.LookupByWord(entries, args[1])
		if e == nil {
			return fmt.Errorf("word %q not found in %s", args[1], name)
		}
		idx = e.Index + 1
	}
	if idx < 1 {
		return fmt.Errorf("invalid index: %s", args[1])
	}

	if err := listStore.DeleteWord(name, idx-1); err != nil {
		return err
	}
	fmt.Printf("Removed line %d from %s\n", idx, name)
	return nil
}
