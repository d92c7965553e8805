package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wordbubble/internal/adapter/input"
	"github.com/jmylchreest/wordbubble/internal/adapter/output"
	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/core"
	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

var listsOpts struct {
	format  string
	replace bool
	merge   bool
	input   string
	name    string
}

// listsCmd represents the lists command group.
var listsCmd = &cobra.Command{
	Use:     "lists",
	Aliases: []string{"list"},
	Short:   "Manage word lists",
	Long: `Manage the word lists wordbubbled shows bubbles from.

A word list is a UTF-8 text file with one "word::meaning" pair per line,
stored in ~/.local/share/wordbubble/word_lists.

Use 'wordbubble lists' to show all lists.
Use 'wordbubble lists import words.txt' to import a list.
Use 'wordbubble lists select <name>' to choose which list bubbles come from.`,
	RunE: listsLsRun,
}

var listsLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"show"},
	Short:   "Show all word lists",
	Args:    cobra.NoArgs,
	RunE:    listsLsRun,
}

var listsNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create an empty word list",
	Args:  cobra.ExactArgs(1),
	RunE:  listsNewRun,
}

var listsRenameCmd = &cobra.Command{
	Use:     "rename <old> <new>",
	Aliases: []string{"mv"},
	Short:   "Rename a word list",
	Long:    `Rename a word list. If it is the selected list, the selection follows it.`,
	Args:    cobra.ExactArgs(2),
	RunE:    listsRenameRun,
}

var listsRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete a word list",
	Long:    `Delete a word list. If it is the selected list, the selection is cleared.`,
	Args:    cobra.ExactArgs(1),
	RunE:    listsRmRun,
}

var listsSelectCmd = &cobra.Command{
	Use:   "select <name>",
	Short: "Show bubbles from this list",
	Args:  cobra.ExactArgs(1),
	RunE:  listsSelectRun,
}

var listsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a word list",
	Long: `Import a word list from a file or stdin.

Plain text files hold "word::meaning" lines. JSON and YAML files hold an
array of {word, meaning} records; TSV files hold word<TAB>meaning lines.
The format is taken from the file extension unless --input is given.

The list is named after the file unless --name is given. Importing onto an
existing list fails unless --replace or --merge is set.

Examples:
  # Import a plain list
  wordbubble lists import ~/Downloads/ielts.txt

  # Import JSON from another tool
  some-exporter --json | wordbubble lists import - --input json --name gre

  # Add new words to an existing list, skipping duplicates
  wordbubble lists import extra.tsv --name ielts --merge`,
	Args: cobra.ExactArgs(1),
	RunE: listsImportRun,
}

func init() {
	listsCmd.AddCommand(listsLsCmd)
	listsCmd.AddCommand(listsNewCmd)
	listsCmd.AddCommand(listsRenameCmd)
	listsCmd.AddCommand(listsRmCmd)
	listsCmd.AddCommand(listsSelectCmd)
	listsCmd.AddCommand(listsImportCmd)

	for _, cmd := range []*cobra.Command{listsCmd, listsLsCmd} {
		cmd.Flags().StringVarP(&listsOpts.format, "format", "f", "plain",
			"Output format (plain, json, yaml, words)")
	}

	listsImportCmd.Flags().BoolVar(&listsOpts.replace, "replace", false,
		"Overwrite an existing list")
	listsImportCmd.Flags().BoolVar(&listsOpts.merge, "merge", false,
		"Append to an existing list, skipping words it already holds")
	listsImportCmd.Flags().StringVar(&listsOpts.input, "input", "auto",
		"Input format (auto, list, json, yaml, tsv)")
	listsImportCmd.Flags().StringVar(&listsOpts.name, "name", "",
		"List name (default: file name without extension)")
	listsImportCmd.MarkFlagsMutuallyExclusive("replace", "merge")

	rootCmd.AddCommand(listsCmd)
}

func listsLsRun(cmd *cobra.Command, args []string) error {
	names, err := listStore.Lists()
	if err != nil {
		return err
	}
	infos := make([]wordlist.Info, 0, len(names))
	for _, name := range names {
		info, err := listStore.Info(name)
		if err != nil {
			logger.Warn("failed to read word list", "list", name, "error", err)
			continue
		}
		infos = append(infos, info)
	}

	selected, _ := selectedList()
	return output.FormatLists(os.Stdout, output.FormatType(strings.ToLower(listsOpts.format)), infos, selected)
}

func listsNewRun(cmd *cobra.Command, args []string) error {
	name, err := wordlist.NormalizeName(args[0])
	if err != nil {
		return err
	}
	if err := listStore.Create(name); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", name)
	return nil
}

func listsRenameRun(cmd *cobra.Command, args []string) error {
	oldName, err := wordlist.NormalizeName(args[0])
	if err != nil {
		return err
	}
	newName, err := wordlist.NormalizeName(args[1])
	if err != nil {
		return err
	}
	if err := listStore.Rename(oldName, newName); err != nil {
		return err
	}

	if err := updateSelection(oldName, wordlist.FileName(newName)); err != nil {
		return err
	}
	fmt.Printf("Renamed %s to %s\n", oldName, newName)
	return nil
}

func listsRmRun(cmd *cobra.Command, args []string) error {
	name, err := wordlist.NormalizeName(args[0])
	if err != nil {
		return err
	}
	if err := listStore.Delete(name); err != nil {
		return err
	}
	if err := updateSelection(name, ""); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", name)
	return nil
}

// updateSelection rewrites selected_file when it points at list.
func updateSelection(list, selectedFile string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	current, err := wordlist.NormalizeName(s.SelectedFile)
	if err != nil || current != list {
		return nil
	}
	s.SelectedFile = selectedFile
	return config.SaveSettings(settingsPath(), s)
}

func listsSelectRun(cmd *cobra.Command, args []string) error {
	name, err := wordlist.NormalizeName(args[0])
	if err != nil {
		return err
	}
	if !listStore.Exists(name) {
		return fmt.Errorf("%w: %s", wordlist.ErrNotFound, name)
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}
	s.SelectedFile = wordlist.FileName(name)
	if err := config.SaveSettings(settingsPath(), s); err != nil {
		return err
	}
	fmt.Printf("Selected %s\n", name)
	return nil
}

func listsImportRun(cmd *cobra.Command, args []string) error {
	src := args[0]
	format, err := input.ParseFormat(listsOpts.input)
	if err != nil {
		return err
	}

	name := listsOpts.name
	if name == "" {
		if src == "-" {
			return fmt.Errorf("--name is required when importing from stdin")
		}
		name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	name, err = wordlist.NormalizeName(name)
	if err != nil {
		return err
	}

	if format == input.FormatAuto && src != "-" {
		format = input.FormatForPath(src)
	}

	// Plain files go through the store so they are validated as UTF-8
	// word lists before anything is written.
	if format == input.FormatList && src != "-" && !listsOpts.merge {
		n, err := listStore.Import(src, name, listsOpts.replace)
		if err != nil {
			return importError(err, name)
		}
		fmt.Printf("Imported %d words into %s\n", n, name)
		warnDuplicates(name)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := input.NewAdapter(src, format).Import(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s", wordlist.ErrEmptyFile, src)
	}

	exists := listStore.Exists(name)
	switch {
	case exists && listsOpts.merge:
		current, err := listStore.Load(name)
		if err != nil {
			return err
		}
		merged, added := mergeEntries(current, entries)
		if err := listStore.Save(name, merged); err != nil {
			return err
		}
		fmt.Printf("Added %d words to %s\n", added, name)
		return nil
	case exists && !listsOpts.replace:
		return importError(fmt.Errorf("%w: %s", wordlist.ErrListExists, name), name)
	}

	if err := listStore.Save(name, entries); err != nil {
		return err
	}
	fmt.Printf("Imported %d words into %s\n", len(entries), name)
	warnDuplicates(name)
	return nil
}

// mergeEntries appends the entries of extra whose word is not in base.
func mergeEntries(base, extra []model.Entry) ([]model.Entry, int) {
	seen := make(map[string]bool, len(base))
	for _, e := range base {
		seen[e.Key()] = true
	}
	added := 0
	for _, e := range extra {
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		base = append(base, e)
		added++
	}
	return base, added
}

func importError(err error, name string) error {
	if errors.Is(err, wordlist.ErrListExists) {
		return fmt.Errorf("%w (use --replace or --merge)", err)
	}
	return err
}

// warnDuplicates reports words that occur more than once in a list.
func warnDuplicates(name string) {
	entries, err := listStore.Load(name)
	if err != nil {
		return
	}
	if dups := core.Duplicates(entries); len(dups) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %s has %d duplicate words: %s\n", name, len(dups), strings.Join(dups, ", "))
	}
}
