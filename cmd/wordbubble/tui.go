package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wordbubble/internal/adapter/input"
	"github.com/jmylchreest/wordbubble/internal/tui"
)

var tuiOpts struct {
	importFile string
	importList string
	format     string
	clipboard  string
	noWatch    bool
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive word list browser",
	Long: `Launch the interactive terminal user interface for browsing word lists.

The TUI provides:
  - Word lists with word counts and sizes
  - Live search, plain text or field filters like "length<6"
  - Detail view with the full meaning
  - Copy to clipboard support
  - Live reload when lists change on disk

Key bindings:
  j/k, ↑/↓    Navigate
  enter       Open list / word
  s           Show bubbles from the highlighted list
  c           Copy word to clipboard
  m           Copy meaning to clipboard
  /           Search
  D           Delete word
  r           Reload from disk
  ?           Show help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVar(&tuiOpts.importFile, "import", "",
		"Merge words from a file (or - for stdin) before starting")
	tuiCmd.Flags().StringVar(&tuiOpts.importList, "into", "",
		"List to merge --import into (default: selected list)")
	tuiCmd.Flags().StringVar(&tuiOpts.format, "input", "auto",
		"Format of --import (auto, list, json, yaml, tsv)")
	tuiCmd.Flags().StringVar(&tuiOpts.clipboard, "clipboard", "",
		"Clipboard command (default: wl-copy, xclip or xsel)")
	tuiCmd.Flags().BoolVar(&tuiOpts.noWatch, "no-watch", false,
		"Do not reload lists when they change on disk")
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := tui.RunOptions{
		Store:        listStore,
		SettingsPath: settingsPath(),
		Watch:        !tuiOpts.noWatch,
		Clipboard:    tuiOpts.clipboard,
	}

	if tuiOpts.importFile != "" {
		format, err := input.ParseFormat(tuiOpts.format)
		if err != nil {
			return err
		}
		name, err := listArg([]string{tuiOpts.importList})
		if err != nil {
			return err
		}
		opts.Adapter = input.NewAdapter(tuiOpts.importFile, format)
		opts.ImportList = name
	}

	return tui.Run(opts)
}
