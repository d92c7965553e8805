// Package main provides the CLI entrypoint for wordbubble.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global options and state
var (
	globalOpts struct {
		verbose      bool
		settingsPath string
		listDir      string
		configPath   string
	}
	logger *slog.Logger

	listStore *wordlist.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wordbubble",
	Short: "Manage word lists and settings for the wordbubble daemon",
	Long: `wordbubble manages the vocabulary lists and settings used by wordbubbled,
the desktop daemon that pops up word bubbles at a fixed interval.

Changes made here are picked up by a running daemon without a restart.

Running wordbubble without a subcommand launches the interactive TUI.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		if err := config.EnsureDataDir(); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		dir := globalOpts.listDir
		if dir == "" {
			dir = config.WordListDir()
		}
		s, err := wordlist.NewStore(dir, logger)
		if err != nil {
			return fmt.Errorf("failed to open word lists: %w", err)
		}
		listStore = s
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.settingsPath, "settings", "",
		"Path to settings file (default: ~/.config/wordbubble/settings.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.listDir, "lists-dir", "",
		"Word list directory (default: ~/.local/share/wordbubble/word_lists)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to daemon config file (default: ~/.config/wordbubble/wordbubbled.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func settingsPath() string {
	if globalOpts.settingsPath != "" {
		return globalOpts.settingsPath
	}
	return config.SettingsPath()
}

func loadSettings() (*config.Settings, error) {
	s, err := config.LoadSettings(settingsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// selectedList returns the list the daemon shows, or an error when none is set.
func selectedList() (string, error) {
	s, err := loadSettings()
	if err != nil {
		return "", err
	}
	if s.SelectedFile == "" {
		return "", fmt.Errorf("no word list selected; use 'wordbubble lists select <name>' or pass a list name")
	}
	return wordlist.NormalizeName(s.SelectedFile)
}

// listArg returns args[0] if present, else the selected list.
func listArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return wordlist.NormalizeName(args[0])
	}
	return selectedList()
}
