package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/fonts"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

var getOpts struct {
	format string
}

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show settings",
	Long: `Show one setting or the whole settings document.

Keys: ` + strings.Join(config.Keys(), ", "),
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: config.Keys(),
	RunE:      runGet,
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: fmt.Sprintf(`Change a setting. A running wordbubbled picks the change up within a second.

Values are validated before anything is written:
  selected_file     a word list name
  bubble_duration   seconds a bubble stays visible (%d-%d)
  bubble_interval   seconds between bubbles (%d-%d)
  font_size         points (%d-%d)
  *_color           #rrggbb
  opacity           %.1f-%.1f
  text_alignment    right, left or center
  selected_font     a font file from 'wordbubble fonts ls', or empty
  language          %s
  play_mode         random or sequential
  bubble_position   a name from 'wordbubble modes'

Examples:
  wordbubble set bubble_interval 30
  wordbubble set bubble_position cascade_top_right
  wordbubble set bg_color "#202020"`,
		config.MinBubbleDuration, config.MaxBubbleDuration,
		config.MinBubbleInterval, config.MaxBubbleInterval,
		config.MinFontSize, config.MaxFontSize,
		config.MinOpacity, config.MaxOpacity,
		strings.Join(config.Languages(), ", ")),
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE:      runSet,
}

func init() {
	getCmd.Flags().StringVarP(&getOpts.format, "format", "f", "plain",
		"Output format when no key is given (plain, json, yaml)")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		v, err := s.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	}

	switch strings.ToLower(getOpts.format) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(s)
	default:
		for _, key := range config.Keys() {
			v, _ := s.Get(key)
			fmt.Printf("%-16s %s\n", key, v)
		}
		return nil
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := checkReference(key, value); err != nil {
		return err
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}
	if err := s.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveSettings(settingsPath(), s); err != nil {
		return err
	}

	v, _ := s.Get(key)
	fmt.Printf("%s = %s\n", key, v)
	return nil
}

// checkReference validates values that name lists, fonts or modes.
func checkReference(key, value string) error {
	switch key {
	case "selected_file":
		if value == "" {
			return nil
		}
		name, err := wordlist.NormalizeName(value)
		if err != nil {
			return err
		}
		if !listStore.Exists(name) {
			return fmt.Errorf("%w: %s", wordlist.ErrNotFound, name)
		}
	case "selected_font":
		if value == "" {
			return nil
		}
		if _, err := os.Stat(filepath.Join(config.FontDir(), value)); err != nil {
			return fmt.Errorf("font %s not found in %s", value, config.FontDir())
		}
	}
	return nil
}

// fontFamily resolves the family used for the selected font.
func fontFamily(s *config.Settings) string {
	return fonts.Resolve(config.FontDir(), s.SelectedFont)
}
