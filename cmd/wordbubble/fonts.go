package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/fonts"
)

var fontsOpts struct {
	replace bool
	use     bool
}

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "Manage bubble fonts",
	Long: `Manage the fonts bubbles can use. Fonts are imported into
~/.local/share/fonts so the desktop font configuration picks them up.`,
	RunE: fontsLsRun,
}

var fontsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show imported fonts and their families",
	Args:  cobra.NoArgs,
	RunE:  fontsLsRun,
}

var fontsImportCmd = &cobra.Command{
	Use:   "import <file.ttf|file.otf>",
	Short: "Import a font",
	Args:  cobra.ExactArgs(1),
	RunE:  fontsImportRun,
}

func init() {
	fontsImportCmd.Flags().BoolVar(&fontsOpts.replace, "replace", false,
		"Overwrite a font with the same file name")
	fontsImportCmd.Flags().BoolVar(&fontsOpts.use, "use", false,
		"Select the font for bubbles after importing")

	fontsCmd.AddCommand(fontsLsCmd)
	fontsCmd.AddCommand(fontsImportCmd)
	rootCmd.AddCommand(fontsCmd)
}

func fontsLsRun(cmd *cobra.Command, args []string) error {
	dir := config.FontDir()
	names, err := fonts.List(dir)
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  FILE\tFAMILY")
	for _, name := range names {
		marker := " "
		if name == settings.SelectedFont {
			marker = "*"
		}
		family := fonts.Family(filepath.Join(dir, name))
		if family == "" {
			family = "(unreadable)"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", marker, name, family)
	}
	return tw.Flush()
}

func fontsImportRun(cmd *cobra.Command, args []string) error {
	dir := config.FontDir()
	name, err := fonts.Import(args[0], dir, fontsOpts.replace)
	if err != nil {
		if errors.Is(err, fonts.ErrExists) {
			return fmt.Errorf("%w (use --replace)", err)
		}
		return err
	}
	fmt.Printf("Imported %s (%s)\n", name, fonts.Resolve(dir, name))

	if !fontsOpts.use {
		return nil
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	settings.SelectedFont = name
	return config.SaveSettings(settingsPath(), settings)
}
