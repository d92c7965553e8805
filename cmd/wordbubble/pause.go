package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wordbubble/internal/store"
)

var pauseOpts struct {
	quiet  bool // Suppress output, return exit code only
	reason string
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Stop showing new bubbles",
	Long: `Pause wordbubbled. Bubbles already on screen finish normally; no new
bubbles appear until 'wordbubble resume'.

Exit code: 0 = playing, 1 = paused (useful for status bar scripts).`,
	Args: cobra.NoArgs,
	RunE: pauseRun,
}

var resumeCmd = &cobra.Command{
	Use:     "resume",
	Aliases: []string{"play"},
	Short:   "Resume showing bubbles",
	Args:    cobra.NoArgs,
	RunE:    resumeRun,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle between paused and playing",
	Args:  cobra.NoArgs,
	RunE:  toggleRun,
}

func init() {
	for _, cmd := range []*cobra.Command{pauseCmd, resumeCmd, toggleCmd} {
		cmd.Flags().BoolVarP(&pauseOpts.quiet, "quiet", "q", false,
			"Suppress output, return exit code only (0=playing, 1=paused)")
		cmd.Flags().StringVar(&pauseOpts.reason, "reason", "",
			"Reason recorded with the change")
		rootCmd.AddCommand(cmd)
	}
}

func pauseRun(cmd *cobra.Command, args []string) error {
	return changePaused(func(s *store.SharedState) {
		s.SetPaused(true, reasonOr("pause"), "cli")
	})
}

func resumeRun(cmd *cobra.Command, args []string) error {
	return changePaused(func(s *store.SharedState) {
		s.SetPaused(false, reasonOr("resume"), "cli")
	})
}

func toggleRun(cmd *cobra.Command, args []string) error {
	return changePaused(func(s *store.SharedState) {
		s.TogglePaused(reasonOr("toggle"), "cli")
	})
}

func reasonOr(def string) string {
	if pauseOpts.reason != "" {
		return pauseOpts.reason
	}
	return def
}

// changePaused applies fn to the shared state, prints the result and
// exits 1 when the daemon ends up paused.
func changePaused(fn func(*store.SharedState)) error {
	state, err := store.UpdateSharedState(store.StateFilePath(), fn)
	if err != nil {
		if !pauseOpts.quiet {
			fmt.Fprintf(os.Stderr, "Failed to update state: %v\n", err)
		}
		return err
	}

	if !pauseOpts.quiet {
		printPaused(state)
	}
	if state.Paused {
		os.Exit(1)
	}
	return nil
}

func printPaused(state *store.SharedState) {
	if state.Paused {
		fmt.Println("wordbubble: paused")
	} else {
		fmt.Println("wordbubble: playing")
	}
}

// formatTransitionTime formats a unix timestamp as a human-readable relative time.
func formatTransitionTime(timestamp int64) string {
	return humanize.Time(time.Unix(timestamp, 0))
}
