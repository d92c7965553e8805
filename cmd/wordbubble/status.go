package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/store"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

var statusOpts struct {
	format string
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon and playback status",
	Long: `Show whether wordbubbled is running and playing, the selected list, and
the last word shown.

With --format waybar the output is a Waybar custom module:

  "custom/wordbubble": {
    "exec": "wordbubble status --format waybar",
    "interval": 5,
    "return-type": "json",
    "on-click": "wordbubble toggle",
    "on-click-right": "wordbubble activate"
  }`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", "plain",
		"Output format (plain, json, waybar)")
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the json output of the status command.
type statusReport struct {
	Running      bool   `json:"running"`
	PID          int    `json:"pid,omitempty"`
	Paused       bool   `json:"paused"`
	List         string `json:"list,omitempty"`
	Words        int    `json:"words"`
	Interval     int    `json:"interval"`
	Duration     int    `json:"duration"`
	Position     string `json:"position"`
	Font         string `json:"font"`
	LastWord     string `json:"last_word,omitempty"`
	LastList     string `json:"last_list,omitempty"`
	LastBubbleAt int64  `json:"last_bubble_at,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	state, err := store.LoadSharedState(store.StateFilePath())
	if err != nil {
		return err
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	report := buildStatus(state, settings)

	switch strings.ToLower(statusOpts.format) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "waybar":
		return json.NewEncoder(os.Stdout).Encode(waybarStatus(report))
	default:
		printStatus(report, state)
		return nil
	}
}

func buildStatus(state *store.SharedState, settings *config.Settings) statusReport {
	report := statusReport{
		Paused:       state.Paused,
		Interval:     settings.BubbleInterval,
		Duration:     settings.BubbleDuration,
		Position:     settings.BubblePosition,
		Font:         fontFamily(settings),
		LastWord:     state.LastWord,
		LastList:     state.LastList,
		LastBubbleAt: state.LastBubbleAt,
	}
	if state.DaemonPID > 0 && processAlive(state.DaemonPID) {
		report.Running = true
		report.PID = state.DaemonPID
	}
	if name, err := wordlist.NormalizeName(settings.SelectedFile); err == nil && settings.SelectedFile != "" {
		report.List = name
		if info, err := listStore.Info(name); err == nil {
			report.Words = info.Words
		}
	}
	return report
}

// processAlive reports whether pid names a live process.
func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

func printStatus(r statusReport, state *store.SharedState) {
	if r.Running {
		fmt.Printf("Daemon:    running (pid %d)\n", r.PID)
	} else {
		fmt.Println("Daemon:    not running")
	}
	if r.Paused {
		fmt.Println("Playback:  paused")
	} else {
		fmt.Println("Playback:  playing")
	}
	if t := state.LastTransition; t != nil {
		fmt.Printf("  Last change: %s (%s", formatTransitionTime(t.Timestamp), t.Reason)
		if t.Source != "" {
			fmt.Printf(", from %s", t.Source)
		}
		fmt.Println(")")
	}

	if r.List != "" {
		fmt.Printf("List:      %s (%s words)\n", r.List, humanize.Comma(int64(r.Words)))
	} else {
		fmt.Println("List:      none selected")
	}
	fmt.Printf("Every:     %ds, visible %ds, position %s\n", r.Interval, r.Duration, r.Position)
	fmt.Printf("Font:      %s\n", r.Font)
	if r.LastWord != "" {
		fmt.Printf("Last word: %s from %s, %s\n", r.LastWord, r.LastList, humanize.Time(state.LastBubbleTime()))
	}
}

func waybarStatus(r statusReport) WaybarStatus {
	switch {
	case !r.Running:
		return WaybarStatus{Text: "", Alt: "stopped", Class: "stopped", Tooltip: "wordbubbled is not running"}
	case r.Paused:
		return WaybarStatus{Text: "⏸", Alt: "paused", Class: "paused", Tooltip: "Paused - " + listTooltip(r)}
	}
	text := r.LastWord
	if text == "" {
		text = "▶"
	}
	return WaybarStatus{Text: text, Alt: "playing", Class: "playing", Tooltip: listTooltip(r)}
}

func listTooltip(r statusReport) string {
	if r.List == "" {
		return "No word list selected"
	}
	return fmt.Sprintf("%s: %s words, every %ds", r.List, humanize.Comma(int64(r.Words)), r.Interval)
}
