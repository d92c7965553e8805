package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wordbubble/internal/placement"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List bubble placement modes",
	Long: `List the values accepted by 'wordbubble set bubble_position'.

Fixed modes pin bubbles to a corner or the center. Cascade modes stack
bubbles down from the top, wrapping after a few slots. Sweep modes slide a
bubble across the screen while it fades.`,
	Args: cobra.NoArgs,
	RunE: runModes,
}

func init() {
	rootCmd.AddCommand(modesCmd)
}

func runModes(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  MODE\tFAMILY")
	for _, m := range placement.AllModes() {
		marker := " "
		if m == settings.Mode() {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", marker, m, m.Family())
	}
	return tw.Flush()
}
