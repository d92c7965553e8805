package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// FormatLists writes word-list summaries. selected marks the list the
// daemon is using.
func FormatLists(w io.Writer, format FormatType, lists []wordlist.Info, selected string) error {
	if lists == nil {
		lists = []wordlist.Info{}
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(lists)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(lists); err != nil {
			return err
		}
		return encoder.Close()
	case FormatWords, FormatDmenu:
		for _, l := range lists {
			if _, err := fmt.Fprintln(w, l.Name); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tWORDS\tSIZE\tMODIFIED")
	for _, l := range lists {
		mark := ""
		if l.Name == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			mark,
			l.Name,
			humanize.Comma(int64(l.Words)),
			humanize.Bytes(uint64(l.Size)),
			relativeTime(l.ModTime),
		)
	}
	return tw.Flush()
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.Time(t)
}
