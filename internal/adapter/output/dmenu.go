package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/jmylchreest/wordbubble/internal/model"
)

// DmenuFormatter writes one selectable line per entry for dmenu, rofi or fuzzel.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	return &DmenuFormatter{opts: opts, template: parseTemplate("dmenu", opts.Template)}
}

// Format writes entries one per line.
func (f *DmenuFormatter) Format(w io.Writer, entries []model.Entry) error {
	for i := range entries {
		if _, err := fmt.Fprintln(w, f.formatLine(i+1, &entries[i])); err != nil {
			return err
		}
	}
	return nil
}

func (f *DmenuFormatter) formatLine(index int, e *model.Entry) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, templateData{Index: index, Entry: e}); err == nil {
			return buf.String()
		}
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	var parts []string
	if f.opts.ShowIndex {
		parts = append(parts, strconv.Itoa(index))
	}
	if f.opts.ShowList && e.List != "" {
		parts = append(parts, e.List)
	}
	parts = append(parts, e.Word, e.MeaningTruncated(maxOrUnlimited(f.opts.MeaningMaxLen)))
	return strings.Join(parts, sep)
}

func maxOrUnlimited(n int) int {
	if n <= 0 {
		return int(^uint(0) >> 1)
	}
	return n
}

// ParseSelection returns the 1-based index at the start of a dmenu line
// produced with ShowIndex.
func ParseSelection(line, sep string) (int, error) {
	if sep == "" {
		sep = " | "
	}
	head, _, _ := strings.Cut(strings.TrimSpace(line), strings.TrimSpace(sep))
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid selection: %q", line)
	}
	return n, nil
}
