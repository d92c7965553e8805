package input

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// maxInput caps how much a single import may read.
const maxInput = 10 * 1024 * 1024

// StdinAdapter reads entries from a stream, stdin by default.
type StdinAdapter struct {
	reader io.Reader
	format Format
}

// NewStdinAdapter creates an adapter reading os.Stdin.
func NewStdinAdapter(format Format) *StdinAdapter {
	return &StdinAdapter{reader: os.Stdin, format: format}
}

// NewReaderAdapter creates an adapter reading r.
func NewReaderAdapter(r io.Reader, format Format) *StdinAdapter {
	return &StdinAdapter{reader: r, format: format}
}

// Name returns the adapter identifier.
func (a *StdinAdapter) Name() string {
	return "stdin"
}

// Import reads and decodes the whole stream.
func (a *StdinAdapter) Import(ctx context.Context) ([]model.Entry, error) {
	data, err := io.ReadAll(io.LimitReader(a.reader, maxInput))
	if err != nil {
		return nil, &AdapterError{Source: a.Name(), Message: "failed to read input", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decode(a.Name(), data, a.format)
}

// FileAdapter reads entries from a file.
type FileAdapter struct {
	path   string
	format Format
}

// NewFileAdapter creates an adapter for path. FormatAuto uses the extension.
func NewFileAdapter(path string, format Format) *FileAdapter {
	if format == "" || format == FormatAuto {
		format = FormatForPath(path)
	}
	return &FileAdapter{path: path, format: format}
}

// Name returns the adapter identifier.
func (a *FileAdapter) Name() string {
	return "file"
}

// Import reads and decodes the file.
func (a *FileAdapter) Import(ctx context.Context) ([]model.Entry, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, &AdapterError{Source: a.path, Message: "failed to open input", Err: err}
	}
	defer f.Close()
	return NewReaderAdapter(f, a.format).Import(ctx)
}

// record is the shape of JSON and YAML input.
type record struct {
	Word    string `json:"word" yaml:"word"`
	Meaning string `json:"meaning" yaml:"meaning"`
}

func decode(source string, data []byte, format Format) ([]model.Entry, error) {
	if format == "" || format == FormatAuto {
		format = sniff(data)
	}

	var records []record
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, &AdapterError{Source: source, Message: "failed to parse JSON input", Err: err}
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, &AdapterError{Source: source, Message: "failed to parse YAML input", Err: err}
		}
	case FormatTSV:
		for line := range strings.SplitSeq(string(data), "\n") {
			word, meaning, ok := strings.Cut(line, "\t")
			if ok {
				records = append(records, record{Word: word, Meaning: meaning})
			}
		}
	default:
		entries, err := wordlist.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, &AdapterError{Source: source, Message: "failed to parse word list", Err: err}
		}
		return entries, nil
	}

	entries := make([]model.Entry, 0, len(records))
	for _, r := range records {
		e := model.NewEntry(sanitizeString(r.Word), sanitizeString(r.Meaning))
		if e.Validate() != nil {
			continue
		}
		e.Index = len(entries)
		entries = append(entries, e)
	}
	return entries, nil
}

// sniff guesses the format of data.
func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\uFEFF")))
	switch {
	case bytes.HasPrefix(trimmed, []byte("[")):
		return FormatJSON
	case bytes.HasPrefix(trimmed, []byte("- ")), bytes.HasPrefix(trimmed, []byte("---")):
		return FormatYAML
	case bytes.Contains(trimmed, []byte(model.Separator)):
		return FormatList
	case bytes.Contains(trimmed, []byte("\t")):
		return FormatTSV
	default:
		return FormatList
	}
}

// sanitizeString collapses line breaks so a record stays on one line.
func sanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}
