package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

func testEntries() []model.Entry {
	return []model.Entry{
		{Word: "apple", Meaning: "a round fruit", Index: 0, List: "fruit"},
		{Word: "کتاب", Meaning: "book, a written work", Index: 1, List: "persian"},
	}
}

func TestDmenuFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDmenuFormatter(DefaultFormatterOptions()).Format(&buf, testEntries()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1 | apple | a round fruit", lines[0])
	assert.Equal(t, "2 | کتاب | book, a written work", lines[1])
}

func TestDmenuFormatter_Options(t *testing.T) {
	var buf bytes.Buffer
	opts := FormatterOptions{ShowList: true, MeaningMaxLen: 8, Separator: "\t"}
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testEntries()[:1]))
	assert.Equal(t, "fruit\tapple\ta rou...\n", buf.String())
}

func TestDmenuFormatter_Template(t *testing.T) {
	var buf bytes.Buffer
	opts := FormatterOptions{Template: "{{.Index}}. {{upper .Entry.Word}}"}
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testEntries()[:1]))
	assert.Equal(t, "1. APPLE\n", buf.String())
}

func TestParseSelection(t *testing.T) {
	n, err := ParseSelection("12 | apple | a round fruit", "")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = ParseSelection("apple | a round fruit", " | ")
	assert.Error(t, err)
	_, err = ParseSelection("0 | apple", " | ")
	assert.Error(t, err)
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	opts := FormatterOptions{ShowIndex: true, ShowList: true}
	require.NoError(t, NewPlainFormatter(opts).Format(&buf, testEntries()))
	assert.Equal(t, "[1] <fruit> apple :: a round fruit\n[2] <persian> کتاب :: book, a written work\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(FormatterOptions{}).Format(&buf, testEntries()))

	var got []model.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testEntries(), got)

	buf.Reset()
	require.NoError(t, NewJSONFormatter(FormatterOptions{}).Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(FormatterOptions{}).Format(&buf, testEntries()))
	assert.Contains(t, buf.String(), "- word: apple\n")

	var got []model.Entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testEntries(), got)
}

func TestWordsAndListFormatters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatWords, FormatterOptions{}).Format(&buf, testEntries()))
	assert.Equal(t, "apple\nکتاب\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatList, FormatterOptions{}).Format(&buf, testEntries()))
	assert.Equal(t, "apple::a round fruit\nکتاب::book, a written work\n", buf.String())
}

func TestNewFormatter_UnknownIsPlain(t *testing.T) {
	_, ok := NewFormatter("nope", FormatterOptions{}).(*PlainFormatter)
	assert.True(t, ok)
}

func TestFormatField(t *testing.T) {
	e := testEntries()[0]
	assert.Equal(t, "apple", FormatField(&e, "word"))
	assert.Equal(t, "a round fruit", FormatField(&e, "m"))
	assert.Equal(t, "fruit", FormatField(&e, "list"))
	assert.Equal(t, "apple::a round fruit", FormatField(&e, "line"))
	assert.Equal(t, "apple :: a round fruit", FormatField(&e, ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "he...", truncate("hello world", 5))
	assert.Equal(t, "سلا", truncate("سلام دنیا", 3))
}

func TestFormatLists(t *testing.T) {
	lists := []wordlist.Info{
		{Name: "animals", Words: 1200, Size: 2048, ModTime: time.Now().Add(-2 * time.Hour)},
		{Name: "fruit", Words: 3, Size: 40},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatLists(&buf, FormatPlain, lists, "fruit"))
	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "unknown")
	assert.Regexp(t, `(?m)^\*\s+fruit`, out)

	buf.Reset()
	require.NoError(t, FormatLists(&buf, FormatWords, lists, ""))
	assert.Equal(t, "animals\nfruit\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatLists(&buf, FormatJSON, nil, ""))
	assert.Equal(t, "[]\n", buf.String())
}
