package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wordbubble/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "word_lists"), nil)
	require.NoError(t, err)
	return s
}

func entries(pairs ...string) []model.Entry {
	var out []model.Entry
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.NewEntry(pairs[i], pairs[i+1]))
	}
	return out
}

func pairsOf(es []model.Entry) []string {
	var out []string
	for _, e := range es {
		out = append(out, e.Word, e.Meaning)
	}
	return out
}

func TestParse_SkipsInvalidLines(t *testing.T) {
	input := "\uFEFFapple::a fruit\n" +
		"\n" +
		"no separator here\n" +
		"  car  ::  a vehicle  \r\n" +
		"::missing word\n" +
		"missing meaning::\n" +
		"سیب::apple\n"

	got, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "a fruit", "car", "a vehicle", "سیب", "apple"}, pairsOf(got))
	for i, e := range got {
		assert.Equal(t, i, e.Index)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := entries("apple", "a fruit", "a:b", "single colon ok", "سیب", "سیب سرخ", "x", "y::z")

	require.NoError(t, s.Save("mixed", want))
	got, err := s.Load("mixed")
	require.NoError(t, err)
	assert.Equal(t, pairsOf(want), pairsOf(got))
	assert.Equal(t, "mixed", got[0].List)

	data, err := os.ReadFile(s.Path("mixed"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "apple::a fruit\n"))
}

func TestStore_CreateRenameDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Create("first"))
	assert.ErrorIs(t, s.Create("first.txt"), ErrListExists)
	require.NoError(t, s.Create("second"))

	lists, err := s.Lists()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, lists)

	assert.ErrorIs(t, s.Rename("first", "second"), ErrListExists)
	assert.ErrorIs(t, s.Rename("missing", "third"), ErrNotFound)
	require.NoError(t, s.Rename("first", "third"))
	assert.False(t, s.Exists("first"))
	assert.True(t, s.Exists("third"))

	require.NoError(t, s.Delete("third"))
	assert.ErrorIs(t, s.Delete("third"), ErrNotFound)

	_, err = s.Load("third")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_InvalidNames(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"", "  ", "..", "a/b", `a\b`, ".txt"} {
		assert.ErrorIs(t, s.Create(name), ErrInvalidName, name)
	}
}

func TestSelectedName(t *testing.T) {
	assert.Equal(t, "animals", SelectedName("animals.txt"))
	assert.Equal(t, "animals", SelectedName(" animals "))
	assert.Equal(t, "", SelectedName(""))
	assert.Equal(t, "", SelectedName(".txt"))
	assert.Equal(t, "", SelectedName("../etc/passwd"))

	// An imported file named only ".txt" has no usable list name.
	_, err := NormalizeName(filepath.Base("/home/user/.txt"))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestStore_Words(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("l"))

	require.NoError(t, s.AddWord("l", model.NewEntry("one", "1")))
	require.NoError(t, s.AddWord("l", model.NewEntry("two", "2")))
	require.NoError(t, s.AddWord("l", model.NewEntry("three", "3")))

	require.NoError(t, s.UpdateWord("l", 1, model.NewEntry("TWO", "II")))
	require.NoError(t, s.DeleteWord("l", 0))

	got, err := s.Load("l")
	require.NoError(t, err)
	assert.Equal(t, []string{"TWO", "II", "three", "3"}, pairsOf(got))

	assert.ErrorIs(t, s.UpdateWord("l", 5, model.NewEntry("a", "b")), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.DeleteWord("l", -1), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.AddWord("l", model.NewEntry("a", "")), model.ErrEmptyMeaning)
	assert.ErrorIs(t, s.AddWord("missing", model.NewEntry("a", "b")), ErrNotFound)

	info, err := s.Info("l")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Words)
	assert.Equal(t, "l", info.Name)
	assert.Positive(t, info.Size)
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("l", entries("a", "1")))

	first, err := s.Load("l")
	require.NoError(t, err)
	first[0].Word = "changed"

	second, err := s.Load("l")
	require.NoError(t, err)
	assert.Equal(t, "a", second[0].Word)
}

func TestStore_Import(t *testing.T) {
	s := newTestStore(t)
	src := filepath.Join(t.TempDir(), "src.txt")

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, os.WriteFile(src, []byte("a::1\nnoise\nb::2\n"), 0o644))
		n, err := s.Import(src, "imported", false)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("exists without replace", func(t *testing.T) {
		_, err := s.Import(src, "imported", false)
		assert.ErrorIs(t, err, ErrListExists)
	})

	t.Run("replace", func(t *testing.T) {
		require.NoError(t, os.WriteFile(src, []byte("c::3\n"), 0o644))
		n, err := s.Import(src, "imported", true)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		got, err := s.Load("imported")
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "3"}, pairsOf(got))
	})

	t.Run("empty", func(t *testing.T) {
		require.NoError(t, os.WriteFile(src, []byte("nothing useful\n::\n"), 0o644))
		_, err := s.Import(src, "empty", false)
		assert.ErrorIs(t, err, ErrEmptyFile)
		assert.False(t, s.Exists("empty"))
	})

	t.Run("not utf8", func(t *testing.T) {
		require.NoError(t, os.WriteFile(src, []byte{0xff, 0xfe, ':', ':', 0xff}, 0o644))
		_, err := s.Import(src, "binary", false)
		assert.ErrorIs(t, err, ErrInvalidFile)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := s.Import(filepath.Join(t.TempDir(), "nope.txt"), "x", false)
		assert.ErrorIs(t, err, ErrInvalidFile)
	})
}

func TestWatcher_InvalidatesOnExternalWrite(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("l", entries("a", "1")))
	_, err := s.Load("l")
	require.NoError(t, err)

	w, err := NewWatcher(s, nil)
	require.NoError(t, err)
	changed := make(chan string, 8)
	w.OnChange(func(name string) { changed <- name })
	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(s.Path("l"), []byte("b::2\n"), 0o644))

	select {
	case name := <-changed:
		assert.Equal(t, "l", name)
	case <-time.After(2 * time.Second):
		require.Fail(t, "no change event")
	}

	require.Eventually(t, func() bool {
		got, err := s.Load("l")
		return err == nil && len(got) == 1 && got[0].Word == "b"
	}, 2*time.Second, 10*time.Millisecond)
}
