package wordlist

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPicker_SequentialWraps(t *testing.T) {
	p := NewPicker(PlaySequential, nil)
	list := entries("a", "1", "b", "2", "c", "3")

	var got []string
	for range 7 {
		e, err := p.Next("l", list)
		require.NoError(t, err)
		got = append(got, e.Word)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestPicker_ResetsOnListAndModeChange(t *testing.T) {
	p := NewPicker(PlaySequential, nil)
	list := entries("a", "1", "b", "2", "c", "3")

	_, _ = p.Next("l", list)
	_, _ = p.Next("l", list)

	e, err := p.Next("other", list)
	require.NoError(t, err)
	assert.Equal(t, "a", e.Word)

	_, _ = p.Next("other", list)
	p.SetMode(PlayRandom)
	p.SetMode(PlaySequential)
	e, _ = p.Next("other", list)
	assert.Equal(t, "a", e.Word)
}

func TestPicker_ShrunkList(t *testing.T) {
	p := NewPicker(PlaySequential, nil)
	_, _ = p.Next("l", entries("a", "1", "b", "2", "c", "3"))
	_, _ = p.Next("l", entries("a", "1", "b", "2", "c", "3"))

	e, err := p.Next("l", entries("a", "1"))
	require.NoError(t, err)
	assert.Equal(t, "a", e.Word)
}

func TestPicker_Random(t *testing.T) {
	p := NewPicker(PlayRandom, rand.New(rand.NewPCG(1, 2)))
	list := entries("a", "1", "b", "2", "c", "3")

	seen := map[string]bool{}
	for range 100 {
		e, err := p.Next("l", list)
		require.NoError(t, err)
		seen[e.Word] = true
	}
	assert.Len(t, seen, 3)
}

func TestPicker_Empty(t *testing.T) {
	p := NewPicker("bogus", nil)
	assert.Equal(t, PlayRandom, p.Mode())
	_, err := p.Next("l", nil)
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestSource(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("l", entries("a", "1", "b", "2")))

	selected := ""
	src := &Source{Store: s, Picker: NewPicker(PlaySequential, nil), List: func() string { return selected }}

	_, err := src.Next()
	assert.ErrorIs(t, err, ErrNoWords)

	selected = "l.txt"
	e, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", e.Word)
	e, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", e.Word)

	selected = "missing"
	_, err = src.Next()
	assert.ErrorIs(t, err, ErrNotFound)
}
