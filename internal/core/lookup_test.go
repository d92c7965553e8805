package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wordbubble/internal/model"
)

func TestLookupByWord(t *testing.T) {
	entries := sampleEntries()

	e := LookupByWord(entries, " banana ")
	require.NotNil(t, e)
	assert.Equal(t, "Banana", e.Word)

	assert.NotNil(t, LookupByWord(entries, "کتاب"))
	assert.Nil(t, LookupByWord(entries, "dog"))
}

func TestLookupByIndex(t *testing.T) {
	entries := sampleEntries()

	e := LookupByIndex(entries, 1)
	require.NotNil(t, e)
	assert.Equal(t, "apple", e.Word)

	assert.Nil(t, LookupByIndex(entries, 0))
	assert.Nil(t, LookupByIndex(entries, 5))
}

func TestSearch(t *testing.T) {
	entries := sampleEntries()
	assert.Len(t, Search(entries, ""), 4)
	assert.Len(t, Search(entries, "FELINE"), 1)
	assert.Len(t, Search(entries, "zzz"), 0)
}

func TestDuplicates(t *testing.T) {
	entries := []model.Entry{
		{Word: "Cat", Meaning: "a"},
		{Word: "dog", Meaning: "b"},
		{Word: "cat", Meaning: "c"},
		{Word: "ant", Meaning: "d"},
		{Word: "Ant", Meaning: "e"},
	}
	assert.Equal(t, []string{"ant", "Cat"}, Duplicates(entries))
	assert.Empty(t, Duplicates(sampleEntries()))
}
