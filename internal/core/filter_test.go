package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wordbubble/internal/model"
)

func sampleEntries() []model.Entry {
	return []model.Entry{
		{Word: "apple", Meaning: "a round fruit", Index: 0, List: "fruit"},
		{Word: "Banana", Meaning: "a long yellow fruit", Index: 1, List: "fruit"},
		{Word: "cat", Meaning: "small domesticated feline", Index: 2, List: "animals"},
		{Word: "کتاب", Meaning: "book", Index: 3, List: "persian"},
	}
}

func TestFilter_Empty(t *testing.T) {
	assert.Len(t, Filter(nil, FilterOptions{}), 0)
}

func TestFilter_Options(t *testing.T) {
	entries := sampleEntries()

	assert.Len(t, Filter(entries, FilterOptions{}), 4)
	assert.Len(t, Filter(entries, FilterOptions{List: "fruit"}), 2)

	got := Filter(entries, FilterOptions{Search: "FRUIT"})
	require.Len(t, got, 2)
	assert.Equal(t, "apple", got[0].Word)

	assert.Len(t, Filter(entries, FilterOptions{Limit: 3}), 3)
	assert.Len(t, Filter(entries, FilterOptions{Search: "book"}), 1)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		expr    string
		want    int
		wantErr bool
	}{
		{"", 4, false},
		{"word=cat", 1, false},
		{"word!=cat", 3, false},
		{"meaning~fruit", 2, false},
		{"meaning~=^a ", 2, false},
		{"list=fruit,word~an", 1, false},
		{"index<=2", 2, false},
		{"index>3", 1, false},
		{"length=4", 1, false},
		{"w~A", 3, false},
		{"colour=red", 0, true},
		{"word>b", 0, true},
		{"index=abc", 0, true},
		{"meaning~=(", 0, true},
		{"nooperator", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			expr, err := ParseFilter(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, FilterWithExpr(sampleEntries(), expr), tt.want)
		})
	}
}

func TestFilterWithExpr_Nil(t *testing.T) {
	entries := sampleEntries()
	assert.Equal(t, entries, FilterWithExpr(entries, nil))
}
