package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wordbubble/internal/adapter/input"
	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

func newTestModel(t *testing.T) (Model, *wordlist.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := wordlist.NewStore(filepath.Join(dir, "lists"), nil)
	require.NoError(t, err)

	require.NoError(t, s.Save("animals", []model.Entry{
		model.NewEntry("cat", "a small animal"),
		model.NewEntry("dog", "a loyal animal"),
	}))
	require.NoError(t, s.Save("fruits", []model.Entry{
		model.NewEntry("apple", "a red fruit"),
	}))

	settingsPath := filepath.Join(dir, "settings.json")
	m := New(s, settingsPath, config.DefaultSettings())
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, loadListsMsg{})
	return m, s, settingsPath
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LoadsLists(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Equal(t, ModeLists, m.mode)
	require.Len(t, m.infos, 2)
	assert.Equal(t, "animals", m.infos[0].Name)
	assert.Equal(t, 2, m.infos[0].Words)
	assert.Len(t, m.lists.Items(), 2)
}

func TestModel_OpenListAndBack(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeWords, m.mode)
	assert.Equal(t, "animals", m.current)
	assert.Len(t, m.words.Items(), 2)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeDetail, m.mode)
	require.NotNil(t, m.selected)
	assert.Equal(t, "cat", m.selected.Word)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeWords, m.mode)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeLists, m.mode)
	assert.Empty(t, m.current)
}

func TestModel_SelectListSavesSettings(t *testing.T) {
	m, _, settingsPath := newTestModel(t)

	m = update(t, m, runes("s"))

	saved, err := config.LoadSettings(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "animals.txt", saved.SelectedFile)
	assert.Equal(t, "animals", m.selectedList())

	item, ok := m.lists.Items()[0].(listItem)
	require.True(t, ok)
	assert.True(t, item.selected)
}

func TestModel_SearchWords(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = update(t, m, runes("/"))
	assert.Equal(t, ModeSearch, m.mode)

	for _, r := range "loyal" {
		m = update(t, m, runes(string(r)))
	}
	assert.Equal(t, "loyal", m.searchQuery)
	require.Len(t, m.words.Items(), 1)
	assert.Equal(t, "dog", m.words.Items()[0].(wordItem).entry.Word)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeWords, m.mode)
	assert.Len(t, m.words.Items(), 1)

	// First esc clears the filter, the second leaves the list.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeWords, m.mode)
	assert.Len(t, m.words.Items(), 2)
}

func TestModel_DeleteWord(t *testing.T) {
	m, s, _ := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = update(t, m, runes("D"))
	assert.Len(t, m.words.Items(), 1)

	entries, err := s.Load("animals")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dog", entries[0].Word)
}

func TestModel_View(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "animals")

	m = update(t, m, runes("?"))
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeLists, m.mode)
}

func TestBuildKeybindBar_FitsWidth(t *testing.T) {
	m, _, _ := newTestModel(t)
	bar := m.buildKeybindBar(20, "words")
	assert.Contains(t, bar, "quit")
	assert.NotContains(t, bar, "delete")
}

func TestImportFromAdapter(t *testing.T) {
	_, s, _ := newTestModel(t)

	src := "cat::duplicate\nbird::a flying animal\n"
	adapter := input.NewReaderAdapter(strings.NewReader(src), input.FormatList)

	n, err := importFromAdapter(context.Background(), adapter, s, "animals")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := s.Load("animals")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "bird", entries[2].Word)

	n, err = importFromAdapter(context.Background(), input.NewReaderAdapter(strings.NewReader(src), input.FormatList), s, "new")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, s.Exists("new"))
}
