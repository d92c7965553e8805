// Package tui provides the BubbleTea-based word list browser.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/wordbubble/internal/adapter/input"
	"github.com/jmylchreest/wordbubble/internal/config"
	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeLists Mode = iota
	ModeWords
	ModeDetail
	ModeSearch
	ModeHelp
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the main TUI model.
type Model struct {
	store        *wordlist.Store
	settingsPath string
	settings     *config.Settings
	clipboard    string

	mode Mode
	// Mode search and help return to.
	base Mode

	lists       list.Model
	words       list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	infos       []wordlist.Info
	current     string
	entries     []model.Entry
	selected    *model.Entry
	searchQuery string
	searchErr   string
	width       int
	height      int
	ready       bool

	keys KeyMap

	statusMsg string
	statusErr bool

	refreshCh <-chan string
}

// listItem wraps a word list for the list component.
type listItem struct {
	info     wordlist.Info
	selected bool
}

func (i listItem) Title() string {
	return i.info.Name
}

func (i listItem) Description() string {
	return fmt.Sprintf("%s words - %s - updated %s",
		humanize.Comma(int64(i.info.Words)),
		humanize.Bytes(uint64(i.info.Size)),
		humanize.Time(i.info.ModTime))
}

func (i listItem) FilterValue() string {
	return i.info.Name
}

// wordItem wraps an entry for the list component.
type wordItem struct {
	entry model.Entry
}

func (i wordItem) Title() string {
	return i.entry.Word
}

func (i wordItem) Description() string {
	return fmt.Sprintf("#%d  %s", i.entry.Index+1, i.entry.MeaningTruncated(60))
}

func (i wordItem) FilterValue() string {
	return i.entry.Word + " " + i.entry.Meaning
}

// listDelegate marks the list the daemon is currently showing.
type listDelegate struct {
	list.DefaultDelegate
}

func newListDelegate() listDelegate {
	return listDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item, highlighting the selected list.
func (d listDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li, ok := item.(listItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	titleStyle := d.Styles.NormalTitle
	descStyle := d.Styles.NormalDesc
	if index == m.Index() {
		titleStyle = d.Styles.SelectedTitle
		descStyle = d.Styles.SelectedDesc
	}

	title := li.Title()
	if li.selected {
		title = "● " + title
		titleStyle = titleStyle.Foreground(activeStyle.GetForeground())
	}

	width := m.Width() - d.Styles.NormalTitle.GetHorizontalPadding()
	fmt.Fprint(w, titleStyle.Render(clip(title, width)))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(clip(li.Description(), width)))
}

// clip shortens s to width runes.
func clip(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// New creates a new TUI model.
func New(s *wordlist.Store, settingsPath string, settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	lists := list.New(nil, newListDelegate(), 0, 0)
	lists.Title = "Word Lists"
	lists.SetShowHelp(false)
	lists.SetFilteringEnabled(false)
	lists.DisableQuitKeybindings()

	words := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	words.SetShowHelp(false)
	words.SetFilteringEnabled(false)
	words.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search, or word~x,length<6 ..."
	searchInput.CharLimit = 100

	return Model{
		store:        s,
		settingsPath: settingsPath,
		settings:     settings,
		mode:         ModeLists,
		base:         ModeLists,
		lists:        lists,
		words:        words,
		searchInput:  searchInput,
		help:         help.New(),
		keys:         DefaultKeyMap(),
	}
}

// SetClipboardCommand overrides clipboard auto-detection.
func (m *Model) SetClipboardCommand(cmd string) {
	m.clipboard = cmd
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadLists, m.watchForChanges)
}

type loadListsMsg struct{}

func (m Model) loadLists() tea.Msg {
	return loadListsMsg{}
}

// watchForChanges waits for the next list change on disk.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	name, ok := <-m.refreshCh
	if !ok {
		return nil
	}
	return refreshMsg{list: name}
}

type refreshMsg struct {
	list string
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.lists.SetSize(msg.Width, msg.Height-2)
		m.words.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		return m, nil

	case loadListsMsg:
		return m.reloadLists()

	case refreshMsg:
		m.store.Invalidate(msg.list)
		next, cmd := m.reloadLists()
		nm := next.(Model)
		if nm.current != "" && (msg.list == "" || msg.list == nm.current) {
			nm = nm.reloadWords()
		}
		return nm, tea.Batch(cmd, nm.watchForChanges)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeLists:
		m.lists, cmd = m.lists.Update(msg)
	case ModeWords:
		m.words, cmd = m.words.Update(msg)
	case ModeDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	case ModeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing into the search box must not trigger global keys.
	if m.mode == ModeSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = m.base
		} else {
			if m.mode != ModeDetail {
				m.base = m.mode
			}
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeLists:
		return m.handleListsKey(msg)
	case ModeWords:
		return m.handleWordsKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = m.base
		}
		return m, nil
	}
	return m, nil
}

// handleListsKey handles keys in the lists view.
func (m Model) handleListsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.lists.SelectedItem().(listItem); ok {
			m.current = item.info.Name
			m = m.reloadWords()
			m.words.Select(0)
			m.mode = ModeWords
			m.base = ModeWords
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if item, ok := m.lists.SelectedItem().(listItem); ok {
			return m.selectList(item.info.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m.startSearch()

	case key.Matches(msg, m.keys.Refresh):
		m.store.InvalidateAll()
		return m, m.loadLists
	}

	var cmd tea.Cmd
	m.lists, cmd = m.lists.Update(msg)
	return m, cmd
}

// handleWordsKey handles keys in the words view.
func (m Model) handleWordsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.searchErr = ""
			m.words.SetItems(m.buildWordItems())
			return m, nil
		}
		m.current = ""
		m.entries = nil
		m.mode = ModeLists
		m.base = ModeLists
		m.lists.SetItems(m.buildListItems())
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.words.SelectedItem().(wordItem); ok {
			e := item.entry
			m.selected = &e
			m.mode = ModeDetail
			m.viewport.SetContent(m.renderDetail(e))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.selectList(m.current)

	case key.Matches(msg, m.keys.CopyWord):
		if item, ok := m.words.SelectedItem().(wordItem); ok {
			return m, m.copyToClipboard(item.entry.Word)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyMeaning):
		if item, ok := m.words.SelectedItem().(wordItem); ok {
			return m, m.copyToClipboard(item.entry.Meaning)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyAllJSON):
		data, err := json.MarshalIndent(m.visibleEntries(), "", "  ")
		if err != nil {
			return m, status("Failed to marshal JSON: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyAllYAML):
		data, err := yaml.Marshal(m.visibleEntries())
		if err != nil {
			return m, status("Failed to marshal YAML: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.words.SelectedItem().(wordItem)
		if !ok {
			return m, nil
		}
		if err := m.store.DeleteWord(m.current, item.entry.Index); err != nil {
			return m, status("Delete failed: "+err.Error(), true)
		}
		m = m.reloadWords()
		m.lists.SetItems(m.buildListItems())
		return m, status(fmt.Sprintf("Deleted %q", item.entry.Word), false)

	case key.Matches(msg, m.keys.Search):
		return m.startSearch()

	case key.Matches(msg, m.keys.Refresh):
		m.store.Invalidate(m.current)
		m = m.reloadWords()
		return m, nil
	}

	var cmd tea.Cmd
	m.words, cmd = m.words.Update(msg)
	return m, cmd
}

// handleDetailKey handles keys in the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeWords
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.CopyWord):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Word)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyMeaning):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Meaning)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.base = m.mode
	m.searchInput.SetValue(m.searchQuery)
	m.mode = ModeSearch
	m.searchInput.Focus()
	return m, textinput.Blink
}

// handleSearchKey handles keys while the search box has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = m.base
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.searchErr = ""
		m.rebuild()
		return m, nil

	case tea.KeyEnter:
		// Keep the filter and go back to browsing it.
		m.mode = m.base
		m.searchInput.Blur()
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		if m.base == ModeLists {
			m.lists, cmd = m.lists.Update(msg)
		} else {
			m.words, cmd = m.words.Update(msg)
		}
		return m, cmd

	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filtering on each keystroke.
	m.searchQuery = m.searchInput.Value()
	m.rebuild()
	return m, cmd
}

// rebuild refreshes the items of the view search applies to.
func (m *Model) rebuild() {
	if m.base == ModeLists {
		m.lists.SetItems(m.buildListItems())
		return
	}
	m.words.SetItems(m.buildWordItems())
}

// selectList makes name the list the daemon shows bubbles from.
func (m Model) selectList(name string) (tea.Model, tea.Cmd) {
	if name == "" {
		return m, nil
	}
	settings := *m.settings
	settings.SelectedFile = wordlist.FileName(name)
	if err := config.SaveSettings(m.settingsPath, &settings); err != nil {
		return m, status("Failed to save settings: "+err.Error(), true)
	}
	m.settings = &settings
	m.lists.SetItems(m.buildListItems())
	return m, status(fmt.Sprintf("Selected list %q", name), false)
}

func (m Model) selectedList() string {
	name, err := wordlist.NormalizeName(m.settings.SelectedFile)
	if err != nil {
		return ""
	}
	return name
}

// reloadLists re-reads list metadata from the store.
func (m Model) reloadLists() (tea.Model, tea.Cmd) {
	names, err := m.store.Lists()
	if err != nil {
		return m, status(err.Error(), true)
	}
	infos := make([]wordlist.Info, 0, len(names))
	for _, name := range names {
		info, err := m.store.Info(name)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	m.infos = infos
	m.lists.SetItems(m.buildListItems())
	return m, nil
}

// reloadWords re-reads the list being browsed.
func (m Model) reloadWords() Model {
	entries, err := m.store.Load(m.current)
	if err != nil {
		m.entries = nil
		m.statusMsg = err.Error()
		m.statusErr = true
	} else {
		m.entries = entries
	}
	m.words.Title = m.current
	m.words.SetItems(m.buildWordItems())
	return m
}

// buildListItems creates list items, filtered by name when the lists view
// is being searched.
func (m Model) buildListItems() []list.Item {
	active := m.selectedList()
	query := ""
	if m.base == ModeLists {
		query = m.searchQuery
	}
	items := make([]list.Item, 0, len(m.infos))
	for _, info := range m.infos {
		if query != "" && !strings.Contains(strings.ToLower(info.Name), strings.ToLower(query)) {
			continue
		}
		items = append(items, listItem{info: info, selected: info.Name == active})
	}
	return items
}

// buildWordItems creates word items from the entries matching the search.
func (m *Model) buildWordItems() []list.Item {
	entries, err := filterEntries(m.entries, m.searchQuery)
	if err != nil {
		m.searchErr = err.Error()
	} else {
		m.searchErr = ""
	}
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = wordItem{entry: e}
	}
	return items
}

func (m Model) visibleEntries() []model.Entry {
	items := m.words.Items()
	entries := make([]model.Entry, 0, len(items))
	for _, item := range items {
		if wi, ok := item.(wordItem); ok {
			entries = append(entries, wi.entry)
		}
	}
	return entries
}

// renderDetail renders the detail view for an entry.
func (m Model) renderDetail(e model.Entry) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(e.Word) + "\n\n")
	s.WriteString(dimStyle.Render("List: ") + e.List + "\n")
	s.WriteString(dimStyle.Render("Index: ") + fmt.Sprint(e.Index+1) + "\n")
	s.WriteString(dimStyle.Render("Length: ") + fmt.Sprint(len([]rune(e.Word))) + "\n")
	s.WriteString("\n" + dimStyle.Render("Meaning:") + "\n")
	s.WriteString(e.Meaning + "\n")
	return s.String()
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.clipboard
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, command)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeLists:
		return m.lists.View() + "\n" + m.footer("lists")
	case ModeWords:
		return m.viewWords()
	case ModeDetail:
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Word Detail")
		return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, "detail")
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewWords() string {
	s := m.words.View()
	if m.searchQuery != "" && m.statusMsg == "" {
		return s + "\n" + dimStyle.Render("filter: "+m.searchQuery+"  (esc clears)")
	}
	return s + "\n" + m.footer("words")
}

// footer shows the status message if there is one, else the keybind bar.
func (m Model) footer(mode string) string {
	if m.statusMsg == "" {
		return m.buildKeybindBar(m.width, mode)
	}
	if m.statusErr {
		return errorStyle.Render(m.statusMsg)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Render(m.statusMsg)
}

func (m Model) viewSearch() string {
	body := m.words.View()
	count := len(m.words.Items())
	if m.base == ModeLists {
		body = m.lists.View()
		count = len(m.lists.Items())
	}

	bar := "Search: " + m.searchInput.View() + " " + dimStyle.Render(fmt.Sprintf("(%d matches)", count))
	if m.searchErr != "" {
		bar += " " + errorStyle.Render(m.searchErr)
	}
	return bar + "\n" + body + "\n" + m.buildKeybindBar(m.width, "search")
}

func (m Model) viewHelp() string {
	titleStyle := headerStyle.MarginBottom(1)

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += dimStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "     Move up/down\n"
	s += keyStyle.Render("  g/G") + "          Go to top/bottom\n"
	s += keyStyle.Render("  pgup/pgdn") + "    Page up/down\n"
	s += "\n"

	s += dimStyle.Render("Actions") + "\n"
	s += keyStyle.Render("  enter") + "        Open list / word\n"
	s += keyStyle.Render("  s") + "            Show bubbles from this list\n"
	s += keyStyle.Render("  c") + "            Copy word to clipboard\n"
	s += keyStyle.Render("  m") + "            Copy meaning to clipboard\n"
	s += keyStyle.Render("  C") + "            Copy all visible as JSON\n"
	s += keyStyle.Render("  alt+c") + "        Copy all visible as YAML\n"
	s += keyStyle.Render("  D") + "            Delete word\n"
	s += keyStyle.Render("  /") + "            Search (text or field filter, e.g. length<6)\n"
	s += keyStyle.Render("  r") + "            Reload from disk\n"
	s += "\n"

	s += dimStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "            Toggle this help\n"
	s += keyStyle.Render("  esc") + "          Back / Cancel\n"
	s += keyStyle.Render("  q") + "            Quit\n"

	s += "\n" + dimStyle.Render("Press ? or esc to return")
	return s
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
func (m Model) buildKeybindBar(width int, mode string) string {
	var binds []keybind

	switch mode {
	case "lists":
		binds = []keybind{
			{"q", "quit", 1},
			{"enter", "open", 2},
			{"s", "select", 3},
			{"?", "help", 4},
			{"/", "search", 5},
			{"r", "refresh", 6},
		}
	case "words":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "lists", 2},
			{"enter", "view", 3},
			{"?", "help", 4},
			{"/", "search", 5},
			{"c", "copy", 6},
			{"m", "meaning", 7},
			{"s", "select", 8},
			{"D", "delete", 9},
		}
	case "detail":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"c", "copy word", 3},
			{"m", "copy meaning", 4},
			{"j/k", "scroll", 5},
		}
	case "search":
		binds = []keybind{
			{"enter", "apply", 1},
			{"esc", "clear", 2},
			{"↑/↓", "navigate", 3},
		}
	}

	const separator = "  "
	result := ""
	plainLen := 0
	for _, b := range binds {
		plain := b.key + " " + b.desc
		next := plainLen + len(plain)
		if result != "" {
			next += len(separator)
		}
		if width > 0 && next > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += keyStyle.Render(b.key) + " " + b.desc
		plainLen = next
	}

	return dimStyle.Render(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Store        *wordlist.Store
	SettingsPath string
	// Adapter, if set, is imported into ImportList before the UI starts.
	Adapter    input.InputAdapter
	ImportList string
	// Watch reloads lists when their files change on disk.
	Watch     bool
	Clipboard string
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	if opts.Store == nil {
		return fmt.Errorf("no word list store provided")
	}

	settings, err := config.LoadSettings(opts.SettingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load settings: %v\n", err)
		settings = config.DefaultSettings()
	}

	if opts.Adapter != nil && opts.ImportList != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		n, err := importFromAdapter(ctx, opts.Adapter, opts.Store, opts.ImportList)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to import words: %v\n", err)
		} else if n > 0 {
			fmt.Fprintf(os.Stderr, "Imported %d words into %s\n", n, opts.ImportList)
		}
	}

	m := New(opts.Store, opts.SettingsPath, settings)
	m.SetClipboardCommand(opts.Clipboard)

	var watcher *wordlist.Watcher
	if opts.Watch {
		watcher, err = wordlist.NewWatcher(opts.Store, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create file watcher: %v\n", err)
		} else {
			ch := make(chan string, 16)
			watcher.OnChange(func(name string) {
				select {
				case ch <- name:
				default:
				}
			})
			if err := watcher.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to start file watcher: %v\n", err)
			} else {
				m.refreshCh = ch
			}
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()

	if watcher != nil {
		_ = watcher.Stop()
	}
	return err
}
