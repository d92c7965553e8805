package wordlist

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jmylchreest/wordbubble/internal/model"
)

var (
	// ErrListExists is returned when creating or renaming onto an existing list.
	ErrListExists = errors.New("word list already exists")
	// ErrNotFound is returned when a list does not exist.
	ErrNotFound = errors.New("word list not found")
	// ErrInvalidFile is returned when an import source cannot be read as text.
	ErrInvalidFile = errors.New("invalid word list file")
	// ErrEmptyFile is returned when an import source holds no valid pairs.
	ErrEmptyFile = errors.New("word list file has no valid entries")
	// ErrInvalidName is returned for list names that are not plain file names.
	ErrInvalidName = errors.New("invalid word list name")
	// ErrIndexOutOfRange is returned when a word index does not exist.
	ErrIndexOutOfRange = errors.New("word index out of range")
)

// Info describes a stored list.
type Info struct {
	Name    string    `json:"name" yaml:"name"`
	Path    string    `json:"path" yaml:"path"`
	Words   int       `json:"words" yaml:"words"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Store manages the word lists in one directory. Loaded lists are cached
// until the file changes through the store or a Watcher reports it.
type Store struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string][]model.Entry
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &Store{
		dir:    dir,
		logger: logger,
		cache:  make(map[string][]model.Entry),
	}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// NormalizeName strips a trailing .txt and validates the name.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), Ext))
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

// SelectedName returns the list name for a selected_file setting, or ""
// when nothing valid is selected.
func SelectedName(file string) string {
	if file == "" {
		return ""
	}
	name, err := NormalizeName(file)
	if err != nil {
		return ""
	}
	return name
}

// FileName returns the file name for a list name.
func FileName(name string) string {
	return strings.TrimSuffix(name, Ext) + Ext
}

// Path returns the file path of a list.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, FileName(name))
}

// Lists returns the names of all lists, sorted.
func (s *Store) Lists() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.dir, err)
	}
	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(de.Name(), Ext))
	}
	slices.Sort(names)
	return names, nil
}

// Exists reports whether a list exists.
func (s *Store) Exists(name string) bool {
	name, err := NormalizeName(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// Load returns the entries of a list.
func (s *Store) Load(name string) ([]model.Entry, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return slices.Clone(cached), nil
	}

	f, err := os.Open(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open word list %s: %w", name, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].List = name
	}

	s.mu.Lock()
	s.cache[name] = entries
	s.mu.Unlock()

	s.logger.Debug("loaded word list", "list", name, "words", len(entries))
	return slices.Clone(entries), nil
}

// Save replaces a list's contents, creating it if needed.
func (s *Store) Save(name string, entries []model.Entry) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return s.write(name, entries)
}

func (s *Store) write(name string, entries []model.Entry) error {
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		return err
	}

	path := s.Path(name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write word list %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write word list %s: %w", name, err)
	}

	s.Invalidate(name)
	return nil
}

// Create creates an empty list.
func (s *Store) Create(name string) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}
	if s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrListExists, name)
	}
	return s.write(name, nil)
}

// Rename renames a list. The destination must not exist.
func (s *Store) Rename(oldName, newName string) error {
	oldName, err := NormalizeName(oldName)
	if err != nil {
		return err
	}
	newName, err = NormalizeName(newName)
	if err != nil {
		return err
	}
	if !s.Exists(oldName) {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if s.Exists(newName) {
		return fmt.Errorf("%w: %s", ErrListExists, newName)
	}
	if err := os.Rename(s.Path(oldName), s.Path(newName)); err != nil {
		return fmt.Errorf("failed to rename word list: %w", err)
	}
	s.Invalidate(oldName)
	s.Invalidate(newName)
	return nil
}

// Delete removes a list.
func (s *Store) Delete(name string) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete word list: %w", err)
	}
	s.Invalidate(name)
	return nil
}

// Import copies the valid pairs from src into the named list. An existing
// list is only overwritten when replace is true. Returns the imported count.
func (s *Store) Import(src, name string, replace bool) (int, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return 0, err
	}
	if !replace && s.Exists(name) {
		return 0, fmt.Errorf("%w: %s", ErrListExists, name)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if !utf8.Valid(data) {
		return 0, fmt.Errorf("%w: %s is not UTF-8 text", ErrInvalidFile, src)
	}

	entries, err := Parse(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyFile, src)
	}

	if err := s.write(name, entries); err != nil {
		return 0, err
	}
	s.logger.Info("imported word list", "list", name, "words", len(entries), "source", src)
	return len(entries), nil
}

// AddWord appends an entry to a list.
func (s *Store) AddWord(name string, e model.Entry) error {
	entries, err := s.Load(name)
	if err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	return s.Save(name, append(entries, model.NewEntry(e.Word, e.Meaning)))
}

// UpdateWord replaces the entry at index.
func (s *Store) UpdateWord(name string, index int, e model.Entry) error {
	entries, err := s.Load(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if err := e.Validate(); err != nil {
		return err
	}
	entries[index] = model.NewEntry(e.Word, e.Meaning)
	return s.Save(name, entries)
}

// DeleteWord removes the entry at index.
func (s *Store) DeleteWord(name string, index int) error {
	entries, err := s.Load(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entries) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return s.Save(name, slices.Delete(entries, index, index+1))
}

// Info returns details about a list.
func (s *Store) Info(name string) (Info, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return Info{}, err
	}
	path := s.Path(name)
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Info{}, err
	}
	entries, err := s.Load(name)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:    name,
		Path:    path,
		Words:   len(entries),
		Size:    st.Size(),
		ModTime: st.ModTime(),
	}, nil
}

// Invalidate drops a cached list.
func (s *Store) Invalidate(name string) {
	name = strings.TrimSuffix(name, Ext)
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// InvalidateAll drops every cached list.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}
