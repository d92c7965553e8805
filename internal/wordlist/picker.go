package wordlist

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jmylchreest/wordbubble/internal/model"
)

// ErrNoWords is returned when the selected list is empty or unset.
var ErrNoWords = errors.New("no words to show")

// PlayMode selects how the next word is chosen.
type PlayMode string

const (
	PlayRandom     PlayMode = "random"
	PlaySequential PlayMode = "sequential"
)

// ParsePlayMode resolves a play mode name, defaulting to random.
func ParsePlayMode(s string) PlayMode {
	if PlayMode(s) == PlaySequential {
		return PlaySequential
	}
	return PlayRandom
}

// Picker chooses entries from a list. In sequential mode it walks the list
// in order and wraps; the position resets when the list or mode changes.
type Picker struct {
	mu    sync.Mutex
	mode  PlayMode
	list  string
	index int
	rng   *rand.Rand
}

// NewPicker creates a picker. A nil rng seeds one from the clock.
func NewPicker(mode PlayMode, rng *rand.Rand) *Picker {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Picker{mode: ParsePlayMode(string(mode)), rng: rng}
}

// Mode returns the current play mode.
func (p *Picker) Mode() PlayMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SetMode changes the play mode, resetting the position if it changed.
func (p *Picker) SetMode(mode PlayMode) {
	mode = ParsePlayMode(string(mode))
	p.mu.Lock()
	defer p.mu.Unlock()
	if mode != p.mode {
		p.mode = mode
		p.index = 0
	}
}

// Reset rewinds the sequential position.
func (p *Picker) Reset() {
	p.mu.Lock()
	p.index = 0
	p.mu.Unlock()
}

// Next picks an entry from entries, which belong to list.
func (p *Picker) Next(list string, entries []model.Entry) (model.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if list != p.list {
		p.list = list
		p.index = 0
	}
	if len(entries) == 0 {
		return model.Entry{}, ErrNoWords
	}

	if p.mode == PlayRandom {
		return entries[p.rng.IntN(len(entries))], nil
	}

	// The list may have shrunk since the last pick.
	if p.index >= len(entries) {
		p.index = 0
	}
	e := entries[p.index]
	p.index = (p.index + 1) % len(entries)
	return e, nil
}

// Source pairs a store with a picker to feed the scheduler.
type Source struct {
	Store  *Store
	Picker *Picker
	// List returns the currently selected list name.
	List func() string
}

// Next loads the selected list and picks from it.
func (s *Source) Next() (model.Entry, error) {
	name := s.List()
	if name == "" {
		return model.Entry{}, ErrNoWords
	}
	entries, err := s.Store.Load(name)
	if err != nil {
		return model.Entry{}, err
	}
	return s.Picker.Next(name, entries)
}
