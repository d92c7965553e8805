// Package scheduler fires the periodic "show next word" trigger.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

// Source yields the next entry to show.
type Source interface {
	Next() (model.Entry, error)
}

// ShowFunc displays one entry. It must not call Pause, Stop or
// SetInterval synchronously.
type ShowFunc func(entry model.Entry)

// Scheduler calls a ShowFunc every interval while running. Pausing stops
// the ticker at once; bubbles already shown are not affected.
type Scheduler struct {
	source Source
	show   ShowFunc
	logger *slog.Logger

	// fireMu serializes a tick's check-and-show against Pause, so no tick
	// fires after Pause returns.
	fireMu sync.Mutex

	mu       sync.Mutex
	interval time.Duration
	paused   bool
	started  bool
	gen      uint64
	stop     chan struct{}
	ctx      context.Context
	wg       sync.WaitGroup
}

// New creates a stopped scheduler.
func New(source Source, show ShowFunc, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Scheduler{
		source:   source,
		show:     show,
		logger:   logger,
		interval: interval,
	}
}

// Start begins ticking unless paused. It stops when ctx is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.ctx = ctx
	if !s.paused {
		s.startLocked()
	}
	s.logger.Debug("scheduler started", "interval", s.interval, "paused", s.paused)
}

// Stop halts ticking and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.fireMu.Lock()
	s.mu.Lock()
	s.started = false
	s.stopLocked()
	s.mu.Unlock()
	s.fireMu.Unlock()
	s.wg.Wait()
}

// Pause stops the ticker. No tick fires after Pause returns.
func (s *Scheduler) Pause() {
	s.fireMu.Lock()
	defer s.fireMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.paused = true
	s.stopLocked()
	s.logger.Info("scheduler paused")
}

// Resume restarts the ticker with a full interval before the next tick.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return
	}
	s.paused = false
	if s.started {
		s.startLocked()
	}
	s.logger.Info("scheduler resumed")
}

// SetPaused pauses or resumes.
func (s *Scheduler) SetPaused(paused bool) {
	if paused {
		s.Pause()
	} else {
		s.Resume()
	}
}

// Toggle flips the paused state and returns true when now playing.
func (s *Scheduler) Toggle() bool {
	if s.Paused() {
		s.Resume()
		return true
	}
	s.Pause()
	return false
}

// Paused reports whether ticking is paused.
func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Interval returns the current tick interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the tick interval, restarting the ticker if running.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if d == s.interval {
		return
	}
	s.interval = d
	if s.started && !s.paused {
		s.stopLocked()
		s.startLocked()
	}
	s.logger.Debug("scheduler interval changed", "interval", d)
}

// Trigger shows the next entry immediately, regardless of pause state.
func (s *Scheduler) Trigger() bool {
	return s.fire()
}

func (s *Scheduler) startLocked() {
	s.gen++
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.ctx, s.gen, s.stop, s.interval)
}

func (s *Scheduler) stopLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Scheduler) loop(ctx context.Context, gen uint64, stop <-chan struct{}, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.tick(gen)
		}
	}
}

func (s *Scheduler) tick(gen uint64) {
	s.fireMu.Lock()
	defer s.fireMu.Unlock()

	s.mu.Lock()
	live := !s.paused && s.gen == gen && s.stop != nil
	s.mu.Unlock()
	if !live {
		return
	}
	s.fireLocked()
}

func (s *Scheduler) fire() bool {
	s.fireMu.Lock()
	defer s.fireMu.Unlock()
	return s.fireLocked()
}

func (s *Scheduler) fireLocked() bool {
	entry, err := s.source.Next()
	if err != nil {
		if errors.Is(err, wordlist.ErrNoWords) {
			s.logger.Debug("no words to show")
		} else {
			s.logger.Warn("failed to pick next word", "error", err)
		}
		return false
	}
	s.show(entry)
	return true
}
