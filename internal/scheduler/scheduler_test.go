package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wordbubble/internal/model"
	"github.com/jmylchreest/wordbubble/internal/wordlist"
)

type fakeSource struct {
	mu  sync.Mutex
	n   int
	err error
}

func (f *fakeSource) Next() (model.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Entry{}, f.err
	}
	f.n++
	return model.NewEntry("word", "meaning"), nil
}

func newCounting(t *testing.T, interval time.Duration) (*Scheduler, *atomic.Int32) {
	t.Helper()
	var shown atomic.Int32
	s := New(&fakeSource{}, func(model.Entry) { shown.Add(1) }, interval, nil)
	t.Cleanup(s.Stop)
	return s, &shown
}

func TestScheduler_Ticks(t *testing.T) {
	s, shown := newCounting(t, 10*time.Millisecond)
	s.Start(context.Background())

	require.Eventually(t, func() bool { return shown.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_PauseStopsImmediately(t *testing.T) {
	s, shown := newCounting(t, 5*time.Millisecond)
	s.Start(context.Background())
	require.Eventually(t, func() bool { return shown.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)

	s.Pause()
	assert.True(t, s.Paused())
	after := shown.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, shown.Load())

	s.Resume()
	assert.False(t, s.Paused())
	require.Eventually(t, func() bool { return shown.Load() > after }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_StartPaused(t *testing.T) {
	s, shown := newCounting(t, 5*time.Millisecond)
	s.SetPaused(true)
	s.Start(context.Background())

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, shown.Load())

	assert.True(t, s.Toggle())
	require.Eventually(t, func() bool { return shown.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, s.Toggle())
}

func TestScheduler_ContextCancelStops(t *testing.T) {
	s, shown := newCounting(t, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return shown.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)
	after := shown.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, shown.Load())
}

func TestScheduler_SetInterval(t *testing.T) {
	s, shown := newCounting(t, time.Hour)
	s.Start(context.Background())

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, shown.Load())

	s.SetInterval(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, s.Interval())
	require.Eventually(t, func() bool { return shown.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	s.SetInterval(0)
	assert.Equal(t, 5*time.Millisecond, s.Interval())
}

func TestScheduler_Trigger(t *testing.T) {
	src := &fakeSource{}
	var shown atomic.Int32
	s := New(src, func(model.Entry) { shown.Add(1) }, time.Hour, nil)
	s.Pause()

	assert.True(t, s.Trigger())
	assert.Equal(t, int32(1), shown.Load())

	src.err = wordlist.ErrNoWords
	assert.False(t, s.Trigger())
	src.err = errors.New("disk on fire")
	assert.False(t, s.Trigger())
	assert.Equal(t, int32(1), shown.Load())
}
