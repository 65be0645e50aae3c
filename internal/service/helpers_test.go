package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"focusflow/internal/repository"
)

var fixedNow = time.Date(2024, time.June, 3, 9, 30, 0, 0, time.UTC)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeTimers collects scheduled callbacks until the test fires them.
type fakeTimers struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

func (ft *fakeTimers) after(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.pending = append(ft.pending, t)
	return t
}

func (ft *fakeTimers) fire() {
	ft.mu.Lock()
	pending := ft.pending
	ft.pending = nil
	ft.mu.Unlock()
	for _, t := range pending {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

type sequentialIDs struct {
	n int
}

func (s *sequentialIDs) next() string {
	s.n++
	return fmt.Sprintf("id-%03d", s.n)
}

// failingGateway loses every write.
type failingGateway struct {
	*repository.Memory
}

func (failingGateway) Write(context.Context, map[string][]byte) error {
	return errors.New("disk full")
}

func newTestStore(t *testing.T, gw repository.Gateway) (*Store, *fakeTimers) {
	t.Helper()
	if gw == nil {
		gw = repository.NewMemory()
	}
	timers := &fakeTimers{}
	ids := &sequentialIDs{}
	store := NewStore(context.Background(), gw,
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(ids.next),
		WithAfterFunc(timers.after),
		WithUndoWindow(5500*time.Millisecond),
	)
	return store, timers
}

func mustCreateTask(t *testing.T, s *Store, in TaskInput) string {
	t.Helper()
	res, err := s.CreateTask(context.Background(), in)
	if err != nil {
		t.Fatalf("create task %q: %v", in.Title, err)
	}
	return res.ID
}

func mustCreateEvent(t *testing.T, s *Store, in EventInput) string {
	t.Helper()
	res, err := s.CreateEvent(context.Background(), in)
	if err != nil {
		t.Fatalf("create event %q: %v", in.Title, err)
	}
	return res.ID
}
