package service

import (
	"sync"
	"time"
)

// UndoState is where an undo buffer is in its lifecycle.
type UndoState int

const (
	UndoIdle UndoState = iota
	UndoActive
	UndoRestored
	UndoExpired
)

func (s UndoState) String() string {
	switch s {
	case UndoActive:
		return "active"
	case UndoRestored:
		return "restored"
	case UndoExpired:
		return "expired"
	default:
		return "idle"
	}
}

// Timer is the cancellable handle of a deferred callback.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// UndoBuffer holds the most recently deleted item of one kind for a short
// window. A new Push replaces whatever was pending; its restore chance is
// gone. Take restores at most once.
type UndoBuffer[T any] struct {
	mu     sync.Mutex
	window time.Duration
	after  AfterFunc

	seq   uint64
	state UndoState
	item  T
	index int
	timer Timer
}

func NewUndoBuffer[T any](window time.Duration, after AfterFunc) *UndoBuffer[T] {
	if after == nil {
		after = realAfterFunc
	}
	return &UndoBuffer[T]{window: window, after: after}
}

// Push opens a new undo window for item, removed from position index.
func (u *UndoBuffer[T]) Push(item T, index int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.timer != nil {
		u.timer.Stop()
	}
	u.seq++
	seq := u.seq
	u.item = item
	u.index = index
	u.state = UndoActive
	u.timer = u.after(u.window, func() { u.expire(seq) })
}

func (u *UndoBuffer[T]) expire(seq uint64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if seq != u.seq || u.state != UndoActive {
		return
	}
	u.clear(UndoExpired)
}

// Take returns the pending item and its original index and closes the
// window. It reports false when nothing is pending.
func (u *UndoBuffer[T]) Take() (T, int, bool) {
	return u.TakeIf(nil)
}

// TakeIf is Take restricted to a pending item accepted by match. A rejected
// item stays pending. A nil match accepts anything.
func (u *UndoBuffer[T]) TakeIf(match func(T) bool) (T, int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var zero T
	if u.state != UndoActive {
		return zero, 0, false
	}
	if match != nil && !match(u.item) {
		return zero, 0, false
	}
	item, index := u.item, u.index
	if u.timer != nil {
		u.timer.Stop()
	}
	u.clear(UndoRestored)
	return item, index, true
}

// Pending peeks at the item that Take would return.
func (u *UndoBuffer[T]) Pending() (T, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.item, u.state == UndoActive
}

// Discard drops a pending item without restoring it.
func (u *UndoBuffer[T]) Discard() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state != UndoActive {
		return
	}
	if u.timer != nil {
		u.timer.Stop()
	}
	u.clear(UndoExpired)
}

func (u *UndoBuffer[T]) State() UndoState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *UndoBuffer[T]) clear(next UndoState) {
	var zero T
	u.item = zero
	u.index = 0
	u.timer = nil
	u.state = next
}
