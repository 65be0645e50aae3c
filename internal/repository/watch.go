package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"focusflow/internal/log"
)

// Watch reports changes to the storage at path until ctx is cancelled. A
// directory is watched as a whole; for a file, its parent directory is
// watched and only siblings sharing the file's name (journal, WAL) count.
// Bursts of writes are coalesced into one notification per delay.
func Watch(ctx context.Context, path string, delay time.Duration) (<-chan struct{}, error) {
	if path == "" {
		return nil, fmt.Errorf("watch: no path")
	}
	dir, prefix := path, ""
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir, prefix = filepath.Dir(path), filepath.Base(path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	send := func() {
		select {
		case out <- struct{}{}:
		default:
			// A notification is already pending; the reader reloads everything anyway.
		}
	}
	throttle := newThrottle(delay)

	go func() {
		defer close(out)
		defer watcher.Close()
		defer throttle.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("storage watcher", err, "dir", dir)
				throttle.Enqueue(send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if prefix != "" && !strings.HasPrefix(filepath.Base(evt.Name), prefix) {
					continue
				}
				throttle.Enqueue(send)
			}
		}
	}()

	return out, nil
}

// throttle fires at most once per delay no matter how often it is poked.
type throttle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay}
}

func (t *throttle) Enqueue(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
}

func (t *throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
