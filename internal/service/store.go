package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"focusflow/internal/calendar"
	"focusflow/internal/config"
	"focusflow/internal/log"
	"focusflow/internal/model"
	"focusflow/internal/repository"
	"focusflow/internal/sanitize"
	"focusflow/internal/view"
)

// Store owns the in-memory snapshot and writes every change through to the
// gateway. All mutations are serialized; readers get copies.
type Store struct {
	mu      sync.Mutex
	gateway repository.Gateway
	state   model.Snapshot

	now   func() time.Time
	newID func() string

	taskUndo  *UndoBuffer[model.Task]
	eventUndo *UndoBuffer[model.Event]
}

type Option func(*options)

type options struct {
	now    func() time.Time
	newID  func() string
	window time.Duration
	after  AfterFunc
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithUndoWindow sets how long a deleted item can be restored.
func WithUndoWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithAfterFunc replaces the timer used by the undo windows.
func WithAfterFunc(after AfterFunc) Option {
	return func(o *options) { o.after = after }
}

// NewStore loads the snapshot from gw. Missing or corrupt slots fall back to
// defaults, so loading never fails.
func NewStore(ctx context.Context, gw repository.Gateway, opts ...Option) *Store {
	o := options{
		now:    time.Now,
		newID:  uuid.NewString,
		window: config.DefaultUndoWindow,
	}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Store{
		gateway:   gw,
		now:       o.now,
		newID:     o.newID,
		taskUndo:  NewUndoBuffer[model.Task](o.window, o.after),
		eventUndo: NewUndoBuffer[model.Event](o.window, o.after),
	}
	s.state = s.read(ctx)
	return s
}

func (s *Store) read(ctx context.Context) model.Snapshot {
	slot := func(key string) any {
		raw, err := s.gateway.Read(ctx, key)
		if err != nil {
			if !errors.Is(err, repository.ErrSlotNotFound) {
				log.Error("read slot", err, "slot", key)
			}
			return nil
		}
		v := sanitize.Decode(raw)
		if v == nil {
			log.Warn("discarding unreadable slot", "slot", key)
		}
		return v
	}
	in := sanitize.Input{
		Categories: slot(model.SlotCategories),
		Tasks:      slot(model.SlotTasks),
		Events:     slot(model.SlotEvents),
		UI:         slot(model.SlotUI),
	}
	snap, rep := sanitize.Snapshot(in, sanitize.Env{Now: s.now(), NewID: s.newID})
	if rep.DroppedTasks > 0 || rep.DroppedEvents > 0 {
		log.Warn("dropped invalid records", "tasks", rep.DroppedTasks, "events", rep.DroppedEvents)
	}
	return snap
}

// Reload replaces the snapshot with what is currently persisted. Pending undo
// windows stay open.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.read(ctx)
	log.Debug("store reloaded", "tasks", len(s.state.Tasks), "events", len(s.state.Events))
}

// persist writes all four slots. Failures are logged and swallowed: the
// in-memory state stays authoritative for this session.
func (s *Store) persist(ctx context.Context) {
	blobs := make(map[string][]byte, len(model.Slots))
	values := map[string]any{
		model.SlotCategories: s.state.Categories,
		model.SlotTasks:      s.state.Tasks,
		model.SlotEvents:     s.state.Events,
		model.SlotUI:         s.state.UI,
	}
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			log.Error("encode slot", err, "slot", key)
			return
		}
		blobs[key] = raw
	}
	if err := s.gateway.Write(ctx, blobs); err != nil {
		log.Error("persist snapshot", err)
	}
}

func (s *Store) nowMillis() int64 {
	return model.Millis(s.now())
}

// Now is the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Today is the local calendar date of the store's clock.
func (s *Store) Today() string {
	return calendar.Today(s.now())
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.state.Categories...)
}

// Tasks returns every task in store order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.state.Tasks...)
}

// Events returns every event in store order.
func (s *Store) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.state.Events...)
}

func (s *Store) UI() model.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UI
}

// VisibleTasks is the ordered task list for filter.
func (s *Store) VisibleTasks(filter model.Filter) []model.Task {
	return view.VisibleTasks(s.Tasks(), filter)
}

// CurrentTasks is the ordered task list for the persisted filter.
func (s *Store) CurrentTasks() []model.Task {
	snap := s.Snapshot()
	return view.VisibleTasks(snap.Tasks, snap.UI.TaskFilter)
}

func (s *Store) Stats() view.Stats {
	return view.TaskStats(s.Tasks())
}

func (s *Store) EventsByDate() map[string][]model.Event {
	return view.EventsByDate(s.Events())
}

func (s *Store) DueTasksByDate() map[string][]model.Task {
	return view.DueTasksByDate(s.Tasks())
}

// Drawer returns the day panel for date, or for the selected date when date
// is empty.
func (s *Store) Drawer(date string) view.Drawer {
	snap := s.Snapshot()
	if date == "" {
		date = snap.UI.Calendar.SelectedDate
	}
	return view.DrawerFor(snap, date)
}

// Month returns the annotated grid of the month the calendar is showing.
func (s *Store) Month() []view.DayCell {
	snap := s.Snapshot()
	cal := snap.UI.Calendar
	return view.Month(snap, cal.Year, time.Month(cal.Month+1), calendar.Today(s.now()))
}

// MonthOf returns the annotated grid of an arbitrary month without moving
// the calendar.
func (s *Store) MonthOf(year int, month time.Month) []view.DayCell {
	return view.Month(s.Snapshot(), year, month, calendar.Today(s.now()))
}

// Overdue lists incomplete tasks due before today.
func (s *Store) Overdue() []model.Task {
	return view.Overdue(s.Tasks(), calendar.Today(s.now()))
}

// ResolveTaskID expands a unique id prefix to the full task id.
func (s *Store) ResolveTaskID(prefix string) (string, error) {
	tasks := s.Tasks()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID(ids, prefix)
}

// ResolveEventID expands a unique id prefix to the full event id.
func (s *Store) ResolveEventID(prefix string) (string, error) {
	events := s.Events()
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return resolveID(ids, prefix)
}

func resolveID(ids []string, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	match := ""
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", ErrAmbiguousID
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%q: %w", prefix, ErrNotFound)
	}
	return match, nil
}

// UndoKind selects one of the store's undo buffers.
type UndoKind int

const (
	UndoTasks UndoKind = iota
	UndoEvents
)

// UndoState reports where the undo buffer of kind is in its lifecycle.
func (s *Store) UndoState(kind UndoKind) UndoState {
	if kind == UndoEvents {
		return s.eventUndo.State()
	}
	return s.taskUndo.State()
}
