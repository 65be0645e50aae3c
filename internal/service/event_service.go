package service

import (
	"context"
	"strings"

	"focusflow/internal/calendar"
	"focusflow/internal/log"
	"focusflow/internal/model"
)

// EventInput is the editable part of an event as submitted by a form.
type EventInput struct {
	Title     string
	Date      string
	StartTime string
	EndTime   string
	Location  string
	Notes     string
	Color     string
}

// InputFromEvent prefills a form from an existing event.
func InputFromEvent(e model.Event) EventInput {
	return EventInput{
		Title:     e.Title,
		Date:      e.Date,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Location:  e.Location,
		Notes:     e.Notes,
		Color:     string(e.Color),
	}
}

func validateEvent(in EventInput) (model.Event, error) {
	e := model.Event{
		Title:     strings.TrimSpace(in.Title),
		Date:      strings.TrimSpace(in.Date),
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
		Location:  strings.TrimSpace(in.Location),
		Notes:     strings.TrimSpace(in.Notes),
	}
	if e.Title == "" {
		return e, ErrTitleRequired
	}
	if e.Date == "" {
		return e, ErrDateRequired
	}
	if !model.IsISODate(e.Date) {
		return e, ErrInvalidDate
	}
	for _, t := range []string{e.StartTime, e.EndTime} {
		if t != "" && !model.IsClock(t) {
			return e, ErrInvalidTime
		}
	}
	if e.StartTime != "" && e.EndTime != "" && e.StartTime > e.EndTime {
		return e, ErrTimeOrder
	}
	e.Color, _ = model.ParseColor(in.Color)
	return e, nil
}

// CreateEvent adds an event and moves the calendar to its day.
func (s *Store) CreateEvent(ctx context.Context, in EventInput) (Result, error) {
	e, err := validateEvent(in)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowMillis()
	e.ID = s.newID()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.state.Events = append(s.state.Events, e)
	s.focusDate(e.Date)
	s.persist(ctx)
	log.Info("event created", "id", e.ID, "date", e.Date)
	return Result{ID: e.ID, Created: true}, nil
}

// UpdateEvent replaces the editable fields of event id and moves the
// calendar to its (possibly new) day.
func (s *Store) UpdateEvent(ctx context.Context, id string, in EventInput) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.eventIndex(id)
	if i < 0 {
		return Result{}, ErrNotFound
	}
	e, err := validateEvent(in)
	if err != nil {
		return Result{}, err
	}
	cur := &s.state.Events[i]
	cur.Title = e.Title
	cur.Date = e.Date
	cur.StartTime = e.StartTime
	cur.EndTime = e.EndTime
	cur.Location = e.Location
	cur.Notes = e.Notes
	cur.Color = e.Color
	cur.UpdatedAt = s.nowMillis()
	s.focusDate(e.Date)
	s.persist(ctx)
	log.Info("event updated", "id", id, "date", e.Date)
	return Result{ID: id}, nil
}

// Event looks up an event by exact id.
func (s *Store) Event(id string) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.eventIndex(id); i >= 0 {
		return s.state.Events[i], true
	}
	return model.Event{}, false
}

// DeleteEvent removes an event and opens its undo window. Deleting an
// unknown id is a no-op.
func (s *Store) DeleteEvent(ctx context.Context, id string) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(id)
	if i < 0 {
		return model.Event{}, false
	}
	removed := s.state.Events[i]
	s.state.Events = append(s.state.Events[:i:i], s.state.Events[i+1:]...)
	s.persist(ctx)
	s.eventUndo.Push(removed, i)
	log.Info("event deleted", "id", id)
	return removed, true
}

// UndoDeleteEvent restores the last deleted event while its window is open.
// A non-empty id must name that event.
func (s *Store) UndoDeleteEvent(ctx context.Context, id string) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, index, ok := s.eventUndo.TakeIf(matchID(id, func(e model.Event) string { return e.ID }))
	if !ok {
		return model.Event{}, false
	}
	s.state.Events = insertAt(s.state.Events, index, e)
	s.persist(ctx)
	log.Info("event restored", "id", e.ID)
	return e, true
}

// PendingEventUndo is the event that UndoDeleteEvent would restore.
func (s *Store) PendingEventUndo() (model.Event, bool) {
	return s.eventUndo.Pending()
}

func (s *Store) eventIndex(id string) int {
	for i, e := range s.state.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// focusDate shows date's month with its drawer open. date must be valid.
func (s *Store) focusDate(date string) {
	d, err := calendar.ParseISO(date)
	if err != nil {
		return
	}
	s.state.UI.Calendar.Year = d.Year()
	s.state.UI.Calendar.Month = int(d.Month()) - 1
	s.state.UI.Calendar.SelectedDate = date
	s.state.UI.Calendar.DrawerOpen = true
}
