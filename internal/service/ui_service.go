package service

import (
	"context"
	"strings"
	"time"

	"focusflow/internal/calendar"
	"focusflow/internal/model"
)

// SetPage switches between the task list and the calendar.
func (s *Store) SetPage(ctx context.Context, page int) int {
	if page != model.PageCalendar {
		page = model.PageTasks
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UI.Page = page
	s.persist(ctx)
	return page
}

// SetFilter persists the task list filter.
func (s *Store) SetFilter(ctx context.Context, raw string) (model.Filter, error) {
	f, ok := model.ParseFilter(raw)
	if !ok {
		return "", ErrUnknownFilter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UI.TaskFilter = f
	s.persist(ctx)
	return f, nil
}

// SetMonth shows year/month in the calendar.
func (s *Store) SetMonth(ctx context.Context, year int, month time.Month) {
	year, month = calendar.ShiftMonth(year, month, 0)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UI.Calendar.Year = year
	s.state.UI.Calendar.Month = int(month) - 1
	s.persist(ctx)
}

// ShiftMonth moves the calendar by delta months and returns the new position.
func (s *Store) ShiftMonth(ctx context.Context, delta int) (int, time.Month) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cal := &s.state.UI.Calendar
	year, month := calendar.ShiftMonth(cal.Year, time.Month(cal.Month+1), delta)
	cal.Year = year
	cal.Month = int(month) - 1
	s.persist(ctx)
	return year, month
}

// GoToday shows the current month and selects today.
func (s *Store) GoToday(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := calendar.Today(s.now())
	s.focusDate(today)
	s.persist(ctx)
	return today
}

// SelectDate selects a day, opens its drawer and shows its month.
func (s *Store) SelectDate(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	if !model.IsISODate(date) {
		return ErrInvalidDate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusDate(date)
	s.persist(ctx)
	return nil
}

func (s *Store) CloseDrawer(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UI.Calendar.DrawerOpen = false
	s.persist(ctx)
}
