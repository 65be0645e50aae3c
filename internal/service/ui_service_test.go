package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"focusflow/internal/model"
)

func TestCalendarNavigation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	s.SetMonth(ctx, 2024, time.January)
	if y, m := s.ShiftMonth(ctx, -1); y != 2023 || m != time.December {
		t.Fatalf("shift back = %d %v", y, m)
	}
	if y, m := s.ShiftMonth(ctx, 13); y != 2025 || m != time.January {
		t.Fatalf("shift forward = %d %v", y, m)
	}
	cal := s.UI().Calendar
	if cal.Year != 2025 || cal.Month != 0 {
		t.Fatalf("calendar = %+v", cal)
	}
	if cal.SelectedDate != "2024-06-03" {
		t.Fatal("month navigation must not change the selection")
	}

	if today := s.GoToday(ctx); today != "2024-06-03" {
		t.Fatalf("today = %q", today)
	}
	cal = s.UI().Calendar
	if cal.Year != 2024 || cal.Month != 5 || !cal.DrawerOpen {
		t.Fatalf("calendar after today = %+v", cal)
	}
}

func TestSelectDateAndDrawer(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.SelectDate(ctx, "2024-02-30"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v", err)
	}
	s.CloseDrawer(ctx)
	if s.UI().Calendar.DrawerOpen {
		t.Fatal("drawer still open")
	}
	if err := s.SelectDate(ctx, "2023-11-05"); err != nil {
		t.Fatal(err)
	}
	cal := s.UI().Calendar
	if cal.SelectedDate != "2023-11-05" || cal.Year != 2023 || cal.Month != 10 || !cal.DrawerOpen {
		t.Fatalf("calendar = %+v", cal)
	}
	if grid := s.Month(); len(grid) != 42 || !grid[6].Selected || grid[6].Date != "2023-11-05" {
		t.Fatalf("selected cell missing from grid")
	}
}

func TestPageAndFilterPersist(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if p := s.SetPage(ctx, 7); p != model.PageTasks {
		t.Fatalf("page = %d", p)
	}
	s.SetPage(ctx, model.PageCalendar)
	if _, err := s.SetFilter(ctx, "done"); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("err = %v", err)
	}
	if f, err := s.SetFilter(ctx, " Completed "); err != nil || f != model.FilterCompleted {
		t.Fatalf("filter = %q %v", f, err)
	}

	done := mustCreateTask(t, s, TaskInput{Title: "done"})
	mustCreateTask(t, s, TaskInput{Title: "open"})
	s.ToggleTaskComplete(ctx, done)
	if cur := s.CurrentTasks(); len(cur) != 1 || cur[0].ID != done {
		t.Fatalf("current tasks = %+v", cur)
	}
	ui := s.UI()
	if ui.Page != model.PageCalendar || ui.TaskFilter != model.FilterCompleted {
		t.Fatalf("ui = %+v", ui)
	}
}
