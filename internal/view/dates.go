package view

import (
	"sort"
	"time"

	"focusflow/internal/calendar"
	"focusflow/internal/model"
)

// NoStartTime sorts untimed events after every real "HH:MM".
const NoStartTime = "99:99"

// EventsByDate groups events by their ISO date, keeping store order.
func EventsByDate(events []model.Event) map[string][]model.Event {
	out := make(map[string][]model.Event)
	for _, e := range events {
		out[e.Date] = append(out[e.Date], e)
	}
	return out
}

// DueTasksByDate groups tasks by due date. Tasks without one are skipped.
func DueTasksByDate(tasks []model.Task) map[string][]model.Task {
	out := make(map[string][]model.Task)
	for _, t := range tasks {
		if !t.HasDue() {
			continue
		}
		out[t.DueDate] = append(out[t.DueDate], t)
	}
	return out
}

// SortByStart returns a copy of events ordered by start time.
func SortByStart(events []model.Event) []model.Event {
	out := append([]model.Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return startKey(out[i]) < startKey(out[j])
	})
	return out
}

func startKey(e model.Event) string {
	if e.StartTime == "" {
		return NoStartTime
	}
	return e.StartTime
}

// Drawer is the content of the day panel.
type Drawer struct {
	Date      string        `json:"date"`
	Events    []model.Event `json:"events"`
	Tasks     []model.Task  `json:"tasks"`
	ActiveDue int           `json:"activeDue"`
}

// DrawerFor collects the events and due tasks of one day. Events run by start
// time; tasks put incomplete ones first, then higher priority.
func DrawerFor(s model.Snapshot, date string) Drawer {
	d := Drawer{Date: date, Events: []model.Event{}, Tasks: []model.Task{}}
	for _, e := range s.Events {
		if e.Date == date {
			d.Events = append(d.Events, e)
		}
	}
	sort.SliceStable(d.Events, func(i, j int) bool {
		return startKey(d.Events[i]) < startKey(d.Events[j])
	})

	for _, t := range s.Tasks {
		if t.DueDate == date {
			d.Tasks = append(d.Tasks, t)
		}
	}
	sort.SliceStable(d.Tasks, func(i, j int) bool {
		a, b := d.Tasks[i], d.Tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.Priority.Rank() > b.Priority.Rank()
	})
	for _, t := range d.Tasks {
		if !t.Completed {
			d.ActiveDue++
		}
	}
	return d
}

// MaxCellEvents is how many events a grid cell previews.
const MaxCellEvents = 3

// DayCell is a grid cell annotated with what happens on that day.
type DayCell struct {
	calendar.Cell
	Events     []model.Event `json:"events,omitempty"`
	EventCount int           `json:"eventCount"`
	DueCount   int           `json:"dueCount"`
	HighDue    bool          `json:"highDue"`
	Selected   bool          `json:"selected"`
	Today      bool          `json:"today"`
}

// Month annotates the 42-cell grid of year/month with per-day counts.
func Month(s model.Snapshot, year int, month time.Month, today string) []DayCell {
	events := EventsByDate(s.Events)
	due := DueTasksByDate(s.Tasks)

	cells := calendar.BuildGrid(year, month)
	out := make([]DayCell, len(cells))
	for i, c := range cells {
		dc := DayCell{
			Cell:     c,
			Selected: c.Date == s.UI.Calendar.SelectedDate,
			Today:    c.Date == today,
		}
		if evs := events[c.Date]; len(evs) > 0 {
			sorted := SortByStart(evs)
			dc.EventCount = len(sorted)
			if len(sorted) > MaxCellEvents {
				sorted = sorted[:MaxCellEvents]
			}
			dc.Events = sorted
		}
		for _, t := range due[c.Date] {
			if t.Completed {
				continue
			}
			dc.DueCount++
			if t.Priority == model.PriorityHigh {
				dc.HighDue = true
			}
		}
		out[i] = dc
	}
	return out
}
