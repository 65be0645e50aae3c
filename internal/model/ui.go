package model

import "strings"

// Filter selects which tasks the task list shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter validates s, falling back to all.
func ParseFilter(s string) (Filter, bool) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, true
	default:
		return FilterAll, false
	}
}

const (
	PageTasks    = 0
	PageCalendar = 1
)

// CalendarState is the calendar navigation position. Month is 0-based.
type CalendarState struct {
	Year         int    `json:"year" yaml:"year"`
	Month        int    `json:"month" yaml:"month"`
	SelectedDate string `json:"selectedDate" yaml:"selectedDate"`
	DrawerOpen   bool   `json:"drawerOpen" yaml:"drawerOpen"`
}

// UIState is persisted alongside the entities so navigation survives restarts.
type UIState struct {
	Page       int           `json:"page" yaml:"page"`
	TaskFilter Filter        `json:"taskFilter" yaml:"taskFilter"`
	Calendar   CalendarState `json:"calendar" yaml:"calendar"`
}
