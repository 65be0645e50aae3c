// Package view derives everything a renderer needs from a snapshot. All
// functions are pure and copy their input; nothing here is cached.
package view

import (
	"sort"

	"focusflow/internal/model"
)

// NoDueDate sorts tasks without a due date after every real date.
const NoDueDate = "9999-12-31"

// VisibleTasks filters tasks and orders them: incomplete first, then by due
// date, then by priority (high first), then most recently updated. Ties keep
// their original order.
func VisibleTasks(tasks []model.Task, filter model.Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch filter {
		case model.FilterActive:
			if t.Completed {
				continue
			}
		case model.FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return taskLess(out[i], out[j])
	})
	return out
}

func taskLess(a, b model.Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	ad, bd := dueKey(a), dueKey(b)
	if ad != bd {
		return ad < bd
	}
	if ar, br := a.Priority.Rank(), b.Priority.Rank(); ar != br {
		return ar > br
	}
	return a.UpdatedAt > b.UpdatedAt
}

func dueKey(t model.Task) string {
	if t.DueDate == "" {
		return NoDueDate
	}
	return t.DueDate
}

// Stats summarizes the whole task list regardless of filter.
type Stats struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

func TaskStats(tasks []model.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Active = s.Total - s.Completed
	return s
}

// Overdue returns incomplete tasks due strictly before today, oldest first.
func Overdue(tasks []model.Task, today string) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if !t.Completed && t.HasDue() && t.DueDate < today {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return taskLess(out[i], out[j])
	})
	return out
}
