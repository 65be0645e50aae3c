package model

import "strings"

// Priority ranks a task for sorting.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the accepted priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority returns the priority named by s, falling back to medium.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	default:
		return PriorityMedium, false
	}
}

// StoredPriority accepts only the exact stored spellings; anything else
// is medium. ParsePriority is the lenient form for typed input.
func StoredPriority(s string) Priority {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityMedium
	}
}

// Rank maps high=3, medium=2, low=1. Unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Task represents a single item in the planner.
// CreatedAt and UpdatedAt are Unix milliseconds.
type Task struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Category  string   `json:"category" yaml:"category"`
	Priority  Priority `json:"priority" yaml:"priority"`
	DueDate   string   `json:"dueDate" yaml:"dueDate"`
	Notes     string   `json:"notes" yaml:"notes"`
	Completed bool     `json:"completed" yaml:"completed"`
	CreatedAt int64    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt int64    `json:"updatedAt" yaml:"updatedAt"`
}

// HasDue reports whether the task carries a due date.
func (t Task) HasDue() bool {
	return t.DueDate != ""
}
