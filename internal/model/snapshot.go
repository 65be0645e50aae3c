package model

import (
	"regexp"
	"time"
)

// Storage slot keys.
const (
	SlotCategories = "focusflow.categories"
	SlotTasks      = "focusflow.tasks"
	SlotEvents     = "focusflow.events"
	SlotUI         = "focusflow.ui"
)

// Slots lists every persisted slot in write order.
var Slots = []string{SlotCategories, SlotTasks, SlotEvents, SlotUI}

// DateLayout is the ISO calendar date format used everywhere.
const DateLayout = "2006-01-02"

// Snapshot is the complete persisted state.
type Snapshot struct {
	Categories []string `json:"categories" yaml:"categories"`
	Tasks      []Task   `json:"tasks" yaml:"tasks"`
	Events     []Event  `json:"events" yaml:"events"`
	UI         UIState  `json:"ui" yaml:"ui"`
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{UI: s.UI}
	out.Categories = append([]string(nil), s.Categories...)
	out.Tasks = append([]Task(nil), s.Tasks...)
	out.Events = append([]Event(nil), s.Events...)
	return out
}

var (
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// IsISODate reports whether s is a real YYYY-MM-DD calendar date.
func IsISODate(s string) bool {
	if !isoDateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsClock reports whether s is a 24h "HH:MM" time.
func IsClock(s string) bool {
	return clockRe.MatchString(s)
}

// Millis returns t as Unix milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
