package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"focusflow/internal/calendar"
	"focusflow/internal/model"
	"focusflow/internal/view"
)

// ReminderService builds the daily digest sent by the scheduler.
type ReminderService struct {
	store *Store
}

func NewReminderService(store *Store) *ReminderService {
	return &ReminderService{store: store}
}

// Digest is what happens on one day plus what is already late.
type Digest struct {
	Date    string       `json:"date"`
	Day     view.Drawer  `json:"day"`
	Overdue []model.Task `json:"overdue"`
	Stats   view.Stats   `json:"stats"`
}

// DailySummary collects the digest for the local date of now.
func (s *ReminderService) DailySummary(now time.Time) Digest {
	snap := s.store.Snapshot()
	today := calendar.Today(now)
	return Digest{
		Date:    today,
		Day:     view.DrawerFor(snap, today),
		Overdue: view.Overdue(snap.Tasks, today),
		Stats:   view.TaskStats(snap.Tasks),
	}
}

// Empty reports whether there is nothing scheduled or late.
func (d Digest) Empty() bool {
	return len(d.Day.Events) == 0 && len(d.Day.Tasks) == 0 && len(d.Overdue) == 0
}

// Text renders the digest as plain text.
func (d Digest) Text() string {
	return d.render(func(s string) string { return s }, func(s string) string { return s })
}

// HTML renders the digest for Telegram's HTML parse mode.
func (d Digest) HTML() string {
	return d.render(html.EscapeString, func(s string) string { return "<b>" + s + "</b>" })
}

func (d Digest) render(esc, bold func(string) string) string {
	var b strings.Builder

	title := d.Date
	if day, err := calendar.ParseISO(d.Date); err == nil {
		title = day.Format("Monday, 2 January 2006")
	}
	b.WriteString(bold("Daily digest") + "\n")
	b.WriteString(fmt.Sprintf("%s\n\n", esc(title)))

	b.WriteString(bold("Events") + "\n")
	if len(d.Day.Events) == 0 {
		b.WriteString("- nothing scheduled\n")
	}
	for _, e := range d.Day.Events {
		when := e.TimeRange()
		if when == "" {
			when = "All day"
		}
		b.WriteString(fmt.Sprintf("- %s %s", esc(when), esc(e.Title)))
		if e.Location != "" {
			b.WriteString(fmt.Sprintf(" @ %s", esc(e.Location)))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n" + bold("Due today") + "\n")
	if len(d.Day.Tasks) == 0 {
		b.WriteString("- no tasks due\n")
	}
	for _, t := range d.Day.Tasks {
		b.WriteString(formatDigestTask(t, esc))
	}

	if len(d.Overdue) > 0 {
		b.WriteString("\n" + bold("Overdue") + "\n")
		for _, t := range d.Overdue {
			b.WriteString(formatDigestTask(t, esc))
		}
	}

	b.WriteString(fmt.Sprintf("\n%d active · %d completed", d.Stats.Active, d.Stats.Completed))
	return b.String()
}

func formatDigestTask(t model.Task, esc func(string) string) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %s (%s, %s)", mark, esc(t.Title), esc(t.Category), t.Priority)
	if t.HasDue() {
		line += " due " + t.DueDate
	}
	return line + "\n"
}
