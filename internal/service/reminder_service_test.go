package service

import (
	"strings"
	"testing"
	"time"
)

func TestDailySummary(t *testing.T) {
	s, _ := newTestStore(t, nil)
	mustCreateEvent(t, s, EventInput{Title: "Standup", Date: "2024-06-03", StartTime: "09:00", EndTime: "09:15", Location: "Room <1>"})
	mustCreateEvent(t, s, EventInput{Title: "Offsite", Date: "2024-06-03"})
	mustCreateEvent(t, s, EventInput{Title: "Tomorrow", Date: "2024-06-04"})
	mustCreateTask(t, s, TaskInput{Title: "Ship release", Priority: "high", DueDate: "2024-06-03"})
	mustCreateTask(t, s, TaskInput{Title: "Late report", DueDate: "2024-05-30"})

	d := NewReminderService(s).DailySummary(time.Date(2024, time.June, 3, 7, 0, 0, 0, time.UTC))
	if d.Date != "2024-06-03" || d.Empty() {
		t.Fatalf("digest = %+v", d)
	}
	if len(d.Day.Events) != 2 || len(d.Day.Tasks) != 1 || len(d.Overdue) != 1 {
		t.Fatalf("digest counts: %d events %d tasks %d overdue", len(d.Day.Events), len(d.Day.Tasks), len(d.Overdue))
	}

	text := d.Text()
	for _, want := range []string{"Monday, 3 June 2024", "09:00–09:15 Standup @ Room <1>", "All day Offsite", "Ship release", "Overdue", "Late report (Personal, medium) due 2024-05-30", "2 active"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Tomorrow") {
		t.Error("digest leaked another day's event")
	}

	html := d.HTML()
	if !strings.Contains(html, "<b>Events</b>") || !strings.Contains(html, "Room &lt;1&gt;") {
		t.Errorf("html not escaped:\n%s", html)
	}
}

func TestDailySummaryEmpty(t *testing.T) {
	s, _ := newTestStore(t, nil)
	d := NewReminderService(s).DailySummary(fixedNow)
	if !d.Empty() {
		t.Fatalf("digest = %+v", d)
	}
	if text := d.Text(); !strings.Contains(text, "nothing scheduled") || strings.Contains(text, "Overdue") {
		t.Fatalf("text = %s", text)
	}
}
