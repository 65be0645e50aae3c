package bot

import (
	"fmt"
	"html"
	"strings"

	"focusflow/internal/model"
)

const (
	iconDefault = "▫️"
	iconDue     = "🟡"
	iconOverdue = "🔴"
	iconDone    = "✅"
)

func escape(s string) string {
	return html.EscapeString(s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func shortTitle(title string, maxLen int) string {
	clean := strings.Join(strings.Fields(title), " ")
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func formatTask(task model.Task, today string) string {
	var b strings.Builder
	icon := iconDefault
	switch {
	case task.Completed:
		icon = iconDone
	case task.HasDue() && task.DueDate < today:
		icon = iconOverdue
	case task.DueDate == today:
		icon = iconDue
	}
	b.WriteString(fmt.Sprintf("%s <code>%s</code> %s · %s\n", icon, shortID(task.ID), escape(task.Title), task.Priority))
	if task.HasDue() {
		if !task.Completed && task.DueDate < today {
			b.WriteString(fmt.Sprintf("   ⏰ Due %s · <b>overdue</b>\n", task.DueDate))
		} else {
			b.WriteString(fmt.Sprintf("   ⏰ Due %s\n", task.DueDate))
		}
	}
	if task.Notes != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(task.Notes)))
	}
	return b.String()
}

func formatEvent(e model.Event) string {
	var b strings.Builder
	when := e.TimeRange()
	if when == "" {
		when = "All day"
	}
	b.WriteString(fmt.Sprintf("• <code>%s</code> %s · <b>%s</b>\n", shortID(e.ID), when, escape(e.Title)))
	if e.Location != "" {
		b.WriteString(fmt.Sprintf("   📍 %s\n", escape(e.Location)))
	}
	if e.Notes != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(e.Notes)))
	}
	return b.String()
}
