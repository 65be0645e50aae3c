package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"focusflow/internal/calendar"
	"focusflow/internal/view"
)

const cellWidth = len("31* ")

const width = cellWidth * 7

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Month prints the 6x7 grid. A marker after the day number shows what
// happens that day: "!" a high priority task is due, "+" other tasks are
// due, "*" there are events.
func (pp *PrettyPrint) Month(year int, month time.Month, cells []view.DayCell) {
	tf := color.New(color.Bold)
	title := calendar.MonthTitle(year, month)
	mid := (width - len(title)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(pp.Out, "%s%s\n", strings.Repeat(" ", mid), title)

	hf := color.New(color.Faint)
	for _, d := range weekdays {
		_, _ = hf.Fprintf(pp.Out, "%-*s", cellWidth, d)
	}
	_, _ = fmt.Fprintln(pp.Out)

	other := color.New(color.Faint)
	plain := color.New()
	today := color.New(color.Bold, color.Underline)
	selected := color.New(color.ReverseVideo)

	for i, c := range cells {
		printer := plain
		switch {
		case c.Selected:
			printer = selected
		case c.Today:
			printer = today
		case c.OtherMonth:
			printer = other
		}
		_, _ = printer.Fprintf(pp.Out, "%2d", c.Day)
		_, _ = fmt.Fprintf(pp.Out, "%s ", marker(c))
		if (i+1)%7 == 0 {
			_, _ = fmt.Fprintln(pp.Out)
		}
	}
	pp.NewLine()
}

func marker(c view.DayCell) string {
	switch {
	case c.HighDue:
		return color.New(color.FgRed).Sprint("!")
	case c.DueCount > 0:
		return color.New(color.FgYellow).Sprint("+")
	case c.EventCount > 0:
		return color.New(color.FgBlue).Sprint("*")
	default:
		return " "
	}
}
