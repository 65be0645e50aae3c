package printers

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"focusflow/internal/model"
	"focusflow/internal/view"
)

// ShortIDLen is how much of an id the tables show. Commands accept any
// unique prefix.
const ShortIDLen = 8

type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
}

func New(out io.Writer) *PrettyPrint {
	if out == nil {
		out = color.Output
	}
	return &PrettyPrint{Out: out, ShowID: true}
}

func ShortID(id string) string {
	if len(id) > ShortIDLen {
		return id[:ShortIDLen]
	}
	return id
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Out)
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.Out, title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.Out, title)
	_, _ = c.Fprintf(pp.Out, " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.Out, "s")
	}
	_, _ = fmt.Fprintln(pp.Out)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.Out, " none\n\n")
}

// Notice prints a one-line status message.
func (pp *PrettyPrint) Notice(msg string) {
	_, _ = color.New(color.FgGreen).Fprintln(pp.Out, msg)
}

// Warning prints a one-line warning.
func (pp *PrettyPrint) Warning(msg string) {
	_, _ = color.New(color.FgYellow).Fprintln(pp.Out, msg)
}

var priorityColor = map[model.Priority]*color.Color{
	model.PriorityHigh:   color.New(color.FgRed, color.Bold),
	model.PriorityMedium: color.New(color.FgYellow),
	model.PriorityLow:    color.New(color.FgCyan),
}

// Tasks prints the already-ordered task list with a summary header.
func (pp *PrettyPrint) Tasks(filter model.Filter, stats view.Stats, tasks []model.Task, today string) {
	pp.TitleWithCount(fmt.Sprintf("Tasks (%s)", filter), len(tasks), "task")
	_, _ = color.New(color.Faint).Fprintf(pp.Out, "%d active · %d completed · %d total\n", stats.Active, stats.Completed, stats.Total)
	if len(tasks) == 0 {
		pp.none()
		return
	}

	faint := color.New(color.Faint, color.CrossedOut)
	late := color.New(color.FgRed)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.Wrap = true
	for _, t := range tasks {
		mark := "[ ]"
		title := t.Title
		if t.Completed {
			mark = "[x]"
			title = faint.Sprint(title)
		}
		due := t.DueDate
		if !t.Completed && t.HasDue() && t.DueDate < today {
			due = late.Sprint(due)
		}
		row := []interface{}{mark, title, t.Category, priorityColor[t.Priority].Sprint(t.Priority), due}
		if pp.ShowID {
			row = append([]interface{}{ShortID(t.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	pp.NewLine()
}

// Task prints every field of one task.
func (pp *PrettyPrint) Task(t model.Task) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", t.ID)
	tbl.AddRow("Title", t.Title)
	tbl.AddRow("Category", t.Category)
	tbl.AddRow("Priority", priorityColor[t.Priority].Sprint(t.Priority))
	tbl.AddRow("Due", t.DueDate)
	tbl.AddRow("Completed", t.Completed)
	if t.Notes != "" {
		tbl.AddRow("Notes", t.Notes)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

var eventColor = map[model.Color]*color.Color{
	model.ColorBlue:   color.New(color.FgBlue),
	model.ColorPink:   color.New(color.FgHiMagenta),
	model.ColorGreen:  color.New(color.FgGreen),
	model.ColorOrange: color.New(color.FgHiYellow),
	model.ColorPurple: color.New(color.FgMagenta),
}

func eventTitle(e model.Event) string {
	c, ok := eventColor[e.Color]
	if !ok {
		c = eventColor[model.ColorBlue]
	}
	return c.Sprint("● ") + e.Title
}

// Events prints events grouped under their date.
func (pp *PrettyPrint) Events(events []model.Event) {
	pp.TitleWithCount("Events", len(events), "event")
	if len(events) == 0 {
		pp.none()
		return
	}
	byDate := view.EventsByDate(events)
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, d := range dates {
		for i, e := range view.SortByStart(byDate[d]) {
			date := ""
			if i == 0 {
				date = d
			}
			row := []interface{}{date, e.TimeRange(), eventTitle(e), e.Location}
			if pp.ShowID {
				row = append([]interface{}{ShortID(e.ID)}, row...)
			}
			tbl.AddRow(row...)
		}
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	pp.NewLine()
}

// Categories prints each category with how many tasks use it.
func (pp *PrettyPrint) Categories(categories []string, tasks []model.Task) {
	counts := make(map[string]int, len(categories))
	for _, t := range tasks {
		counts[t.Category]++
	}
	pp.TitleWithCount("Categories", len(categories), "category")
	tbl := uitable.New()
	tbl.Separator = "  "
	for i, c := range categories {
		name := c
		if i == 0 {
			name += color.New(color.Faint).Sprint(" (default)")
		}
		tbl.AddRow(name, counts[c])
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	pp.NewLine()
}

// Drawer prints the events and due tasks of one day.
func (pp *PrettyPrint) Drawer(d view.Drawer) {
	pp.Title(d.Date)
	if len(d.Events) == 0 && len(d.Tasks) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Out, " Nothing scheduled\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, e := range d.Events {
		when := e.TimeRange()
		if when == "" {
			when = "All day"
		}
		row := []interface{}{when, eventTitle(e), e.Location}
		if pp.ShowID {
			row = append([]interface{}{ShortID(e.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	for _, t := range d.Tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		row := []interface{}{mark, t.Title, priorityColor[t.Priority].Sprint(t.Priority)}
		if pp.ShowID {
			row = append([]interface{}{ShortID(t.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	if d.ActiveDue > 0 {
		_, _ = color.New(color.Faint).Fprintf(pp.Out, "%d open task%s due\n", d.ActiveDue, plural(d.ActiveDue))
	}
	pp.NewLine()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

