package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focusflow/internal/calendar"
	"focusflow/internal/view"
)

// handleDay selects the given date, or today when args is empty, and shows
// its drawer.
func (b *Bot) handleDay(ctx context.Context, chatID int64, args string) error {
	date := strings.TrimSpace(args)
	if date == "" {
		date = b.store.GoToday(ctx)
	} else if err := b.store.SelectDate(ctx, date); err != nil {
		return b.sendReason(chatID, err)
	}
	return b.sendDay(chatID, date)
}

func (b *Bot) sendDay(chatID int64, date string) error {
	return b.sendText(chatID, formatDay(b.store.Drawer(date), b.today()))
}

func formatDay(d view.Drawer, today string) string {
	var builder strings.Builder
	title := d.Date
	if t, err := calendar.ParseISO(d.Date); err == nil {
		title = t.Format("Monday, 2 January 2006")
	}
	builder.WriteString(fmt.Sprintf("🗓 <b>%s</b>\n", title))

	if len(d.Events) == 0 && len(d.Tasks) == 0 {
		builder.WriteString("\nNothing planned.")
		return builder.String()
	}
	if len(d.Events) > 0 {
		builder.WriteString("\n<b>Events</b>\n")
		for _, e := range d.Events {
			builder.WriteString(formatEvent(e))
		}
	}
	if len(d.Tasks) > 0 {
		builder.WriteString(fmt.Sprintf("\n<b>Due</b> (%d open)\n", d.ActiveDue))
		for _, task := range d.Tasks {
			builder.WriteString(formatTask(task, today))
		}
	}
	return strings.TrimSpace(builder.String())
}

// handleMonth moves the calendar to a YYYY-MM argument, if any, and sends
// the grid with navigation buttons.
func (b *Bot) handleMonth(ctx context.Context, chatID int64, args string) error {
	if args = strings.TrimSpace(args); args != "" {
		t, err := time.Parse("2006-01", args)
		if err != nil {
			return b.sendText(chatID, "⚠️ Month must be YYYY-MM")
		}
		b.store.SetMonth(ctx, t.Year(), t.Month())
	}
	return b.sendWithReplyMarkup(chatID, b.monthText(), monthKeyboard())
}

// editMonth redraws the grid in place after a navigation button.
func (b *Bot) editMonth(msg *tgbotapi.Message) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(msg.Chat.ID, msg.MessageID, b.monthText(), monthKeyboard())
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(edit)
	return err
}

func (b *Bot) monthText() string {
	cal := b.store.UI().Calendar
	month := time.Month(cal.Month + 1)
	return formatMonth(cal.Year, month, b.store.Month())
}

// formatMonth renders the grid as fixed-width text inside <pre>. A mark after
// the day shows ! for high-priority due tasks, + for other due tasks and * for
// events. Days of the adjacent months are dotted out.
func formatMonth(year int, month time.Month, cells []view.DayCell) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("<b>%s</b>\n<pre>", calendar.MonthTitle(year, month)))
	builder.WriteString("Mo  Tu  We  Th  Fr  Sa  Su\n")
	for i, c := range cells {
		if c.OtherMonth {
			builder.WriteString(" . ")
		} else {
			builder.WriteString(fmt.Sprintf("%2d%s", c.Day, dayMark(c)))
		}
		if i%7 == 6 {
			builder.WriteByte('\n')
		} else {
			builder.WriteByte(' ')
		}
	}
	builder.WriteString("</pre>")
	return builder.String()
}

func dayMark(c view.DayCell) string {
	switch {
	case c.HighDue:
		return "!"
	case c.DueCount > 0:
		return "+"
	case c.EventCount > 0:
		return "*"
	default:
		return " "
	}
}

