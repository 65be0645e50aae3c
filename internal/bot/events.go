package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focusflow/internal/model"
	"focusflow/internal/service"
	"focusflow/internal/view"
)

// maxListedEvents caps /events so the message stays under Telegram's limit.
const maxListedEvents = 20

// upcomingEvents returns events from today on, by date then start time.
func upcomingEvents(events []model.Event, today string) []model.Event {
	byDate := view.EventsByDate(events)
	var dates []string
	for d := range byDate {
		if d >= today {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	var out []model.Event
	for _, d := range dates {
		out = append(out, view.SortByStart(byDate[d])...)
	}
	return out
}

// sendEventList lists upcoming events, or the events of one day when date
// is set.
func (b *Bot) sendEventList(chatID int64, date string) error {
	title := "Upcoming events"
	var events []model.Event
	if date = strings.TrimSpace(date); date != "" {
		if !model.IsISODate(date) {
			return b.sendText(chatID, "⚠️ "+service.ErrInvalidDate.Reason)
		}
		title = "Events on " + date
		events = view.SortByStart(view.EventsByDate(b.store.Events())[date])
	} else {
		events = upcomingEvents(b.store.Events(), b.today())
	}
	if len(events) == 0 {
		return b.sendText(chatID, "No events. Add one with /newevent.")
	}
	more := 0
	if len(events) > maxListedEvents {
		more = len(events) - maxListedEvents
		events = events[:maxListedEvents]
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📅 <b>%s</b>\n\n", title))
	var buttons [][]tgbotapi.InlineKeyboardButton
	last := ""
	for _, e := range events {
		if e.Date != last {
			builder.WriteString(fmt.Sprintf("<b>%s</b>\n", e.Date))
			last = e.Date
		}
		builder.WriteString(formatEvent(e))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+shortTitle(e.Title, 24), cbDeleteEventPrefix+e.ID),
		))
	}
	if more > 0 {
		builder.WriteString(fmt.Sprintf("\n…and %d more", more))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleDeleteEvent(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return b.sendText(chatID, "Give the event id: /deleteevent 9c1e")
	}
	id, err := b.store.ResolveEventID(args)
	if err != nil {
		return b.sendReason(chatID, err)
	}
	return b.deleteEvent(ctx, chatID, id)
}

func (b *Bot) deleteEvent(ctx context.Context, chatID int64, id string) error {
	e, ok := b.store.DeleteEvent(ctx, id)
	if !ok {
		return nil
	}
	return b.sendWithReplyMarkup(chatID,
		fmt.Sprintf("🗑 Deleted <b>%s</b> on %s.", escape(e.Title), e.Date),
		undoKeyboard(cbUndoEventPrefix+e.ID))
}

// handleExport sends the full JSON backup as a document.
func (b *Bot) handleExport(chatID int64) error {
	data, err := b.store.ExportJSON()
	if err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  b.store.ExportFileName("json"),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📦 %d tasks, %d events", len(b.store.Tasks()), len(b.store.Events()))
	_, err = b.api.Send(doc)
	return err
}
