package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focusflow/internal/model"
	"focusflow/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTaskTitle
	stageTaskCategory
	stageTaskPriority
	stageTaskDue
	stageEventTitle
	stageEventDate
	stageEventTime
	stageEventLocation
)

type conversationState struct {
	stage conversationStage
	task  service.TaskInput
	event service.EventInput
}

func (b *Bot) startNewTask(chatID int64, title string) error {
	state := &conversationState{stage: stageTaskTitle}
	b.setConversation(chatID, state)
	if title != "" {
		state.task.Title = title
		state.stage = stageTaskCategory
		return b.sendWithReplyMarkup(chatID, "🏷 Pick a category.", b.categoryKeyboard())
	}
	return b.sendWithReplyMarkup(chatID, "🆕 New task.\n<b>Step 1:</b> what should it be called?", cancelKeyboard())
}

func (b *Bot) startNewEvent(chatID int64, title string) error {
	state := &conversationState{stage: stageEventTitle}
	b.setConversation(chatID, state)
	if title != "" {
		state.event.Title = title
		state.stage = stageEventDate
		return b.sendWithReplyMarkup(chatID, dateQuestion(b.today()), cancelKeyboard())
	}
	return b.sendWithReplyMarkup(chatID, "📅 New event.\n<b>Step 1:</b> what is it?", cancelKeyboard())
}

func dateQuestion(today string) string {
	return fmt.Sprintf("📆 Which day? Use <code>YYYY-MM-DD</code>, e.g. <code>%s</code>.", today)
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	state := b.getConversation(chatID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTaskTitle:
		if text == "" {
			return b.sendText(chatID, "⚠️ "+service.ErrTitleRequired.Reason)
		}
		state.task.Title = text
		state.stage = stageTaskCategory
		return b.sendWithReplyMarkup(chatID, "🏷 Pick a category.", b.categoryKeyboard())
	case stageTaskCategory:
		if !isSkipInput(text) {
			state.task.Category = text
		}
		state.stage = stageTaskPriority
		return b.sendWithReplyMarkup(chatID, "⚡ Priority?", priorityKeyboard())
	case stageTaskPriority:
		if !isSkipInput(text) {
			if _, ok := model.ParsePriority(text); !ok {
				return b.sendWithReplyMarkup(chatID, "Choose low, medium or high.", priorityKeyboard())
			}
			state.task.Priority = text
		}
		state.stage = stageTaskDue
		return b.sendWithReplyMarkup(chatID, "⏰ Due date as <code>YYYY-MM-DD</code>, or skip.", skipKeyboard())
	case stageTaskDue:
		if !isSkipInput(text) {
			if !model.IsISODate(text) {
				return b.sendWithReplyMarkup(chatID, "⚠️ "+service.ErrInvalidDueDate.Reason, skipKeyboard())
			}
			state.task.DueDate = text
		}
		return b.finishTask(ctx, chatID, state)
	case stageEventTitle:
		if text == "" {
			return b.sendText(chatID, "⚠️ "+service.ErrTitleRequired.Reason)
		}
		state.event.Title = text
		state.stage = stageEventDate
		return b.sendWithReplyMarkup(chatID, dateQuestion(b.today()), cancelKeyboard())
	case stageEventDate:
		if !model.IsISODate(text) {
			return b.sendText(chatID, "⚠️ "+service.ErrInvalidDate.Reason)
		}
		state.event.Date = text
		state.stage = stageEventTime
		return b.sendWithReplyMarkup(chatID, "🕘 Time as <code>09:00</code> or <code>09:00-10:30</code>, or skip for all day.", skipKeyboard())
	case stageEventTime:
		state.event.StartTime, state.event.EndTime = "", ""
		if !isSkipInput(text) {
			start, end, ok := parseTimeRange(text)
			if !ok {
				return b.sendWithReplyMarkup(chatID, "⚠️ "+service.ErrInvalidTime.Reason, skipKeyboard())
			}
			if start != "" && end != "" && start > end {
				return b.sendWithReplyMarkup(chatID, "⚠️ "+service.ErrTimeOrder.Reason, skipKeyboard())
			}
			state.event.StartTime, state.event.EndTime = start, end
		}
		state.stage = stageEventLocation
		return b.sendWithReplyMarkup(chatID, "📍 Where? (or skip)", skipKeyboard())
	case stageEventLocation:
		if !isSkipInput(text) {
			state.event.Location = text
		}
		return b.finishEvent(ctx, chatID, state)
	default:
		b.clearConversation(chatID)
		return b.sendText(chatID, "Dialog reset. Start again with /newtask or /newevent.")
	}
}

func (b *Bot) finishTask(ctx context.Context, chatID int64, state *conversationState) error {
	res, err := b.store.CreateTask(ctx, state.task)
	if err != nil {
		// the dialog stays open so the answer can be corrected
		return b.sendReason(chatID, err)
	}
	b.clearConversation(chatID)

	task, _ := b.store.Task(res.ID)
	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(formatTask(task, b.today()))
	if res.Warning != "" {
		summary.WriteString("\n⚠️ " + escape(res.Warning))
	}
	return b.sendWithReplyMarkup(chatID, strings.TrimSpace(summary.String()), mainMenuKeyboard())
}

func (b *Bot) finishEvent(ctx context.Context, chatID int64, state *conversationState) error {
	res, err := b.store.CreateEvent(ctx, state.event)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			state.stage = stageEventTime
			return b.sendWithReplyMarkup(chatID, "⚠️ "+escape(ve.Reason), skipKeyboard())
		}
		return b.sendReason(chatID, err)
	}
	b.clearConversation(chatID)

	e, _ := b.store.Event(res.ID)
	text := "✅ <b>Event saved</b>\n" + formatEvent(e)
	if err := b.sendWithReplyMarkup(chatID, strings.TrimSpace(text), mainMenuKeyboard()); err != nil {
		return err
	}
	return b.sendDay(chatID, e.Date)
}

// parseTimeRange accepts "HH:MM" or "HH:MM-HH:MM". Single-digit hours are
// padded.
func parseTimeRange(text string) (string, string, bool) {
	text = strings.ReplaceAll(text, "–", "-")
	parts := strings.Split(text, "-")
	if len(parts) > 2 {
		return "", "", false
	}
	var out [2]string
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) == 4 && p[1] == ':' {
			p = "0" + p
		}
		if !model.IsClock(p) {
			return "", "", false
		}
		out[i] = p
	}
	return out[0], out[1], true
}

func (b *Bot) setConversation(chatID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[chatID] = state
}

func (b *Bot) getConversation(chatID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) hasConversation(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.conversations[chatID]
	return ok && state.stage != stageNone
}

func (b *Bot) clearConversation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, chatID)
}
