package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focusflow/internal/model"
)

func (b *Bot) handleTasks(ctx context.Context, chatID int64, args string) error {
	if args != "" {
		if _, err := b.store.SetFilter(ctx, args); err != nil {
			return b.sendReason(chatID, err)
		}
	}
	return b.sendTaskList(chatID)
}

// sendTaskList shows the tasks the current filter lets through, grouped by
// category in category order.
func (b *Bot) sendTaskList(chatID int64) error {
	filter := b.store.UI().TaskFilter
	tasks := b.store.CurrentTasks()
	if len(tasks) == 0 {
		return b.sendText(chatID, fmt.Sprintf("No %s tasks. Add one with /newtask.", filterLabel(filter)))
	}

	groups := make(map[string][]model.Task)
	for _, task := range tasks {
		groups[task.Category] = append(groups[task.Category], task)
	}

	today := b.today()
	stats := b.store.Stats()

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Tasks</b> (%s)\n", filter))
	builder.WriteString(fmt.Sprintf("%d active · %d completed\n\n", stats.Active, stats.Completed))

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, category := range b.store.Categories() {
		section := groups[category]
		if len(section) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("<b>%s</b>\n", escape(category)))
		for _, task := range section {
			builder.WriteString(formatTask(task, today))
			toggle := "✅ "
			if task.Completed {
				toggle = "🔄 "
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(toggle+shortTitle(task.Title, 24), cbDonePrefix+task.ID),
				tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+task.ID),
			))
		}
		builder.WriteByte('\n')
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func filterLabel(f model.Filter) string {
	if f == model.FilterAll {
		return "open or finished"
	}
	return string(f)
}

func (b *Bot) handleDone(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return b.sendText(chatID, "Give the task id: /done 3f2a")
	}
	id, err := b.store.ResolveTaskID(args)
	if err != nil {
		return b.sendReason(chatID, err)
	}
	return b.toggleTask(ctx, chatID, id)
}

func (b *Bot) toggleTask(ctx context.Context, chatID int64, id string) error {
	task, err := b.store.ToggleTaskComplete(ctx, id)
	if err != nil {
		return b.sendReason(chatID, err)
	}
	if task.Completed {
		return b.sendText(chatID, fmt.Sprintf("✅ Done: <b>%s</b>", escape(task.Title)))
	}
	return b.sendText(chatID, fmt.Sprintf("🔄 Reopened: <b>%s</b>", escape(task.Title)))
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		return b.sendText(chatID, "Give the task id: /delete 3f2a")
	}
	id, err := b.store.ResolveTaskID(args)
	if err != nil {
		return b.sendReason(chatID, err)
	}
	return b.deleteTask(ctx, chatID, id)
}

func (b *Bot) deleteTask(ctx context.Context, chatID int64, id string) error {
	task, ok := b.store.DeleteTask(ctx, id)
	if !ok {
		return nil
	}
	return b.sendWithReplyMarkup(chatID,
		fmt.Sprintf("🗑 Deleted <b>%s</b>.", escape(task.Title)),
		undoKeyboard(cbUndoTaskPrefix+task.ID))
}
