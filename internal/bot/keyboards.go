package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focusflow/internal/model"
)

// replyKeyboard lays out labels row by row. Dialog keyboards are one-time so
// the main menu comes back once the answer is sent.
func replyKeyboard(oneTime bool, rows ...[]string) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, labels := range rows {
		if len(labels) == 0 {
			continue
		}
		row := make([]tgbotapi.KeyboardButton, len(labels))
		for i, label := range labels {
			row[i] = tgbotapi.NewKeyboardButton(label)
		}
		buttons = append(buttons, row)
	}
	kb := tgbotapi.NewReplyKeyboard(buttons...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = oneTime
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(false,
		[]string{menuLabelNewTask, menuLabelNewEvent},
		[]string{menuLabelTasks, menuLabelMonth, menuLabelHelp},
	)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(true, []string{btnCancelDialog})
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(true, []string{btnSkip}, []string{btnCancelDialog})
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	labels := make([]string, len(model.Priorities))
	for i, p := range model.Priorities {
		labels[i] = string(p)
	}
	return replyKeyboard(true, labels, []string{btnSkip, btnCancelDialog})
}

// categoryKeyboard offers the current categories two per row.
func (b *Bot) categoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]string
	names := b.store.Categories()
	for len(names) > 0 {
		n := min(2, len(names))
		rows = append(rows, names[:n])
		names = names[n:]
	}
	rows = append(rows, []string{btnSkip, btnCancelDialog})
	return replyKeyboard(true, rows...)
}

func undoKeyboard(data string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnUndo, data),
		),
	)
}

func monthKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️", cbMonthPrefix+"prev"),
			tgbotapi.NewInlineKeyboardButtonData("Today", cbMonthToday),
			tgbotapi.NewInlineKeyboardButtonData("▶️", cbMonthPrefix+"next"),
		),
	)
}

func normalizedInput(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func isSkipInput(text string) bool {
	switch normalizedInput(text) {
	case "-", "skip", normalizedInput(btnSkip):
		return true
	}
	return false
}

func isCancelDialogInput(text string) bool {
	switch normalizedInput(text) {
	case "cancel", normalizedInput(btnCancelDialog):
		return true
	}
	return false
}
