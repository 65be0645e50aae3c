package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"focusflow/internal/service"
)

func (b *Bot) sendCategories(chatID int64) error {
	counts := make(map[string]int)
	for _, task := range b.store.Tasks() {
		if !task.Completed {
			counts[task.Category]++
		}
	}

	var builder strings.Builder
	builder.WriteString("🏷 <b>Categories</b>\n")
	for _, name := range b.store.Categories() {
		builder.WriteString(fmt.Sprintf("• %s (%d open)\n", escape(name), counts[name]))
	}
	return b.sendText(chatID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleAddCategory(ctx context.Context, chatID int64, args string) error {
	if err := b.store.AddCategory(ctx, args); err != nil {
		return b.sendReason(chatID, err)
	}
	return b.sendText(chatID, fmt.Sprintf("🏷 Added <b>%s</b>.", escape(strings.TrimSpace(args))))
}

// handleRenameCategory expects "OLD => NEW".
func (b *Bot) handleRenameCategory(ctx context.Context, chatID int64, args string) error {
	from, to, ok := strings.Cut(args, "=>")
	if !ok {
		return b.sendText(chatID, "Use /renamecategory Old =&gt; New")
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if err := b.store.RenameCategory(ctx, from, to); err != nil {
		return b.sendCategoryError(chatID, from, err)
	}
	return b.sendText(chatID, fmt.Sprintf("🏷 Renamed <b>%s</b> to <b>%s</b>.", escape(from), escape(to)))
}

func (b *Bot) handleRemoveCategory(ctx context.Context, chatID int64, args string) error {
	name := strings.TrimSpace(args)
	if name == "" {
		return b.sendText(chatID, "Give the category name: /delcategory Shopping")
	}
	if err := b.store.RemoveCategory(ctx, name); err != nil {
		return b.sendCategoryError(chatID, name, err)
	}
	return b.sendText(chatID, fmt.Sprintf("🗑 Removed <b>%s</b>. Its tasks moved to <b>%s</b>.", escape(name), escape(b.store.Categories()[0])))
}

func (b *Bot) sendCategoryError(chatID int64, name string, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return b.sendText(chatID, fmt.Sprintf("⚠️ No category named <b>%s</b>.", escape(name)))
	}
	return b.sendReason(chatID, err)
}
