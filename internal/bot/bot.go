package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focusflow/internal/config"
	"focusflow/internal/log"
	"focusflow/internal/service"
)

const (
	cbDonePrefix        = "done:"
	cbDeletePrefix      = "del:"
	cbDeleteEventPrefix = "delev:"
	cbUndoTaskPrefix    = "undo:task:"
	cbUndoEventPrefix   = "undo:event:"
	cbDayPrefix         = "day:"
	cbMonthPrefix       = "month:"
	cbMonthToday        = "month:today"
)

const (
	btnSkip         = "⏭️ Skip"
	btnCancelDialog = "⏪ Cancel"
	btnUndo         = "↩️ Undo"

	menuLabelNewTask  = "➕ New task"
	menuLabelNewEvent = "📅 New event"
	menuLabelTasks    = "📋 Tasks"
	menuLabelMonth    = "🗓 Month"
	menuLabelHelp     = "ℹ️ Help"
)

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot serves the store over Telegram.
type Bot struct {
	api         telegramAPI
	store       *service.Store
	reminderSvc *service.ReminderService
	config      config.Config

	conversations map[int64]*conversationState
	chats         map[int64]struct{}
	mu            sync.Mutex
}

func New(token string, store *service.Store, reminderSvc *service.ReminderService, cfg config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("bot authorized", "account", api.Self.UserName)
	return newBot(api, store, reminderSvc, cfg), nil
}

func newBot(api telegramAPI, store *service.Store, reminderSvc *service.ReminderService, cfg config.Config) *Bot {
	return &Bot{
		api:           api,
		store:         store,
		reminderSvc:   reminderSvc,
		config:        cfg,
		conversations: make(map[int64]*conversationState),
		chats:         make(map[int64]struct{}),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}

	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil || !b.allowed(cb.Message.Chat) {
			return
		}
		if err := b.handleCallback(ctx, cb); err != nil {
			log.Error("handle callback", err, "data", cb.Data)
		}
	case update.Message != nil:
		if !b.allowed(update.Message.Chat) {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Error("handle message", err)
		}
	}
}

// allowed admits the configured chat only, or any private chat when none is
// configured.
func (b *Bot) allowed(chat *tgbotapi.Chat) bool {
	if chat == nil {
		return false
	}
	if b.config.TelegramChatID != 0 {
		return chat.ID == b.config.TelegramChatID
	}
	return chat.IsPrivate()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	b.rememberChat(msg.Chat.ID)

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.Chat.ID)
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏪ Cancelled.", mainMenuKeyboard())
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Info("command", "chat", msg.Chat.ID, "command", msg.Command(), "args", msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if b.hasConversation(msg.Chat.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /newtask, /newevent or /help.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(chatID)
	case "tasks":
		return b.handleTasks(ctx, chatID, args)
	case "newtask":
		return b.startNewTask(chatID, args)
	case "done":
		return b.handleDone(ctx, chatID, args)
	case "delete":
		return b.handleDelete(ctx, chatID, args)
	case "events":
		return b.sendEventList(chatID, args)
	case "newevent":
		return b.startNewEvent(chatID, args)
	case "deleteevent":
		return b.handleDeleteEvent(ctx, chatID, args)
	case "day":
		return b.handleDay(ctx, chatID, args)
	case "month":
		return b.handleMonth(ctx, chatID, args)
	case "categories":
		return b.sendCategories(chatID)
	case "addcategory":
		return b.handleAddCategory(ctx, chatID, args)
	case "renamecategory":
		return b.handleRenameCategory(ctx, chatID, args)
	case "delcategory":
		return b.handleRemoveCategory(ctx, chatID, args)
	case "digest":
		return b.sendText(chatID, b.reminderSvc.DailySummary(b.store.Now()).HTML())
	case "export":
		return b.handleExport(chatID)
	case "cancel":
		b.clearConversation(chatID)
		return b.sendWithReplyMarkup(chatID, "⏪ Cancelled.", mainMenuKeyboard())
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep your tasks and calendar.</b>\n\n%s", escape(name), helpText)
	return b.sendWithReplyMarkup(msg.Chat.ID, text, mainMenuKeyboard())
}

const helpText = "• /tasks [all|active|completed] — task list\n" +
	"• /newtask [title] — add a task step by step\n" +
	"• /done &lt;id&gt; — complete or reopen a task\n" +
	"• /delete &lt;id&gt; — delete a task\n" +
	"• /events [YYYY-MM-DD] — upcoming events, or one day\n" +
	"• /newevent [title] — add an event\n" +
	"• /deleteevent &lt;id&gt; — delete an event\n" +
	"• /day [YYYY-MM-DD] — one day at a glance\n" +
	"• /month [YYYY-MM] — month grid\n" +
	"• /categories, /addcategory, /renamecategory old =&gt; new, /delcategory\n" +
	"• /digest — today's digest\n" +
	"• /export — JSON backup\n" +
	"• /cancel — stop the current dialog"

func (b *Bot) handleHelp(chatID int64) error {
	return b.sendText(chatID, "ℹ️ <b>Commands</b>\n"+helpText)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelNewTask:
		return true, b.startNewTask(msg.Chat.ID, "")
	case menuLabelNewEvent:
		return true, b.startNewEvent(msg.Chat.ID, "")
	case menuLabelTasks:
		return true, b.sendTaskList(msg.Chat.ID)
	case menuLabelMonth:
		return true, b.handleMonth(ctx, msg.Chat.ID, "")
	case menuLabelHelp:
		return true, b.handleHelp(msg.Chat.ID)
	default:
		return false, nil
	}
}

// SendDigest sends today's digest to the configured chat, or to every chat
// seen since startup.
func (b *Bot) SendDigest(ctx context.Context) error {
	text := b.reminderSvc.DailySummary(b.store.Now()).HTML()

	var targets []int64
	if b.config.TelegramChatID != 0 {
		targets = []int64{b.config.TelegramChatID}
	} else {
		b.mu.Lock()
		for id := range b.chats {
			targets = append(targets, id)
		}
		b.mu.Unlock()
	}

	var errs []error
	for _, chatID := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.sendText(chatID, text); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}
		log.Info("digest sent", "chat", chatID)
	}
	return errors.Join(errs...)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Error("callback ack", err)
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data
	log.Info("callback", "chat", chatID, "data", data)

	switch {
	case strings.HasPrefix(data, cbDonePrefix):
		return b.toggleTask(ctx, chatID, strings.TrimPrefix(data, cbDonePrefix))
	case strings.HasPrefix(data, cbDeletePrefix):
		return b.deleteTask(ctx, chatID, strings.TrimPrefix(data, cbDeletePrefix))
	case strings.HasPrefix(data, cbDeleteEventPrefix):
		return b.deleteEvent(ctx, chatID, strings.TrimPrefix(data, cbDeleteEventPrefix))
	case strings.HasPrefix(data, cbUndoTaskPrefix):
		if task, ok := b.store.UndoDeleteTask(ctx, strings.TrimPrefix(data, cbUndoTaskPrefix)); ok {
			return b.sendText(chatID, fmt.Sprintf("↩️ Restored <b>%s</b>.", escape(task.Title)))
		}
		return b.sendText(chatID, "Too late, the undo window has closed.")
	case strings.HasPrefix(data, cbUndoEventPrefix):
		if e, ok := b.store.UndoDeleteEvent(ctx, strings.TrimPrefix(data, cbUndoEventPrefix)); ok {
			return b.sendText(chatID, fmt.Sprintf("↩️ Restored <b>%s</b> on %s.", escape(e.Title), e.Date))
		}
		return b.sendText(chatID, "Too late, the undo window has closed.")
	case strings.HasPrefix(data, cbDayPrefix):
		return b.handleDay(ctx, chatID, strings.TrimPrefix(data, cbDayPrefix))
	case data == cbMonthToday:
		b.store.GoToday(ctx)
		return b.editMonth(cb.Message)
	case strings.HasPrefix(data, cbMonthPrefix):
		delta := 1
		if strings.TrimPrefix(data, cbMonthPrefix) == "prev" {
			delta = -1
		}
		b.store.ShiftMonth(ctx, delta)
		return b.editMonth(cb.Message)
	default:
		return nil
	}
}

func (b *Bot) rememberChat(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats[chatID] = struct{}{}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

// sendReason reports a validation failure; anything else is returned.
func (b *Bot) sendReason(chatID int64, err error) error {
	if reason, ok := service.Reason(err); ok {
		return b.sendText(chatID, "⚠️ "+escape(reason))
	}
	if errors.Is(err, service.ErrNotFound) {
		return b.sendText(chatID, "Nothing matches that id. It may have been deleted already.")
	}
	return err
}

func (b *Bot) today() string {
	return b.store.Today()
}
