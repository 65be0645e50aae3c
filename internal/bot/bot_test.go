package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"focusflow/internal/config"
	"focusflow/internal/model"
	"focusflow/internal/repository"
	"focusflow/internal/service"
)

var fixedNow = time.Date(2024, time.June, 3, 9, 30, 0, 0, time.UTC)

// fakeAPI records everything the bot sends.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) last(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return f.sent[len(f.sent)-1]
}

// undoData is the callback data of the undo button on the last message.
func (f *fakeAPI) undoData(t *testing.T) string {
	t.Helper()
	msg, ok := f.last(t).(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected a message, got %T", f.last(t))
	}
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok || len(markup.InlineKeyboard) == 0 || markup.InlineKeyboard[0][0].CallbackData == nil {
		t.Fatalf("message has no undo button: %#v", msg.ReplyMarkup)
	}
	return *markup.InlineKeyboard[0][0].CallbackData
}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	switch c := f.last(t).(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	default:
		t.Fatalf("last sent is %T, not a text message", c)
		return ""
	}
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	was := !m.stopped
	m.stopped = true
	return was
}

type manualTimers struct {
	pending []*manualTimer
}

func (mt *manualTimers) after(_ time.Duration, f func()) service.Timer {
	t := &manualTimer{f: f}
	mt.pending = append(mt.pending, t)
	return t
}

func (mt *manualTimers) fire() {
	for _, t := range mt.pending {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
	mt.pending = nil
}

type fixture struct {
	bot    *Bot
	api    *fakeAPI
	store  *service.Store
	timers *manualTimers
}

func newFixture(t *testing.T, cfg config.Config) *fixture {
	t.Helper()
	n := 0
	timers := &manualTimers{}
	store := service.NewStore(context.Background(), repository.NewMemory(),
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
		service.WithAfterFunc(timers.after),
	)
	api := &fakeAPI{}
	b := newBot(api, store, service.NewReminderService(store), cfg)
	return &fixture{bot: b, api: api, store: store, timers: timers}
}

const testChat int64 = 42

func privateChat() *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: testChat, Type: "private"}
}

func textMessage(text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: 7, FirstName: "Sam"},
		Chat:      privateChat(),
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return msg
}

func callback(data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{MessageID: 9, Chat: privateChat()},
		Data:    data,
	}
}

func (f *fixture) say(t *testing.T, text string) string {
	t.Helper()
	if err := f.bot.handleMessage(context.Background(), textMessage(text)); err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
	return f.api.lastText(t)
}

func (f *fixture) press(t *testing.T, data string) string {
	t.Helper()
	if err := f.bot.handleCallback(context.Background(), callback(data)); err != nil {
		t.Fatalf("callback %q: %v", data, err)
	}
	return f.api.lastText(t)
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name   string
		chatID int64
		chat   *tgbotapi.Chat
		want   bool
	}{
		{"no chat", 0, nil, false},
		{"private without config", 0, &tgbotapi.Chat{ID: 5, Type: "private"}, true},
		{"group without config", 0, &tgbotapi.Chat{ID: -5, Type: "group"}, false},
		{"configured chat", -5, &tgbotapi.Chat{ID: -5, Type: "group"}, true},
		{"other chat when configured", -5, &tgbotapi.Chat{ID: 5, Type: "private"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.Config{TelegramChatID: tt.chatID})
			if got := f.bot.allowed(tt.chat); got != tt.want {
				t.Fatalf("allowed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end string
		ok         bool
	}{
		{"09:00", "09:00", "", true},
		{"9:15", "09:15", "", true},
		{"09:00-10:30", "09:00", "10:30", true},
		{"09:00 – 10:30", "09:00", "10:30", true},
		{"25:00", "", "", false},
		{"9-10-11", "", "", false},
		{"noon", "", "", false},
	}
	for _, tt := range tests {
		start, end, ok := parseTimeRange(tt.in)
		if ok != tt.ok || start != tt.start || end != tt.end {
			t.Errorf("parseTimeRange(%q) = %q, %q, %v; want %q, %q, %v", tt.in, start, end, ok, tt.start, tt.end, tt.ok)
		}
	}
}

func TestNewTaskDialog(t *testing.T) {
	f := newFixture(t, config.Config{})

	f.say(t, "/newtask")
	f.say(t, "Buy milk")
	f.say(t, "Work")
	f.say(t, "high")
	reply := f.say(t, "2024-06-05")

	if !strings.Contains(reply, "Task saved") || !strings.Contains(reply, "Buy milk") {
		t.Fatalf("reply = %q", reply)
	}
	if f.bot.hasConversation(testChat) {
		t.Fatal("dialog still open after saving")
	}
	tasks := f.store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Buy milk" || got.Category != "Work" || got.Priority != model.PriorityHigh || got.DueDate != "2024-06-05" {
		t.Fatalf("task = %+v", got)
	}
}

func TestNewTaskDialogWithTitleAndSkips(t *testing.T) {
	f := newFixture(t, config.Config{})

	f.say(t, "/newtask Call mom")
	f.say(t, btnSkip)
	f.say(t, "-")
	f.say(t, "skip")

	tasks := f.store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Call mom" || got.Category != model.DefaultCategories[0] || got.Priority != model.PriorityMedium || got.DueDate != "" {
		t.Fatalf("task = %+v", got)
	}
}

func TestNewTaskDialogRejectsBadDueDate(t *testing.T) {
	f := newFixture(t, config.Config{})

	f.say(t, "/newtask Report")
	f.say(t, "Work")
	f.say(t, "low")
	reply := f.say(t, "31/12/2024")

	if !strings.Contains(reply, service.ErrInvalidDueDate.Reason) {
		t.Fatalf("reply = %q", reply)
	}
	if state := f.bot.getConversation(testChat); state == nil || state.stage != stageTaskDue {
		t.Fatalf("dialog should wait for a due date, got %+v", state)
	}
	if len(f.store.Tasks()) != 0 {
		t.Fatal("task created from a bad date")
	}
}

func TestCancelDialog(t *testing.T) {
	f := newFixture(t, config.Config{})

	f.say(t, "/newevent")
	reply := f.say(t, btnCancelDialog)

	if !strings.Contains(reply, "Cancelled") {
		t.Fatalf("reply = %q", reply)
	}
	if f.bot.hasConversation(testChat) {
		t.Fatal("dialog still open")
	}
}

func TestNewEventDialogShowsDay(t *testing.T) {
	f := newFixture(t, config.Config{})

	f.say(t, "/newevent Standup")
	f.say(t, "2024-06-04")
	f.say(t, "10:30-9:00")
	if state := f.bot.getConversation(testChat); state.stage != stageEventTime {
		t.Fatalf("stage = %v, want time stage after a reversed range", state.stage)
	}
	f.say(t, "9:00-9:15")
	reply := f.say(t, "Room 4")

	if !strings.Contains(reply, "Tuesday, 4 June 2024") || !strings.Contains(reply, "Standup") {
		t.Fatalf("day view = %q", reply)
	}
	events := f.store.Events()
	if len(events) != 1 || events[0].StartTime != "09:00" || events[0].EndTime != "09:15" || events[0].Location != "Room 4" {
		t.Fatalf("events = %+v", events)
	}
	if ui := f.store.UI(); ui.Calendar.SelectedDate != "2024-06-04" {
		t.Fatalf("selected date = %q", ui.Calendar.SelectedDate)
	}
}

func TestDeleteTaskAndUndo(t *testing.T) {
	f := newFixture(t, config.Config{})
	res, err := f.store.CreateTask(context.Background(), service.TaskInput{Title: "Water plants"})
	if err != nil {
		t.Fatal(err)
	}

	f.press(t, cbDeletePrefix+res.ID)
	undo := f.api.undoData(t)
	if undo != cbUndoTaskPrefix+res.ID {
		t.Fatalf("undo button data = %q", undo)
	}
	if len(f.store.Tasks()) != 0 {
		t.Fatal("task not deleted")
	}

	reply := f.press(t, undo)
	if !strings.Contains(reply, "Restored") {
		t.Fatalf("reply = %q", reply)
	}
	if tasks := f.store.Tasks(); len(tasks) != 1 || tasks[0].ID != res.ID {
		t.Fatalf("tasks after undo = %+v", tasks)
	}
	if f.api.requests == 0 {
		t.Fatal("callbacks were not acknowledged")
	}
}

func TestUndoAfterWindowCloses(t *testing.T) {
	f := newFixture(t, config.Config{})
	res, err := f.store.CreateEvent(context.Background(), service.EventInput{Title: "Dentist", Date: "2024-06-10"})
	if err != nil {
		t.Fatal(err)
	}

	f.say(t, "/deleteevent "+res.ID[:4])
	undo := f.api.undoData(t)
	f.timers.fire()
	reply := f.press(t, undo)

	if !strings.Contains(reply, "Too late") {
		t.Fatalf("reply = %q", reply)
	}
	if len(f.store.Events()) != 0 {
		t.Fatal("event restored after the window closed")
	}
}

func TestUndoOfOlderDeletionIsTooLate(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	alpha, _ := f.store.CreateTask(ctx, service.TaskInput{Title: "Alpha"})
	bravo, _ := f.store.CreateTask(ctx, service.TaskInput{Title: "Bravo"})

	f.press(t, cbDeletePrefix+alpha.ID)
	alphaUndo := f.api.undoData(t)
	f.press(t, cbDeletePrefix+bravo.ID)
	bravoUndo := f.api.undoData(t)

	if reply := f.press(t, alphaUndo); !strings.Contains(reply, "Too late") {
		t.Fatalf("older undo reply = %q", reply)
	}
	if tasks := f.store.Tasks(); len(tasks) != 0 {
		t.Fatalf("older undo restored %+v", tasks)
	}
	if reply := f.press(t, bravoUndo); !strings.Contains(reply, "Bravo") {
		t.Fatalf("newer undo reply = %q", reply)
	}
	if tasks := f.store.Tasks(); len(tasks) != 1 || tasks[0].ID != bravo.ID {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestDoneTogglesByPrefix(t *testing.T) {
	f := newFixture(t, config.Config{})
	res, _ := f.store.CreateTask(context.Background(), service.TaskInput{Title: "Laundry"})

	if reply := f.say(t, "/done "+res.ID); !strings.Contains(reply, "Done") {
		t.Fatalf("reply = %q", reply)
	}
	if reply := f.say(t, "/done "+res.ID); !strings.Contains(reply, "Reopened") {
		t.Fatalf("reply = %q", reply)
	}
	if reply := f.say(t, "/done nope"); !strings.Contains(reply, "Nothing matches") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestTaskListGroupsByCategory(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	_, _ = f.store.CreateTask(ctx, service.TaskInput{Title: "Gym", Category: "Health"})
	_, _ = f.store.CreateTask(ctx, service.TaskInput{Title: "Deploy", Category: "Work"})

	reply := f.say(t, "/tasks")

	work := strings.Index(reply, "<b>Work</b>")
	health := strings.Index(reply, "<b>Health</b>")
	if work < 0 || health < 0 || work > health {
		t.Fatalf("categories out of order in %q", reply)
	}
	if !strings.Contains(reply, "2 active · 0 completed") {
		t.Fatalf("missing stats in %q", reply)
	}
}

func TestMonthNavigation(t *testing.T) {
	f := newFixture(t, config.Config{})

	reply := f.say(t, "/month 2024-02")
	if !strings.Contains(reply, "February 2024") || !strings.Contains(reply, "<pre>") {
		t.Fatalf("reply = %q", reply)
	}

	f.press(t, cbMonthPrefix+"next")
	edit, ok := f.api.last(t).(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("expected an edit, got %T", f.api.last(t))
	}
	if edit.MessageID != 9 || !strings.Contains(edit.Text, "March 2024") {
		t.Fatalf("edit = %+v", edit)
	}

	if reply := f.press(t, cbMonthToday); !strings.Contains(reply, "June 2024") {
		t.Fatalf("today = %q", reply)
	}
	if reply := f.say(t, "/month soon"); !strings.Contains(reply, "YYYY-MM") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestFormatMonthMarks(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	_, _ = f.store.CreateTask(ctx, service.TaskInput{Title: "Taxes", Priority: "high", DueDate: "2024-06-10"})
	_, _ = f.store.CreateEvent(ctx, service.EventInput{Title: "Party", Date: "2024-06-15"})

	text := formatMonth(2024, time.June, f.store.MonthOf(2024, time.June))
	if !strings.Contains(text, "10!") || !strings.Contains(text, "15*") {
		t.Fatalf("marks missing in %q", text)
	}
}

func TestDayRejectsBadDate(t *testing.T) {
	f := newFixture(t, config.Config{})
	if reply := f.say(t, "/day 2024-13-01"); !strings.Contains(reply, service.ErrInvalidDate.Reason) {
		t.Fatalf("reply = %q", reply)
	}
	if reply := f.say(t, "/day"); !strings.Contains(reply, "Monday, 3 June 2024") || !strings.Contains(reply, "Nothing planned") {
		t.Fatalf("reply = %q", reply)
	}
}

func TestCategoryCommands(t *testing.T) {
	f := newFixture(t, config.Config{})

	f.say(t, "/addcategory Errands")
	f.say(t, "/renamecategory Work => Job")
	if reply := f.say(t, "/delcategory Nope"); !strings.Contains(reply, "No category named") {
		t.Fatalf("reply = %q", reply)
	}
	if reply := f.say(t, "/renamecategory Job"); !strings.Contains(reply, "Old =&gt; New") {
		t.Fatalf("reply = %q", reply)
	}

	want := []string{"Personal", "Job", "Health", "Errands"}
	got := f.store.Categories()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("categories = %v, want %v", got, want)
	}
}

func TestExportSendsDocument(t *testing.T) {
	f := newFixture(t, config.Config{})
	if err := f.bot.handleCommand(context.Background(), textMessage("/export")); err != nil {
		t.Fatal(err)
	}
	doc, ok := f.api.last(t).(tgbotapi.DocumentConfig)
	if !ok {
		t.Fatalf("expected a document, got %T", f.api.last(t))
	}
	file, ok := doc.File.(tgbotapi.FileBytes)
	if !ok || file.Name != "focusflow-export-2024-06-03.json" || len(file.Bytes) == 0 {
		t.Fatalf("file = %#v", doc.File)
	}
}

func TestSendDigestToSeenChats(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	_, _ = f.store.CreateTask(ctx, service.TaskInput{Title: "Pay rent", DueDate: "2024-06-03"})

	f.bot.handleUpdate(ctx, tgbotapi.Update{Message: textMessage("/help")})
	if err := f.bot.SendDigest(ctx); err != nil {
		t.Fatal(err)
	}

	msg, ok := f.api.last(t).(tgbotapi.MessageConfig)
	if !ok || msg.ChatID != testChat {
		t.Fatalf("digest went to %#v", f.api.last(t))
	}
	if !strings.Contains(msg.Text, "Daily digest") || !strings.Contains(msg.Text, "Pay rent") {
		t.Fatalf("digest = %q", msg.Text)
	}
}

func TestUnauthorizedUpdatesAreIgnored(t *testing.T) {
	f := newFixture(t, config.Config{TelegramChatID: 100})
	f.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: textMessage("/help")})
	if len(f.api.sent) != 0 {
		t.Fatalf("sent %d messages to a foreign chat", len(f.api.sent))
	}
}

func TestTasksFilterArgument(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	res, _ := f.store.CreateTask(ctx, service.TaskInput{Title: "Finished thing"})
	_, _ = f.store.CreateTask(ctx, service.TaskInput{Title: "Open thing"})
	if _, err := f.store.ToggleTaskComplete(ctx, res.ID); err != nil {
		t.Fatal(err)
	}

	reply := f.say(t, "/tasks completed")
	if !strings.Contains(reply, "Finished thing") || strings.Contains(reply, "Open thing") {
		t.Fatalf("reply = %q", reply)
	}
	if got := f.store.UI().TaskFilter; got != model.FilterCompleted {
		t.Fatalf("filter = %q", got)
	}
	if reply := f.say(t, "/tasks someday"); !strings.Contains(reply, service.ErrUnknownFilter.Reason) {
		t.Fatalf("reply = %q", reply)
	}
}

func TestEventsForOneDay(t *testing.T) {
	f := newFixture(t, config.Config{})
	ctx := context.Background()
	_, _ = f.store.CreateEvent(ctx, service.EventInput{Title: "Late", Date: "2024-06-05", StartTime: "18:00"})
	_, _ = f.store.CreateEvent(ctx, service.EventInput{Title: "Early", Date: "2024-06-05", StartTime: "08:00"})
	_, _ = f.store.CreateEvent(ctx, service.EventInput{Title: "Past", Date: "2024-05-01"})

	reply := f.say(t, "/events 2024-06-05")
	if strings.Index(reply, "Early") > strings.Index(reply, "Late") || strings.Contains(reply, "Past") {
		t.Fatalf("reply = %q", reply)
	}
	if reply := f.say(t, "/events"); strings.Contains(reply, "Past") || !strings.Contains(reply, "Upcoming events") {
		t.Fatalf("upcoming = %q", reply)
	}
}
