// Package sanitize turns whatever was found in storage into a valid snapshot.
// Every slot goes through the same pass: absent or corrupt data falls back to
// defaults, legacy records are repaired, and already-valid data comes out
// unchanged.
package sanitize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"focusflow/internal/calendar"
	"focusflow/internal/model"
)

// Input holds the four raw slot values, already JSON-decoded into generic
// values. Any of them may be nil or of the wrong shape.
type Input struct {
	Categories any
	Tasks      any
	Events     any
	UI         any
}

// Env supplies the clock and id source used to backfill missing fields.
type Env struct {
	Now   time.Time
	NewID func() string
}

func (e Env) now() time.Time {
	if e.Now.IsZero() {
		return time.Now()
	}
	return e.Now
}

func (e Env) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

// Report counts what the pass had to drop or repair.
type Report struct {
	DroppedTasks  int
	DroppedEvents int
	Defaulted     bool
}

// Decode parses a stored blob. Missing or corrupt data decodes to nil.
func Decode(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// Snapshot sanitizes all four slots.
func Snapshot(in Input, env Env) (model.Snapshot, Report) {
	var rep Report
	cats, defaulted := Categories(in.Categories)
	rep.Defaulted = defaulted
	tasks, droppedTasks := Tasks(in.Tasks, cats, env)
	events, droppedEvents := Events(in.Events, env)
	rep.DroppedTasks = droppedTasks
	rep.DroppedEvents = droppedEvents
	return model.Snapshot{
		Categories: cats,
		Tasks:      tasks,
		Events:     events,
		UI:         UI(in.UI, env),
	}, rep
}

// Categories trims, drops empties and dedupes preserving first-seen order.
// The boolean reports whether the defaults had to be substituted.
func Categories(raw any) ([]string, bool) {
	list, _ := raw.([]any)
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		name := strings.TrimSpace(str(item))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) == 0 {
		return append([]string(nil), model.DefaultCategories...), true
	}
	return out, false
}

// Tasks coerces raw task records. Records without a title are dropped and
// counted; categories outside the set are moved to the first category.
func Tasks(raw any, categories []string, env Env) ([]model.Task, int) {
	list, _ := raw.([]any)
	now := env.now()
	fallback := model.DefaultCategories[0]
	if len(categories) > 0 {
		fallback = categories[0]
	}

	out := make([]model.Task, 0, len(list))
	dropped := 0
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		title := strings.TrimSpace(str(rec["title"]))
		if title == "" {
			dropped++
			continue
		}

		id := str(rec["id"])
		if id == "" {
			id = env.newID()
		}
		category := strings.TrimSpace(str(rec["category"]))
		if !model.HasCategory(categories, category) {
			category = fallback
		}
		priority := model.StoredPriority(str(rec["priority"]))

		out = append(out, model.Task{
			ID:        id,
			Title:     title,
			Category:  category,
			Priority:  priority,
			DueDate:   isoDate(rec["dueDate"]),
			Notes:     str(rec["notes"]),
			Completed: truthy(rec["completed"]),
			CreatedAt: millis(rec["createdAt"], now),
			UpdatedAt: millis(rec["updatedAt"], now),
		})
	}
	return out, dropped
}

// Events coerces raw event records. Records without a title are dropped;
// a missing or malformed date becomes today.
func Events(raw any, env Env) ([]model.Event, int) {
	list, _ := raw.([]any)
	now := env.now()
	today := calendar.Today(now)

	out := make([]model.Event, 0, len(list))
	dropped := 0
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		title := strings.TrimSpace(str(rec["title"]))
		if title == "" {
			dropped++
			continue
		}

		id := str(rec["id"])
		if id == "" {
			id = env.newID()
		}
		date := isoDate(rec["date"])
		if date == "" {
			date = today
		}
		color := model.ColorBlue
		if s, ok := rec["color"].(string); ok {
			color, _ = model.ParseColor(s)
		}

		out = append(out, model.Event{
			ID:        id,
			Title:     title,
			Date:      date,
			StartTime: clock(rec["startTime"]),
			EndTime:   clock(rec["endTime"]),
			Location:  str(rec["location"]),
			Notes:     str(rec["notes"]),
			Color:     color,
			CreatedAt: millis(rec["createdAt"], now),
			UpdatedAt: millis(rec["updatedAt"], now),
		})
	}
	return out, dropped
}

// DefaultUI is the navigation state of a fresh install.
func DefaultUI(now time.Time) model.UIState {
	return model.UIState{
		Page:       model.PageTasks,
		TaskFilter: model.FilterAll,
		Calendar: model.CalendarState{
			Year:         now.Year(),
			Month:        int(now.Month()) - 1,
			SelectedDate: calendar.Today(now),
			DrawerOpen:   true,
		},
	}
}

// UI validates the persisted navigation state field by field.
func UI(raw any, env Env) model.UIState {
	ui := DefaultUI(env.now())
	rec, ok := raw.(map[string]any)
	if !ok {
		return ui
	}

	if n, ok := number(rec["page"]); ok {
		ui.Page = clampInt(int(n), model.PageTasks, model.PageCalendar)
	}
	if s, ok := rec["taskFilter"].(string); ok {
		ui.TaskFilter, _ = model.ParseFilter(s)
	}

	cal, ok := rec["calendar"].(map[string]any)
	if !ok {
		return ui
	}
	if n, ok := number(cal["year"]); ok && n >= 1 && n <= 9999 {
		ui.Calendar.Year = int(n)
	}
	if n, ok := number(cal["month"]); ok {
		ui.Calendar.Month = clampInt(int(n), 0, 11)
	}
	if s, ok := cal["selectedDate"].(string); ok && model.IsISODate(s) {
		ui.Calendar.SelectedDate = s
	}
	if b, ok := cal["drawerOpen"].(bool); ok && !b {
		ui.Calendar.DrawerOpen = false
	}
	return ui
}
