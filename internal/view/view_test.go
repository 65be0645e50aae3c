package view

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"focusflow/internal/model"
)

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "no_due_high", Priority: model.PriorityHigh, UpdatedAt: 5},
		{ID: "done_early", Priority: model.PriorityHigh, DueDate: "2024-01-01", Completed: true, UpdatedAt: 9},
		{ID: "late_low", Priority: model.PriorityLow, DueDate: "2024-06-10", UpdatedAt: 1},
		{ID: "early_low", Priority: model.PriorityLow, DueDate: "2024-06-01", UpdatedAt: 1},
		{ID: "late_high", Priority: model.PriorityHigh, DueDate: "2024-06-10", UpdatedAt: 1},
		{ID: "late_high_newer", Priority: model.PriorityHigh, DueDate: "2024-06-10", UpdatedAt: 7},
		{ID: "done_nodue", Priority: model.PriorityLow, Completed: true, UpdatedAt: 3},
	}
}

func TestVisibleTasksOrdering(t *testing.T) {
	got := ids(VisibleTasks(sampleTasks(), model.FilterAll))
	want := []string{
		"early_low",
		"late_high_newer",
		"late_high",
		"late_low",
		"no_due_high",
		"done_early",
		"done_nodue",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v\nwant    %v", got, want)
	}
}

func TestVisibleTasksFilters(t *testing.T) {
	all := sampleTasks()
	active := VisibleTasks(all, model.FilterActive)
	completed := VisibleTasks(all, model.FilterCompleted)
	everything := VisibleTasks(all, model.FilterAll)

	for _, task := range active {
		if task.Completed {
			t.Fatalf("active view contains completed task %s", task.ID)
		}
	}
	for _, task := range completed {
		if !task.Completed {
			t.Fatalf("completed view contains active task %s", task.ID)
		}
	}

	seen := make(map[string]int)
	for _, task := range everything {
		seen[task.ID]++
	}
	if len(everything) != len(active)+len(completed) || len(seen) != len(all) {
		t.Fatalf("all=%d active=%d completed=%d unique=%d", len(everything), len(active), len(completed), len(seen))
	}
	for _, task := range all {
		if seen[task.ID] != 1 {
			t.Fatalf("task %s appears %d times", task.ID, seen[task.ID])
		}
	}
}

func TestVisibleTasksIsStableForFullTies(t *testing.T) {
	tasks := []model.Task{
		{ID: "b", Priority: model.PriorityMedium, DueDate: "2024-06-01", UpdatedAt: 10},
		{ID: "a", Priority: model.PriorityMedium, DueDate: "2024-06-01", UpdatedAt: 10},
		{ID: "c", Priority: model.PriorityMedium, DueDate: "2024-06-01", UpdatedAt: 10},
	}
	if got := ids(VisibleTasks(tasks, model.FilterAll)); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("ties reordered: %v", got)
	}
}

func TestVisibleTasksDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)
	_ = VisibleTasks(tasks, model.FilterAll)
	if !reflect.DeepEqual(ids(tasks), before) {
		t.Fatal("input slice was reordered")
	}
}

func TestStatsAndOverdue(t *testing.T) {
	tasks := sampleTasks()
	if got := TaskStats(tasks); got != (Stats{Active: 5, Completed: 2, Total: 7}) {
		t.Fatalf("stats = %+v", got)
	}
	if got := ids(Overdue(tasks, "2024-06-05")); !reflect.DeepEqual(got, []string{"early_low"}) {
		t.Fatalf("overdue = %v", got)
	}
}

func TestByDateGroups(t *testing.T) {
	tasks := sampleTasks()
	due := DueTasksByDate(tasks)
	if _, ok := due[""]; ok {
		t.Fatal("tasks without due date must not be grouped")
	}
	if got := ids(due["2024-06-10"]); !reflect.DeepEqual(got, []string{"late_low", "late_high", "late_high_newer"}) {
		t.Fatalf("due 06-10 = %v", got)
	}

	events := EventsByDate([]model.Event{
		{ID: "e1", Date: "2024-06-01"},
		{ID: "e2", Date: "2024-06-02"},
		{ID: "e3", Date: "2024-06-01"},
	})
	if len(events["2024-06-01"]) != 2 || len(events["2024-06-02"]) != 1 {
		t.Fatalf("events grouping = %v", events)
	}
}

func TestDrawerFor(t *testing.T) {
	s := model.Snapshot{
		Events: []model.Event{
			{ID: "untimed", Date: "2024-06-01"},
			{ID: "late", Date: "2024-06-01", StartTime: "18:00"},
			{ID: "other_day", Date: "2024-06-02", StartTime: "07:00"},
			{ID: "early", Date: "2024-06-01", StartTime: "08:30"},
		},
		Tasks: []model.Task{
			{ID: "done_high", DueDate: "2024-06-01", Priority: model.PriorityHigh, Completed: true},
			{ID: "low", DueDate: "2024-06-01", Priority: model.PriorityLow},
			{ID: "high", DueDate: "2024-06-01", Priority: model.PriorityHigh},
			{ID: "elsewhere", DueDate: "2024-06-03", Priority: model.PriorityHigh},
		},
	}

	d := DrawerFor(s, "2024-06-01")
	var evIDs []string
	for _, e := range d.Events {
		evIDs = append(evIDs, e.ID)
	}
	if !reflect.DeepEqual(evIDs, []string{"early", "late", "untimed"}) {
		t.Fatalf("events = %v", evIDs)
	}
	if got := ids(d.Tasks); !reflect.DeepEqual(got, []string{"high", "low", "done_high"}) {
		t.Fatalf("tasks = %v", got)
	}
	if d.ActiveDue != 2 {
		t.Fatalf("active due = %d", d.ActiveDue)
	}
}

func TestDrawerForEmptyDayEncodesEmptyLists(t *testing.T) {
	d := DrawerFor(model.Snapshot{}, "2024-06-01")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"date":"2024-06-01","events":[],"tasks":[],"activeDue":0}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
}

func TestMonthAnnotatesCells(t *testing.T) {
	s := model.Snapshot{
		Events: []model.Event{
			{ID: "a", Date: "2024-06-01", StartTime: "12:00"},
			{ID: "b", Date: "2024-06-01"},
			{ID: "c", Date: "2024-06-01", StartTime: "08:00"},
			{ID: "d", Date: "2024-06-01", StartTime: "09:00"},
		},
		Tasks: []model.Task{
			{ID: "t1", DueDate: "2024-06-01", Priority: model.PriorityHigh},
			{ID: "t2", DueDate: "2024-06-01", Priority: model.PriorityLow, Completed: true},
		},
		UI: model.UIState{Calendar: model.CalendarState{SelectedDate: "2024-06-01"}},
	}

	cells := Month(s, 2024, time.June, "2024-06-03")
	if len(cells) != 42 {
		t.Fatalf("cells = %d", len(cells))
	}
	first := cells[5]
	if first.Date != "2024-06-01" || first.EventCount != 4 || len(first.Events) != MaxCellEvents {
		t.Fatalf("cell = %+v", first)
	}
	if first.Events[0].ID != "c" || first.Events[2].ID != "a" {
		t.Fatalf("preview order = %v", first.Events)
	}
	if first.DueCount != 1 || !first.HighDue || !first.Selected || first.Today {
		t.Fatalf("flags = %+v", first)
	}
	if !cells[7].Today {
		t.Fatalf("expected 2024-06-03 to be today: %+v", cells[7].Cell)
	}
}
