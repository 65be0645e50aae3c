package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"focusflow/internal/model"
	"focusflow/internal/repository"
)

func seedStore(t *testing.T, s *Store) {
	t.Helper()
	mustCreateTask(t, s, TaskInput{Title: "Buy milk", Category: "Personal", Priority: "low", DueDate: "2024-06-01"})
	mustCreateEvent(t, s, EventInput{Title: "Dentist", Date: "2024-06-04", StartTime: "09:00", EndTime: "09:45", Location: "Main St"})
	mustCreateEvent(t, s, EventInput{Title: "Holiday", Date: "2024-06-07"})
}

func TestExportJSON(t *testing.T) {
	s, _ := newTestStore(t, nil)
	seedStore(t, s)

	raw, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if doc["exportedAt"] != "2024-06-03T09:30:00.000Z" || doc["version"] != float64(1) {
		t.Fatalf("header = %v %v", doc["exportedAt"], doc["version"])
	}
	if _, ok := doc["ui"]; ok {
		t.Fatal("export must not contain ui state")
	}
	if tasks := doc["tasks"].([]any); len(tasks) != 1 {
		t.Fatalf("tasks = %v", tasks)
	}
	if name := s.ExportFileName("json"); name != "focusflow-export-2024-06-03.json" {
		t.Fatalf("file name = %q", name)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestStore(t, nil)
	seedStore(t, src)
	raw, err := src.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}

	dst, _ := newTestStore(t, nil)
	mustCreateTask(t, dst, TaskInput{Title: "will be replaced"})
	if err := dst.Import(ctx, raw); err != nil {
		t.Fatalf("import: %v", err)
	}
	want, got := src.Snapshot(), dst.Snapshot()
	if !reflect.DeepEqual(got.Categories, want.Categories) ||
		!reflect.DeepEqual(got.Tasks, want.Tasks) ||
		!reflect.DeepEqual(got.Events, want.Events) {
		t.Fatalf("imported snapshot differs:\n got %+v\nwant %+v", got, want)
	}
}

func TestImportMissingEventsIsRejected(t *testing.T) {
	ctx := context.Background()
	gw := repository.NewMemory()
	s, _ := newTestStore(t, gw)
	seedStore(t, s)
	before := s.Snapshot()
	writes := gw.Writes()

	payload := `{"categories":["A"],"tasks":[{"title":"x"}]}`
	if err := s.Import(ctx, []byte(payload)); !errors.Is(err, ErrImportMissingFields) {
		t.Fatalf("err = %v", err)
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Fatal("store changed after a rejected import")
	}
	if gw.Writes() != writes {
		t.Fatal("rejected import wrote to storage")
	}
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	s, _ := newTestStore(t, nil)
	for _, payload := range []string{"", "{", "null", `"text"`, `[1,2]`} {
		if err := s.Import(context.Background(), []byte(payload)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("payload %q: err = %v", payload, err)
		}
	}
	if err := s.Import(context.Background(), []byte(`{"categories":{},"tasks":[],"events":[]}`)); !errors.Is(err, ErrImportMissingFields) {
		t.Errorf("non-array categories: err = %v", err)
	}
}

func TestImportSanitizes(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	s.SelectDate(ctx, "2024-06-20")
	payload := `{
		"categories": ["Home", " Home ", ""],
		"tasks": [{"title": "  "}, {"title": "Fix sink", "category": "Garage", "priority": "urgent"}],
		"events": [{"title": "Party", "color": "teal"}]
	}`
	if err := s.Import(ctx, []byte(payload)); err != nil {
		t.Fatalf("import: %v", err)
	}
	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Categories, []string{"Home"}) {
		t.Fatalf("categories = %v", snap.Categories)
	}
	if len(snap.Tasks) != 1 || snap.Tasks[0].Category != "Home" || snap.Tasks[0].Priority != model.PriorityMedium {
		t.Fatalf("tasks = %+v", snap.Tasks)
	}
	if len(snap.Events) != 1 || snap.Events[0].Date != "2024-06-03" || snap.Events[0].Color != model.ColorBlue {
		t.Fatalf("events = %+v", snap.Events)
	}
	if snap.UI.Calendar.SelectedDate != "2024-06-20" {
		t.Fatal("import must keep the ui state")
	}
}

func TestImportDiscardsPendingUndo(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	id := mustCreateTask(t, s, TaskInput{Title: "old"})
	s.DeleteTask(ctx, id)

	if err := s.Import(ctx, []byte(`{"categories":[],"tasks":[],"events":[]}`)); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.UndoDeleteTask(ctx, ""); ok {
		t.Fatal("undo reached across an import")
	}
}

func TestExportImportYAML(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestStore(t, nil)
	seedStore(t, src)
	raw, err := src.ExportYAML()
	if err != nil {
		t.Fatal(err)
	}
	var doc Export
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("export is not YAML: %v", err)
	}
	if doc.Version != ExportVersion || len(doc.Events) != 2 {
		t.Fatalf("doc = %+v", doc)
	}

	dst, _ := newTestStore(t, nil)
	if err := dst.ImportYAML(ctx, raw); err != nil {
		t.Fatalf("import yaml: %v", err)
	}
	if !reflect.DeepEqual(dst.Events(), src.Events()) {
		t.Fatalf("events = %+v", dst.Events())
	}
}

func TestExportICS(t *testing.T) {
	s, _ := newTestStore(t, nil)
	seedStore(t, s)

	out := s.ExportICS()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"SUMMARY:Dentist",
		"LOCATION:Main St",
		"DTSTART:20240604T090000Z",
		"DTEND:20240604T094500Z",
		"SUMMARY:Holiday",
		"20240607",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ics missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 2 {
		t.Fatalf("vevents = %d", n)
	}
}
