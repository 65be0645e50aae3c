package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"gopkg.in/yaml.v3"

	"focusflow/internal/calendar"
	"focusflow/internal/log"
	"focusflow/internal/model"
	"focusflow/internal/sanitize"
)

// ExportVersion is written into every export payload.
const ExportVersion = 1

const exportTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Export is the backup document. UI state is not part of it.
type Export struct {
	ExportedAt string        `json:"exportedAt" yaml:"exportedAt"`
	Version    int           `json:"version" yaml:"version"`
	Categories []string      `json:"categories" yaml:"categories"`
	Tasks      []model.Task  `json:"tasks" yaml:"tasks"`
	Events     []model.Event `json:"events" yaml:"events"`
}

// Export captures the current collections.
func (s *Store) Export() Export {
	snap := s.Snapshot()
	return Export{
		ExportedAt: s.now().UTC().Format(exportTimeLayout),
		Version:    ExportVersion,
		Categories: snap.Categories,
		Tasks:      snap.Tasks,
		Events:     snap.Events,
	}
}

// ExportFileName is the suggested download name for today's export.
func (s *Store) ExportFileName(ext string) string {
	return fmt.Sprintf("focusflow-export-%s.%s", s.now().UTC().Format(model.DateLayout), ext)
}

func (s *Store) ExportJSON() ([]byte, error) {
	out, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

func (s *Store) ExportYAML() ([]byte, error) {
	out, err := yaml.Marshal(s.Export())
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

// ExportICS renders every event as an iCalendar VEVENT. Events without a
// start time become all-day entries.
func (s *Store) ExportICS() string {
	now := s.now()
	loc := now.Location()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//focusflow//calendar//EN")
	for _, e := range s.Events() {
		day, err := calendar.ParseISO(e.Date)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(e.ID + "@focusflow")
		ev.SetSummary(e.Title)
		ev.SetDtStampTime(now)
		ev.SetCreatedTime(time.UnixMilli(e.CreatedAt))
		ev.SetModifiedAt(time.UnixMilli(e.UpdatedAt))
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.Notes != "" {
			ev.SetDescription(e.Notes)
		}
		if e.StartTime == "" {
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}
		ev.SetStartAt(atClock(day, e.StartTime, loc))
		if e.EndTime != "" {
			ev.SetEndAt(atClock(day, e.EndTime, loc))
		}
	}
	return cal.Serialize()
}

func atClock(day time.Time, hhmm string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// Import replaces categories, tasks and events with the payload after
// running it through the load sanitizer. UI state is kept. A payload that is
// not a JSON object, or lacks any of the three arrays, is rejected and the
// store is left untouched.
func (s *Store) Import(ctx context.Context, data []byte) error {
	obj, ok := sanitize.Decode(data).(map[string]any)
	if !ok {
		return ErrInvalidJSON
	}
	categories, okC := obj["categories"].([]any)
	tasks, okT := obj["tasks"].([]any)
	events, okE := obj["events"].([]any)
	if !okC || !okT || !okE {
		return ErrImportMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	env := sanitize.Env{Now: s.now(), NewID: s.newID}
	cats, _ := sanitize.Categories(categories)
	cleanTasks, droppedTasks := sanitize.Tasks(tasks, cats, env)
	cleanEvents, droppedEvents := sanitize.Events(events, env)

	s.state.Categories = cats
	s.state.Tasks = cleanTasks
	s.state.Events = cleanEvents
	s.taskUndo.Discard()
	s.eventUndo.Discard()
	s.persist(ctx)
	log.Info("import applied",
		"categories", len(cats),
		"tasks", len(cleanTasks),
		"events", len(cleanEvents),
		"dropped_tasks", droppedTasks,
		"dropped_events", droppedEvents,
	)
	return nil
}

// ImportYAML converts a YAML export to the JSON shape and imports it.
func (s *Store) ImportYAML(ctx context.Context, data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ErrInvalidJSON
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return ErrInvalidJSON
	}
	return s.Import(ctx, raw)
}
