package service

import (
	"context"
	"strings"

	"focusflow/internal/log"
	"focusflow/internal/model"
)

// TaskInput is the editable part of a task as submitted by a form.
type TaskInput struct {
	Title    string
	Category string
	Priority string
	DueDate  string
	Notes    string
}

// InputFromTask prefills a form from an existing task.
func InputFromTask(t model.Task) TaskInput {
	return TaskInput{
		Title:    t.Title,
		Category: t.Category,
		Priority: string(t.Priority),
		DueDate:  t.DueDate,
		Notes:    t.Notes,
	}
}

type taskFields struct {
	title    string
	category string
	priority model.Priority
	dueDate  string
	notes    string
	warning  string
}

func (s *Store) validateTask(in TaskInput) (taskFields, error) {
	f := taskFields{
		title:   strings.TrimSpace(in.Title),
		dueDate: strings.TrimSpace(in.DueDate),
		notes:   strings.TrimSpace(in.Notes),
	}
	if f.title == "" {
		return f, ErrTitleRequired
	}
	if f.dueDate != "" && !model.IsISODate(f.dueDate) {
		return f, ErrInvalidDueDate
	}
	f.priority, _ = model.ParsePriority(in.Priority)

	f.category = strings.TrimSpace(in.Category)
	switch {
	case f.category == "":
		f.category = s.state.Categories[0]
	case !model.HasCategory(s.state.Categories, f.category):
		log.Warn("unknown task category", "category", f.category)
		f.category = s.state.Categories[0]
		f.warning = WarnCategoryFallback
	}
	return f, nil
}

// CreateTask adds a new incomplete task.
func (s *Store) CreateTask(ctx context.Context, in TaskInput) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.validateTask(in)
	if err != nil {
		return Result{}, err
	}
	now := s.nowMillis()
	task := model.Task{
		ID:        s.newID(),
		Title:     f.title,
		Category:  f.category,
		Priority:  f.priority,
		DueDate:   f.dueDate,
		Notes:     f.notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.state.Tasks = append(s.state.Tasks, task)
	s.persist(ctx)
	log.Info("task created", "id", task.ID)
	return Result{ID: task.ID, Created: true, Warning: f.warning}, nil
}

// UpdateTask replaces the editable fields of task id. Completion and
// creation time are kept.
func (s *Store) UpdateTask(ctx context.Context, id string, in TaskInput) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return Result{}, ErrNotFound
	}
	f, err := s.validateTask(in)
	if err != nil {
		return Result{}, err
	}
	t := &s.state.Tasks[i]
	t.Title = f.title
	t.Category = f.category
	t.Priority = f.priority
	t.DueDate = f.dueDate
	t.Notes = f.notes
	t.UpdatedAt = s.nowMillis()
	s.persist(ctx)
	log.Info("task updated", "id", id)
	return Result{ID: id, Warning: f.warning}, nil
}

// Task looks up a task by exact id.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.taskIndex(id); i >= 0 {
		return s.state.Tasks[i], true
	}
	return model.Task{}, false
}

// ToggleTaskComplete flips the completed flag.
func (s *Store) ToggleTaskComplete(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	t := &s.state.Tasks[i]
	t.Completed = !t.Completed
	t.UpdatedAt = s.nowMillis()
	s.persist(ctx)
	log.Info("task toggled", "id", id, "completed", t.Completed)
	return *t, nil
}

// DeleteTask removes a task and opens its undo window. Deleting an unknown
// id is a no-op.
func (s *Store) DeleteTask(ctx context.Context, id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return model.Task{}, false
	}
	removed := s.state.Tasks[i]
	s.state.Tasks = append(s.state.Tasks[:i:i], s.state.Tasks[i+1:]...)
	s.persist(ctx)
	s.taskUndo.Push(removed, i)
	log.Info("task deleted", "id", id)
	return removed, true
}

// UndoDeleteTask restores the last deleted task while its window is open.
// A non-empty id must name that task; an older deletion cannot be restored.
// A task whose category was removed meanwhile goes to the first category.
func (s *Store) UndoDeleteTask(ctx context.Context, id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, index, ok := s.taskUndo.TakeIf(matchID(id, func(t model.Task) string { return t.ID }))
	if !ok {
		return model.Task{}, false
	}
	if !model.HasCategory(s.state.Categories, task.Category) {
		log.Warn("restored task category gone", "id", task.ID, "category", task.Category)
		task.Category = s.state.Categories[0]
	}
	s.state.Tasks = insertAt(s.state.Tasks, index, task)
	s.persist(ctx)
	log.Info("task restored", "id", task.ID)
	return task, true
}

// PendingTaskUndo is the task that UndoDeleteTask would restore.
func (s *Store) PendingTaskUndo() (model.Task, bool) {
	return s.taskUndo.Pending()
}

func (s *Store) taskIndex(id string) int {
	for i, t := range s.state.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// matchID accepts the item with the given id, or anything when id is empty.
func matchID[T any](id string, idOf func(T) string) func(T) bool {
	if id == "" {
		return nil
	}
	return func(v T) bool { return idOf(v) == id }
}

// insertAt puts v at index, clamped to the current length.
func insertAt[T any](list []T, index int, v T) []T {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, v)
	return append(out, list[index:]...)
}
