package service

import (
	"context"
	"strings"

	"focusflow/internal/log"
	"focusflow/internal/model"
)

// AddCategory appends a new category name.
func (s *Store) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCategoryRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if model.HasCategory(s.state.Categories, name) {
		return ErrCategoryExists
	}
	s.state.Categories = append(s.state.Categories, name)
	s.persist(ctx)
	log.Info("category added", "name", name)
	return nil
}

// RenameCategory renames from to to in place and relabels every task that
// used it. Relabeling does not count as an edit, so updatedAt is kept.
func (s *Store) RenameCategory(ctx context.Context, from, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrCategoryNameEmpty
	}
	if from == to {
		return ErrNoChanges
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := model.IndexOf(s.state.Categories, from)
	if i < 0 {
		return ErrNotFound
	}
	if model.HasCategory(s.state.Categories, to) {
		return ErrCategoryExists
	}
	s.state.Categories[i] = to
	moved := 0
	for j := range s.state.Tasks {
		if s.state.Tasks[j].Category == from {
			s.state.Tasks[j].Category = to
			moved++
		}
	}
	s.persist(ctx)
	log.Info("category renamed", "from", from, "to", to, "tasks", moved)
	return nil
}

// RemoveCategory deletes a category and moves its tasks to the first
// remaining one. The last category cannot be removed.
func (s *Store) RemoveCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Categories) <= 1 {
		return ErrLastCategory
	}
	i := model.IndexOf(s.state.Categories, name)
	if i < 0 {
		return ErrNotFound
	}
	s.state.Categories = append(s.state.Categories[:i:i], s.state.Categories[i+1:]...)
	fallback := s.state.Categories[0]
	moved := 0
	for j := range s.state.Tasks {
		if s.state.Tasks[j].Category == name {
			s.state.Tasks[j].Category = fallback
			moved++
		}
	}
	s.persist(ctx)
	log.Info("category removed", "name", name, "moved_to", fallback, "tasks", moved)
	return nil
}
