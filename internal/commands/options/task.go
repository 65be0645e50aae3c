package options

import (
	"github.com/spf13/cobra"

	"focusflow/internal/model"
	"focusflow/internal/service"
)

// TaskOptions
type TaskOptions struct {
	Title    string
	Category string
	Priority string
	Due      string
	Notes    string
}

func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVar(&o.Title, "title", "",
		"Task title.")
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"Category name. Unknown names fall back to the first category.")
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "",
		`Priority: "low", "medium" or "high".`)
	cmd.Flags().StringVarP(&o.Due, "due", "d", "",
		`Due date, example: --due="2024-06-01".`)
	cmd.Flags().StringVarP(&o.Notes, "notes", "n", "",
		"Free-form notes.")
}

// Merge overlays the flags the user actually set onto base.
func (o *TaskOptions) Merge(cmd *cobra.Command, base service.TaskInput) service.TaskInput {
	f := cmd.Flags()
	if f.Changed("title") {
		base.Title = o.Title
	}
	if f.Changed("category") {
		base.Category = o.Category
	}
	if f.Changed("priority") {
		base.Priority = o.Priority
	}
	if f.Changed("due") {
		base.DueDate = o.Due
	}
	if f.Changed("notes") {
		base.Notes = o.Notes
	}
	return base
}

// FilterOptions
type FilterOptions struct {
	Filter string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Filter, "filter", "f", "",
		`Show "all", "active" or "completed" tasks. The choice is remembered.`)
}

// FilterNames lists the values --filter accepts, for completion.
func FilterNames() []string {
	return []string{string(model.FilterAll), string(model.FilterActive), string(model.FilterCompleted)}
}
