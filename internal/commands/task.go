package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"focusflow/internal/commands/options"
	"focusflow/internal/model"
	"focusflow/internal/printers"
	"focusflow/internal/service"
)

func addTasks(topLevel *cobra.Command, rt *runtime) {
	fo := &options.FilterOptions{}

	cmd := &cobra.Command{
		Use:     "tasks",
		Short:   "List tasks",
		Aliases: []string{"ls"},
		Example: `
focusflow tasks
focusflow tasks --filter active
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := rt.store
			if fo.Filter != "" {
				if _, err := s.SetFilter(cmd.Context(), fo.Filter); err != nil {
					return rt.output.HandleError(err)
				}
			}
			tasks := s.CurrentTasks()
			if rt.output.JSON {
				return rt.output.Print(tasks)
			}
			rt.pp.Tasks(s.UI().TaskFilter, s.Stats(), tasks, s.Today())
			return nil
		},
	}

	options.AddFilterArgs(cmd, fo)
	_ = cmd.RegisterFlagCompletionFunc("filter", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return options.FilterNames(), cobra.ShellCompDirectiveNoFileComp
	})
	topLevel.AddCommand(cmd)
}

func addTask(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, edit, complete or delete a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTaskAdd(cmd, rt)
	addTaskEdit(cmd, rt)
	addTaskShow(cmd, rt)
	addTaskDone(cmd, rt)
	addTaskRemove(cmd, rt)
	topLevel.AddCommand(cmd)
}

func addTaskAdd(parent *cobra.Command, rt *runtime) {
	to := &options.TaskOptions{}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Example: `
focusflow task add Buy milk --category Errands --priority low --due 2024-06-01
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := to.Merge(cmd, service.TaskInput{})
			if len(args) > 0 {
				in.Title = strings.Join(args, " ")
			}
			res, err := rt.store.CreateTask(cmd.Context(), in)
			if err != nil {
				return rt.output.HandleError(err)
			}
			rt.warn(res)
			task, _ := rt.store.Task(res.ID)
			return rt.done(fmt.Sprintf("Added task %s", printers.ShortID(res.ID)), task)
		},
	}

	options.AddTaskArgs(cmd, to)
	registerCategoryCompletion(cmd, rt)
	parent.AddCommand(cmd)
}

func addTaskEdit(parent *cobra.Command, rt *runtime) {
	to := &options.TaskOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		Example: `
focusflow task edit 3f2a --due 2024-06-10 --priority high
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.store
			id, err := s.ResolveTaskID(args[0])
			if err != nil {
				return rt.output.HandleError(err)
			}
			cur, _ := s.Task(id)
			res, err := s.UpdateTask(cmd.Context(), id, to.Merge(cmd, service.InputFromTask(cur)))
			if err != nil {
				return rt.output.HandleError(err)
			}
			rt.warn(res)
			task, _ := s.Task(id)
			return rt.done("Task updated", task)
		},
	}

	options.AddTaskArgs(cmd, to)
	registerCategoryCompletion(cmd, rt)
	parent.AddCommand(cmd)
}

func addTaskShow(parent *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.store.ResolveTaskID(args[0])
			if err != nil {
				return rt.output.HandleError(err)
			}
			task, _ := rt.store.Task(id)
			if rt.output.JSON {
				return rt.output.Print(task)
			}
			rt.pp.Task(task)
			return nil
		},
	}
	parent.AddCommand(cmd)
}

func addTaskDone(parent *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:     "done <id>",
		Short:   "Toggle whether a task is completed",
		Aliases: []string{"toggle"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.store.ResolveTaskID(args[0])
			if err != nil {
				return rt.output.HandleError(err)
			}
			task, err := rt.store.ToggleTaskComplete(cmd.Context(), id)
			if err != nil {
				return rt.output.HandleError(err)
			}
			msg := fmt.Sprintf("Completed %q", task.Title)
			if !task.Completed {
				msg = fmt.Sprintf("Reopened %q", task.Title)
			}
			return rt.done(msg, task)
		},
	}
	parent.AddCommand(cmd)
}

func addTaskRemove(parent *cobra.Command, rt *runtime) {
	uo := &options.UndoOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Short:   "Delete a task",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.store
			id, err := s.ResolveTaskID(args[0])
			if err != nil {
				return rt.output.HandleError(err)
			}
			task, ok := s.DeleteTask(cmd.Context(), id)
			if !ok {
				return nil
			}
			if uo.NoUndo || rt.output.JSON {
				return rt.done("Task deleted", task)
			}
			rt.offerUndo(cmd.Context(), fmt.Sprintf("task %q", task.Title), func(ctx context.Context) bool {
				_, ok := s.UndoDeleteTask(ctx, task.ID)
				return ok
			})
			return nil
		},
	}

	options.AddUndoArgs(cmd, uo)
	parent.AddCommand(cmd)
}

func registerCategoryCompletion(cmd *cobra.Command, rt *runtime) {
	_ = cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		if rt.store == nil {
			return model.DefaultCategories, cobra.ShellCompDirectiveNoFileComp
		}
		return rt.store.Categories(), cobra.ShellCompDirectiveNoFileComp
	})
}
