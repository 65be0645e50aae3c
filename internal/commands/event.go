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

func addEvents(topLevel *cobra.Command, rt *runtime) {
	var on, month string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events",
		Example: `
focusflow events
focusflow events --month 2024-06
focusflow events --on 2024-06-01
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var events []model.Event
			for _, e := range rt.store.Events() {
				if on != "" && e.Date != on {
					continue
				}
				if month != "" && !strings.HasPrefix(e.Date, month+"-") {
					continue
				}
				events = append(events, e)
			}
			if rt.output.JSON {
				return rt.output.Print(events)
			}
			rt.pp.Events(events)
			return nil
		},
	}

	cmd.Flags().StringVar(&on, "on", "", `Only events on this date, example: --on="2024-06-01".`)
	cmd.Flags().StringVar(&month, "month", "", `Only events in this month, example: --month="2024-06".`)
	topLevel.AddCommand(cmd)
}

func addEvent(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Add, edit or delete an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addEventAdd(cmd, rt)
	addEventEdit(cmd, rt)
	addEventShow(cmd, rt)
	addEventRemove(cmd, rt)
	topLevel.AddCommand(cmd)
}

func addEventAdd(parent *cobra.Command, rt *runtime) {
	eo := &options.EventOptions{}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an event",
		Example: `
focusflow event add Dentist --on 2024-06-04 --start 09:00 --end 09:45 --color pink
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := eo.Merge(cmd, service.EventInput{})
			if len(args) > 0 {
				in.Title = strings.Join(args, " ")
			}
			res, err := rt.store.CreateEvent(cmd.Context(), in)
			if err != nil {
				return rt.output.HandleError(err)
			}
			e, _ := rt.store.Event(res.ID)
			return rt.done(fmt.Sprintf("Added event %s on %s", printers.ShortID(res.ID), e.Date), e)
		},
	}

	options.AddEventArgs(cmd, eo)
	registerColorCompletion(cmd)
	parent.AddCommand(cmd)
}

func addEventEdit(parent *cobra.Command, rt *runtime) {
	eo := &options.EventOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.store
			id, err := s.ResolveEventID(args[0])
			if err != nil {
				return rt.output.HandleError(err)
			}
			cur, _ := s.Event(id)
			if _, err := s.UpdateEvent(cmd.Context(), id, eo.Merge(cmd, service.InputFromEvent(cur))); err != nil {
				return rt.output.HandleError(err)
			}
			e, _ := s.Event(id)
			return rt.done("Event updated", e)
		},
	}

	options.AddEventArgs(cmd, eo)
	registerColorCompletion(cmd)
	parent.AddCommand(cmd)
}

func addEventShow(parent *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an event with the rest of its day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rt.store.ResolveEventID(args[0])
			if err != nil {
				return rt.output.HandleError(err)
			}
			e, _ := rt.store.Event(id)
			if rt.output.JSON {
				return rt.output.Print(e)
			}
			rt.pp.Events([]model.Event{e})
			rt.pp.Drawer(rt.store.Drawer(e.Date))
			return nil
		},
	}
	parent.AddCommand(cmd)
}

func addEventRemove(parent *cobra.Command, rt *runtime) {
	uo := &options.UndoOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Short:   "Delete an event",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.store
			id, err := s.ResolveEventID(args[0])
			if err != nil {
				return rt.output.HandleError(err)
			}
			e, ok := s.DeleteEvent(cmd.Context(), id)
			if !ok {
				return nil
			}
			if uo.NoUndo || rt.output.JSON {
				return rt.done("Event deleted", e)
			}
			rt.offerUndo(cmd.Context(), fmt.Sprintf("event %q", e.Title), func(ctx context.Context) bool {
				_, ok := s.UndoDeleteEvent(ctx, e.ID)
				return ok
			})
			return nil
		},
	}

	options.AddUndoArgs(cmd, uo)
	parent.AddCommand(cmd)
}

func registerColorCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("color", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return options.ColorNames(), cobra.ShellCompDirectiveNoFileComp
	})
}
