package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"focusflow/internal/view"
)

type monthView struct {
	Year   int            `json:"year"`
	Month  int            `json:"month"`
	Cells  []view.DayCell `json:"cells"`
	Drawer *view.Drawer   `json:"drawer,omitempty"`
}

func addCal(topLevel *cobra.Command, rt *runtime) {
	var prev, next, today bool

	cmd := &cobra.Command{
		Use:   "cal [YYYY-MM]",
		Short: "Show the month grid",
		Long: `Show the six-week month grid. Without arguments the month last shown is
printed again, so --prev and --next page from there.`,
		Args: cobra.MaximumNArgs(1),
		Example: `
focusflow cal
focusflow cal 2024-06
focusflow cal --next
focusflow cal --today
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.store
			ctx := cmd.Context()
			switch {
			case len(args) == 1:
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return rt.output.HandleError(fmt.Errorf("month must be YYYY-MM: %q", args[0]))
				}
				s.SetMonth(ctx, t.Year(), t.Month())
			case today:
				s.GoToday(ctx)
			case prev:
				s.ShiftMonth(ctx, -1)
			case next:
				s.ShiftMonth(ctx, 1)
			}

			ui := s.UI()
			year, month := ui.Calendar.Year, time.Month(ui.Calendar.Month+1)
			mv := monthView{Year: year, Month: int(month), Cells: s.Month()}
			if ui.Calendar.DrawerOpen {
				d := s.Drawer("")
				mv.Drawer = &d
			}
			if rt.output.JSON {
				return rt.output.Print(mv)
			}
			rt.pp.Month(year, month, mv.Cells)
			if mv.Drawer != nil {
				rt.pp.Drawer(*mv.Drawer)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prev, "prev", false, "Go back one month.")
	cmd.Flags().BoolVar(&next, "next", false, "Go forward one month.")
	cmd.Flags().BoolVar(&today, "today", false, "Jump to the current month and select today.")
	cmd.MarkFlagsMutuallyExclusive("prev", "next", "today")
	topLevel.AddCommand(cmd)
}

func addDay(topLevel *cobra.Command, rt *runtime) {
	var closeDrawer bool

	cmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show the events and due tasks of one day",
		Long: `Select a day and show what happens on it. Without arguments the
selected day is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.store
			if closeDrawer {
				s.CloseDrawer(cmd.Context())
				return rt.done("Day panel closed", s.UI().Calendar)
			}
			if len(args) == 1 {
				if err := s.SelectDate(cmd.Context(), args[0]); err != nil {
					return rt.output.HandleError(err)
				}
			}
			d := s.Drawer("")
			if rt.output.JSON {
				return rt.output.Print(d)
			}
			rt.pp.Drawer(d)
			return nil
		},
	}

	cmd.Flags().BoolVar(&closeDrawer, "close", false, "Close the day panel shown under the month grid.")
	topLevel.AddCommand(cmd)
}
