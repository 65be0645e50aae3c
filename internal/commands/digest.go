package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"focusflow/internal/calendar"
	"focusflow/internal/service"
)

func addDigest(topLevel *cobra.Command, rt *runtime) {
	var on string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print today's events, due tasks and overdue tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := rt.store.Now()
			if on != "" {
				day, err := calendar.ParseISO(on)
				if err != nil {
					return rt.output.HandleError(service.ErrInvalidDate)
				}
				now = day
			}
			d := service.NewReminderService(rt.store).DailySummary(now)
			if rt.output.JSON {
				return rt.output.Print(d)
			}
			_, err := fmt.Fprintln(rt.output.Out, d.Text())
			return err
		},
	}

	cmd.Flags().StringVar(&on, "on", "", `Digest for another date, example: --on="2024-06-01".`)
	topLevel.AddCommand(cmd)
}
