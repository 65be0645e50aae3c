package options

import (
	"github.com/spf13/cobra"

	"focusflow/internal/model"
	"focusflow/internal/service"
)

// EventOptions
type EventOptions struct {
	Title    string
	Date     string
	Start    string
	End      string
	Location string
	Notes    string
	Color    string
}

func AddEventArgs(cmd *cobra.Command, o *EventOptions) {
	cmd.Flags().StringVar(&o.Title, "title", "",
		"Event title.")
	cmd.Flags().StringVar(&o.Date, "on", "",
		`Date of the event, example: --on="2024-06-01".`)
	cmd.Flags().StringVar(&o.Start, "start", "",
		`Start time, example: --start="09:30".`)
	cmd.Flags().StringVar(&o.End, "end", "",
		`End time, example: --end="10:15".`)
	cmd.Flags().StringVarP(&o.Location, "location", "l", "",
		"Where it happens.")
	cmd.Flags().StringVarP(&o.Notes, "notes", "n", "",
		"Free-form notes.")
	cmd.Flags().StringVar(&o.Color, "color", "",
		"One of blue, pink, green, orange, purple.")
}

// Merge overlays the flags the user actually set onto base.
func (o *EventOptions) Merge(cmd *cobra.Command, base service.EventInput) service.EventInput {
	f := cmd.Flags()
	if f.Changed("title") {
		base.Title = o.Title
	}
	if f.Changed("on") {
		base.Date = o.Date
	}
	if f.Changed("start") {
		base.StartTime = o.Start
	}
	if f.Changed("end") {
		base.EndTime = o.End
	}
	if f.Changed("location") {
		base.Location = o.Location
	}
	if f.Changed("notes") {
		base.Notes = o.Notes
	}
	if f.Changed("color") {
		base.Color = o.Color
	}
	return base
}

// ColorNames lists the values --color accepts, for completion.
func ColorNames() []string {
	out := make([]string, len(model.Colors))
	for i, c := range model.Colors {
		out[i] = string(c)
	}
	return out
}
