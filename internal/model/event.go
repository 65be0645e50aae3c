package model

import "strings"

// Color tags an event in the calendar.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorPink   Color = "pink"
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorPurple Color = "purple"
)

// Colors lists every accepted event color.
var Colors = []Color{ColorBlue, ColorPink, ColorGreen, ColorOrange, ColorPurple}

// ParseColor returns the color named by s, falling back to blue.
func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Colors {
		if c == known {
			return c, true
		}
	}
	return ColorBlue, false
}

// Event is a dated calendar entry. StartTime and EndTime are "HH:MM" or empty.
type Event struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Date      string `json:"date" yaml:"date"`
	StartTime string `json:"startTime" yaml:"startTime"`
	EndTime   string `json:"endTime" yaml:"endTime"`
	Location  string `json:"location" yaml:"location"`
	Notes     string `json:"notes" yaml:"notes"`
	Color     Color  `json:"color" yaml:"color"`
	CreatedAt int64  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" yaml:"updatedAt"`
}

// TimeRange renders the start/end pair the way the day view shows it.
func (e Event) TimeRange() string {
	switch {
	case e.StartTime != "" && e.EndTime != "":
		return e.StartTime + "–" + e.EndTime
	case e.StartTime != "":
		return "Starts " + e.StartTime
	case e.EndTime != "":
		return "Ends " + e.EndTime
	default:
		return ""
	}
}
