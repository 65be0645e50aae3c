// Package calendar computes the fixed six-week month grid and the small amount
// of date arithmetic the views need.
package calendar

import (
	"fmt"
	"time"
)

const (
	// GridWeeks is fixed so the grid never changes height between months.
	GridWeeks = 6
	GridCells = GridWeeks * 7
)

// Cell is one day in the month grid.
type Cell struct {
	Date       string     `json:"date"`
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`
	Day        int        `json:"day"`
	OtherMonth bool       `json:"otherMonth"`
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartWeekday is the Monday-based (Monday=0..Sunday=6) weekday of the 1st.
func StartWeekday(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// ShiftMonth moves delta months from year/month, wrapping across years.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	idx := year*12 + int(month-1) + delta
	y := idx / 12
	m := idx % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, time.Month(m + 1)
}

// ISODate formats a calendar date as YYYY-MM-DD.
func ISODate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseISO parses a YYYY-MM-DD date in UTC.
func ParseISO(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Today returns the local calendar date of now as YYYY-MM-DD.
func Today(now time.Time) string {
	y, m, d := now.Date()
	return ISODate(y, m, d)
}

// MonthTitle renders "June 2024".
func MonthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

// BuildGrid returns the 42 Monday-first cells covering month, with leading and
// trailing days borrowed from the adjacent months.
func BuildGrid(year int, month time.Month) []Cell {
	start := StartWeekday(year, month)
	dim := DaysIn(year, month)
	prevYear, prevMonth := ShiftMonth(year, month, -1)
	nextYear, nextMonth := ShiftMonth(year, month, 1)
	dimPrev := DaysIn(prevYear, prevMonth)

	cells := make([]Cell, GridCells)
	for i := range cells {
		day := i - start + 1
		c := Cell{Year: year, Month: month, Day: day}
		switch {
		case day < 1:
			c = Cell{Year: prevYear, Month: prevMonth, Day: dimPrev + day, OtherMonth: true}
		case day > dim:
			c = Cell{Year: nextYear, Month: nextMonth, Day: day - dim, OtherMonth: true}
		}
		c.Date = ISODate(c.Year, c.Month, c.Day)
		cells[i] = c
	}
	return cells
}
