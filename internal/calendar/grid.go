// Package calendar builds the fixed six-week month grid and tracks which day
// is selected and which fetched summary belongs on screen.
package calendar

import (
	"time"

	"github.com/julianstephens/dailylog/internal/constants"
)

// Cell is one slot of the grid. Empty cells pad the month to full weeks.
type Cell struct {
	Date  time.Time
	Empty bool
}

// BuildGrid returns exactly 42 cells for the month, weeks starting on Sunday.
func BuildGrid(year int, month time.Month, loc *time.Location) []Cell {
	if loc == nil {
		loc = time.Local
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()
	lead := int(monthStart.Weekday())

	cells := make([]Cell, 0, constants.CalendarCells)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Empty: true})
	}
	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, Cell{Date: time.Date(year, month, day, 0, 0, 0, 0, loc)})
	}
	for len(cells) < constants.CalendarCells {
		cells = append(cells, Cell{Empty: true})
	}
	return cells
}

// DateAt truncates t to midnight in loc.
func DateAt(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func key(t time.Time) string {
	return t.Format(constants.DateFormat)
}
