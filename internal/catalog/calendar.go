package catalog

import (
	"fmt"
	"time"
)

// Weekdays are the calendar column headers, Sunday first
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// YearMonth identifies a calendar month
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Prev returns the month before ym
func (ym YearMonth) Prev() YearMonth {
	return monthOf(time.Date(ym.Year, ym.Month-1, 1, 0, 0, 0, 0, time.UTC))
}

// Next returns the month after ym
func (ym YearMonth) Next() YearMonth {
	return monthOf(time.Date(ym.Year, ym.Month+1, 1, 0, 0, 0, 0, time.UTC))
}

func monthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth reads a YYYY-MM month
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return monthOf(t), nil
}

// CalendarCell is one grid cell. Blank cells pad the first week and have Day 0.
type CalendarCell struct {
	Day   int            `json:"day,omitempty"`
	Date  string         `json:"date,omitempty"`
	Today bool           `json:"today,omitempty"`
	Event *LearningEvent `json:"event,omitempty"`
}

// Blank reports whether the cell is leading padding
func (c CalendarCell) Blank() bool { return c.Day == 0 }

// CalendarMonth is a month laid out as a Sunday-first grid
type CalendarMonth struct {
	YearMonth
	Title    string         `json:"title"`
	Weekdays [7]string      `json:"weekdays"`
	Cells    []CalendarCell `json:"cells"`
	Prev     YearMonth      `json:"prev"`
	Next     YearMonth      `json:"next"`
}

// Month builds the grid for ym; today is compared by calendar date in its own location
func (c *Catalog) Month(ym YearMonth, today time.Time) CalendarMonth {
	first := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
	numDays := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())
	todayKey := today.Format(dateLayout)

	cells := make([]CalendarCell, lead, lead+numDays)
	for day := 1; day <= numDays; day++ {
		key := time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
		cell := CalendarCell{Day: day, Date: key, Today: key == todayKey}
		if e, ok := c.EventOn(key); ok {
			cell.Event = &e
		}
		cells = append(cells, cell)
	}

	norm := monthOf(first)
	return CalendarMonth{
		YearMonth: norm,
		Title:     first.Format("January 2006"),
		Weekdays:  Weekdays,
		Cells:     cells,
		Prev:      norm.Prev(),
		Next:      norm.Next(),
	}
}
