package maintenance

import (
	"fmt"
	"time"
)

// GridCells is the fixed size of a month grid: six weeks of seven days.
const GridCells = 42

// Month identifies a displayed calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// CurrentMonth returns the month containing now in loc.
func CurrentMonth(now time.Time, loc *time.Location) Month {
	y, m, _ := now.In(location(loc)).Date()

	return Month{Year: y, Month: m}
}

// Valid reports whether m names a real month.
func (m Month) Valid() bool {
	return m.Month >= time.January && m.Month <= time.December
}

// Next returns the following month, rolling into the next year after December.
func (m Month) Next() Month {
	return m.shift(1)
}

// Previous returns the preceding month, rolling into the prior year before January.
func (m Month) Previous() Month {
	return m.shift(-1)
}

func (m Month) shift(n int) Month {
	idx := m.Year*12 + int(m.Month-time.January) + n
	y, mo := idx/12, idx%12

	if mo < 0 {
		y--
		mo += 12
	}

	return Month{Year: y, Month: time.January + time.Month(mo)}
}

// First returns midnight on the first day of m in loc.
func (m Month) First(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, location(loc))
}

// Days returns the number of days in m.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// DayCell is one cell of the month grid. Blank cells pad the grid before the
// first and after the last day of the month and have Day == 0.
type DayCell struct {
	Day      int       `json:"day"`
	Date     string    `json:"date,omitempty"`
	Requests []Request `json:"requests"`
}

// Blank reports whether c is padding rather than a day of the month.
func (c DayCell) Blank() bool {
	return c.Day == 0
}

// Project buckets requests by the local calendar day of CreatedAt within m.
//
// The grid starts on Sunday of the week containing the 1st. Requests created
// outside m are not placed anywhere; each of the others lands in exactly one
// cell, in input order.
func Project(requests []Request, m Month, loc *time.Location) [GridCells]DayCell {
	loc = location(loc)

	var grid [GridCells]DayCell
	for i := range grid {
		grid[i].Requests = []Request{}
	}

	if !m.Valid() {
		return grid
	}

	first := m.First(loc)
	offset := int(first.Weekday())
	days := m.Days()

	for d := 1; d <= days; d++ {
		cell := &grid[offset+d-1]
		cell.Day = d
		cell.Date = time.Date(m.Year, m.Month, d, 0, 0, 0, 0, loc).Format(time.DateOnly)
	}

	for _, r := range requests {
		y, mo, d := r.CreatedAt.In(loc).Date()
		if y != m.Year || mo != m.Month {
			continue
		}

		cell := &grid[offset+d-1]
		cell.Requests = append(cell.Requests, r)
	}

	return grid
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}

	return loc
}
