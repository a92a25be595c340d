package career

import (
	"fmt"

	"fightnight/utils"
)

// Calendar tracks the in-game month and the running event number. One event
// is held per month.
type Calendar struct {
	MonthIndex  int `db:"month_index" json:"month_index"`
	Year        int `db:"year" json:"year"`
	EventNumber int `db:"event_number" json:"event_number"`
}

func NewCalendar(year, eventNumber int) Calendar {
	return Calendar{Year: year, EventNumber: eventNumber}
}

func (c Calendar) IsJanuary() bool  { return c.MonthIndex == 0 }
func (c Calendar) IsDecember() bool { return c.MonthIndex == 11 }

// DateString renders the month as "JAN 2012".
func (c Calendar) DateString() string {
	return fmt.Sprintf("%s %d", utils.MonthName(c.MonthIndex), c.Year)
}

func (c Calendar) EventName(promotion string) string {
	return fmt.Sprintf("%s %d", promotion, c.EventNumber)
}

// Advance moves to the next month and event number.
func (c *Calendar) Advance() {
	c.MonthIndex++
	c.EventNumber++
	if c.MonthIndex > 11 {
		c.MonthIndex = 0
		c.Year++
	}
}
