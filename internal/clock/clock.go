// Package clock is the single source of "now" and of the calendar-day keys
// derived from it. Days are taken from the server's local time, not UTC.
package clock

import (
	"time"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
)

type Clock interface {
	Now() time.Time
}

// Func adapts a function to Clock
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// System reads the local wall clock
var System Clock = Func(time.Now)

// Fixed always returns the same instant
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Today is the day key for c.Now()
func Today(c Clock) string {
	return c.Now().Format(model.DayLayout)
}

// Yesterday is the day key for the calendar day before c.Now()
func Yesterday(c Clock) string {
	return c.Now().AddDate(0, 0, -1).Format(model.DayLayout)
}

// StartOfDay is local midnight of c.Now()
func StartOfDay(c Clock) time.Time {
	now := c.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
