// Package calendar answers working-day questions against a fixed set of non-working days.
package calendar

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// Calendar is an immutable snapshot of non-working days: weekends plus public holidays.
// It is safe for concurrent use.
type Calendar struct {
	holidays map[time.Time]struct{}
	weekend  map[time.Weekday]struct{}
}

// New builds a calendar with Saturday and Sunday as weekend days.
func New(holidays []time.Time) *Calendar {
	return NewWithWeekend(holidays, time.Saturday, time.Sunday)
}

// NewWithWeekend builds a calendar with a custom set of weekend days.
func NewWithWeekend(holidays []time.Time, weekend ...time.Weekday) *Calendar {
	c := &Calendar{
		holidays: make(map[time.Time]struct{}, len(holidays)),
		weekend:  make(map[time.Weekday]struct{}, len(weekend)),
	}
	for _, h := range holidays {
		c.holidays[domain.TruncateDay(h)] = struct{}{}
	}
	for _, d := range weekend {
		c.weekend[d] = struct{}{}
	}
	return c
}

// IsWorkingDay reports whether d is neither a weekend day nor a holiday.
func (c *Calendar) IsWorkingDay(d time.Time) bool {
	d = domain.TruncateDay(d)
	if _, ok := c.weekend[d.Weekday()]; ok {
		return false
	}
	_, holiday := c.holidays[d]
	return !holiday
}

// AddWorkingDays returns the n-th working day after d. n = 0 returns d itself even when
// d is not a working day; a negative n walks backwards.
func (c *Calendar) AddWorkingDays(d time.Time, n int) time.Time {
	d = domain.TruncateDay(d)
	if n == 0 {
		return d
	}

	step := 1
	if n < 0 {
		step, n = -1, -n
	}
	if len(c.weekend) == 7 {
		// Every day is a weekend day, there is no working day to reach.
		return d
	}

	for added := 0; added < n; {
		d = d.AddDate(0, 0, step)
		if c.IsWorkingDay(d) {
			added++
		}
	}
	return d
}

// WorkingDaysBetween counts working days in (from, to].
func (c *Calendar) WorkingDaysBetween(from, to time.Time) int {
	from, to = domain.TruncateDay(from), domain.TruncateDay(to)
	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}

// Holidays returns the configured holidays in ascending order.
func (c *Calendar) Holidays() []time.Time {
	out := make([]time.Time, 0, len(c.holidays))
	for h := range c.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
