package domain

import (
	"fmt"
	"time"
)

// DateRange is a closed interval of calendar dates: both Start and End are occupied days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a normalized range and rejects End before Start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: TruncateDay(start), End: TruncateDay(end)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate reports a ValidationError when the range is empty or inverted.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			ErrValidation, r.End.Format(DateFormat), r.Start.Format(DateFormat))
	}
	return nil
}

// Overlaps reports whether two closed ranges share at least one calendar day.
// Touching endpoints count: [1,5] and [5,9] overlap on day 5.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	d = TruncateDay(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days in the range, endpoints included.
func (r DateRange) Days() int {
	return daysBetween(r.Start, r.End) + 1
}

// OverlapDays returns min(r.End, o.End) - max(r.Start, o.Start) + 1, or 0 when disjoint.
func (r DateRange) OverlapDays(o DateRange) int {
	n := daysBetween(MaxDate(r.Start, o.Start), MinDate(r.End, o.End)) + 1
	if n < 0 {
		return 0
	}
	return n
}

func (r DateRange) String() string {
	return r.Start.Format(DateFormat) + ".." + r.End.Format(DateFormat)
}

func daysBetween(from, to time.Time) int {
	return int(TruncateDay(to).Sub(TruncateDay(from)).Hours() / 24)
}
