// Package turnaround computes when a bedspace can be re-let after a departure.
package turnaround

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// WorkingDays is the calendar capability the scheduler needs.
type WorkingDays interface {
	AddWorkingDays(d time.Time, n int) time.Time
}

// Scheduler turns departure dates and turnaround lengths into re-letting dates.
type Scheduler struct {
	days WorkingDays
}

// NewScheduler creates a scheduler over the given working-day calendar.
func NewScheduler(days WorkingDays) *Scheduler {
	return &Scheduler{days: days}
}

// EndDate returns departure advanced by workingDays working days.
// Zero (or a negative count) returns the departure date itself.
func (s *Scheduler) EndDate(departure time.Time, workingDays int) time.Time {
	departure = domain.TruncateDay(departure)
	if workingDays <= 0 {
		return departure
	}
	return s.days.AddWorkingDays(departure, workingDays)
}

// EffectiveEndDate is the last day the booking keeps its bedspace blocked: the turnaround
// end when the authoritative turnaround is positive, the departure date otherwise.
func (s *Scheduler) EffectiveEndDate(b *domain.Booking) time.Time {
	return s.EndDate(b.DepartureDate, b.TurnaroundWorkingDays())
}

// BlockedRange is the booking's stay extended by its turnaround.
func (s *Scheduler) BlockedRange(b *domain.Booking) domain.DateRange {
	return domain.DateRange{Start: domain.TruncateDay(b.ArrivalDate), End: s.EffectiveEndDate(b)}
}

// HasElapsed reports whether a positive turnaround ended strictly before asOf.
// A booking without a turnaround, or with a zero-day one, never has an elapsing turnaround.
func (s *Scheduler) HasElapsed(b *domain.Booking, asOf time.Time) bool {
	n := b.TurnaroundWorkingDays()
	if n <= 0 {
		return false
	}
	return s.EndDate(b.DepartureDate, n).Before(domain.TruncateDay(asOf))
}

// IsRunning reports whether a positive turnaround is still in progress on asOf.
func (s *Scheduler) IsRunning(b *domain.Booking, asOf time.Time) bool {
	return b.TurnaroundWorkingDays() > 0 && !s.HasElapsed(b, asOf)
}
