// Package bookingstatus derives the lifecycle status of a booking from its record history.
package bookingstatus

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// TurnaroundClock answers whether a booking's turnaround is still running on a date.
type TurnaroundClock interface {
	HasElapsed(b *domain.Booking, asOf time.Time) bool
}

// Deriver computes booking status. It never reads the cached Booking.Status.
type Deriver struct {
	turnaround TurnaroundClock
}

// NewDeriver creates a deriver over the turnaround scheduler.
func NewDeriver(turnaround TurnaroundClock) *Deriver {
	return &Deriver{turnaround: turnaround}
}

// Derive returns the status of b as of today. Rules are evaluated top to bottom:
//
//	cancellation            -> cancelled
//	departure, running TA   -> departed
//	departure               -> closed
//	arrival                 -> arrived
//	non-arrival             -> not-arrived
//	confirmation            -> confirmed
//	otherwise               -> provisional
func (d *Deriver) Derive(b *domain.Booking, today time.Time) domain.BookingStatus {
	switch {
	case b.IsCancelled():
		return domain.StatusCancelled
	case b.HasDeparted():
		if b.TurnaroundWorkingDays() > 0 && !d.turnaround.HasElapsed(b, today) {
			return domain.StatusDeparted
		}
		return domain.StatusClosed
	case b.HasArrived():
		return domain.StatusArrived
	case b.NonArrival != nil:
		return domain.StatusNotArrived
	case b.Confirmation != nil:
		return domain.StatusConfirmed
	default:
		return domain.StatusProvisional
	}
}

// Refresh derives the status and stores it in the booking's status cache.
func (d *Deriver) Refresh(b *domain.Booking, today time.Time) domain.BookingStatus {
	b.Status = d.Derive(b, today)
	return b.Status
}
