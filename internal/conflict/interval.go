package conflict

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// Interval is one occupation of a bedspace, reduced to what the detector compares.
type Interval struct {
	Ref        domain.IntervalRef
	BedspaceID int64

	// Stay is the booked or void range itself
	Stay domain.DateRange

	// Blocked is the range kept unavailable: Stay extended by the booking turnaround
	Blocked domain.DateRange

	// CRN is the occupant case reference, empty for voids
	CRN    string
	Active bool
}

// IsTurnaroundOnly reports whether r touches the interval only through its turnaround buffer.
func (i Interval) IsTurnaroundOnly(r domain.DateRange) bool {
	return i.Blocked.Overlaps(r) && !i.Stay.Overlaps(r)
}

// EndDater returns the last blocked day of a booking, turnaround included.
type EndDater interface {
	EffectiveEndDate(b *domain.Booking) time.Time
}

// FromBooking converts a booking. Cancelled bookings produce an inactive interval.
func FromBooking(b *domain.Booking, ends EndDater) Interval {
	stay := domain.DateRange{Start: domain.TruncateDay(b.ArrivalDate), End: domain.TruncateDay(b.DepartureDate)}
	blocked := stay
	if ends != nil {
		blocked.End = domain.MaxDate(stay.End, ends.EffectiveEndDate(b))
	}
	return Interval{
		Ref:        domain.IntervalRef{Kind: domain.IntervalBooking, ID: b.ID},
		BedspaceID: b.BedspaceID,
		Stay:       stay,
		Blocked:    blocked,
		CRN:        b.CRN,
		Active:     b.IsActive(),
	}
}

// FromVoid converts a void period. Cancelled voids produce an inactive interval.
func FromVoid(v *domain.VoidPeriod) Interval {
	r := domain.DateRange{Start: domain.TruncateDay(v.StartDate), End: domain.TruncateDay(v.EndDate)}
	return Interval{
		Ref:        domain.IntervalRef{Kind: domain.IntervalVoid, ID: v.ID},
		BedspaceID: v.BedspaceID,
		Stay:       r,
		Blocked:    r,
		Active:     v.IsActive(),
	}
}

// Collect converts bookings and voids into a single interval set.
func Collect(bookings []domain.Booking, voids []domain.VoidPeriod, ends EndDater) []Interval {
	out := make([]Interval, 0, len(bookings)+len(voids))
	for i := range bookings {
		out = append(out, FromBooking(&bookings[i], ends))
	}
	for i := range voids {
		out = append(out, FromVoid(&voids[i]))
	}
	return out
}

// GroupByBedspace indexes intervals by their bedspace.
func GroupByBedspace(intervals []Interval) map[int64][]Interval {
	out := make(map[int64][]Interval)
	for _, i := range intervals {
		out[i.BedspaceID] = append(out[i.BedspaceID], i)
	}
	return out
}
