package domain

import "time"

// BookingStatus represents the derived lifecycle status of a booking
type BookingStatus string

const (
	StatusProvisional BookingStatus = "provisional"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusArrived     BookingStatus = "arrived"
	StatusDeparted    BookingStatus = "departed"
	StatusClosed      BookingStatus = "closed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusNotArrived  BookingStatus = "not-arrived"
)

// AllStatuses lists every status the state machine can produce
var AllStatuses = []BookingStatus{
	StatusProvisional,
	StatusConfirmed,
	StatusArrived,
	StatusDeparted,
	StatusClosed,
	StatusCancelled,
	StatusNotArrived,
}

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Booking represents one intended or completed occupation of a bedspace by a person
type Booking struct {
	ID         int64
	CRN        string // case reference of the person
	PremisesID int64
	BedspaceID int64

	ArrivalDate   time.Time
	DepartureDate time.Time

	// Dates as first booked, kept for audit when the stay is later moved or extended
	OriginalArrivalDate   time.Time
	OriginalDepartureDate time.Time

	// Version is the optimistic-concurrency counter, bumped on every write of the row
	Version int64

	// Status is a denormalized cache of the derived status, rebuilt on every mutation.
	// Read paths must derive the status again instead of trusting this value.
	Status BookingStatus

	Arrivals      []Arrival
	Departures    []Departure
	Cancellations []Cancellation
	NonArrival    *NonArrival
	Confirmation  *Confirmation
	Extensions    []Extension
	Turnarounds   []Turnaround

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the booked stay as a closed date range
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.ArrivalDate, End: b.DepartureDate}
}

// IsCancelled returns true once any cancellation has been recorded
func (b *Booking) IsCancelled() bool {
	return len(b.Cancellations) > 0
}

// IsActive returns true if the booking still occupies its bedspace
func (b *Booking) IsActive() bool {
	return !b.IsCancelled()
}

// HasDeparted returns true if a departure has been recorded
func (b *Booking) HasDeparted() bool {
	return len(b.Departures) > 0
}

// HasArrived returns true if an arrival has been recorded
func (b *Booking) HasArrived() bool {
	return len(b.Arrivals) > 0
}

// LatestArrival returns the authoritative arrival
func (b *Booking) LatestArrival() (Arrival, bool) {
	return Latest(b.Arrivals)
}

// LatestDeparture returns the authoritative departure
func (b *Booking) LatestDeparture() (Departure, bool) {
	return Latest(b.Departures)
}

// LatestCancellation returns the authoritative cancellation
func (b *Booking) LatestCancellation() (Cancellation, bool) {
	return Latest(b.Cancellations)
}

// LatestExtension returns the most recent date change
func (b *Booking) LatestExtension() (Extension, bool) {
	return Latest(b.Extensions)
}

// CurrentTurnaround returns the authoritative turnaround.
// The second result is false when no turnaround was ever recorded, which is a distinct
// state from an explicit zero-day turnaround.
func (b *Booking) CurrentTurnaround() (Turnaround, bool) {
	return Latest(b.Turnarounds)
}

// TurnaroundWorkingDays returns the authoritative turnaround length, 0 when absent
func (b *Booking) TurnaroundWorkingDays() int {
	t, ok := b.CurrentTurnaround()
	if !ok {
		return 0
	}
	return t.WorkingDayCount
}
