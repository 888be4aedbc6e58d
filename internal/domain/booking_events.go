package domain

import "time"

// Arrival records that the person arrived at the bedspace
type Arrival struct {
	RecordMeta
	ArrivalDate           time.Time
	ExpectedDepartureDate time.Time
	Notes                 *string
}

// Departure records that the person left the bedspace
type Departure struct {
	RecordMeta
	DepartureDate  time.Time
	Reason         string
	MoveOnCategory *string
	Notes          *string
}

// Cancellation records that the booking will no longer count as an occupation
type Cancellation struct {
	RecordMeta
	Date   time.Time
	Reason string
	Notes  *string
}

// NonArrival records that the person never arrived; at most one per booking
type NonArrival struct {
	RecordMeta
	Date   time.Time
	Reason string
	Notes  *string
}

// Confirmation records that a provisional booking was confirmed; at most one per booking
type Confirmation struct {
	RecordMeta
	Notes *string
}

// Extension is the audit entry of a date change on a booking
type Extension struct {
	RecordMeta
	PreviousArrivalDate   time.Time
	NewArrivalDate        time.Time
	PreviousDepartureDate time.Time
	NewDepartureDate      time.Time
	Notes                 *string
}

// Turnaround is the number of working days the bedspace stays empty after departure
type Turnaround struct {
	RecordMeta
	WorkingDayCount int
}
