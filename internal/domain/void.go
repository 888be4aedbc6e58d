package domain

import "time"

// VoidPeriod is an interval during which a bedspace is deliberately out of service
type VoidPeriod struct {
	ID         int64
	BedspaceID int64
	PremisesID int64
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Notes      *string

	Cancellation *VoidCancellation

	CreatedAt time.Time
}

// VoidCancellation makes a void period inactive
type VoidCancellation struct {
	ID        int64
	VoidID    int64
	Notes     *string
	CreatedAt time.Time
}

// Range returns the void period as a closed date range
func (v *VoidPeriod) Range() DateRange {
	return DateRange{Start: v.StartDate, End: v.EndDate}
}

// IsActive returns true if the void has not been cancelled
func (v *VoidPeriod) IsActive() bool {
	return v.Cancellation == nil
}
