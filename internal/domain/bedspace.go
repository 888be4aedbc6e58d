package domain

import "time"

// Premises is a property containing one or more bedspaces
type Premises struct {
	ID   int64
	Name string

	// TurnaroundWorkingDays is the default turnaround for new bookings; nil = service default
	TurnaroundWorkingDays *int

	// EndDate archives the whole premises from this date on
	EndDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bedspace is a single lettable unit inside a premises
type Bedspace struct {
	ID         int64
	PremisesID int64
	Reference  string

	// StartDate is the first lettable date
	StartDate time.Time

	// EndDate is the first date the bedspace is archived, taking the premises archival
	// into account; nil when the bedspace is open-ended
	EndDate *time.Time

	Characteristics []string

	// PremisesTurnaroundWorkingDays is copied from the premises when loaded
	PremisesTurnaroundWorkingDays *int
}

// IsArchivedOn returns true if the bedspace is not lettable on date d because of archival
func (b *Bedspace) IsArchivedOn(d time.Time) bool {
	return b.EndDate != nil && !TruncateDay(d).Before(*b.EndDate)
}

// IsArchivedWithin returns true if archival starts on or before the last day of r
func (b *Bedspace) IsArchivedWithin(r DateRange) bool {
	return b.IsArchivedOn(r.End)
}

// IsOnlineFrom returns true if the bedspace is already lettable on date d
func (b *Bedspace) IsOnlineFrom(d time.Time) bool {
	return !TruncateDay(d).Before(b.StartDate)
}

// HasCharacteristic reports whether the bedspace carries the given tag
func (b *Bedspace) HasCharacteristic(tag string) bool {
	for _, c := range b.Characteristics {
		if c == tag {
			return true
		}
	}
	return false
}
