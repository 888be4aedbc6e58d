package domain

import "time"

// Record is an immutable audit entry attached to a booking.
type Record interface {
	RecordID() int64
	RecordedAt() time.Time
}

// RecordMeta holds the identity and creation time shared by every booking sub-event.
type RecordMeta struct {
	ID        int64
	BookingID int64
	CreatedAt time.Time
}

// RecordID returns the record identifier.
func (m RecordMeta) RecordID() int64 { return m.ID }

// RecordedAt returns the record creation time.
func (m RecordMeta) RecordedAt() time.Time { return m.CreatedAt }

// Latest selects the authoritative record of a collection: the most recently created one.
// Records created at the same instant are ordered by ID, the higher ID wins.
func Latest[T Record](records []T) (T, bool) {
	var (
		best  T
		found bool
	)
	for _, r := range records {
		if !found || newer(r, best) {
			best = r
			found = true
		}
	}
	return best, found
}

func newer(a, b Record) bool {
	if a.RecordedAt().Equal(b.RecordedAt()) {
		return a.RecordID() > b.RecordID()
	}
	return a.RecordedAt().After(b.RecordedAt())
}
