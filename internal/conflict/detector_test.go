package conflict

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AccommodationService/internal/calendar"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/turnaround"
)

func dr(start, end time.Time) domain.DateRange {
	return domain.DateRange{Start: start, End: end}
}

func booking(id, bedspaceID int64, arrival, departure time.Time) domain.Booking {
	return domain.Booking{
		ID:            id,
		CRN:           "X123456",
		BedspaceID:    bedspaceID,
		ArrivalDate:   arrival,
		DepartureDate: departure,
	}
}

func withTurnaround(b domain.Booking, days int) domain.Booking {
	b.Turnarounds = append(b.Turnarounds, domain.Turnaround{
		RecordMeta:      domain.RecordMeta{ID: 1, BookingID: b.ID, CreatedAt: time.Unix(0, 0)},
		WorkingDayCount: days,
	})
	return b
}

func cancelled(b domain.Booking) domain.Booking {
	b.Cancellations = append(b.Cancellations, domain.Cancellation{
		RecordMeta: domain.RecordMeta{ID: 1, BookingID: b.ID},
		Reason:     "withdrawn",
	})
	return b
}

func TestOverlaps_ClosedIntervals(t *testing.T) {
	cases := []struct {
		name string
		a, b domain.DateRange
		want bool
	}{
		{"disjoint", dr(domain.Date(2024, 1, 1), domain.Date(2024, 1, 4)), dr(domain.Date(2024, 1, 5), domain.Date(2024, 1, 8)), false},
		{"shared boundary day", dr(domain.Date(2024, 1, 5), domain.Date(2024, 1, 8)), dr(domain.Date(2024, 1, 8), domain.Date(2024, 1, 12)), true},
		{"contained", dr(domain.Date(2024, 1, 1), domain.Date(2024, 1, 31)), dr(domain.Date(2024, 1, 10), domain.Date(2024, 1, 11)), true},
		{"single day ranges", dr(domain.Date(2024, 1, 3), domain.Date(2024, 1, 3)), dr(domain.Date(2024, 1, 3), domain.Date(2024, 1, 3)), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
			assert.Equal(t, Overlaps(tc.a, tc.b), Overlaps(tc.b, tc.a), "overlap must be symmetric")
		})
	}
}

func TestDetector_BoundaryDayConflicts(t *testing.T) {
	bs := &domain.Bedspace{ID: 10, StartDate: domain.Date(2023, 1, 1)}
	existing := booking(1, 10, domain.Date(2024, 1, 5), domain.Date(2024, 1, 8))
	intervals := Collect([]domain.Booking{existing}, nil, nil)

	res := NewDetector().Check(bs, dr(domain.Date(2024, 1, 8), domain.Date(2024, 1, 12)), intervals, nil)

	assert.True(t, res.HasConflict())
	assert.False(t, res.IsArchived())
	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalBooking, ID: 1}}, res.Refs())

	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.False(t, errors.Is(err, domain.ErrBedspaceArchived))
}

func TestDetector_CancelledVoidDoesNotConflict(t *testing.T) {
	bs := &domain.Bedspace{ID: 20, StartDate: domain.Date(2023, 1, 1)}
	void := domain.VoidPeriod{
		ID:           7,
		BedspaceID:   20,
		StartDate:    domain.Date(2024, 2, 1),
		EndDate:      domain.Date(2024, 2, 5),
		Cancellation: &domain.VoidCancellation{ID: 1, VoidID: 7},
	}
	intervals := Collect(nil, []domain.VoidPeriod{void}, nil)

	assert.False(t, NewDetector().HasConflict(bs, dr(domain.Date(2024, 2, 2), domain.Date(2024, 2, 4)), intervals, nil))

	void.Cancellation = nil
	intervals = Collect(nil, []domain.VoidPeriod{void}, nil)
	res := NewDetector().Check(bs, dr(domain.Date(2024, 2, 2), domain.Date(2024, 2, 4)), intervals, nil)
	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalVoid, ID: 7}}, res.Refs())
}

func TestDetector_CancelledBookingDoesNotConflict(t *testing.T) {
	bs := &domain.Bedspace{ID: 10, StartDate: domain.Date(2023, 1, 1)}
	existing := cancelled(booking(1, 10, domain.Date(2024, 1, 5), domain.Date(2024, 1, 8)))

	ok := NewDetector().HasConflict(bs, dr(domain.Date(2024, 1, 6), domain.Date(2024, 1, 7)), Collect([]domain.Booking{existing}, nil, nil), nil)

	assert.False(t, ok)
}

func TestDetector_ArchivedBedspace(t *testing.T) {
	end := domain.Date(2024, 3, 1)
	bs := &domain.Bedspace{ID: 30, StartDate: domain.Date(2023, 1, 1), EndDate: &end}

	res := NewDetector().Check(bs, dr(domain.Date(2024, 3, 1), domain.Date(2024, 3, 5)), nil, nil)

	assert.True(t, res.HasConflict())
	assert.True(t, res.IsArchived())
	assert.Empty(t, res.Conflicts)
	err := res.Err()
	assert.True(t, errors.Is(err, domain.ErrBedspaceArchived))
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var ce *domain.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, end, *ce.ArchivedFrom)

	before := NewDetector().Check(bs, dr(domain.Date(2024, 2, 20), domain.Date(2024, 2, 29)), nil, nil)
	assert.False(t, before.HasConflict())
}

func TestDetector_ExcludesOwnInterval(t *testing.T) {
	bs := &domain.Bedspace{ID: 10, StartDate: domain.Date(2023, 1, 1)}
	own := booking(1, 10, domain.Date(2024, 1, 5), domain.Date(2024, 1, 8))
	other := booking(2, 10, domain.Date(2024, 1, 20), domain.Date(2024, 1, 25))
	intervals := Collect([]domain.Booking{own, other}, nil, nil)
	self := domain.IntervalRef{Kind: domain.IntervalBooking, ID: 1}

	assert.False(t, NewDetector().HasConflict(bs, dr(domain.Date(2024, 1, 5), domain.Date(2024, 1, 12)), intervals, &self))

	res := NewDetector().Check(bs, dr(domain.Date(2024, 1, 5), domain.Date(2024, 1, 20)), intervals, &self)
	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalBooking, ID: 2}}, res.Refs())
}

func TestDetector_VoidAndBookingIdsDoNotCollide(t *testing.T) {
	bs := &domain.Bedspace{ID: 10, StartDate: domain.Date(2023, 1, 1)}
	b := booking(5, 10, domain.Date(2024, 1, 1), domain.Date(2024, 1, 3))
	v := domain.VoidPeriod{ID: 5, BedspaceID: 10, StartDate: domain.Date(2024, 1, 3), EndDate: domain.Date(2024, 1, 4)}
	self := domain.IntervalRef{Kind: domain.IntervalBooking, ID: 5}

	res := NewDetector().Check(bs, dr(domain.Date(2024, 1, 1), domain.Date(2024, 1, 4)), Collect([]domain.Booking{b}, []domain.VoidPeriod{v}, nil), &self)

	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalVoid, ID: 5}}, res.Refs())
}

func TestDetector_IgnoresOtherBedspaces(t *testing.T) {
	bs := &domain.Bedspace{ID: 10, StartDate: domain.Date(2023, 1, 1)}
	elsewhere := booking(1, 11, domain.Date(2024, 1, 5), domain.Date(2024, 1, 8))

	assert.False(t, NewDetector().HasConflict(bs, dr(domain.Date(2024, 1, 5), domain.Date(2024, 1, 8)), Collect([]domain.Booking{elsewhere}, nil, nil), nil))
}

func TestDetector_TurnaroundBlocksBedspace(t *testing.T) {
	bs := &domain.Bedspace{ID: 10, StartDate: domain.Date(2023, 1, 1)}
	sched := turnaround.NewScheduler(calendar.New(nil))
	// Departs Wednesday 2024-01-10, two working days keep the bedspace empty until Friday.
	existing := withTurnaround(booking(1, 10, domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)), 2)
	intervals := Collect([]domain.Booking{existing}, nil, sched)

	blocked := NewDetector().Check(bs, dr(domain.Date(2024, 1, 12), domain.Date(2024, 1, 20)), intervals, nil)
	require.Len(t, blocked.Conflicts, 1)
	assert.True(t, blocked.Conflicts[0].IsTurnaroundOnly(blocked.Candidate))

	assert.False(t, NewDetector().HasConflict(bs, dr(domain.Date(2024, 1, 13), domain.Date(2024, 1, 20)), intervals, nil))
}
