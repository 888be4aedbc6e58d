package bookingstatus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AccommodationService/internal/calendar"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/turnaround"
)

var created = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func meta(id int64) domain.RecordMeta {
	return domain.RecordMeta{ID: id, BookingID: 1, CreatedAt: created.Add(time.Duration(id) * time.Hour)}
}

func newBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		CRN:           "X320741",
		BedspaceID:    10,
		ArrivalDate:   domain.Date(2024, 1, 3),
		DepartureDate: domain.Date(2024, 1, 10),
	}
}

func departedWithTurnaround(days int) *domain.Booking {
	b := newBooking()
	b.Arrivals = []domain.Arrival{{RecordMeta: meta(1), ArrivalDate: b.ArrivalDate, ExpectedDepartureDate: b.DepartureDate}}
	b.Departures = []domain.Departure{{RecordMeta: meta(2), DepartureDate: domain.Date(2024, 1, 10), Reason: "planned move on"}}
	b.Turnarounds = []domain.Turnaround{{RecordMeta: meta(3), WorkingDayCount: days}}
	return b
}

func newDeriver() *Deriver {
	return NewDeriver(turnaround.NewScheduler(calendar.New(nil)))
}

func TestDeriver_Rules(t *testing.T) {
	today := domain.Date(2024, 1, 5)

	b := newBooking()
	assert.Equal(t, domain.StatusProvisional, newDeriver().Derive(b, today))

	b.Confirmation = &domain.Confirmation{RecordMeta: meta(1)}
	assert.Equal(t, domain.StatusConfirmed, newDeriver().Derive(b, today))

	b.NonArrival = &domain.NonArrival{RecordMeta: meta(2), Date: b.ArrivalDate, Reason: "did not attend"}
	assert.Equal(t, domain.StatusNotArrived, newDeriver().Derive(b, today), "non-arrival ranks above confirmation")

	b.NonArrival = nil
	b.Arrivals = []domain.Arrival{{RecordMeta: meta(3), ArrivalDate: b.ArrivalDate}}
	assert.Equal(t, domain.StatusArrived, newDeriver().Derive(b, today))
}

func TestDeriver_DepartedUntilTurnaroundElapses(t *testing.T) {
	b := departedWithTurnaround(2)

	assert.Equal(t, domain.StatusDeparted, newDeriver().Derive(b, domain.Date(2024, 1, 11)))
	assert.Equal(t, domain.StatusDeparted, newDeriver().Derive(b, domain.Date(2024, 1, 12)))
	assert.Equal(t, domain.StatusClosed, newDeriver().Derive(b, domain.Date(2024, 1, 15)))
}

func TestDeriver_ClosedWithoutTurnaround(t *testing.T) {
	zero := departedWithTurnaround(0)
	assert.Equal(t, domain.StatusClosed, newDeriver().Derive(zero, domain.Date(2024, 1, 10)))

	absent := departedWithTurnaround(0)
	absent.Turnarounds = nil
	assert.Equal(t, domain.StatusClosed, newDeriver().Derive(absent, domain.Date(2024, 1, 10)))
}

func TestDeriver_LatestTurnaroundIsAuthoritative(t *testing.T) {
	b := departedWithTurnaround(5)
	b.Turnarounds = append(b.Turnarounds, domain.Turnaround{RecordMeta: meta(4), WorkingDayCount: 0})

	assert.Equal(t, domain.StatusClosed, newDeriver().Derive(b, domain.Date(2024, 1, 11)))
}

func TestDeriver_CancellationWinsAfterDeparture(t *testing.T) {
	b := departedWithTurnaround(2)
	b.Cancellations = []domain.Cancellation{{RecordMeta: meta(4), Date: domain.Date(2024, 1, 10), Reason: "recorded in error"}}

	assert.Equal(t, domain.StatusCancelled, newDeriver().Derive(b, domain.Date(2024, 1, 11)))
}

func TestDeriver_CancellationIsMonotonic(t *testing.T) {
	b := newBooking()
	b.Cancellations = []domain.Cancellation{{RecordMeta: meta(1), Date: b.ArrivalDate, Reason: "withdrawn"}}
	d := newDeriver()

	appends := []func(){
		func() { b.Confirmation = &domain.Confirmation{RecordMeta: meta(2)} },
		func() { b.Arrivals = append(b.Arrivals, domain.Arrival{RecordMeta: meta(3), ArrivalDate: b.ArrivalDate}) },
		func() { b.NonArrival = &domain.NonArrival{RecordMeta: meta(4), Date: b.ArrivalDate} },
		func() {
			b.Departures = append(b.Departures, domain.Departure{RecordMeta: meta(5), DepartureDate: b.DepartureDate})
		},
		func() { b.Turnarounds = append(b.Turnarounds, domain.Turnaround{RecordMeta: meta(6), WorkingDayCount: 3}) },
	}
	for _, apply := range appends {
		apply()
		for _, today := range []time.Time{domain.Date(2024, 1, 1), domain.Date(2024, 1, 11), domain.Date(2025, 1, 1)} {
			assert.Equal(t, domain.StatusCancelled, d.Derive(b, today))
		}
	}
}

func TestDeriver_IgnoresCachedStatus(t *testing.T) {
	b := newBooking()
	b.Status = domain.StatusClosed

	assert.Equal(t, domain.StatusProvisional, newDeriver().Derive(b, domain.Date(2024, 1, 5)))
}

func TestDeriver_Idempotent(t *testing.T) {
	b := departedWithTurnaround(2)
	d := newDeriver()
	today := domain.Date(2024, 1, 11)

	assert.Equal(t, d.Derive(b, today), d.Derive(b, today))
	assert.Equal(t, domain.StatusDeparted, d.Refresh(b, today))
	assert.Equal(t, domain.StatusDeparted, b.Status)
}

func TestCheckTransition(t *testing.T) {
	assert.NoError(t, CheckTransition(domain.StatusProvisional, ActionConfirm))
	assert.NoError(t, CheckTransition(domain.StatusArrived, ActionDepart))

	err := CheckTransition(domain.StatusConfirmed, ActionConfirm)
	assert.True(t, errors.Is(err, ErrTransitionNotAllowed))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	assert.Error(t, CheckTransition(domain.StatusNotArrived, ActionNonArrive))
	assert.Error(t, CheckTransition(domain.StatusCancelled, ActionArrive))
	assert.Error(t, CheckTransition(domain.StatusClosed, ActionCancel))
	assert.True(t, errors.Is(CheckTransition(domain.StatusProvisional, Action("teleport")), ErrUnknownAction))
}
