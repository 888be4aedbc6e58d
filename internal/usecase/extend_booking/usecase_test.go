package extend_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AccommodationService/internal/calendar"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/infra/lock"
	"github.com/m04kA/SMC-AccommodationService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AccommodationService/internal/turnaround"
	"github.com/m04kA/SMC-AccommodationService/pkg/logger"
	"github.com/m04kA/SMC-AccommodationService/pkg/ptr"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

type nopMetrics struct{}

func (nopMetrics) IncConflict(string) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newUseCase(store *memstore.Store, publisher EventPublisher) *UseCase {
	uc := NewUseCase(
		store.Bookings(),
		store.Bedspaces(),
		store.Voids(),
		lock.NoopLocker{},
		publisher,
		nopMetrics{},
		store.Tx(),
		turnaround.NewScheduler(calendar.New(nil)),
		domain.DefaultTurnaroundLookbackDays,
		logger.Discard(),
	)
	uc.timeProvider = fixedTime{t: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)}
	return uc
}

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	store := memstore.New()
	store.AddPremises(domain.Premises{ID: 1, Name: "Hope Street"})
	store.AddBedspace(domain.Bedspace{ID: 10, PremisesID: 1, Reference: "B1", StartDate: domain.Date(2023, 1, 1)})
	store.PutBooking(booking(1, domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	return store
}

func booking(id int64, arrival, departure time.Time) domain.Booking {
	return domain.Booking{
		ID:                    id,
		CRN:                   "X320741",
		PremisesID:            1,
		BedspaceID:            10,
		ArrivalDate:           arrival,
		DepartureDate:         departure,
		OriginalArrivalDate:   arrival,
		OriginalDepartureDate: departure,
		Status:                domain.StatusProvisional,
		Turnarounds:           []domain.Turnaround{{RecordMeta: domain.RecordMeta{ID: id * 100, BookingID: id}, WorkingDayCount: 0}},
	}
}

func TestExecute_ExtendsDeparture(t *testing.T) {
	store := seed(t)
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventBookingDatesChanged && e.AggregateID == 1
	})).Return(nil).Once()

	resp, err := newUseCase(store, publisher).Execute(context.Background(), &Request{
		BookingID:        1,
		ExpectedVersion:  1,
		NewDepartureDate: domain.Date(2024, 1, 20),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Date(2024, 1, 20), resp.DepartureDate)
	assert.Equal(t, domain.Date(2024, 1, 10), resp.PreviousDepartureDate)
	assert.Equal(t, int64(2), resp.Version)

	stored, _ := store.Booking(1)
	assert.Equal(t, domain.Date(2024, 1, 20), stored.DepartureDate)
	assert.Equal(t, domain.Date(2024, 1, 10), stored.OriginalDepartureDate)
	require.Len(t, stored.Extensions, 1)
	assert.Equal(t, domain.Date(2024, 1, 10), stored.Extensions[0].PreviousDepartureDate)
	assert.Equal(t, domain.Date(2024, 1, 20), stored.Extensions[0].NewDepartureDate)
	publisher.AssertExpectations(t)
}

func TestExecute_OwnIntervalIsExcluded(t *testing.T) {
	store := seed(t)
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	// Сокращение пребывания пересекается только с самим собой
	_, err := newUseCase(store, publisher).Execute(context.Background(), &Request{
		BookingID:        1,
		NewDepartureDate: domain.Date(2024, 1, 5),
	})
	assert.NoError(t, err)
}

func TestExecute_ConflictWithNeighbour(t *testing.T) {
	store := seed(t)
	store.PutBooking(booking(2, domain.Date(2024, 1, 15), domain.Date(2024, 1, 20)))

	_, err := newUseCase(store, &mockPublisher{}).Execute(context.Background(), &Request{
		BookingID:        1,
		NewDepartureDate: domain.Date(2024, 1, 15),
	})

	var conflictErr *domain.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalBooking, ID: 2}}, conflictErr.Conflicts)

	stored, _ := store.Booking(1)
	assert.Equal(t, domain.Date(2024, 1, 10), stored.DepartureDate)
	assert.Empty(t, stored.Extensions)
}

func TestExecute_StaleVersion(t *testing.T) {
	store := seed(t)

	_, err := newUseCase(store, &mockPublisher{}).Execute(context.Background(), &Request{
		BookingID:        1,
		ExpectedVersion:  3,
		NewDepartureDate: domain.Date(2024, 1, 12),
	})
	assert.ErrorIs(t, err, ErrStaleVersion)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestExecute_CancelledBookingCannotMove(t *testing.T) {
	store := seed(t)
	b := booking(2, domain.Date(2024, 2, 1), domain.Date(2024, 2, 5))
	b.Cancellations = []domain.Cancellation{{RecordMeta: domain.RecordMeta{ID: 5, BookingID: 2}, Reason: "withdrawn"}}
	store.PutBooking(b)

	_, err := newUseCase(store, &mockPublisher{}).Execute(context.Background(), &Request{
		BookingID:        2,
		NewDepartureDate: domain.Date(2024, 2, 9),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_ArrivalLockedAfterArrival(t *testing.T) {
	store := seed(t)
	b := booking(2, domain.Date(2024, 2, 1), domain.Date(2024, 2, 5))
	b.Arrivals = []domain.Arrival{{RecordMeta: domain.RecordMeta{ID: 6, BookingID: 2}, ArrivalDate: domain.Date(2024, 2, 1)}}
	store.PutBooking(b)

	_, err := newUseCase(store, &mockPublisher{}).Execute(context.Background(), &Request{
		BookingID:        2,
		NewArrivalDate:   ptr.Ptr(domain.Date(2024, 2, 2)),
		NewDepartureDate: domain.Date(2024, 2, 9),
	})
	assert.ErrorIs(t, err, ErrArrivalLocked)
}

func TestExecute_Validation(t *testing.T) {
	store := seed(t)
	uc := newUseCase(store, &mockPublisher{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 0, NewDepartureDate: domain.Date(2024, 1, 12)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		BookingID:        1,
		NewArrivalDate:   ptr.Ptr(domain.Date(2024, 1, 12)),
		NewDepartureDate: domain.Date(2024, 1, 11),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(context.Background(), &Request{BookingID: 1, NewDepartureDate: domain.Date(2024, 1, 2)})
	assert.ErrorIs(t, err, domain.ErrValidation, "departure before the unchanged arrival")
}

func TestExecute_NotFound(t *testing.T) {
	_, err := newUseCase(seed(t), &mockPublisher{}).Execute(context.Background(), &Request{
		BookingID:        42,
		NewDepartureDate: domain.Date(2024, 1, 12),
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
