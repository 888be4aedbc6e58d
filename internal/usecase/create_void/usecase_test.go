package create_void

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
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func setup(t *testing.T) (*memstore.Store, *mockPublisher, *UseCase) {
	t.Helper()

	store := memstore.New()
	store.AddPremises(domain.Premises{ID: 1, Name: "Hope Street"})
	end := domain.Date(2024, 6, 1)
	store.AddBedspace(domain.Bedspace{ID: 10, PremisesID: 1, Reference: "B1", StartDate: domain.Date(2023, 1, 1), EndDate: &end})
	store.PutBooking(domain.Booking{
		ID:            1,
		CRN:           "X320741",
		PremisesID:    1,
		BedspaceID:    10,
		ArrivalDate:   domain.Date(2024, 1, 3),
		DepartureDate: domain.Date(2024, 1, 10),
		Turnarounds:   []domain.Turnaround{{RecordMeta: domain.RecordMeta{ID: 100, BookingID: 1}, WorkingDayCount: 2}},
	})

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	uc := NewUseCase(
		store.Bookings(),
		store.Bedspaces(),
		store.Voids(),
		lock.NoopLocker{},
		publisher,
		store.Tx(),
		turnaround.NewScheduler(calendar.New(nil)),
		domain.DefaultTurnaroundLookbackDays,
		logger.Discard(),
	)
	uc.timeProvider = fixedTime{t: now}
	return store, publisher, uc
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var now = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

func TestExecute_CreatesVoid(t *testing.T) {
	store, publisher, uc := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{
		BedspaceID: 10,
		StartDate:  domain.Date(2024, 1, 15),
		EndDate:    domain.Date(2024, 1, 20),
		Reason:     "boiler replacement",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.PremisesID)

	stored, ok := store.Void(resp.ID)
	require.True(t, ok)
	assert.True(t, stored.IsActive())
	publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventVoidCreated && e.AggregateID == resp.ID && e.OccurredAt.Equal(now)
	}))
}

func TestExecute_BookingTurnaroundBlocksVoid(t *testing.T) {
	_, _, uc := setup(t)

	_, err := uc.Execute(context.Background(), &Request{
		BedspaceID: 10,
		StartDate:  domain.Date(2024, 1, 12),
		EndDate:    domain.Date(2024, 1, 14),
		Reason:     "deep clean",
	})

	var conflictErr *domain.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalBooking, ID: 1}}, conflictErr.Conflicts)
}

func TestExecute_VoidsDoNotOverlap(t *testing.T) {
	_, _, uc := setup(t)

	first, err := uc.Execute(context.Background(), &Request{BedspaceID: 10, StartDate: domain.Date(2024, 2, 1), EndDate: domain.Date(2024, 2, 5), Reason: "repairs"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{BedspaceID: 10, StartDate: domain.Date(2024, 2, 5), EndDate: domain.Date(2024, 2, 8), Reason: "repairs"})

	var conflictErr *domain.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalVoid, ID: first.ID}}, conflictErr.Conflicts)
}

func TestExecute_ArchivedBedspace(t *testing.T) {
	_, _, uc := setup(t)

	_, err := uc.Execute(context.Background(), &Request{BedspaceID: 10, StartDate: domain.Date(2024, 6, 1), EndDate: domain.Date(2024, 6, 3), Reason: "repairs"})
	assert.ErrorIs(t, err, domain.ErrBedspaceArchived)
}

func TestExecute_Validation(t *testing.T) {
	_, _, uc := setup(t)

	_, err := uc.Execute(context.Background(), &Request{BedspaceID: 10, StartDate: domain.Date(2024, 2, 5), EndDate: domain.Date(2024, 2, 1), Reason: "repairs"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BedspaceID: 10, StartDate: domain.Date(2024, 2, 1), EndDate: domain.Date(2024, 2, 5)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_BedspaceNotFound(t *testing.T) {
	_, _, uc := setup(t)

	_, err := uc.Execute(context.Background(), &Request{BedspaceID: 99, StartDate: domain.Date(2024, 2, 1), EndDate: domain.Date(2024, 2, 5), Reason: "repairs"})
	assert.ErrorIs(t, err, ErrBedspaceNotFound)
}
