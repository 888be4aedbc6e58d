package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
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
	"github.com/m04kA/SMC-AccommodationService/pkg/txmanager"
)

const bedspaceID = int64(10)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type countingMetrics struct {
	mu        sync.Mutex
	created   int
	conflicts map[string]int
}

func (m *countingMetrics) IncBookingsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *countingMetrics) IncConflict(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts == nil {
		m.conflicts = make(map[string]int)
	}
	m.conflicts[kind]++
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (lock.Release, error) {
	return nil, fmt.Errorf("%w: bedspace:10", lock.ErrNotAcquired)
}

type failingTx struct{ err error }

func (f failingTx) DoSerializable(context.Context, func(ctx context.Context) error) error {
	return f.err
}

type fixture struct {
	store     *memstore.Store
	publisher *mockPublisher
	metrics   *countingMetrics
	uc        *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	store.AddPremises(domain.Premises{ID: 1, Name: "Hope Street"})
	store.AddBedspace(domain.Bedspace{ID: bedspaceID, PremisesID: 1, Reference: "B1", StartDate: domain.Date(2023, 1, 1)})

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	m := &countingMetrics{}
	uc := NewUseCase(
		store.Bookings(),
		store.Bedspaces(),
		store.Voids(),
		lock.NoopLocker{},
		publisher,
		m,
		store.Tx(),
		turnaround.NewScheduler(calendar.New(nil)),
		Settings{DefaultTurnaroundWorkingDays: 2, LookbackDays: domain.DefaultTurnaroundLookbackDays},
		logger.Discard(),
	)
	uc.timeProvider = fixedTime{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}

	return &fixture{store: store, publisher: publisher, metrics: m, uc: uc}
}

func request(arrival, departure time.Time) *Request {
	return &Request{CRN: "X320741", BedspaceID: bedspaceID, ArrivalDate: arrival, DepartureDate: departure}
}

func existing(id int64, arrival, departure time.Time, turnaroundDays int) domain.Booking {
	return domain.Booking{
		ID:            id,
		CRN:           fmt.Sprintf("C%d", id),
		PremisesID:    1,
		BedspaceID:    bedspaceID,
		ArrivalDate:   arrival,
		DepartureDate: departure,
		Status:        domain.StatusProvisional,
		Turnarounds: []domain.Turnaround{{
			RecordMeta:      domain.RecordMeta{ID: id * 100, BookingID: id},
			WorkingDayCount: turnaroundDays,
		}},
	}
}

func TestExecute_CreatesProvisionalBooking(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusProvisional), resp.Status)
	assert.Equal(t, int64(1), resp.Version)
	assert.Equal(t, int64(1), resp.PremisesID)
	assert.Equal(t, 2, resp.TurnaroundWorkingDays)
	// Среда 10-го + 2 рабочих дня = пятница 12-го
	assert.Equal(t, domain.Date(2024, 1, 12), resp.EffectiveEndDate)

	stored, ok := f.store.Booking(resp.ID)
	require.True(t, ok)
	require.Len(t, stored.Turnarounds, 1)
	assert.Equal(t, 2, stored.Turnarounds[0].WorkingDayCount)
	assert.Equal(t, domain.Date(2024, 1, 3), stored.OriginalArrivalDate)
	assert.Equal(t, domain.Date(2024, 1, 10), stored.OriginalDepartureDate)

	assert.Equal(t, 1, f.metrics.created)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventBookingProvisionallyMade && e.AggregateID == resp.ID && e.CRN == "X320741"
	}))
}

func TestExecute_TurnaroundPrecedence(t *testing.T) {
	f := newFixture(t)
	f.store.AddPremises(domain.Premises{ID: 1, Name: "Hope Street", TurnaroundWorkingDays: ptr.Ptr(5)})
	f.store.AddBedspace(domain.Bedspace{ID: bedspaceID, PremisesID: 1, Reference: "B1", StartDate: domain.Date(2023, 1, 1)})

	resp, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	require.NoError(t, err)
	assert.Equal(t, 5, resp.TurnaroundWorkingDays)

	req := request(domain.Date(2024, 3, 1), domain.Date(2024, 3, 5))
	req.TurnaroundWorkingDays = ptr.Ptr(0)
	resp, err = f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TurnaroundWorkingDays)
	assert.Equal(t, domain.Date(2024, 3, 5), resp.EffectiveEndDate)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "empty crn", req: &Request{CRN: "  ", BedspaceID: bedspaceID, ArrivalDate: domain.Date(2024, 1, 3), DepartureDate: domain.Date(2024, 1, 4)}},
		{name: "departure before arrival", req: request(domain.Date(2024, 1, 10), domain.Date(2024, 1, 3))},
		{name: "non-positive bedspace", req: &Request{CRN: "X1", ArrivalDate: domain.Date(2024, 1, 3), DepartureDate: domain.Date(2024, 1, 4)}},
		{name: "negative turnaround", req: &Request{CRN: "X1", BedspaceID: bedspaceID, ArrivalDate: domain.Date(2024, 1, 3), DepartureDate: domain.Date(2024, 1, 4), TurnaroundWorkingDays: ptr.Ptr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, f.store.AllBookings())
		})
	}
}

func TestExecute_SameDayStayIsValid(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 3)))
	assert.NoError(t, err)
}

func TestExecute_BedspaceNotFound(t *testing.T) {
	f := newFixture(t)
	req := request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10))
	req.BedspaceID = 999

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBedspaceNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_ArrivalBeforeBedspaceStart(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2022, 12, 30), domain.Date(2023, 1, 5)))
	assert.ErrorIs(t, err, ErrArrivalBeforeBedspaceStart)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_OverlapIsConflict(t *testing.T) {
	f := newFixture(t)
	f.store.PutBooking(existing(1, domain.Date(2024, 1, 5), domain.Date(2024, 1, 15), 0))

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 5)))
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrBedspaceArchived)

	var conflictErr *domain.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalBooking, ID: 1}}, conflictErr.Conflicts)
	assert.Equal(t, 1, f.metrics.conflicts[conflictKindOverlap])
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	b := existing(1, domain.Date(2024, 1, 5), domain.Date(2024, 1, 15), 0)
	b.Cancellations = []domain.Cancellation{{RecordMeta: domain.RecordMeta{ID: 7, BookingID: 1}, Reason: "withdrawn"}}
	f.store.PutBooking(b)

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	assert.NoError(t, err)
}

func TestExecute_ExistingTurnaroundBlocks(t *testing.T) {
	f := newFixture(t)
	// Выезд в среду 10-го, turnaround 2 рабочих дня: койко-место занято до пятницы 12-го
	f.store.PutBooking(existing(1, domain.Date(2024, 1, 1), domain.Date(2024, 1, 10), 2))

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 12), domain.Date(2024, 1, 20)))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 13), domain.Date(2024, 1, 20)))
	assert.NoError(t, err)
}

func TestExecute_CandidateTurnaroundBlocks(t *testing.T) {
	f := newFixture(t)
	f.store.PutBooking(existing(1, domain.Date(2024, 1, 12), domain.Date(2024, 1, 20), 0))

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	assert.ErrorIs(t, err, domain.ErrConflict)

	req := request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10))
	req.TurnaroundWorkingDays = ptr.Ptr(1)
	_, err = f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_ActiveVoidBlocks(t *testing.T) {
	f := newFixture(t)
	f.store.PutVoid(domain.VoidPeriod{ID: 1, BedspaceID: bedspaceID, StartDate: domain.Date(2024, 1, 8), EndDate: domain.Date(2024, 1, 9), Reason: "repairs"})

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))

	var conflictErr *domain.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, []domain.IntervalRef{{Kind: domain.IntervalVoid, ID: 1}}, conflictErr.Conflicts)
}

func TestExecute_ArchivedBedspace(t *testing.T) {
	f := newFixture(t)
	end := domain.Date(2024, 1, 3)
	f.store.AddBedspace(domain.Bedspace{ID: bedspaceID, PremisesID: 1, Reference: "B1", StartDate: domain.Date(2023, 1, 1), EndDate: &end})

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrBedspaceArchived)
	assert.Equal(t, 1, f.metrics.conflicts[conflictKindArchived])

	_, err = f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 1), domain.Date(2024, 1, 2)))
	assert.NoError(t, err)
}

func TestExecute_RollsBackWhenTurnaroundWriteFails(t *testing.T) {
	f := newFixture(t)
	f.store.Fail["AddTurnaround"] = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.store.AllBookings())
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestExecute_LockContention(t *testing.T) {
	f := newFixture(t)
	f.uc.locker = busyLocker{}

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	assert.ErrorIs(t, err, ErrConcurrentBooking)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestExecute_SerializationFailure(t *testing.T) {
	f := newFixture(t)
	f.uc.txManager = failingTx{err: fmt.Errorf("%w: could not serialize access", txmanager.ErrSerializationFailure)}

	_, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	assert.ErrorIs(t, err, ErrConcurrentBooking)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestExecute_PublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	f.uc.publisher = publisher

	resp, err := f.uc.Execute(context.Background(), request(domain.Date(2024, 1, 3), domain.Date(2024, 1, 10)))
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	publisher.AssertExpectations(t)
}

func TestExecute_ConcurrentWritersNeverDoubleOccupy(t *testing.T) {
	f := newFixture(t)
	const writers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Все кандидаты пересекаются по 10-му числу
			req := request(domain.Date(2024, 1, 1+i%5), domain.Date(2024, 1, 10+i%3))
			req.CRN = fmt.Sprintf("X%d", i)
			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicts)
	assert.Len(t, f.store.AllBookings(), 1)
}
