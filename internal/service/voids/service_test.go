package voids

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/voids/models"
	"github.com/m04kA/SMC-AccommodationService/internal/testutil/memstore"
	"github.com/m04kA/SMC-AccommodationService/pkg/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var now = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

func TestCancel(t *testing.T) {
	store := memstore.New()
	store.PutVoid(domain.VoidPeriod{ID: 3, BedspaceID: 10, PremisesID: 1, StartDate: domain.Date(2024, 1, 1), EndDate: domain.Date(2024, 1, 5), Reason: "repairs"})

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventVoidCancelled && e.AggregateID == 3 && e.OccurredAt.Equal(now)
	})).Return(nil).Once()

	svc := NewService(store.Voids(), publisher, store.Tx(), logger.Discard())
	svc.timeProvider = fixedTime{t: now}

	resp, err := svc.Cancel(context.Background(), 3, &models.CancelVoidRequest{})
	require.NoError(t, err)
	assert.False(t, resp.Active)
	assert.NotNil(t, resp.CancelledAt)

	stored, _ := store.Void(3)
	assert.False(t, stored.IsActive())

	_, err = svc.Cancel(context.Background(), 3, &models.CancelVoidRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Cancel(context.Background(), 99, &models.CancelVoidRequest{})
	assert.ErrorIs(t, err, ErrVoidNotFound)

	publisher.AssertExpectations(t)
}

func TestGetByID(t *testing.T) {
	store := memstore.New()
	store.PutVoid(domain.VoidPeriod{ID: 3, BedspaceID: 10, StartDate: domain.Date(2024, 1, 1), EndDate: domain.Date(2024, 1, 5), Reason: "repairs"})
	svc := NewService(store.Voids(), &mockPublisher{}, store.Tx(), logger.Discard())

	resp, err := svc.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.Equal(t, "2024-01-05", resp.EndDate)
}
