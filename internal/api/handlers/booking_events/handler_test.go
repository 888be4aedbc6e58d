package booking_events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AccommodationService/internal/api/handlers"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings"
	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AccommodationService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) result(args mock.Arguments) (*models.BookingResponse, error) {
	resp, _ := args.Get(0).(*models.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockService) RecordArrival(ctx context.Context, id int64, req *models.ArrivalRequest) (*models.BookingResponse, error) {
	return m.result(m.Called(id, req))
}

func (m *mockService) RecordDeparture(ctx context.Context, id int64, req *models.DepartureRequest) (*models.BookingResponse, error) {
	return m.result(m.Called(id, req))
}

func (m *mockService) Cancel(ctx context.Context, id int64, req *models.CancellationRequest) (*models.BookingResponse, error) {
	return m.result(m.Called(id, req))
}

func (m *mockService) RecordNonArrival(ctx context.Context, id int64, req *models.NonArrivalRequest) (*models.BookingResponse, error) {
	return m.result(m.Called(id, req))
}

func (m *mockService) Confirm(ctx context.Context, id int64, req *models.ConfirmationRequest) (*models.BookingResponse, error) {
	return m.result(m.Called(id, req))
}

func (m *mockService) ChangeTurnaround(ctx context.Context, id int64, req *models.TurnaroundRequest) (*models.BookingResponse, error) {
	return m.result(m.Called(id, req))
}

func call(handle http.HandlerFunc, id, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/"+id+"/x", strings.NewReader(payload))
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	rec := httptest.NewRecorder()
	handle(rec, req)
	return rec
}

func TestHandleArrival(t *testing.T) {
	svc := &mockService{}
	svc.On("RecordArrival", int64(4), mock.MatchedBy(func(r *models.ArrivalRequest) bool {
		return r.ArrivalDate.Equal(domain.Date(2024, 1, 3)) &&
			r.ExpectedDepartureDate.Equal(domain.Date(2024, 1, 10)) &&
			r.ExpectedVersion == 1
	})).Return(&models.BookingResponse{ID: 4, Status: "arrived", Version: 2}, nil)

	h := NewHandler(svc, logger.Discard())
	rec := call(h.HandleArrival, "4", `{"expectedVersion":1,"arrivalDate":"2024-01-03","expectedDepartureDate":"2024-01-10"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "arrived", resp.Status)
	svc.AssertExpectations(t)
}

func TestHandleCancellation_DefaultDate(t *testing.T) {
	svc := &mockService{}
	svc.On("Cancel", int64(4), mock.MatchedBy(func(r *models.CancellationRequest) bool {
		return r.Date.IsZero() && r.Reason == "withdrawn"
	})).Return(&models.BookingResponse{ID: 4, Status: "cancelled"}, nil)

	h := NewHandler(svc, logger.Discard())
	rec := call(h.HandleCancellation, "4", `{"reason":"withdrawn"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandleTurnaround_RequiresWorkingDays(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc, logger.Discard())

	rec := call(h.HandleTurnaround, "4", `{"expectedVersion":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ChangeTurnaround", mock.Anything, mock.Anything)
}

func TestHandleTurnaround_Zero(t *testing.T) {
	svc := &mockService{}
	svc.On("ChangeTurnaround", int64(4), &models.TurnaroundRequest{WorkingDays: 0}).
		Return(&models.BookingResponse{ID: 4, TurnaroundWorkingDays: 0}, nil)

	h := NewHandler(svc, logger.Discard())
	rec := call(h.HandleTurnaround, "4", `{"workingDays":0}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRespond_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{name: "already recorded", err: fmt.Errorf("%w: confirmation", bookings.ErrAlreadyRecorded), status: http.StatusBadRequest},
		{name: "illegal transition", err: fmt.Errorf("%w: booking is cancelled", bookings.ErrInvalidInput), status: http.StatusBadRequest},
		{name: "not found", err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "concurrent", err: bookings.ErrConcurrentUpdate, status: http.StatusConflict, retryable: true},
		{name: "conflict", err: &domain.ConflictError{BedspaceID: 1}, status: http.StatusConflict},
		{name: "internal", err: bookings.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Confirm", int64(4), mock.Anything).Return(nil, tt.err)

			h := NewHandler(svc, logger.Discard())
			rec := call(h.HandleConfirmation, "4", `{}`)
			require.Equal(t, tt.status, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.retryable, resp.Retryable)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	h := NewHandler(&mockService{}, logger.Discard())

	assert.Equal(t, http.StatusBadRequest, call(h.HandleDeparture, "x", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(h.HandleDeparture, "4", `{"departureDate":`).Code)
	assert.Equal(t, http.StatusBadRequest, call(h.HandleDeparture, "4", `{"departureDate":"10.01.2024","reason":"x"}`).Code)
}
