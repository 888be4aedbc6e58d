package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings"
	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AccommodationService/pkg/logger"
)

type stubService struct {
	resp *models.BookingResponse
	err  error
}

func (s stubService) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return s.resp, s.err
}

func request(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil)
	return mux.SetURLVars(req, map[string]string{"bookingId": id})
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		svc    stubService
		status int
	}{
		{name: "found", id: "5", svc: stubService{resp: &models.BookingResponse{ID: 5, Status: "arrived"}}, status: http.StatusOK},
		{name: "not found", id: "5", svc: stubService{err: bookings.ErrBookingNotFound}, status: http.StatusNotFound},
		{name: "internal", id: "5", svc: stubService{err: bookings.ErrInternal}, status: http.StatusInternalServerError},
		{name: "bad id", id: "abc", status: http.StatusBadRequest},
		{name: "zero id", id: "0", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(tt.svc, logger.Discard()).Handle(rec, request(tt.id))
			require.Equal(t, tt.status, rec.Code)

			if tt.status == http.StatusOK {
				var resp models.BookingResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "arrived", resp.Status)
			}
		})
	}
}
