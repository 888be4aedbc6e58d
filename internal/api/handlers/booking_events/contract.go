package booking_events

import (
	"context"

	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings/models"
)

type BookingService interface {
	RecordArrival(ctx context.Context, bookingID int64, req *models.ArrivalRequest) (*models.BookingResponse, error)
	RecordDeparture(ctx context.Context, bookingID int64, req *models.DepartureRequest) (*models.BookingResponse, error)
	Cancel(ctx context.Context, bookingID int64, req *models.CancellationRequest) (*models.BookingResponse, error)
	RecordNonArrival(ctx context.Context, bookingID int64, req *models.NonArrivalRequest) (*models.BookingResponse, error)
	Confirm(ctx context.Context, bookingID int64, req *models.ConfirmationRequest) (*models.BookingResponse, error)
	ChangeTurnaround(ctx context.Context, bookingID int64, req *models.TurnaroundRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
