package booking_events

import (
	"errors"

	"github.com/m04kA/SMC-AccommodationService/internal/api/handlers"
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/internal/service/bookings/models"
)

var errMissingWorkingDays = errors.New("workingDays is required")

// ArrivalRequest тело POST /bookings/{bookingId}/arrivals
type ArrivalRequest struct {
	ExpectedVersion       int64   `json:"expectedVersion"`
	ArrivalDate           string  `json:"arrivalDate"`
	ExpectedDepartureDate string  `json:"expectedDepartureDate"`
	Notes                 *string `json:"notes,omitempty"`
}

func (r *ArrivalRequest) toServiceRequest() (*models.ArrivalRequest, error) {
	arrival, err := domain.ParseDate(r.ArrivalDate)
	if err != nil {
		return nil, err
	}
	departure, err := domain.ParseDate(r.ExpectedDepartureDate)
	if err != nil {
		return nil, err
	}
	return &models.ArrivalRequest{
		ExpectedVersion:       r.ExpectedVersion,
		ArrivalDate:           arrival,
		ExpectedDepartureDate: departure,
		Notes:                 r.Notes,
	}, nil
}

// DepartureRequest тело POST /bookings/{bookingId}/departures
type DepartureRequest struct {
	ExpectedVersion int64   `json:"expectedVersion"`
	DepartureDate   string  `json:"departureDate"`
	Reason          string  `json:"reason"`
	MoveOnCategory  *string `json:"moveOnCategory,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

func (r *DepartureRequest) toServiceRequest() (*models.DepartureRequest, error) {
	departure, err := domain.ParseDate(r.DepartureDate)
	if err != nil {
		return nil, err
	}
	return &models.DepartureRequest{
		ExpectedVersion: r.ExpectedVersion,
		DepartureDate:   departure,
		Reason:          r.Reason,
		MoveOnCategory:  r.MoveOnCategory,
		Notes:           r.Notes,
	}, nil
}

// CancellationRequest тело POST /bookings/{bookingId}/cancellations
// Пустая дата - текущий день
type CancellationRequest struct {
	ExpectedVersion int64   `json:"expectedVersion"`
	Date            string  `json:"date,omitempty"`
	Reason          string  `json:"reason"`
	Notes           *string `json:"notes,omitempty"`
}

func (r *CancellationRequest) toServiceRequest() (*models.CancellationRequest, error) {
	date, err := handlers.ParseOptionalDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &models.CancellationRequest{
		ExpectedVersion: r.ExpectedVersion,
		Date:            date,
		Reason:          r.Reason,
		Notes:           r.Notes,
	}, nil
}

// NonArrivalRequest тело POST /bookings/{bookingId}/non-arrivals
// Пустая дата - дата заезда бронирования
type NonArrivalRequest struct {
	ExpectedVersion int64   `json:"expectedVersion"`
	Date            string  `json:"date,omitempty"`
	Reason          string  `json:"reason"`
	Notes           *string `json:"notes,omitempty"`
}

func (r *NonArrivalRequest) toServiceRequest() (*models.NonArrivalRequest, error) {
	date, err := handlers.ParseOptionalDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &models.NonArrivalRequest{
		ExpectedVersion: r.ExpectedVersion,
		Date:            date,
		Reason:          r.Reason,
		Notes:           r.Notes,
	}, nil
}

// ConfirmationRequest тело POST /bookings/{bookingId}/confirmations
type ConfirmationRequest struct {
	ExpectedVersion int64   `json:"expectedVersion"`
	Notes           *string `json:"notes,omitempty"`
}

func (r *ConfirmationRequest) toServiceRequest() (*models.ConfirmationRequest, error) {
	return &models.ConfirmationRequest{
		ExpectedVersion: r.ExpectedVersion,
		Notes:           r.Notes,
	}, nil
}

// TurnaroundRequest тело POST /bookings/{bookingId}/turnarounds
type TurnaroundRequest struct {
	ExpectedVersion int64 `json:"expectedVersion"`
	WorkingDays     *int  `json:"workingDays"`
}

func (r *TurnaroundRequest) toServiceRequest() (*models.TurnaroundRequest, error) {
	if r.WorkingDays == nil {
		return nil, errMissingWorkingDays
	}
	return &models.TurnaroundRequest{
		ExpectedVersion: r.ExpectedVersion,
		WorkingDays:     *r.WorkingDays,
	}, nil
}
