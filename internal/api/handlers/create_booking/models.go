package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	createBooking "github.com/m04kA/SMC-AccommodationService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CRN                   string `json:"crn"`
	BedspaceID            int64  `json:"bedspaceId"`
	ArrivalDate           string `json:"arrivalDate"`   // "2024-01-03"
	DepartureDate         string `json:"departureDate"` // "2024-01-10"
	TurnaroundWorkingDays *int   `json:"turnaroundWorkingDays,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                    int64  `json:"id"`
	CRN                   string `json:"crn"`
	PremisesID            int64  `json:"premisesId"`
	BedspaceID            int64  `json:"bedspaceId"`
	ArrivalDate           string `json:"arrivalDate"`
	DepartureDate         string `json:"departureDate"`
	Status                string `json:"status"`
	Version               int64  `json:"version"`
	TurnaroundWorkingDays int    `json:"turnaroundWorkingDays"`
	EffectiveEndDate      string `json:"effectiveEndDate"`
	CreatedAt             string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	arrival, err := domain.ParseDate(r.ArrivalDate)
	if err != nil {
		return nil, err
	}

	departure, err := domain.ParseDate(r.DepartureDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CRN:                   r.CRN,
		BedspaceID:            r.BedspaceID,
		ArrivalDate:           arrival,
		DepartureDate:         departure,
		TurnaroundWorkingDays: r.TurnaroundWorkingDays,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                    resp.ID,
		CRN:                   resp.CRN,
		PremisesID:            resp.PremisesID,
		BedspaceID:            resp.BedspaceID,
		ArrivalDate:           resp.ArrivalDate.Format(domain.DateFormat),
		DepartureDate:         resp.DepartureDate.Format(domain.DateFormat),
		Status:                resp.Status,
		Version:               resp.Version,
		TurnaroundWorkingDays: resp.TurnaroundWorkingDays,
		EffectiveEndDate:      resp.EffectiveEndDate.Format(domain.DateFormat),
		CreatedAt:             resp.CreatedAt.Format(time.RFC3339),
	}
}
