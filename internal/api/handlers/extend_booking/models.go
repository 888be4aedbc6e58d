package extend_booking

import (
	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	extendBooking "github.com/m04kA/SMC-AccommodationService/internal/usecase/extend_booking"
)

// ChangeDatesRequest HTTP request model
type ChangeDatesRequest struct {
	ExpectedVersion  int64   `json:"expectedVersion"`
	NewArrivalDate   *string `json:"newArrivalDate,omitempty"`
	NewDepartureDate string  `json:"newDepartureDate"`
	Notes            *string `json:"notes,omitempty"`
}

// ChangeDatesResponse HTTP response model
type ChangeDatesResponse struct {
	ID                    int64  `json:"id"`
	BedspaceID            int64  `json:"bedspaceId"`
	ArrivalDate           string `json:"arrivalDate"`
	DepartureDate         string `json:"departureDate"`
	PreviousArrivalDate   string `json:"previousArrivalDate"`
	PreviousDepartureDate string `json:"previousDepartureDate"`
	Status                string `json:"status"`
	Version               int64  `json:"version"`
	EffectiveEndDate      string `json:"effectiveEndDate"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ChangeDatesRequest) ToUseCaseRequest(bookingID int64) (*extendBooking.Request, error) {
	departure, err := domain.ParseDate(r.NewDepartureDate)
	if err != nil {
		return nil, err
	}

	req := &extendBooking.Request{
		BookingID:        bookingID,
		ExpectedVersion:  r.ExpectedVersion,
		NewDepartureDate: departure,
		Notes:            r.Notes,
	}

	if r.NewArrivalDate != nil {
		arrival, err := domain.ParseDate(*r.NewArrivalDate)
		if err != nil {
			return nil, err
		}
		req.NewArrivalDate = &arrival
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *extendBooking.Response) *ChangeDatesResponse {
	return &ChangeDatesResponse{
		ID:                    resp.ID,
		BedspaceID:            resp.BedspaceID,
		ArrivalDate:           resp.ArrivalDate.Format(domain.DateFormat),
		DepartureDate:         resp.DepartureDate.Format(domain.DateFormat),
		PreviousArrivalDate:   resp.PreviousArrivalDate.Format(domain.DateFormat),
		PreviousDepartureDate: resp.PreviousDepartureDate.Format(domain.DateFormat),
		Status:                resp.Status,
		Version:               resp.Version,
		EffectiveEndDate:      resp.EffectiveEndDate.Format(domain.DateFormat),
	}
}
