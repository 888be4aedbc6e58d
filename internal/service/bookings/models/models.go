package models

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// Request модели
// ExpectedVersion - версия, которую видел клиент; 0 отключает проверку

// ArrivalRequest запрос на регистрацию заезда
type ArrivalRequest struct {
	ExpectedVersion       int64
	ArrivalDate           time.Time
	ExpectedDepartureDate time.Time
	Notes                 *string
}

// DepartureRequest запрос на регистрацию выезда
type DepartureRequest struct {
	ExpectedVersion int64
	DepartureDate   time.Time
	Reason          string
	MoveOnCategory  *string
	Notes           *string
}

// CancellationRequest запрос на отмену бронирования
type CancellationRequest struct {
	ExpectedVersion int64
	Date            time.Time
	Reason          string
	Notes           *string
}

// NonArrivalRequest запрос на регистрацию неявки
type NonArrivalRequest struct {
	ExpectedVersion int64
	Date            time.Time
	Reason          string
	Notes           *string
}

// ConfirmationRequest запрос на подтверждение бронирования
type ConfirmationRequest struct {
	ExpectedVersion int64
	Notes           *string
}

// TurnaroundRequest запрос на изменение turnaround
type TurnaroundRequest struct {
	ExpectedVersion int64
	WorkingDays     int
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                    int64  `json:"id"`
	CRN                   string `json:"crn"`
	PremisesID            int64  `json:"premisesId"`
	BedspaceID            int64  `json:"bedspaceId"`
	ArrivalDate           string `json:"arrivalDate"`   // "2024-01-03"
	DepartureDate         string `json:"departureDate"` // "2024-01-10"
	OriginalArrivalDate   string `json:"originalArrivalDate"`
	OriginalDepartureDate string `json:"originalDepartureDate"`
	Status                string `json:"status"`
	Version               int64  `json:"version"`

	TurnaroundWorkingDays int    `json:"turnaroundWorkingDays"`
	EffectiveEndDate      string `json:"effectiveEndDate"` // Последний день блокировки с учетом turnaround

	Arrival      *ArrivalResponse      `json:"arrival,omitempty"`
	Departure    *DepartureResponse    `json:"departure,omitempty"`
	Cancellation *CancellationResponse `json:"cancellation,omitempty"`
	NonArrival   *NonArrivalResponse   `json:"nonArrival,omitempty"`
	ConfirmedAt  *time.Time            `json:"confirmedAt,omitempty"`
	Extensions   []ExtensionResponse   `json:"extensions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArrivalResponse актуальный заезд
type ArrivalResponse struct {
	ArrivalDate           string    `json:"arrivalDate"`
	ExpectedDepartureDate string    `json:"expectedDepartureDate"`
	Notes                 *string   `json:"notes,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

// DepartureResponse актуальный выезд
type DepartureResponse struct {
	DepartureDate  string    `json:"departureDate"`
	Reason         string    `json:"reason"`
	MoveOnCategory *string   `json:"moveOnCategory,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CancellationResponse актуальная отмена
type CancellationResponse struct {
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NonArrivalResponse неявка
type NonArrivalResponse struct {
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExtensionResponse запись об изменении дат
type ExtensionResponse struct {
	PreviousArrivalDate   string    `json:"previousArrivalDate"`
	NewArrivalDate        string    `json:"newArrivalDate"`
	PreviousDepartureDate string    `json:"previousDepartureDate"`
	NewDepartureDate      string    `json:"newDepartureDate"`
	Notes                 *string   `json:"notes,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
// Статус берется из b.Status, поэтому перед вызовом его нужно пересчитать
func FromDomainBooking(b *domain.Booking, effectiveEnd time.Time) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                    b.ID,
		CRN:                   b.CRN,
		PremisesID:            b.PremisesID,
		BedspaceID:            b.BedspaceID,
		ArrivalDate:           b.ArrivalDate.Format(domain.DateFormat),
		DepartureDate:         b.DepartureDate.Format(domain.DateFormat),
		OriginalArrivalDate:   b.OriginalArrivalDate.Format(domain.DateFormat),
		OriginalDepartureDate: b.OriginalDepartureDate.Format(domain.DateFormat),
		Status:                string(b.Status),
		Version:               b.Version,
		TurnaroundWorkingDays: b.TurnaroundWorkingDays(),
		EffectiveEndDate:      effectiveEnd.Format(domain.DateFormat),
		Extensions:            make([]ExtensionResponse, 0, len(b.Extensions)),
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}

	if a, ok := b.LatestArrival(); ok {
		resp.Arrival = &ArrivalResponse{
			ArrivalDate:           a.ArrivalDate.Format(domain.DateFormat),
			ExpectedDepartureDate: a.ExpectedDepartureDate.Format(domain.DateFormat),
			Notes:                 a.Notes,
			CreatedAt:             a.CreatedAt,
		}
	}

	if d, ok := b.LatestDeparture(); ok {
		resp.Departure = &DepartureResponse{
			DepartureDate:  d.DepartureDate.Format(domain.DateFormat),
			Reason:         d.Reason,
			MoveOnCategory: d.MoveOnCategory,
			Notes:          d.Notes,
			CreatedAt:      d.CreatedAt,
		}
	}

	if c, ok := b.LatestCancellation(); ok {
		resp.Cancellation = &CancellationResponse{
			Date:      c.Date.Format(domain.DateFormat),
			Reason:    c.Reason,
			Notes:     c.Notes,
			CreatedAt: c.CreatedAt,
		}
	}

	if b.NonArrival != nil {
		resp.NonArrival = &NonArrivalResponse{
			Date:      b.NonArrival.Date.Format(domain.DateFormat),
			Reason:    b.NonArrival.Reason,
			Notes:     b.NonArrival.Notes,
			CreatedAt: b.NonArrival.CreatedAt,
		}
	}

	if b.Confirmation != nil {
		confirmedAt := b.Confirmation.CreatedAt
		resp.ConfirmedAt = &confirmedAt
	}

	for _, e := range b.Extensions {
		resp.Extensions = append(resp.Extensions, ExtensionResponse{
			PreviousArrivalDate:   e.PreviousArrivalDate.Format(domain.DateFormat),
			NewArrivalDate:        e.NewArrivalDate.Format(domain.DateFormat),
			PreviousDepartureDate: e.PreviousDepartureDate.Format(domain.DateFormat),
			NewDepartureDate:      e.NewDepartureDate.Format(domain.DateFormat),
			Notes:                 e.Notes,
			CreatedAt:             e.CreatedAt,
		})
	}

	return resp
}
