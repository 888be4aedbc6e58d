package extend_booking

import (
	"time"
)

// Request модель запроса на изменение дат бронирования
type Request struct {
	BookingID int64

	// ExpectedVersion версия, которую видел клиент; 0 - без проверки
	ExpectedVersion int64

	// NewArrivalDate nil - заезд не меняется
	NewArrivalDate   *time.Time
	NewDepartureDate time.Time
	Notes            *string
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID                    int64
	BedspaceID            int64
	ArrivalDate           time.Time
	DepartureDate         time.Time
	PreviousArrivalDate   time.Time
	PreviousDepartureDate time.Time
	Status                string
	Version               int64
	EffectiveEndDate      time.Time
}
