package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	CRN           string    // Номер дела (case reference) человека
	BedspaceID    int64     // ID койко-места
	ArrivalDate   time.Time // Дата заезда
	DepartureDate time.Time // Дата выезда

	// Turnaround в рабочих днях; nil - значение помещения или значение по умолчанию
	TurnaroundWorkingDays *int
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                    int64
	CRN                   string
	PremisesID            int64
	BedspaceID            int64
	ArrivalDate           time.Time
	DepartureDate         time.Time
	Status                string
	Version               int64
	TurnaroundWorkingDays int
	EffectiveEndDate      time.Time // Последний день блокировки койко-места с учетом turnaround
	CreatedAt             time.Time
}
