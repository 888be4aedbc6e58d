package create_void

import (
	"time"
)

// Request модель запроса на создание периода простоя
type Request struct {
	BedspaceID int64
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Notes      *string
}

// Response модель ответа с созданным периодом простоя
type Response struct {
	ID         int64
	BedspaceID int64
	PremisesID int64
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Notes      *string
	CreatedAt  time.Time
}
