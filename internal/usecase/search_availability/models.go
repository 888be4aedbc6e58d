package search_availability

import (
	"time"
)

// Request модель запроса поиска свободных койко-мест
type Request struct {
	StartDate   time.Time
	EndDate     time.Time
	BedspaceIDs []int64

	RequiredCharacteristics []string
	ExcludedCharacteristics []string
}

// Occupant занятость койко-места в искомом диапазоне
type Occupant struct {
	Kind           string // booking | void
	ID             int64
	CRN            string
	OverlapDays    int
	ElevatedRisk   bool
	TurnaroundOnly bool
}

// Unavailable койко-место, исключенное без пересечений
type Unavailable struct {
	BedspaceID int64
	Reason     string
}

// Response модель ответа поиска
type Response struct {
	StartDate time.Time
	EndDate   time.Time

	// Available в порядке запроса
	Available   []int64
	Overlaps    map[int64][]Occupant
	Unavailable []Unavailable

	// RiskDataDegraded выставляется, когда данные о рисках недоступны
	RiskDataDegraded bool
}
