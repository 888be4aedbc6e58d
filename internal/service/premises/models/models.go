package models

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	"github.com/m04kA/SMC-AccommodationService/pkg/ptr"
)

// UpdateTurnaroundRequest запрос на изменение turnaround помещения
// nil - использовать значение сервиса по умолчанию
type UpdateTurnaroundRequest struct {
	TurnaroundWorkingDays *int `json:"turnaroundWorkingDays"`
}

// PremisesResponse ответ с настройками помещения
type PremisesResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// TurnaroundWorkingDays применяемое значение; IsDefault - взято из настроек сервиса
	TurnaroundWorkingDays int  `json:"turnaroundWorkingDays"`
	IsDefault             bool `json:"isDefault"`

	EndDate   *string   `json:"endDate,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainPremises конвертирует domain модель в DTO
func FromDomainPremises(p *domain.Premises, defaultTurnaround int) *PremisesResponse {
	if p == nil {
		return nil
	}

	resp := &PremisesResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		TurnaroundWorkingDays: defaultTurnaround,
		IsDefault:             p.TurnaroundWorkingDays == nil,
		UpdatedAt:             p.UpdatedAt,
	}
	if p.TurnaroundWorkingDays != nil {
		resp.TurnaroundWorkingDays = *p.TurnaroundWorkingDays
	}
	if p.EndDate != nil {
		resp.EndDate = ptr.Ptr(p.EndDate.Format(domain.DateFormat))
	}

	return resp
}
