package models

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// CancelVoidRequest запрос на отмену периода простоя
type CancelVoidRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// VoidResponse ответ с данными периода простоя
type VoidResponse struct {
	ID          int64      `json:"id"`
	BedspaceID  int64      `json:"bedspaceId"`
	PremisesID  int64      `json:"premisesId"`
	StartDate   string     `json:"startDate"`
	EndDate     string     `json:"endDate"`
	Reason      string     `json:"reason"`
	Notes       *string    `json:"notes,omitempty"`
	Active      bool       `json:"active"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromDomainVoid конвертирует domain модель в DTO
func FromDomainVoid(v *domain.VoidPeriod) *VoidResponse {
	if v == nil {
		return nil
	}

	resp := &VoidResponse{
		ID:         v.ID,
		BedspaceID: v.BedspaceID,
		PremisesID: v.PremisesID,
		StartDate:  v.StartDate.Format(domain.DateFormat),
		EndDate:    v.EndDate.Format(domain.DateFormat),
		Reason:     v.Reason,
		Notes:      v.Notes,
		Active:     v.IsActive(),
		CreatedAt:  v.CreatedAt,
	}
	if v.Cancellation != nil {
		cancelledAt := v.Cancellation.CreatedAt
		resp.CancelledAt = &cancelledAt
	}

	return resp
}
