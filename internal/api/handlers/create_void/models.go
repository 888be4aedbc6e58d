package create_void

import (
	"time"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
	createVoid "github.com/m04kA/SMC-AccommodationService/internal/usecase/create_void"
)

// CreateVoidRequest HTTP request model
type CreateVoidRequest struct {
	BedspaceID int64   `json:"bedspaceId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Reason     string  `json:"reason"`
	Notes      *string `json:"notes,omitempty"`
}

// VoidResponse HTTP response model
type VoidResponse struct {
	ID         int64   `json:"id"`
	BedspaceID int64   `json:"bedspaceId"`
	PremisesID int64   `json:"premisesId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Reason     string  `json:"reason"`
	Notes      *string `json:"notes,omitempty"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateVoidRequest) ToUseCaseRequest() (*createVoid.Request, error) {
	start, err := domain.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}

	end, err := domain.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &createVoid.Request{
		BedspaceID: r.BedspaceID,
		StartDate:  start,
		EndDate:    end,
		Reason:     r.Reason,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createVoid.Response) *VoidResponse {
	return &VoidResponse{
		ID:         resp.ID,
		BedspaceID: resp.BedspaceID,
		PremisesID: resp.PremisesID,
		StartDate:  resp.StartDate.Format(domain.DateFormat),
		EndDate:    resp.EndDate.Format(domain.DateFormat),
		Reason:     resp.Reason,
		Notes:      resp.Notes,
		Active:     true,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}
