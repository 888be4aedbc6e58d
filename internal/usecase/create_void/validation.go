package create_void

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AccommodationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BedspaceID <= 0 {
		return fmt.Errorf("%w: bedspaceID must be positive", ErrInvalidInput)
	}

	rng, err := domain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	req.StartDate, req.EndDate = rng.Start, rng.End

	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
